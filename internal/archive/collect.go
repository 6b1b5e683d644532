package archive

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// CollectFiles gathers log files from a list of CLI arguments, each of
// which may be an individual file, a glob pattern, or a directory (scanned
// non-recursively for supported log files).
func CollectFiles(args []string) []string {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			dirFiles, err := gatherLogFiles(arg)
			if err != nil {
				log.Printf("[WARN] failed to read directory %s: %v", arg, err)
				continue
			}
			files = append(files, dirFiles...)
			continue
		}

		matches, err := filepath.Glob(arg)
		if err != nil {
			log.Printf("[WARN] invalid pattern %s: %v", arg, err)
			continue
		}
		if len(matches) == 0 {
			log.Printf("[WARN] no files match: %s", arg)
			continue
		}
		files = append(files, matches...)
	}

	return files
}

// gatherLogFiles scans a directory for supported log files, non-recursively.
func gatherLogFiles(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.Readdir(-1)
	if err != nil {
		return nil, err
	}

	var logFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsSupportedLogFile(entry.Name()) {
			logFiles = append(logFiles, filepath.Join(dir, entry.Name()))
		}
	}
	return logFiles, nil
}

// IsSupportedLogFile reports whether name looks like a file this tool can
// read directly or expand: plain .log/.csv, or any of those compressed
// with gzip/zstd, or a zip/7z archive.
func IsSupportedLogFile(name string) bool {
	lower := strings.ToLower(name)
	suffixes := []string{
		".log", ".csv",
		".log.gz", ".csv.gz",
		".log.zst", ".log.zstd", ".csv.zst", ".csv.zstd",
		".zip", ".7z",
		".tar", ".tar.gz", ".tgz", ".tar.zst", ".tar.zstd", ".tzst",
	}
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}
