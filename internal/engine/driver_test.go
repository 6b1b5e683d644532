package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kmoppel/pgweasel/internal/aggregate"
	"github.com/kmoppel/pgweasel/internal/filter"
	"github.com/kmoppel/pgweasel/internal/format"
	"github.com/kmoppel/pgweasel/internal/severity"
)

func writeTempLog(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "postgresql.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp log: %v", err)
	}
	return path
}

const sampleLog = `2025-05-08 12:00:00.000 UTC [100] LOG:  database system is ready
2025-05-08 12:00:01.000 UTC [101] ERROR:  relation "foo" does not exist
2025-05-08 12:00:02.000 UTC [102] LOG:  duration: 250.0 ms  statement: SELECT 1
2025-05-08 12:00:03.000 UTC [103] FATAL:  password authentication failed for user "bob"
`

func TestRunCountsRecordsViaErrorFrequency(t *testing.T) {
	path := writeTempLog(t, sampleLog)
	ef := aggregate.NewErrorFrequency(10)
	err := Run(path, Options{Format: format.Plain, Workers: 1}, []aggregate.Aggregator{ef})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	var buf bytes.Buffer
	ef.Print(&buf)
	if !bytes.Contains(buf.Bytes(), []byte("relation")) {
		t.Errorf("expected error message captured, got:\n%s", buf.String())
	}
}

func TestRunAppliesFilterChain(t *testing.T) {
	path := writeTempLog(t, sampleLog)
	ef := aggregate.NewErrorFrequency(10)
	chain := filter.NewChain(filter.SeverityAtLeast{Min: severity.Fatal})
	err := Run(path, Options{Format: format.Plain, Workers: 1, Chain: chain}, []aggregate.Aggregator{ef})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	var buf bytes.Buffer
	ef.Print(&buf)
	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("password authentication failed")) {
		t.Errorf("expected FATAL message, got:\n%s", out)
	}
	if bytes.Contains([]byte(out), []byte("relation")) {
		t.Errorf("ERROR message should have been filtered out, got:\n%s", out)
	}
}

func TestRunEmptyFile(t *testing.T) {
	path := writeTempLog(t, "")
	ef := aggregate.NewErrorFrequency(10)
	if err := Run(path, Options{Format: format.Plain, Workers: 1}, []aggregate.Aggregator{ef}); err != nil {
		t.Fatalf("Run error on empty file: %v", err)
	}
}

func TestRunMultiWorkerMatchesSingleWorker(t *testing.T) {
	var sb bytes.Buffer
	for i := 0; i < 2000; i++ {
		sb.WriteString("2025-05-08 12:00:00.000 UTC [100] LOG:  duration: 1.0 ms  statement: SELECT 1\n")
	}
	path := writeTempLog(t, sb.String())

	one := aggregate.NewTopSlow(5)
	if err := Run(path, Options{Format: format.Plain, Workers: 1}, []aggregate.Aggregator{one}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	var buf1 bytes.Buffer
	one.Print(&buf1)

	multi := aggregate.NewTopSlow(5)
	if err := Run(path, Options{Format: format.Plain, Workers: 8}, []aggregate.Aggregator{multi}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	var buf8 bytes.Buffer
	multi.Print(&buf8)

	if buf1.String() != buf8.String() {
		t.Errorf("worker count should not affect result:\n1 worker:\n%s\n8 workers:\n%s", buf1.String(), buf8.String())
	}
}

func TestWorkerCountSmallFile(t *testing.T) {
	if got := WorkerCount(1024); got != 1 {
		t.Errorf("WorkerCount(small) = %d, want 1", got)
	}
}

func TestRunGrepContextWindow(t *testing.T) {
	path := writeTempLog(t, sampleLog)
	chain := filter.NewChain(filter.Contains{Needle: []byte("ERROR")})
	var buf bytes.Buffer
	err := RunGrep(path, GrepOptions{Format: format.Plain, Chain: chain, Before: 1, After: 1}, &buf)
	if err != nil {
		t.Fatalf("RunGrep error: %v", err)
	}
	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("database system is ready")) {
		t.Errorf("expected preceding context line, got:\n%s", out)
	}
	if !bytes.Contains([]byte(out), []byte("duration: 250.0 ms")) {
		t.Errorf("expected following context line, got:\n%s", out)
	}
}
