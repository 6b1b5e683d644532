package aggregate

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTopSlowRetainsLargest(t *testing.T) {
	a := NewTopSlow(2)
	durations := []time.Duration{10 * time.Millisecond, 500 * time.Millisecond, 50 * time.Millisecond, 999 * time.Millisecond}
	for i, d := range durations {
		a.Update(Fields{HasDuration: true, Duration: int64(d), Message: []byte("q" + string(rune('0'+i)))})
	}
	var buf bytes.Buffer
	a.Print(&buf)
	out := buf.String()
	if !strings.Contains(out, "999ms") {
		t.Errorf("expected largest duration retained, got:\n%s", out)
	}
	if strings.Contains(out, "10ms") {
		t.Errorf("expected smallest duration evicted, got:\n%s", out)
	}
}

func TestTopSlowMerge(t *testing.T) {
	a := NewTopSlow(1)
	a.Update(Fields{HasDuration: true, Duration: int64(100 * time.Millisecond), Message: []byte("a")})
	b := a.CloneEmpty().(*TopSlow)
	b.Update(Fields{HasDuration: true, Duration: int64(200 * time.Millisecond), Message: []byte("b")})

	a.Merge(b)
	var buf bytes.Buffer
	a.Print(&buf)
	if !strings.Contains(buf.String(), "200ms") {
		t.Errorf("expected merged winner to be 200ms, got:\n%s", buf.String())
	}
}

func TestErrorFrequencyCountsAndEviction(t *testing.T) {
	a := NewErrorFrequency(1)
	a.Update(Fields{Severity: "ERROR", Message: []byte("relation foo does not exist")})
	a.Update(Fields{Severity: "ERROR", Message: []byte("relation foo does not exist")})
	a.Update(Fields{Severity: "LOG", Message: []byte("should be ignored")})

	b := a.CloneEmpty().(*ErrorFrequency)
	b.Update(Fields{Severity: "FATAL", Message: []byte("connection refused")})

	a.Merge(b)
	var buf bytes.Buffer
	a.Print(&buf)
	out := buf.String()
	if !strings.Contains(out, "relation foo does not exist") {
		t.Errorf("expected top message retained after eviction, got:\n%s", out)
	}
	if strings.Contains(out, "should be ignored") {
		t.Error("LOG severity should not be counted as an error")
	}
}

func TestConnectionsAggregation(t *testing.T) {
	a := NewConnections()
	a.Update(Fields{Severity: "LOG", Message: []byte("connection received: host=10.0.0.1"), Host: "10.0.0.1", BucketKey: 100})
	a.Update(Fields{Severity: "LOG", Message: []byte("connection authorized: user=alice database=mydb SSL enabled"), User: "alice", Database: "mydb"})
	a.Update(Fields{Severity: "FATAL", Message: []byte("password authentication failed for user \"bob\"")})

	b := a.CloneEmpty().(*Connections)
	b.Update(Fields{Severity: "LOG", Message: []byte("connection received: host=10.0.0.2"), Host: "10.0.0.2", BucketKey: 100})

	a.Merge(b)

	if a.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", a.Attempts)
	}
	if a.Authenticated != 1 || a.AuthenticatedSSL != 1 {
		t.Errorf("Authenticated = %d, AuthenticatedSSL = %d, want 1, 1", a.Authenticated, a.AuthenticatedSSL)
	}
	if a.Failures != 1 {
		t.Errorf("Failures = %d, want 1", a.Failures)
	}
	if a.ByHost["10.0.0.1"] != 1 || a.ByHost["10.0.0.2"] != 1 {
		t.Errorf("ByHost = %v", a.ByHost)
	}
	if a.ByBucket[100] != 2 {
		t.Errorf("ByBucket[100] = %d, want 2", a.ByBucket[100])
	}
}

func TestConnectionsIgnoresWrongSeverity(t *testing.T) {
	a := NewConnections()
	// Same message text, but not the severity the spec's table requires —
	// none of these should be counted.
	a.Update(Fields{Severity: "DEBUG1", Message: []byte("connection received: host=10.0.0.1"), Host: "10.0.0.1"})
	a.Update(Fields{Severity: "WARNING", Message: []byte("connection authorized: user=alice SSL enabled")})
	a.Update(Fields{Severity: "LOG", Message: []byte("password authentication failed for user \"bob\"")})

	if a.Attempts != 0 || a.Authenticated != 0 || a.Failures != 0 {
		t.Errorf("expected all counters at 0, got Attempts=%d Authenticated=%d Failures=%d", a.Attempts, a.Authenticated, a.Failures)
	}
	if len(a.ByHost) != 0 {
		t.Errorf("expected ByHost untouched, got %v", a.ByHost)
	}
}

func TestConnectionsFailureLiterals(t *testing.T) {
	a := NewConnections()
	a.Update(Fields{Severity: "FATAL", Message: []byte("FATAL: Ident authentication failed; user \"bob\" is not permitted to log in")})
	if a.Failures != 1 {
		t.Errorf("expected 'is not permitted to log in' to count as a failure, got %d", a.Failures)
	}
}

func TestConnectionsPrintHeadersAndOrder(t *testing.T) {
	a := NewConnections()
	a.Update(Fields{Severity: "LOG", Message: []byte("connection received: host=a"), Host: "a", BucketKey: 1747814400,
		BucketTime: time.Date(2025, 5, 21, 11, 0, 0, 0, time.FixedZone("", 3*3600))})
	for i := 0; i < 4; i++ {
		a.Update(Fields{Severity: "LOG", Message: []byte("connection received: host=a"), Host: "a", BucketKey: 1747814400,
			BucketTime: time.Date(2025, 5, 21, 11, 0, 0, 0, time.FixedZone("", 3*3600))})
	}

	var buf bytes.Buffer
	a.Print(&buf)
	out := buf.String()
	for _, section := range []string{
		"Connections by host:",
		"Connections by database:",
		"Connections by user:",
		"Connections by application name:",
		"Connections by time bucket:",
	} {
		if !strings.Contains(out, section) {
			t.Errorf("expected section %q in output:\n%s", section, out)
		}
	}
	if !strings.Contains(out, "5  2025-05-21 11:00:00 +03:00") {
		t.Errorf("expected count-first bucket line with preserved offset, got:\n%s", out)
	}
}

func TestHistogramMergeAndPrint(t *testing.T) {
	a := NewHistogram(time.Minute)
	a.Update(Fields{BucketKey: 0})
	a.Update(Fields{BucketKey: 0})
	a.Update(Fields{BucketKey: 60})

	b := a.CloneEmpty().(*Histogram)
	b.Update(Fields{BucketKey: 0})

	a.Merge(b)

	var buf bytes.Buffer
	a.Print(&buf)
	out := buf.String()
	if !strings.Contains(out, "1970-01-01 00:00:00") {
		t.Errorf("expected bucket 0 label, got:\n%s", out)
	}
}

func TestHistogramEmpty(t *testing.T) {
	a := NewHistogram(time.Minute)
	var buf bytes.Buffer
	a.Print(&buf)
	if !strings.Contains(buf.String(), "no data") {
		t.Errorf("expected empty message, got:\n%s", buf.String())
	}
}
