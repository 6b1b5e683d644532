package timeparse

import (
	"testing"
	"time"
)

func TestParseTimestampWithAbbreviation(t *testing.T) {
	ts, err := ParseTimestamp("2025-05-08 12:24:37.731 EEST")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, offset := ts.Zone(); offset != 3*3600 {
		t.Errorf("offset = %d, want %d (EEST +03:00)", offset, 3*3600)
	}
	if ts.Hour() != 12 || ts.Minute() != 24 || ts.Second() != 37 {
		t.Errorf("wall clock wrong: %v", ts)
	}
}

func TestParseTimestampUTC(t *testing.T) {
	ts, err := ParseTimestamp("2025-05-08 12:24:37 UTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, offset := ts.Zone(); offset != 0 {
		t.Errorf("offset = %d, want 0", offset)
	}
}

func TestParseTimestampNoTimezone(t *testing.T) {
	ts, err := ParseTimestamp("2025-05-08 12:24:37.000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Year() != 2025 || ts.Month() != time.May || ts.Day() != 8 {
		t.Errorf("date wrong: %v", ts)
	}
}

func TestParseRecordTimestamp(t *testing.T) {
	rec := []byte("2025-05-08 12:24:37.731 EEST [12345] LOG:  database system is ready")
	ts, ok := ParseRecordTimestamp(rec)
	if !ok {
		t.Fatal("expected ok")
	}
	if ts.Day() != 8 {
		t.Errorf("day = %d, want 8", ts.Day())
	}
}

func TestParseRecordTimestampShapeOnlyNoTZ(t *testing.T) {
	rec := []byte("2025-05-08 12:24:37.731 [12345] LOG:  no timezone abbreviation here")
	ts, ok := ParseRecordTimestamp(rec)
	if !ok {
		t.Fatal("expected ok")
	}
	if ts.Minute() != 24 {
		t.Errorf("minute = %d, want 24", ts.Minute())
	}
}

func TestParseRecordTimestampTooShort(t *testing.T) {
	if _, ok := ParseRecordTimestamp([]byte("x")); ok {
		t.Fatal("expected absent")
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"10ms", 10 * time.Millisecond},
		{"2s", 2 * time.Second},
		{"1min", time.Minute},
		{"1.5s", 1500 * time.Millisecond},
		{"500us", 500 * time.Microsecond},
		{"1d", 24 * time.Hour},
	}
	for _, c := range cases {
		got, err := ParseDuration(c.in)
		if err != nil {
			t.Errorf("ParseDuration(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDurationInvalid(t *testing.T) {
	if _, err := ParseDuration("bogus"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := ParseDuration("10xyz"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseBoundDuration(t *testing.T) {
	now := time.Date(2025, 5, 8, 12, 0, 0, 0, time.UTC)
	got, err := ParseBound("10m", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := now.Add(-10 * time.Minute)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseBoundToday(t *testing.T) {
	now := time.Date(2025, 5, 8, 12, 30, 0, 0, time.UTC)
	got, err := ParseBound("today", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 0 || got.Day() != 8 {
		t.Errorf("got %v, want midnight of the 8th", got)
	}
}

func TestParseBoundEmpty(t *testing.T) {
	got, err := ParseBound("", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected zero time for empty spec, got %v", got)
	}
}

func TestParseBoundAbsolute(t *testing.T) {
	now := time.Date(2025, 5, 8, 12, 0, 0, 0, time.UTC)
	got, err := ParseBound("2025-01-01 00:00:00", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.January {
		t.Errorf("got %v", got)
	}
}

func TestFloorBucketIdempotent(t *testing.T) {
	t1 := time.Date(2025, 5, 8, 12, 37, 42, 123, time.UTC)
	interval := 10 * time.Minute
	b1 := FloorBucket(t1, interval)
	b2 := FloorBucket(b1, interval)
	if !b1.Equal(b2) {
		t.Errorf("not idempotent: %v != %v", b1, b2)
	}
	if b1.Minute() != 30 {
		t.Errorf("minute = %d, want 30", b1.Minute())
	}
}

func TestFloorBucketSeconds(t *testing.T) {
	t1 := time.Unix(1000065, 0)
	got := FloorBucketSeconds(t1, 60)
	if got != 1000020 {
		t.Errorf("got %d, want 1000020", got)
	}
}
