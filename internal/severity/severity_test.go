package severity

import "testing"

func TestOrdering(t *testing.T) {
	if !(Debug5 < Debug1) {
		t.Fatal("DEBUG5 must rank below DEBUG1")
	}
	if !(Log < Info) || !(Info < Notice) || !(Notice < Warning) || !(Warning < Error) {
		t.Fatal("severity ordering broken between LOG/INFO/NOTICE/WARNING/ERROR")
	}
	if !(Fatal < Panic) {
		t.Fatal("PANIC must outrank FATAL (resolved Open Question: PANIC=11)")
	}
	if Panic != 11 {
		t.Fatalf("expected PANIC rank 11, got %d", Panic)
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []Severity{Debug5, Debug4, Debug3, Debug2, Debug1, Log, Info, Notice, Warning, Error, Fatal, Panic} {
		if got := Parse(s.String()); got != s {
			t.Errorf("Parse(%q) = %v, want %v", s.String(), got, s)
		}
	}
}

func TestParseUnknownDefaultsToLog(t *testing.T) {
	if got := Parse("BOGUS"); got != Log {
		t.Fatalf("unknown severity keyword should default to LOG, got %v", got)
	}
}
