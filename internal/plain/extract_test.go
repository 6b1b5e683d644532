package plain

import (
	"testing"
	"time"

	"github.com/kmoppel/pgweasel/internal/severity"
)

func TestSeverity(t *testing.T) {
	cases := []struct {
		rec  string
		want severity.Severity
	}{
		{"2025-05-08 12:24:37.000 LOG:  database system is ready", severity.Log},
		{"2025-05-08 12:24:37.000 ERROR:  relation \"foo\" does not exist", severity.Error},
		{"2025-05-08 12:24:37.000 FATAL:  password authentication failed", severity.Fatal},
		{"2025-05-08 12:24:37.000 no severity here", severity.Log},
	}
	for _, c := range cases {
		if got := Severity([]byte(c.rec)); got != c.want {
			t.Errorf("Severity(%q) = %v, want %v", c.rec, got, c.want)
		}
	}
}

func TestMessage(t *testing.T) {
	msg, ok := Message([]byte("2025-05-08 12:24:37.000 LOG:  database system is ready\n"))
	if !ok || string(msg) != "database system is ready" {
		t.Fatalf("got %q, %v", msg, ok)
	}

	_, ok = Message([]byte("no colon space here"))
	if ok {
		t.Fatal("expected absent message")
	}
}

func TestFieldExtractors(t *testing.T) {
	rec := []byte(`2025-05-08 12:24:37.000 LOG:  connection authorized: user=alice database=mydb host=10.0.0.1 application_name=psql`)

	if v, ok := User(rec); !ok || string(v) != "alice" {
		t.Errorf("User = %q, %v", v, ok)
	}
	if v, ok := Database(rec); !ok || string(v) != "mydb" {
		t.Errorf("Database = %q, %v", v, ok)
	}
	if v, ok := Host(rec); !ok || string(v) != "10.0.0.1" {
		t.Errorf("Host = %q, %v", v, ok)
	}
	if v, ok := ApplicationName(rec); !ok || string(v) != "psql" {
		t.Errorf("ApplicationName = %q, %v", v, ok)
	}
}

func TestDuration(t *testing.T) {
	cases := []struct {
		rec  string
		want time.Duration
	}{
		{"LOG: duration: 2722.543 ms  statement: SELECT 1", 2722543 * time.Microsecond},
		{"LOG: duration: 1.5 s", 1500 * time.Millisecond},
		{"LOG: duration: 25.761 ms", 25761 * time.Microsecond},
		{"LOG: no duration here", 0},
	}
	for _, c := range cases {
		got, ok := Duration([]byte(c.rec))
		if c.want == 0 {
			if ok {
				t.Errorf("Duration(%q) = %v, want absent", c.rec, got)
			}
			continue
		}
		diff := got - c.want
		if diff < 0 {
			diff = -diff
		}
		if !ok || diff > time.Microsecond {
			t.Errorf("Duration(%q) = %v, %v; want ~%v", c.rec, got, ok, c.want)
		}
	}
}
