package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRedactEmail(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ana.lopez@example.com", "an***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
		{"a@b@c", "***@***"},
	}
	for _, c := range cases {
		if got := RedactEmail(c.in); got != c.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != DEBUG {
		t.Error("ParseLevel(debug) != DEBUG")
	}
	if ParseLevel("WARNING") != WARN {
		t.Error("ParseLevel(WARNING) != WARN")
	}
	if ParseLevel("nonsense") != INFO {
		t.Error("unknown level should fall back to INFO")
	}
}

func TestLogRedactsEmailFields(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{out: &buf, level: INFO, redactPII: true}

	l.log(INFO, "upsert complete", "email", "maria@example.com", "status", "updated")

	var entry map[string]string
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["email"] != "ma***@example.com" {
		t.Errorf("email field = %q, want redacted", entry["email"])
	}
	if entry["status"] != "updated" {
		t.Errorf("status field = %q, want %q", entry["status"], "updated")
	}
	if strings.Contains(buf.String(), "maria@example.com") {
		t.Error("raw email leaked into log output")
	}
}

func TestLogRedactsEmbeddedEmails(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{out: &buf, level: INFO, redactPII: true}

	l.log(ERROR, "mailchimp error", "detail", "member pedro.gomez@example.com rejected")

	if strings.Contains(buf.String(), "pedro.gomez@example.com") {
		t.Error("embedded email leaked into log output")
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{out: &buf, level: WARN, redactPII: false}

	l.log(INFO, "should be dropped")
	if buf.Len() != 0 {
		t.Errorf("INFO entry written despite WARN level: %s", buf.String())
	}

	l.log(ERROR, "should be written")
	if buf.Len() == 0 {
		t.Error("ERROR entry not written")
	}
}
