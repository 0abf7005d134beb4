package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestRedactSensitiveKeys(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"token", "access_token", "abc123secretvalue"},
		{"password", "password", "hunter2"},
		{"key material", "key_material", "c2VjcmV0LWtleQ=="},
		{"plaintext", "plaintext", "the session body"},
		{"payload", "payload_record", "sealed-bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: "info", Format: "json", Output: &buf})

			l.Info("write", tt.key, tt.value)

			out := buf.String()
			if strings.Contains(out, tt.value) {
				t.Errorf("sensitive value leaked for key %q: %s", tt.key, out)
			}
			if !strings.Contains(out, redactedValue) {
				t.Errorf("redaction placeholder missing: %s", out)
			}
		})
	}
}

func TestRedactJWTValues(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0In0.signature"
	l.Info("migrating entry", "value", jwt)

	out := buf.String()
	if strings.Contains(out, "signature") {
		t.Errorf("JWT leaked into log output: %s", out)
	}
	// Partial mask keeps the prefix as a hint.
	if !strings.Contains(out, "eyJ") {
		t.Errorf("masked value lost its prefix hint: %s", out)
	}
}

func TestNonSensitivePassesThrough(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	l.Info("probe", "backend", "badger", "elapsed_ms", "12")

	out := buf.String()
	if !strings.Contains(out, "badger") {
		t.Errorf("non-sensitive value was redacted: %s", out)
	}
}

func TestEmptySensitiveValueUntouched(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	l.Info("no secret present", "token", "")

	if strings.Contains(buf.String(), redactedValue) {
		t.Errorf("empty value should not be redacted: %s", buf.String())
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"access_token", true},
		{"Password", true},
		{"key_material", true},
		{"backend", false},
		{"mode", false},
	}

	for _, tt := range tests {
		if got := IsSensitiveKey(tt.key); got != tt.want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestMaskValue(t *testing.T) {
	got := maskValue("eyJhbGciOiJIUzI1NiJ9", "eyJ")
	if got == "eyJhbGciOiJIUzI1NiJ9" {
		t.Error("maskValue returned the input unchanged")
	}
	if !strings.HasPrefix(got, "eyJ") {
		t.Errorf("maskValue(%q) lost prefix: %q", "eyJ...", got)
	}

	if got := maskValue("eyJab", "eyJ"); got != "eyJ***" {
		t.Errorf("short value mask = %q, want eyJ***", got)
	}
}
