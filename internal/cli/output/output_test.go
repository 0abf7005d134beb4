package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}

	data := map[string]any{"mode": "hybrid-encrypted", "persistent": true}
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["mode"] != "hybrid-encrypted" {
		t.Errorf("mode = %v, want hybrid-encrypted", decoded["mode"])
	}
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := &Table{Headers: []string{"BACKEND", "USABLE"}}
	table.AddRow("keyring", "true")
	table.AddRow("general", "false")

	if err := table.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("rendered %d lines, want 3: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "BACKEND") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "general") || !strings.Contains(lines[2], "false") {
		t.Errorf("row line = %q", lines[2])
	}
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	if err := f.Format(&buf, map[string]string{"key": "value"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("fallback output is not valid JSON: %v", err)
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) did not return a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatTable).(*TableFormatter); !ok {
		t.Error("NewFormatter(table) did not return a TableFormatter")
	}
	if _, ok := NewFormatter("bogus").(*TableFormatter); !ok {
		t.Error("NewFormatter(unknown) should default to table")
	}
}
