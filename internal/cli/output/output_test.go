package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleOptions() map[string]any {
	return map[string]any{
		"host": "0.0.0.0",
		"port": 3000,
		"event_bus": map[string]any{
			"prefix":  "/eventbus",
			"inbound": []any{"chat.*"},
		},
		"pid": "",
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format  Format
		want    string
		wantErr bool
	}{
		{FormatJSON, "*output.JSONFormatter", false},
		{FormatYAML, "*output.YAMLFormatter", false},
		{FormatTable, "*output.TableFormatter", false},
		{"", "*output.TableFormatter", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := NewFormatter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFormatter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch f.(type) {
			case *JSONFormatter, *YAMLFormatter, *TableFormatter:
			default:
				t.Errorf("NewFormatter() = %T", f)
			}
		})
	}
}

func TestTableFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, sampleOptions()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), buf.String())
	}
	wantOrder := []string{"KEY", "event_bus.inbound", "event_bus.prefix", "host", "pid", "port"}
	for i, prefix := range wantOrder {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}
	if !strings.HasSuffix(lines[4], "-") {
		t.Errorf("empty value rendered as %q", lines[4])
	}
}

func TestTableFormatter_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{NoHeaders: true}
	if err := f.Format(&buf, map[string]any{"port": 1}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "KEY") {
		t.Errorf("header written: %q", buf.String())
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, sampleOptions()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got["host"] != "0.0.0.0" {
		t.Errorf("host = %v", got["host"])
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, sampleOptions()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"host: 0.0.0.0", "port: 3000", "event_bus:", "prefix: /eventbus", "- chat.*"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
