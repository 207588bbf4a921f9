package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInitWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json")

	Info("datastream created", "datastream", "mirror-events", "connector", "kafka")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v; got %q", err, buf.String())
	}
	if entry["msg"] != "datastream created" {
		t.Errorf("msg = %v, want \"datastream created\"", entry["msg"])
	}
	if entry["datastream"] != "mirror-events" {
		t.Errorf("datastream = %v, want \"mirror-events\"", entry["datastream"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "WARN", "text")

	Debug("too quiet")
	Info("still too quiet")
	Warn("loud enough")

	out := buf.String()
	if strings.Contains(out, "too quiet") {
		t.Errorf("output contains suppressed entries: %q", out)
	}
	if !strings.Contains(out, "loud enough") {
		t.Errorf("output is missing the WARN entry: %q", out)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text")

	Debug("hidden")
	SetLevel("DEBUG")
	Debug("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains pre-SetLevel debug entry: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("output is missing post-SetLevel debug entry: %q", out)
	}
}

func TestWith_BindsAttributes(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json")

	With("component", "coordinator").Info("connector registered", "connector", "kafka")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["component"] != "coordinator" {
		t.Errorf("component = %v, want \"coordinator\"", entry["component"])
	}
}

func TestParseLevel_UnknownDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got.String() != "INFO" {
		t.Errorf("parseLevel(\"verbose\") = %v, want INFO", got)
	}
}
