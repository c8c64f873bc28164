package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesStructuredEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(New(Config{Level: "debug", Output: &buf, Service: "test"}), "chooser")

	logger.Debug().Str(FieldImageID, "1").Msg("rendered")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry %q: %v", buf.String(), err)
	}
	for key, want := range map[string]any{
		"level":        "debug",
		"service":      "test",
		FieldComponent: "chooser",
		FieldImageID:   "1",
		"message":      "rendered",
	} {
		if entry[key] != want {
			t.Errorf("%s: want %v, got %v", key, want, entry[key])
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Output: &buf})

	logger.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info entry should be filtered at warn level: %s", buf.String())
	}
	logger.Warn().Msg("shown")
	if buf.Len() == 0 {
		t.Fatalf("warn entry should be written")
	}
}

func TestParseLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"":      zerolog.ErrorLevel,
		"bogus": zerolog.ErrorLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q): want %v, got %v", input, want, got)
		}
	}

	t.Setenv("LOG_LEVEL", "")
	if got := ParseLevel(""); got != zerolog.InfoLevel {
		t.Fatalf("default level: want info, got %v", got)
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Console: true})
	logger.Info().Msg("hello")
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Fatalf("console output missing message: %q", buf.String())
	}
}
