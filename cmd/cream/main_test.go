package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"cream/internal/config"
)

func TestPrintBanner_ContainsExpectedFields(t *testing.T) {
	cfg := &config.Config{
		MinKeySize: 1, MaxKeySize: 256,
		MinValueSize: 1, MaxValueSize: 1 << 20,
		LogLevel: "info",
	}
	cfg.ApplyArgs(4, "9090", 1024)

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	printBanner(cfg)

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	out := buf.String()

	for _, want := range []string{"4", "9090", "1024", "info"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in banner output, got:\n%s", want, out)
		}
	}
}

func TestUsage_MentionsAllPositionalArgs(t *testing.T) {
	r, w, _ := os.Pipe()
	usage(w)
	w.Close()

	var buf bytes.Buffer
	buf.ReadFrom(r)
	out := buf.String()

	for _, want := range []string{"NUM_WORKERS", "PORT_NUMBER", "MAX_ENTRIES"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in usage output, got:\n%s", want, out)
		}
	}
}

func Example_usage() {
	usage(os.Stdout)
	// Output:
	// usage: cream [-h] NUM_WORKERS PORT_NUMBER MAX_ENTRIES
}
