package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

func TestLogger_EnabledAndSetWriter(t *testing.T) {
	var l Logger
	if l.Enabled() {
		t.Fatalf("expected disabled when Writer is nil")
	}

	var buf bytes.Buffer
	l.SetWriter(&buf)
	if !l.Enabled() {
		t.Fatalf("expected enabled after setting Writer")
	}
}

func TestLogger_Logf_WritesPrefixDatasetAndMessage(t *testing.T) {
	ui.Init(true) // disable ANSI color for stable assertions
	t.Cleanup(func() { ui.Init(false) })

	var buf bytes.Buffer
	l := Logger{Writer: &buf, PrefixText: "X:", PrefixColor: ui.FgGreen}
	l.Logf("  0e9fd868-e2a5-4e1b-9ba8-7b6ab3f0e4a1  ", "msg %d", 1)

	out := buf.String()
	if !strings.Contains(out, "X:") {
		t.Fatalf("expected prefix, got %q", out)
	}
	if !strings.Contains(out, "dataset=0e9fd868-e2a5-4e1b-9ba8-7b6ab3f0e4a1") {
		t.Fatalf("expected trimmed dataset id, got %q", out)
	}
	if !strings.Contains(out, "msg 1") {
		t.Fatalf("expected formatted message, got %q", out)
	}
}

func TestLogger_Logf_EmptyDatasetID_UsesUnknown(t *testing.T) {
	ui.Init(true)
	t.Cleanup(func() { ui.Init(false) })

	var buf bytes.Buffer
	l := Logger{Writer: &buf, PrefixText: "X:"}
	l.Logf("   ", "x")

	if !strings.Contains(buf.String(), "dataset=(unknown)") {
		t.Fatalf("expected unknown dataset id, got %q", buf.String())
	}
}

func TestLogger_Logf_DefaultPrefix(t *testing.T) {
	ui.Init(true)
	t.Cleanup(func() { ui.Init(false) })

	var buf bytes.Buffer
	l := Logger{Writer: &buf}
	l.Logf("abc", "x")

	if !strings.Contains(buf.String(), "Log:") {
		t.Fatalf("expected default prefix, got %q", buf.String())
	}
}

func TestLogger_Logf_OmitDataset(t *testing.T) {
	ui.Init(true)
	t.Cleanup(func() { ui.Init(false) })

	var buf bytes.Buffer
	l := Logger{Writer: &buf, PrefixText: "X:", OmitDataset: true}
	l.Logf("abc", "x")

	if out := buf.String(); out != "X: x\n" {
		t.Fatalf("output = %q, want %q", out, "X: x\\n")
	}
}

func TestLogger_Logf_NilReceiver_NoPanic(t *testing.T) {
	var l *Logger
	l.Logf("abc", "x")
}

func TestLogger_Printf(t *testing.T) {
	ui.Init(true)
	t.Cleanup(func() { ui.Init(false) })

	var buf bytes.Buffer
	l := Logger{Writer: &buf, PrefixText: "Cache:"}
	l.Printf("hit %s", "k")
	if out := buf.String(); out != "Cache: hit k\n" {
		t.Fatalf("output = %q", out)
	}

	var off *Logger
	off.Printf("x")
}
