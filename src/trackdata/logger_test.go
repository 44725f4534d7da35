package trackdata

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestWarnf_NoDoubleFormattingWithPercent(t *testing.T) {
	// Swap the base logger to capture output
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = log.New(&buf, "", 0)
	defer func() { baseLogger = saved }()

	SetLogLevel("info")

	msg := "removed 3 outliers (1.2% of 250 samples)"
	Warnf(msg)

	out := buf.String()
	if !strings.Contains(out, "(1.2% of 250 samples)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "(MISSING)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestSetLogLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = log.New(&buf, "", 0)
	defer func() { baseLogger = saved }()

	SetLogLevel("warn")
	Debugf("hidden %d", 1)
	Infof("also hidden")
	Warnf("visible")
	if got := buf.String(); strings.Contains(got, "hidden") || !strings.Contains(got, "visible") {
		t.Fatalf("level filtering broken: %q", got)
	}
	if GetLogLevel() != LevelWarn {
		t.Fatalf("expected warn level, got %v", GetLogLevel())
	}
	// Unknown strings leave the level untouched
	SetLogLevel("bogus")
	if GetLogLevel() != LevelWarn {
		t.Fatalf("unknown level string must not change the level")
	}
	SetLogLevel("info")
}
