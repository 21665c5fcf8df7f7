package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"charm.land/bubbles/v2/spinner"

	"github.com/firstaide/firstaide/internal/log"
)

func TestReporter_NotTerminal(t *testing.T) {
	t.Parallel()
	var logs, out bytes.Buffer
	r := NewReporter(log.New(&logs, false, false), &out, false)

	r.Step("Check direnv version.")
	ran := false
	boom := errors.New("boom")
	err := r.Spin("Capture outside environment.", func() error {
		ran = true
		return boom
	})

	if !ran {
		t.Error("Spin did not run fn")
	}
	if !errors.Is(err, boom) {
		t.Errorf("Spin() = %v, want fn's error", err)
	}
	if out.Len() != 0 {
		t.Errorf("spinner drew on a non-terminal: %q", out.String())
	}
	for _, want := range []string{"INFO   Check direnv version.", "INFO   Capture outside environment."} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log = %q, want to contain %q", logs.String(), want)
		}
	}
}

func TestReporter_Quiet(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	r := NewReporter(log.New(&logs, false, true), &bytes.Buffer{}, true)
	r.Step("hidden")
	if err := r.Spin("hidden", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	if logs.Len() != 0 {
		t.Errorf("quiet reporter logged %q", logs.String())
	}
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal(buffer) = true")
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	s := NewSpinner(&out, "working")
	s.Stop()
	if out.Len() != 0 {
		t.Errorf("Stop on an idle spinner wrote %q", out.String())
	}
}

func TestStepModel_Line(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		suffix  string
	}{
		{"fresh", 400 * time.Millisecond, "Capture inside environment."},
		{"slow", 83*time.Second + 700*time.Millisecond, "Capture inside environment. (1m23s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := stepModel{
				spinner: spinner.New(),
				message: "Capture inside environment.",
				started: start,
				now:     func() time.Time { return start.Add(tt.elapsed) },
			}
			if got := m.line(); !strings.HasSuffix(got, " "+tt.suffix) {
				t.Errorf("line() = %q, want suffix %q", got, tt.suffix)
			}
		})
	}
}
