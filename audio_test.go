package impactfx

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func TestClipLibrary_Durations(t *testing.T) {
	lib := NewClipLibrary()
	lib.Register("thud", 300*time.Millisecond)

	if d := lib.Duration("thud"); d != 300*time.Millisecond {
		t.Errorf("Duration(thud) = %v, want 300ms", d)
	}
	if d := lib.Duration("unknown"); d != 0 {
		t.Errorf("unknown clips report zero duration, got %v", d)
	}
}

func TestSpeakerBackend_RegisterRecordsDuration(t *testing.T) {
	backend := NewSpeakerBackend(beep.SampleRate(48000))

	format := beep.Format{SampleRate: 48000, NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(format)
	buf.Append(beep.Silence(4800)) // 100ms at 48kHz

	backend.Register("c1", buf)

	if d := backend.Library().Duration("c1"); d != 100*time.Millisecond {
		t.Errorf("registered clip duration = %v, want 100ms", d)
	}
}

func TestSpeakerBackend_PlayWithoutStartFails(t *testing.T) {
	backend := NewSpeakerBackend(beep.SampleRate(48000))

	format := beep.Format{SampleRate: 48000, NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(format)
	buf.Append(beep.Silence(100))
	backend.Register("c1", buf)

	if err := backend.Play("c1", 1.0); err == nil {
		t.Errorf("playing before Start must fail")
	}
	if err := backend.Play("unregistered", 1.0); err == nil {
		t.Errorf("playing an unregistered clip must fail")
	}
}

func TestLinearToLog2(t *testing.T) {
	if v := linearToLog2(1.0); v != 0 {
		t.Errorf("unity gain maps to exponent 0, got %v", v)
	}
	if v := linearToLog2(0.5); math.Abs(float64(v+1)) > 1e-6 {
		t.Errorf("half gain maps to exponent -1, got %v", v)
	}
}
