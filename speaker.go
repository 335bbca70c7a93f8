package impactfx

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// SpeakerBackend plays registered clip buffers through the system speaker.
// A single persistent mixer is attached to the speaker at Start; each Play
// adds a one-shot streamer wrapped in a volume stage.
type SpeakerBackend struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	mixer   *beep.Mixer
	buffers map[ClipId]*beep.Buffer
	library *ClipLibrary
	started bool
}

func NewSpeakerBackend(rate beep.SampleRate) *SpeakerBackend {
	return &SpeakerBackend{
		rate:    rate,
		mixer:   &beep.Mixer{},
		buffers: make(map[ClipId]*beep.Buffer),
		library: NewClipLibrary(),
	}
}

// Start initializes the speaker and attaches the mixer. bufferSize trades
// latency for underrun resistance; 1/10s is plenty for impact one-shots.
func (s *SpeakerBackend) Start(bufferSize time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := speaker.Init(s.rate, s.rate.N(bufferSize)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(s.mixer)
	s.started = true
	return nil
}

// Register stores a decoded clip buffer and records its duration in the
// backend's clip library.
func (s *SpeakerBackend) Register(id ClipId, buf *beep.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffers[id] = buf
	s.library.Register(id, buf.Format().SampleRate.D(buf.Len()))
}

// Library exposes the durations of every registered clip, for wiring into
// SurfaceEffectsModule.
func (s *SpeakerBackend) Library() *ClipLibrary {
	return s.library
}

func (s *SpeakerBackend) Play(clip ClipId, volume float32) error {
	s.mu.Lock()
	buf, ok := s.buffers[clip]
	started := s.started
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("clip %q not registered", clip)
	}
	if !started {
		return fmt.Errorf("speaker backend not started")
	}

	// effects.Volume is exponential; convert the linear gain.
	streamer := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   float64(linearToLog2(volume)),
		Silent:   volume <= 0,
	}

	speaker.Lock()
	s.mixer.Add(streamer)
	speaker.Unlock()
	return nil
}

func linearToLog2(v float32) float32 {
	if v <= 0 {
		return 0
	}
	return float32(math.Log2(float64(v)))
}
