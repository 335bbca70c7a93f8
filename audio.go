package impactfx

import (
	"time"
)

// Clip is a playable audio asset known to the pipeline only by its duration;
// decoding and playback belong to the backend.
type Clip struct {
	Id       ClipId
	Duration time.Duration
}

type ClipLibrary struct {
	clips map[ClipId]Clip
}

func NewClipLibrary() *ClipLibrary {
	return &ClipLibrary{clips: make(map[ClipId]Clip)}
}

func (l *ClipLibrary) Register(id ClipId, duration time.Duration) {
	l.clips[id] = Clip{Id: id, Duration: duration}
}

// Duration returns the registered clip length, or zero for unknown clips.
// A zero duration releases the emitter on the next tick, which is the safest
// interpretation of a clip the library never saw.
func (l *ClipLibrary) Duration(id ClipId) time.Duration {
	return l.clips[id].Duration
}

// AudioBackend turns a clip request into actual playback. Volume is linear
// gain; the contribution weighting has already been applied.
type AudioBackend interface {
	Play(clip ClipId, volume float32) error
}

// NopBackend swallows playback. Used headless and in tests.
type NopBackend struct{}

func (NopBackend) Play(ClipId, float32) error { return nil }
