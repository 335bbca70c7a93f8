package impactfx

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Spawned visuals sit fractionally off the struck surface to avoid
// z-fighting with it.
const surfaceOffset = 0.001

const (
	defaultVisualPoolSize  = 16
	defaultEmitterPoolSize = 8
)

// EffectPlayer instantiates the pooled visual and audio responses of a
// matched effect bundle. All randomness (probability gates, clip choice,
// volume, rotation) flows through one injected source, so tests can fix the
// seed.
type EffectPlayer struct {
	pool    *PrefabPool
	clips   *ClipLibrary
	backend AudioBackend
	rng     *rand.Rand
	log     Logger
}

func NewEffectPlayer(pool *PrefabPool, clips *ClipLibrary, backend AudioBackend, rng *rand.Rand, log Logger) *EffectPlayer {
	if log == nil {
		log = NewNopLogger()
	}
	return &EffectPlayer{
		pool:    pool,
		clips:   clips,
		backend: backend,
		rng:     rng,
		log:     log,
	}
}

// PlayBundle fires every directive of the bundle at the hit pose. weight
// scales audio volume only; visuals spawn at full strength regardless of the
// contribution's terrain blend share.
func (ep *EffectPlayer) PlayBundle(bundle *SurfaceEffectBundle, point, normal mgl32.Vec3, weight float32) {
	for i := range bundle.Visuals {
		ep.spawnVisual(&bundle.Visuals[i], point, normal)
	}
	for i := range bundle.Audio {
		ep.spawnAudio(&bundle.Audio[i], point, weight)
	}
}

func (ep *EffectPlayer) spawnVisual(d *VisualDirective, point, normal mgl32.Vec3) {
	if ep.rng.Float32() > d.Probability {
		return
	}

	inst := ep.pool.Acquire(d.Prefab, defaultVisualPoolSize)

	position := point.Add(normal.Mul(surfaceOffset))
	rotation := alignUp(normal)
	if d.RandomizeRotation {
		rotation = rotation.Mul(ep.randomRotation(d.RotationWeights))
	}
	inst.Activate(position, rotation)
}

func (ep *EffectPlayer) spawnAudio(d *AudioDirective, point mgl32.Vec3, weight float32) {
	clip := d.Clips[ep.rng.Intn(len(d.Clips))]
	volume := weight * (d.VolumeMin + ep.rng.Float32()*(d.VolumeMax-d.VolumeMin))

	inst := ep.pool.Acquire(d.Emitter, defaultEmitterPoolSize)
	inst.Activate(point, mgl32.QuatIdent())

	if err := ep.backend.Play(clip, volume); err != nil {
		ep.log.Warnf("playback of clip %q failed: %v", clip, err)
	}
	inst.DeactivateAfter(ep.clips.Duration(clip))
}

// alignUp orients local +Y onto the surface normal.
func alignUp(normal mgl32.Vec3) mgl32.Quat {
	if normal.Len() < 1e-6 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, normal)
}

// randomRotation composes per-axis rotations, each bounded by a half-turn
// scaled by that axis's weight.
func (ep *EffectPlayer) randomRotation(weights mgl32.Vec3) mgl32.Quat {
	axes := [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	q := mgl32.QuatIdent()
	for i, axis := range axes {
		if weights[i] == 0 {
			continue
		}
		angle := (ep.rng.Float32()*2 - 1) * float32(math.Pi) * weights[i]
		q = q.Mul(mgl32.QuatRotate(angle, axis))
	}
	return q
}
