package impactfx

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

type MaterialId string
type TextureId string
type PrefabId string
type ClipId string

// ImpactKind classifies the collision that requested a surface response.
type ImpactKind uint8

const (
	ImpactGeneric ImpactKind = iota
	ImpactBullet
	ImpactBlunt
	ImpactExplosion
	ImpactFootstep
)

var impactKindNames = map[ImpactKind]string{
	ImpactGeneric:   "generic",
	ImpactBullet:    "bullet",
	ImpactBlunt:     "blunt",
	ImpactExplosion: "explosion",
	ImpactFootstep:  "footstep",
}

func (k ImpactKind) String() string {
	if name, ok := impactKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ImpactKind(%d)", uint8(k))
}

func (k ImpactKind) MarshalJSON() ([]byte, error) {
	name, ok := impactKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown impact kind %d", uint8(k))
	}
	return json.Marshal(name)
}

func (k *ImpactKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for kind, n := range impactKindNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown impact kind %q", name)
}

// VisualDirective spawns one pooled visual prefab when its probability gate
// passes.
type VisualDirective struct {
	Prefab            PrefabId   `json:"prefab"`
	Probability       float32    `json:"probability"`
	RandomizeRotation bool       `json:"randomize_rotation,omitempty"`
	RotationWeights   mgl32.Vec3 `json:"rotation_weights,omitempty"`
}

// AudioDirective plays one clip, picked uniformly from Clips, on a pooled
// emitter. The final volume is the contribution weight times a uniform draw
// from [VolumeMin, VolumeMax].
type AudioDirective struct {
	Emitter   PrefabId `json:"emitter"`
	Clips     []ClipId `json:"clips"`
	VolumeMin float32  `json:"volume_min"`
	VolumeMax float32  `json:"volume_max"`
}

type SurfaceEffectBundle struct {
	Visuals []VisualDirective `json:"visuals,omitempty"`
	Audio   []AudioDirective  `json:"audio,omitempty"`
}

type ImpactResponse struct {
	Kind   ImpactKind          `json:"kind"`
	Bundle SurfaceEffectBundle `json:"bundle"`
}

// MaterialProfile binds a texture to the surface's physical and audiovisual
// response data. Identity is the explicit material id; two profiles may
// legitimately share a texture. Immutable after registration.
type MaterialProfile struct {
	Id          MaterialId       `json:"id"`
	Texture     TextureId        `json:"texture"`
	Friction    float32          `json:"friction,omitempty"`
	Restitution float32          `json:"restitution,omitempty"`
	Responses   []ImpactResponse `json:"responses,omitempty"`
}

// BundleFor scans the ordered response list and returns the first entry
// matching kind. Later duplicates of the same kind are unreachable; keeping
// the list conflict-free is the configuration's job.
func (p *MaterialProfile) BundleFor(kind ImpactKind) (*SurfaceEffectBundle, bool) {
	for i := range p.Responses {
		if p.Responses[i].Kind == kind {
			return &p.Responses[i].Bundle, true
		}
	}
	return nil, false
}

type materialTable struct {
	byTexture map[TextureId]*MaterialProfile
	fallback  *MaterialProfile
}

// MaterialRegistry resolves struck textures to material profiles. The lookup
// table is immutable once built; Reload replaces it wholesale through an
// atomic pointer swap, so readers never need a lock.
type MaterialRegistry struct {
	table atomic.Pointer[materialTable]
}

func NewMaterialRegistry(profiles []MaterialProfile, fallback MaterialProfile) (*MaterialRegistry, error) {
	r := &MaterialRegistry{}
	if err := r.Reload(profiles, fallback); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload rebuilds the lookup table from scratch and swaps it in. Single
// writer assumed; concurrent Resolve calls keep seeing the old table until
// the swap. On validation failure the old table stays in place.
func (r *MaterialRegistry) Reload(profiles []MaterialProfile, fallback MaterialProfile) error {
	if err := validateProfile(&fallback); err != nil {
		return fmt.Errorf("fallback profile: %w", err)
	}

	table := &materialTable{
		byTexture: make(map[TextureId]*MaterialProfile, len(profiles)),
		fallback:  &fallback,
	}

	seen := make(map[MaterialId]struct{}, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		if err := validateProfile(p); err != nil {
			return fmt.Errorf("profile %q: %w", p.Id, err)
		}
		if _, dup := seen[p.Id]; dup {
			return fmt.Errorf("duplicate material id %q", p.Id)
		}
		seen[p.Id] = struct{}{}

		// Texture sharing is allowed; last registration wins the lookup.
		table.byTexture[p.Texture] = p
	}

	r.table.Store(table)
	return nil
}

// Resolve returns the profile registered for texture, or false when the
// texture is unregistered. Callers substitute Fallback on a miss.
func (r *MaterialRegistry) Resolve(texture TextureId) (*MaterialProfile, bool) {
	p, ok := r.table.Load().byTexture[texture]
	return p, ok
}

func (r *MaterialRegistry) Fallback() *MaterialProfile {
	return r.table.Load().fallback
}

func validateProfile(p *MaterialProfile) error {
	if p.Id == "" {
		return fmt.Errorf("missing material id")
	}
	for _, resp := range p.Responses {
		for _, v := range resp.Bundle.Visuals {
			if v.Prefab == "" {
				return fmt.Errorf("%s visual directive has no prefab", resp.Kind)
			}
			if v.Probability < 0 || v.Probability > 1 {
				return fmt.Errorf("%s visual probability %v outside [0,1]", resp.Kind, v.Probability)
			}
		}
		for _, a := range resp.Bundle.Audio {
			if a.Emitter == "" {
				return fmt.Errorf("%s audio directive has no emitter", resp.Kind)
			}
			if len(a.Clips) == 0 {
				return fmt.Errorf("%s audio directive has no clips", resp.Kind)
			}
			if a.VolumeMin < 0 || a.VolumeMax < a.VolumeMin {
				return fmt.Errorf("%s audio volume range [%v,%v] invalid", resp.Kind, a.VolumeMin, a.VolumeMax)
			}
		}
	}
	return nil
}

// MaterialModule installs a MaterialRegistry built from the configured
// profile list. Malformed configuration fails installation outright.
type MaterialModule struct {
	Profiles []MaterialProfile
	Fallback MaterialProfile
}

func (m MaterialModule) Install(app *App, cmd *Commands) {
	registry, err := NewMaterialRegistry(m.Profiles, m.Fallback)
	if err != nil {
		panic(fmt.Sprintf("material configuration rejected: %v", err))
	}
	cmd.AddResources(registry)
}
