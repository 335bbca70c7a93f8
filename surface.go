package impactfx

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ContributingTexture attributes part of a hit point to one visual surface.
// Weight is 1.0 for mesh hits and the blended layer weight for terrain hits.
type ContributingTexture struct {
	Texture TextureId
	Weight  float32
}

var ErrNoGeometry = errors.New("renderable has no geometry data")

// TerrainComponent describes a blended terrain patch: an alpha map sampled
// in footprint-local space and one texture binding per paint layer.
type TerrainComponent struct {
	Size     mgl32.Vec3
	AlphaMap *AlphaMap
	Layers   []TextureId
}

// ContributingAt samples the alpha-map cell under the world point and emits
// one entry per layer with positive weight. Points outside the footprint are
// clamped to the border cell. An empty result means no layer is painted
// there; the dispatcher falls back to the default profile.
func (t *TerrainComponent) ContributingAt(point, origin mgl32.Vec3) []ContributingTexture {
	if t.AlphaMap == nil || t.AlphaMap.W == 0 || t.AlphaMap.H == 0 {
		return nil
	}

	nx := (point.X() - origin.X()) / t.Size.X()
	nz := (point.Z() - origin.Z()) / t.Size.Z()

	cx := clampInt(int(nx*float32(t.AlphaMap.W)), 0, t.AlphaMap.W-1)
	cz := clampInt(int(nz*float32(t.AlphaMap.H)), 0, t.AlphaMap.H-1)

	weights := t.AlphaMap.At(cx, cz)

	var out []ContributingTexture
	for layer, w := range weights {
		if w <= 0 || layer >= len(t.Layers) {
			continue
		}
		out = append(out, ContributingTexture{Texture: t.Layers[layer], Weight: w})
	}
	return out
}

// MeshRegion is one material region of a renderable: the texture it is
// painted with and the index triples of the triangles it owns.
type MeshRegion struct {
	Texture   TextureId
	Triangles []uint32
}

// MeshRendererComponent describes a static or dynamic mesh target. Indices
// is the mesh's triangle index buffer; Primary is the fallback texture used
// when region membership cannot be decided.
type MeshRendererComponent struct {
	Primary TextureId
	Indices []uint32
	Regions []MeshRegion
}

// ContributingFor resolves the texture struck at the given triangle. Region
// membership is decided by vertex-index identity: the hit triangle's index
// triple is matched against each region's triangle list, first region wins.
// Triples are canonicalized before comparison, so winding or rotation
// differences between the mesh buffer and the region lists do not matter.
// Always emits exactly one entry with weight 1.0.
func (m *MeshRendererComponent) ContributingFor(triangle int) ([]ContributingTexture, error) {
	if len(m.Indices) < 3 {
		return nil, ErrNoGeometry
	}
	if triangle < 0 || (triangle+1)*3 > len(m.Indices) {
		return nil, fmt.Errorf("triangle %d out of range for %d indices", triangle, len(m.Indices))
	}

	texture := m.Primary
	if len(m.Regions) > 1 {
		key := triangleKey(m.Indices[triangle*3], m.Indices[triangle*3+1], m.Indices[triangle*3+2])
	scan:
		for _, region := range m.Regions {
			for i := 0; i+2 < len(region.Triangles); i += 3 {
				if triangleKey(region.Triangles[i], region.Triangles[i+1], region.Triangles[i+2]) == key {
					texture = region.Texture
					break scan
				}
			}
		}
	}

	return []ContributingTexture{{Texture: texture, Weight: 1.0}}, nil
}

// triangleKey sorts the three vertex indices into a canonical identity.
func triangleKey(a, b, c uint32) [3]uint32 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]uint32{a, b, c}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
