package impactfx

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// AlphaMap holds per-cell layer weights for a terrain patch, cell-major:
// cell (x, y) occupies weights[(y*W+x)*LayerCount : ...+LayerCount].
type AlphaMap struct {
	W          int
	H          int
	LayerCount int
	weights    []float32
}

func NewAlphaMap(w, h, layers int) *AlphaMap {
	if w <= 0 || h <= 0 || layers <= 0 {
		panic(fmt.Sprintf("invalid alpha map dimensions %dx%dx%d", w, h, layers))
	}
	return &AlphaMap{
		W:          w,
		H:          h,
		LayerCount: layers,
		weights:    make([]float32, w*h*layers),
	}
}

// At returns the layer weight vector of cell (x, y). The slice aliases the
// map's backing storage; callers must not retain it across mutations.
func (a *AlphaMap) At(x, y int) []float32 {
	base := (y*a.W + x) * a.LayerCount
	return a.weights[base : base+a.LayerCount]
}

func (a *AlphaMap) Set(x, y int, weights ...float32) {
	base := (y*a.W + x) * a.LayerCount
	copy(a.weights[base:base+a.LayerCount], weights)
}

// AlphaMapFromImage builds an alpha map from an authored splat image. The
// image is resampled to the requested resolution and its RGBA channels
// become the weights of up to four layers, normalized per cell. Cells that
// are fully transparent black stay all-zero, which surface resolution treats
// as unpainted.
func AlphaMapFromImage(img image.Image, w, h, layers int) (*AlphaMap, error) {
	if layers < 1 || layers > 4 {
		return nil, fmt.Errorf("splat images carry at most 4 layers, got %d", layers)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	out := NewAlphaMap(w, h, layers)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := scaled.PixOffset(x, y)
			var sum float32
			cell := out.At(x, y)
			for layer := 0; layer < layers; layer++ {
				v := float32(scaled.Pix[base+layer]) / 255.0
				cell[layer] = v
				sum += v
			}
			if sum > 0 {
				for layer := range cell {
					cell[layer] /= sum
				}
			}
		}
	}
	return out, nil
}
