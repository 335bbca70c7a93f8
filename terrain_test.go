package impactfx

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestAlphaMapFromImage_SolidRed(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	am, err := AlphaMapFromImage(img, 4, 4, 3)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}

	weights := am.At(2, 2)
	if weights[0] != 1.0 {
		t.Errorf("solid red must put full weight on layer 0, got %v", weights)
	}
	if weights[1] != 0 || weights[2] != 0 {
		t.Errorf("unpainted layers must stay zero, got %v", weights)
	}
}

func TestAlphaMapFromImage_NormalizesMixedChannels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 100, A: 255})
		}
	}

	am, err := AlphaMapFromImage(img, 2, 2, 3)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}

	weights := am.At(0, 0)
	var sum float32
	for _, w := range weights {
		sum += w
	}
	if math.Abs(float64(sum-1.0)) > 1e-5 {
		t.Errorf("mixed channels must normalize to 1, got sum %v (%v)", sum, weights)
	}
	if weights[0] <= weights[1] {
		t.Errorf("dominant channel must keep the largest share, got %v", weights)
	}
}

func TestAlphaMapFromImage_RejectsTooManyLayers(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if _, err := AlphaMapFromImage(img, 1, 1, 5); err == nil {
		t.Fatalf("more than 4 layers cannot come from an RGBA splat image")
	}
}

func TestAlphaMapSetAt(t *testing.T) {
	am := NewAlphaMap(3, 2, 2)
	am.Set(2, 1, 0.4, 0.6)

	got := am.At(2, 1)
	if got[0] != 0.4 || got[1] != 0.6 {
		t.Errorf("At(2,1) = %v, want [0.4 0.6]", got)
	}

	if w := am.At(0, 0); w[0] != 0 || w[1] != 0 {
		t.Errorf("untouched cells must stay zero, got %v", w)
	}
}
