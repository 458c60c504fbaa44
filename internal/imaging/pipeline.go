package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
	"math"
)

// DefaultJPEGQuality matches the editor's fixed lossy encoding quality.
const DefaultJPEGQuality = 90

// Render applies the three-stage transform crop-extract, rotate, color-filter
// to the source raster. The output is always sized to the crop rectangle in
// source pixels; rotation turns the pixel content about the output center, it
// never changes the output dimensions.
//
// A session without a finalized crop renders to (nil, nil): there is nothing
// to save, which is a recoverable state and not an error.
func Render(src image.Image, state EditState) (*image.NRGBA, error) {
	if src == nil || state.Crop == nil {
		return nil, nil
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}

	rect, err := cropRectInSourcePixels(src.Bounds(), state)
	if err != nil {
		return nil, err
	}

	out := extractCrop(src, rect)

	if state.RotationDegrees != 0 {
		out = rotateAboutCenter(out, state.RotationDegrees)
	}

	if !state.IsIdentityFilter() {
		applyColorFilter(out, state.Brightness, state.Contrast, state.Saturation)
	}

	return out, nil
}

// EncodeJPEG writes the raster as a JPEG at the editor's fixed quality.
func EncodeJPEG(w io.Writer, img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: DefaultJPEGQuality})
}

// cropRectInSourcePixels scales the display-space crop by the ratio of the
// natural to the displayed dimensions, then clamps to the source bounds.
func cropRectInSourcePixels(bounds image.Rectangle, state EditState) (image.Rectangle, error) {
	scaleX := float64(bounds.Dx()) / state.DisplayWidth
	scaleY := float64(bounds.Dy()) / state.DisplayHeight

	x0 := bounds.Min.X + int(math.Round(state.Crop.X*scaleX))
	y0 := bounds.Min.Y + int(math.Round(state.Crop.Y*scaleY))
	x1 := x0 + int(math.Round(state.Crop.Width*scaleX))
	y1 := y0 + int(math.Round(state.Crop.Height*scaleY))

	rect := image.Rect(x0, y0, x1, y1).Intersect(bounds)
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("crop rectangle lies outside the source image")
	}
	return rect, nil
}

func extractCrop(src image.Image, rect image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), src, rect.Min, draw.Src)
	return out
}

// rotateAboutCenter turns pixel content about the raster center without
// changing dimensions. Each destination pixel is inverse-mapped into the
// source; samples falling outside stay black.
func rotateAboutCenter(src *image.NRGBA, degrees float64) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	theta := degrees * math.Pi / 180
	sin, cos := math.Sincos(-theta)
	cx := float64(w) / 2
	cy := float64(h) / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			sx := int(math.Floor(cx + dx*cos - dy*sin))
			sy := int(math.Floor(cy + dx*sin + dy*cos))
			if sx < 0 || sx >= w || sy < 0 || sy >= h {
				out.SetNRGBA(x, y, color.NRGBA{A: 255})
				continue
			}
			out.SetNRGBA(x, y, src.NRGBAAt(sx, sy))
		}
	}

	return out
}

// applyColorFilter mutates the raster in place. Each adjustment is a
// percentage where 100 is identity.
func applyColorFilter(img *image.NRGBA, brightness, contrast, saturation int) {
	b := float64(brightness) / 100
	c := float64(contrast) / 100
	s := float64(saturation) / 100

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := img.NRGBAAt(x, y)
			r := float64(px.R)
			g := float64(px.G)
			bl := float64(px.B)

			r *= b
			g *= b
			bl *= b

			r = (r-128)*c + 128
			g = (g-128)*c + 128
			bl = (bl-128)*c + 128

			gray := 0.299*r + 0.587*g + 0.114*bl
			r = gray + (r-gray)*s
			g = gray + (g-gray)*s
			bl = gray + (bl-gray)*s

			img.SetNRGBA(x, y, color.NRGBA{
				R: clampChannel(r),
				G: clampChannel(g),
				B: clampChannel(bl),
				A: px.A,
			})
		}
	}
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
