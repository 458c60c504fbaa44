package imaging

import (
	"fmt"

	"go.uber.org/multierr"
)

const (
	adjustmentIdentity = 100
	adjustmentMax      = 200
	defaultCropScale   = 0.9
)

// CropRegion is a rectangle expressed in display-space pixels, i.e. against
// the scaled image the editor shows, not the source raster.
type CropRegion struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EditState is the transient state of one edit session. It is created when the
// editor opens and discarded after save or cancel; nothing long-lived owns it.
type EditState struct {
	Crop            *CropRegion `json:"crop,omitempty"`
	DisplayWidth    float64     `json:"display_width"`
	DisplayHeight   float64     `json:"display_height"`
	RotationDegrees float64     `json:"rotation_degrees"`
	Brightness      int         `json:"brightness"`
	Contrast        int         `json:"contrast"`
	Saturation      int         `json:"saturation"`
}

// NewEditState returns a session with identity adjustments and no crop.
func NewEditState(displayWidth, displayHeight float64) EditState {
	return EditState{
		DisplayWidth:  displayWidth,
		DisplayHeight: displayHeight,
		Brightness:    adjustmentIdentity,
		Contrast:      adjustmentIdentity,
		Saturation:    adjustmentIdentity,
	}
}

// DefaultCrop selects a centered region spanning 90% of the display width,
// locked to the provided aspect ratio and clamped to the display bounds.
func DefaultCrop(displayWidth, displayHeight, aspect float64) *CropRegion {
	if displayWidth <= 0 || displayHeight <= 0 || aspect <= 0 {
		return nil
	}

	width := displayWidth * defaultCropScale
	height := width / aspect
	if height > displayHeight {
		height = displayHeight
		width = height * aspect
	}

	return &CropRegion{
		X:      (displayWidth - width) / 2,
		Y:      (displayHeight - height) / 2,
		Width:  width,
		Height: height,
	}
}

// Validate reports every out-of-range field at once.
func (s EditState) Validate() error {
	var err error

	if s.DisplayWidth <= 0 || s.DisplayHeight <= 0 {
		err = multierr.Append(err, fmt.Errorf("display dimensions must be positive"))
	}
	if s.RotationDegrees < 0 || s.RotationDegrees >= 360 {
		err = multierr.Append(err, fmt.Errorf("rotation %g out of range [0,360)", s.RotationDegrees))
	}
	if s.Brightness < 0 || s.Brightness > adjustmentMax {
		err = multierr.Append(err, fmt.Errorf("brightness %d out of range [0,%d]", s.Brightness, adjustmentMax))
	}
	if s.Contrast < 0 || s.Contrast > adjustmentMax {
		err = multierr.Append(err, fmt.Errorf("contrast %d out of range [0,%d]", s.Contrast, adjustmentMax))
	}
	if s.Saturation < 0 || s.Saturation > adjustmentMax {
		err = multierr.Append(err, fmt.Errorf("saturation %d out of range [0,%d]", s.Saturation, adjustmentMax))
	}
	if s.Crop != nil && (s.Crop.Width <= 0 || s.Crop.Height <= 0) {
		err = multierr.Append(err, fmt.Errorf("crop dimensions must be positive"))
	}

	return err
}

// ResetAdjustments restores rotation and color adjustments to identity. The
// crop selection is deliberately left untouched.
func (s *EditState) ResetAdjustments() {
	s.RotationDegrees = 0
	s.Brightness = adjustmentIdentity
	s.Contrast = adjustmentIdentity
	s.Saturation = adjustmentIdentity
}

// IsIdentityFilter reports whether the color adjustments are all neutral.
func (s EditState) IsIdentityFilter() bool {
	return s.Brightness == adjustmentIdentity &&
		s.Contrast == adjustmentIdentity &&
		s.Saturation == adjustmentIdentity
}
