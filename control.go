// Camera control model: the adjustable parameters a backend can expose.
package nokhwa

import "fmt"

// KnownCameraControl is the list of camera controls known to the library.
// These adjust the picture (brightness, etc). Not all backends or devices
// support all of them; query the backend's FrameSource to see which can be
// set.
type KnownCameraControl int

const (
	ControlBrightness KnownCameraControl = iota
	ControlContrast
	ControlHue
	ControlSaturation
	ControlSharpness
	ControlGamma
	ControlColorEnable
	ControlWhiteBalance
	ControlBacklightComp
	ControlGain
	ControlPan
	ControlTilt
	ControlRoll
	ControlZoom
	ControlExposure
	ControlIris
	ControlFocus
)

var knownCameraControlNames = map[KnownCameraControl]string{
	ControlBrightness:    "Brightness",
	ControlContrast:      "Contrast",
	ControlHue:           "Hue",
	ControlSaturation:    "Saturation",
	ControlSharpness:     "Sharpness",
	ControlGamma:         "Gamma",
	ControlColorEnable:   "ColorEnable",
	ControlWhiteBalance:  "WhiteBalance",
	ControlBacklightComp: "BacklightComp",
	ControlGain:          "Gain",
	ControlPan:           "Pan",
	ControlTilt:          "Tilt",
	ControlRoll:          "Roll",
	ControlZoom:          "Zoom",
	ControlExposure:      "Exposure",
	ControlIris:          "Iris",
	ControlFocus:         "Focus",
}

func (k KnownCameraControl) String() string {
	if name, ok := knownCameraControlNames[k]; ok {
		return name
	}
	return "Unknown"
}

// KnownCameraControls returns every control variant the library knows.
func KnownCameraControls() []KnownCameraControl {
	all := make([]KnownCameraControl, 0, len(knownCameraControlNames))
	for c := ControlBrightness; c <= ControlFocus; c++ {
		all = append(all, c)
	}
	return all
}

// ControlFlag tells you whether a control is automatically managed by the
// OS/driver or manually managed by you, the programmer.
type ControlFlag int

const (
	ControlFlagAutomatic ControlFlag = iota
	ControlFlagManual
)

func (f ControlFlag) String() string {
	switch f {
	case ControlFlagAutomatic:
		return "Automatic"
	case ControlFlagManual:
		return "Manual"
	default:
		return "Unknown"
	}
}

// CameraControl describes everything about one adjustable camera parameter:
// its range, step, current and default values, and whether the driver
// manages it automatically. Values are validated on every construction and
// mutation; a CameraControl is never left in an invalid state.
type CameraControl struct {
	control KnownCameraControl
	min     int32
	max     int32
	value   int32
	step    int32
	def     int32
	flag    ControlFlag
	active  bool
}

// checkControlValue enforces min < value < max (strictly) and step
// alignment. Step must be positive; zero would divide by it and a negative
// step has no value grid.
func checkControlValue(value, min, max, step int32) error {
	if step <= 0 {
		return &StructureError{Structure: "CameraControl", Err: "step must be positive"}
	}
	if value >= max {
		return &StructureError{Structure: "CameraControl", Err: "value too large"}
	}
	if value <= min {
		return &StructureError{Structure: "CameraControl", Err: "value too low"}
	}
	if value%step != 0 {
		return &StructureError{Structure: "CameraControl", Err: "not aligned with step"}
	}
	return nil
}

// NewCameraControl creates a validated CameraControl.
// It fails if value is at or beyond either bound, or not divisible by step.
func NewCameraControl(control KnownCameraControl, min, max, value, step, def int32, flag ControlFlag, active bool) (CameraControl, error) {
	if err := checkControlValue(value, min, max, step); err != nil {
		return CameraControl{}, err
	}
	return CameraControl{
		control: control,
		min:     min,
		max:     max,
		value:   value,
		step:    step,
		def:     def,
		flag:    flag,
		active:  active,
	}, nil
}

// Control returns which parameter this control adjusts.
func (c CameraControl) Control() KnownCameraControl { return c.control }

// MinimumValue returns the lower bound (exclusive for valid values).
func (c CameraControl) MinimumValue() int32 { return c.min }

// MaximumValue returns the upper bound (exclusive for valid values).
func (c CameraControl) MaximumValue() int32 { return c.max }

// Value returns the current value.
func (c CameraControl) Value() int32 { return c.value }

// Step returns the value granularity; Value is always divisible by Step.
func (c CameraControl) Step() int32 { return c.step }

// Default returns the backend-reported default value.
func (c CameraControl) Default() int32 { return c.def }

// Flag reports whether the control is automatically or manually managed.
func (c CameraControl) Flag() ControlFlag { return c.flag }

// Active reports whether the control is currently in use.
func (c CameraControl) Active() bool { return c.active }

// SetValue replaces the current value after validating it. On failure the
// control is left unchanged.
func (c *CameraControl) SetValue(value int32) error {
	if err := checkControlValue(value, c.min, c.max, c.step); err != nil {
		return err
	}
	c.value = value
	return nil
}

// WithValue returns a copy of the control carrying the new value.
func (c CameraControl) WithValue(value int32) (CameraControl, error) {
	if err := checkControlValue(value, c.min, c.max, c.step); err != nil {
		return CameraControl{}, err
	}
	c.value = value
	return c, nil
}

// ValidValues lists the control's value grid, stepping from min to max
// inclusive. The loop runs in int64 so a grid ending at the int32 maximum
// cannot wrap.
func (c CameraControl) ValidValues() []int32 {
	if c.step <= 0 {
		// Only a zero-valued CameraControl gets here; validated
		// construction guarantees a positive step.
		return nil
	}
	var values []int32
	for v := int64(c.min); v <= int64(c.max); v += int64(c.step) {
		values = append(values, int32(v))
	}
	return values
}

func (c CameraControl) String() string {
	return fmt.Sprintf("%s: %d [%d..%d by %d, default %d, %s]",
		c.control, c.value, c.min, c.max, c.step, c.def, c.flag)
}
