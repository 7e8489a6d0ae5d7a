// Core format and frame value types used across the nokhwa package.
package nokhwa

import "fmt"

// FrameFormat describes how the bytes of a raw camera frame are encoded.
// Often called a FourCC. YUYV is a packed YCbCr 4:2:2 layout; MJPEG is a
// motion-JPEG compressed frame, which allows for high frame rates.
type FrameFormat int

const (
	FrameFormatMJPEG FrameFormat = iota
	FrameFormatYUYV
)

func (f FrameFormat) String() string {
	switch f {
	case FrameFormatMJPEG:
		return "MJPEG"
	case FrameFormatYUYV:
		return "YUYV"
	default:
		return "Unknown"
	}
}

// PixelFormat describes the layout of a decoded pixel buffer.
type PixelFormat int

const (
	PixelFormatRGB24  PixelFormat = iota // Packed RGB, 3 bytes per pixel
	PixelFormatRGBA32                    // Packed RGBA, 4 bytes per pixel
)

func (p PixelFormat) String() string {
	switch p {
	case PixelFormatRGB24:
		return "RGB24"
	case PixelFormatRGBA32:
		return "RGBA32"
	default:
		return "Unknown"
	}
}

// BytesPerPixel returns the number of bytes one pixel occupies.
func (p PixelFormat) BytesPerPixel() int {
	switch p {
	case PixelFormatRGB24:
		return 3
	case PixelFormatRGBA32:
		return 4
	default:
		return 0
	}
}

// Resolution is the width x height pixel geometry of a stream.
// Ordering is width-major then height-minor, both ascending.
type Resolution struct {
	Width  uint32
	Height uint32
}

// NewResolution creates a Resolution from two image size coordinates.
func NewResolution(width, height uint32) Resolution {
	return Resolution{Width: width, Height: height}
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Compare orders resolutions by width, breaking ties by height.
// It returns -1 if r sorts before other, 0 if equal, 1 otherwise.
func (r Resolution) Compare(other Resolution) int {
	switch {
	case r.Width < other.Width:
		return -1
	case r.Width > other.Width:
		return 1
	case r.Height < other.Height:
		return -1
	case r.Height > other.Height:
		return 1
	default:
		return 0
	}
}

// Less reports whether r sorts before other.
func (r Resolution) Less(other Resolution) bool {
	return r.Compare(other) < 0
}

// PixelBufferSize returns the byte size of a decoded frame at this
// resolution in the given pixel format.
func (r Resolution) PixelBufferSize(format PixelFormat) int {
	return int(r.Width) * int(r.Height) * format.BytesPerPixel()
}

// CameraFormat describes the format of a webcam stream: a Resolution, a
// FrameFormat, and a frame rate. Fields are independent; no cross-field
// invariants are enforced.
type CameraFormat struct {
	Resolution Resolution
	Format     FrameFormat
	FrameRate  uint32
}

// NewCameraFormat constructs a CameraFormat.
func NewCameraFormat(resolution Resolution, format FrameFormat, frameRate uint32) CameraFormat {
	return CameraFormat{Resolution: resolution, Format: format, FrameRate: frameRate}
}

// DefaultCameraFormat returns 640x480 MJPEG at 15 FPS.
func DefaultCameraFormat() CameraFormat {
	return CameraFormat{
		Resolution: Resolution{Width: 640, Height: 480},
		Format:     FrameFormatMJPEG,
		FrameRate:  15,
	}
}

// Width returns the width of the format's resolution.
func (c CameraFormat) Width() uint32 { return c.Resolution.Width }

// Height returns the height of the format's resolution.
func (c CameraFormat) Height() uint32 { return c.Resolution.Height }

func (c CameraFormat) String() string {
	return fmt.Sprintf("%s@%dFPS, %s Format", c.Resolution, c.FrameRate, c.Format)
}

// VideoFrame is a decoded frame: a packed pixel grid plus its geometry.
type VideoFrame struct {
	Data       []byte
	Resolution Resolution
	Format     PixelFormat
}

// NewVideoFrame wraps a pixel buffer, validating that its length matches
// width*height*bytesPerPixel for the given format.
func NewVideoFrame(resolution Resolution, format PixelFormat, data []byte) (*VideoFrame, error) {
	want := resolution.PixelBufferSize(format)
	if len(data) != want {
		return nil, &ReadFrameError{
			Err: fmt.Sprintf("%s buffer is %d bytes, want %d for %s", format, len(data), want, resolution),
		}
	}
	return &VideoFrame{Data: data, Resolution: resolution, Format: format}, nil
}

// Clone creates a deep copy of the frame.
func (f *VideoFrame) Clone() *VideoFrame {
	clone := &VideoFrame{Resolution: f.Resolution, Format: f.Format}
	if f.Data != nil {
		clone.Data = make([]byte, len(f.Data))
		copy(clone.Data, f.Data)
	}
	return clone
}

// CameraInfo describes a camera device, e.g. its name.
// Description and Misc may contain backend-specific information. Index is
// the camera's index as given by (usually) the OS, usually in the order it
// became known to the system.
type CameraInfo struct {
	HumanName   string
	Description string
	Misc        string
	Index       int
}

func (i CameraInfo) String() string {
	return fmt.Sprintf("Name: %s, Description: %s, Extra: %s, Index: %d",
		i.HumanName, i.Description, i.Misc, i.Index)
}

// Less orders camera infos by index.
func (i CameraInfo) Less(other CameraInfo) bool {
	return i.Index < other.Index
}

// CameraIndex identifies a camera either by OS index or, for IP cameras,
// by a network address of the form <protocol>://<IP>:<port>/.
type CameraIndex struct {
	Index   uint32
	Address string // Non-empty for IP cameras
}

// IndexCamera makes a CameraIndex for a local device index.
func IndexCamera(index uint32) CameraIndex {
	return CameraIndex{Index: index}
}

// IPCamera makes a CameraIndex for a network camera address.
func IPCamera(address string) CameraIndex {
	return CameraIndex{Address: address}
}

// IsIP reports whether the index refers to a network camera.
func (c CameraIndex) IsIP() bool { return c.Address != "" }

func (c CameraIndex) String() string {
	if c.IsIP() {
		return c.Address
	}
	return fmt.Sprintf("%d", c.Index)
}
