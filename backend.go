// Backend identification and the native encoding tag tables.
package nokhwa

import "fmt"

// CaptureBackend is the list of capture backends known to the library.
//   - BackendAuto is special: it asks the caller to pick a backend suited to
//     the current platform. This library deliberately implements no such
//     heuristic; resolving Auto is the embedder's job.
//   - BackendVideo4Linux: Video4Linux2, Linux only.
//   - BackendUniversalVideoClass: libuvc, platform agnostic.
//   - BackendMediaFoundation: Microsoft Media Foundation, Windows only.
//   - BackendOpenCV: OpenCV capture, supports native and IP cameras.
//   - BackendGStreamer: GStreamer RTP capture, platform agnostic.
//   - BackendBrowser: the browser media-stream capture in this package.
type CaptureBackend int

const (
	BackendAuto CaptureBackend = iota
	BackendAVFoundation
	BackendVideo4Linux
	BackendUniversalVideoClass
	BackendMediaFoundation
	BackendOpenCV
	BackendGStreamer
	BackendBrowser
)

func (b CaptureBackend) String() string {
	switch b {
	case BackendAuto:
		return "Auto"
	case BackendAVFoundation:
		return "AVFoundation"
	case BackendVideo4Linux:
		return "Video4Linux"
	case BackendUniversalVideoClass:
		return "UniversalVideoClass"
	case BackendMediaFoundation:
		return "MediaFoundation"
	case BackendOpenCV:
		return "OpenCV"
	case BackendGStreamer:
		return "GStreamer"
	case BackendBrowser:
		return "Browser"
	default:
		return "Unknown"
	}
}

// The fourcc tag tables below are the single source of truth for backend
// interop. Every FrameFormat maps to exactly one tag and back; a new format
// extends both tables, never an open-ended string.

// FourCC returns the V4L2-style four-character code for the format.
func (f FrameFormat) FourCC() (string, error) {
	switch f {
	case FrameFormatMJPEG:
		return "MJPG", nil
	case FrameFormatYUYV:
		return "YUYV", nil
	default:
		return "", &NotImplementedError{What: fmt.Sprintf("fourcc for frame format %d", int(f))}
	}
}

// FrameFormatFromFourCC maps a backend-native four-character code back to a
// FrameFormat. Unsupported tags fail with a NotImplementedError.
func FrameFormatFromFourCC(fourcc string) (FrameFormat, error) {
	switch fourcc {
	case "MJPG":
		return FrameFormatMJPEG, nil
	case "YUYV", "YUY2": // Media Foundation spells YUYV as YUY2
		return FrameFormatYUYV, nil
	default:
		return 0, &NotImplementedError{What: fmt.Sprintf("frame format for fourcc %q", fourcc)}
	}
}
