// FrameSource: the backend capability yielding raw encoded frames and
// device/control metadata.
package nokhwa

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// FrameSource abstracts an OS/vendor capture backend (Video4Linux, UVC,
// Media Foundation, OpenCV, ...). Implementations live outside this
// package; the library consumes only the frame format and bytes they yield.
type FrameSource interface {
	io.Closer

	// Enumerate lists the devices the backend can see.
	Enumerate(ctx context.Context) ([]CameraInfo, error)

	// Open starts capture in the given format.
	Open(ctx context.Context, format CameraFormat) error

	// ReadFrame pulls one raw encoded frame.
	ReadFrame(ctx context.Context) (FrameFormat, Resolution, []byte, error)

	// Controls reports the backend's control descriptors.
	Controls(ctx context.Context) ([]CameraControl, error)
}

// FrameSourceFactory constructs a FrameSource for one camera.
type FrameSourceFactory func(index CameraIndex) (FrameSource, error)

type frameSourceRegistry struct {
	factories map[CaptureBackend]FrameSourceFactory
	mu        sync.RWMutex
}

var globalFrameSources = &frameSourceRegistry{
	factories: make(map[CaptureBackend]FrameSourceFactory),
}

// RegisterFrameSource registers a backend implementation. Later
// registrations for the same backend replace earlier ones.
func RegisterFrameSource(backend CaptureBackend, factory FrameSourceFactory) {
	globalFrameSources.mu.Lock()
	defer globalFrameSources.mu.Unlock()
	globalFrameSources.factories[backend] = factory
}

// NewFrameSource opens a FrameSource for the given backend and camera.
// BackendAuto carries no selection heuristic here and is rejected; the
// embedder picks a concrete backend.
func NewFrameSource(backend CaptureBackend, index CameraIndex) (FrameSource, error) {
	if backend == BackendAuto {
		return nil, &NotImplementedError{What: "automatic backend selection"}
	}

	globalFrameSources.mu.RLock()
	factory, ok := globalFrameSources.factories[backend]
	globalFrameSources.mu.RUnlock()
	if !ok {
		return nil, &NotImplementedError{What: fmt.Sprintf("frame source for backend %s", backend)}
	}
	return factory(index)
}

// DecodeFrame converts one raw backend frame into packed RGB888 using the
// codec for its format.
func DecodeFrame(format FrameFormat, data []byte) ([]byte, error) {
	switch format {
	case FrameFormatMJPEG:
		return MJPEGToRGB(data)
	case FrameFormatYUYV:
		return YUYV422ToRGB(data)
	default:
		return nil, &NotImplementedError{What: fmt.Sprintf("decoding frame format %d", int(format))}
	}
}
