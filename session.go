// Browser-style capture session: one live media stream plus its optional
// presentation attachment.
package nokhwa

import (
	"context"
	"errors"
	"fmt"

	"github.com/pion/logging"
)

// SessionConfig configures a capture session.
type SessionConfig struct {
	// Constraints is the negotiation request; nil opens an unconstrained
	// session.
	Constraints *Constraints

	// LoggerFactory overrides the default pion logger factory.
	LoggerFactory logging.LoggerFactory
}

// Camera owns one live media stream and its optional presentation
// attachment, and produces frames on demand.
//
// A Camera's methods are not safe for concurrent use; callers must
// serialize access to one session. Each frame call performs one fresh
// draw-and-read against the most recently attached node, nothing is
// buffered or reordered.
type Camera struct {
	rt          Runtime
	constraints *Constraints
	stream      MediaStream

	attached     bool
	attachedNode Element

	closed bool
	log    logging.LeveledLogger
}

// Open negotiates a media stream against the session constraints and
// returns the live session. It suspends until the platform permission/
// negotiation dialog resolves and fails if permission is denied or the
// constraints are unsatisfiable; cancellation of ctx maps to the same
// failure path.
func Open(ctx context.Context, rt Runtime, cfg SessionConfig) (*Camera, error) {
	constraints := cfg.Constraints
	if constraints == nil {
		var err error
		constraints, err = NewConstraintsBuilder().Build()
		if err != nil {
			return nil, err
		}
	}

	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	log := loggerFactory.NewLogger("camera")

	devices, err := mediaDevicesOf(rt)
	if err != nil {
		return nil, err
	}

	stream, err := devices.OpenStream(ctx, constraints.MediaRequest())
	if err != nil {
		return nil, &StructureError{Structure: "MediaDevicesGetUserMedia", Err: err.Error()}
	}
	if stream == nil {
		return nil, &StructureError{Structure: "MediaDevicesGetUserMedia", Err: "none"}
	}

	log.Debugf("opened stream %s with %s", stream.ID(), constraints.MediaRequest())
	return &Camera{
		rt:          rt,
		constraints: constraints,
		stream:      stream,
		log:         log,
	}, nil
}

// Constraints returns the session's constraints. Field edits take effect on
// the rendered request only after ApplyConstraints.
func (c *Camera) Constraints() *Constraints {
	return c.constraints
}

// ApplyConstraints re-renders the negotiation request from the current
// constraint fields. The security note on ConstraintsBuilder.Build applies.
func (c *Camera) ApplyConstraints() error {
	return c.constraints.Apply()
}

// PreferredResolution returns the resolution frames are sized to: the
// requested one, or 640x480 when none was requested.
func (c *Camera) PreferredResolution() Resolution {
	if (c.constraints.PreferredResolution == Resolution{}) {
		return DefaultCameraFormat().Resolution
	}
	return c.constraints.PreferredResolution
}

// SetPreferredResolution changes the resolution used for subsequent frames.
// The rendered request does not change until ApplyConstraints.
func (c *Camera) SetPreferredResolution(r Resolution) {
	c.constraints.PreferredResolution = r
}

// Stream returns the session's media stream handle.
func (c *Camera) Stream() MediaStream {
	return c.stream
}

// IsAttached reports whether the stream is bound to a presentation node.
func (c *Camera) IsAttached() bool {
	return c.attached
}

// Attach binds the stream to a presentation element.
//
// With createNew, a fresh video element is created under the element with
// the given id, configured for autoplay/inline playback, bound to the
// stream, and appended; that node is what a later DeAttach releases.
// Without createNew, the id must already name a video-compatible element; a
// failed cast is a structural error.
//
// Attaching while already attached rebinds to the new node; only the
// last-bound node is torn down by DeAttach.
func (c *Camera) Attach(targetID string, createNew bool) error {
	surface, err := surfaceOf(c.rt)
	if err != nil {
		return err
	}
	target, err := elementByID(surface, targetID)
	if err != nil {
		return err
	}

	resolution := c.PreferredResolution()

	if createNew {
		element, err := createElement(surface, "video")
		if err != nil {
			return err
		}
		video, err := asVideoElement(element, "HtmlVideoElement")
		if err != nil {
			return err
		}
		if err := setAutoplayInline(video); err != nil {
			return err
		}

		video.SetWidth(resolution.Width)
		video.SetHeight(resolution.Height)
		if err := video.SetSrcObject(c.stream); err != nil {
			return &SetPropertyError{Property: "Video-srcObject", Value: c.stream.ID(), Err: err.Error()}
		}

		node, err := target.AppendChild(video)
		if err != nil {
			return &StructureError{Structure: "Attach Error", Err: err.Error()}
		}
		c.attachedNode = node
		c.attached = true
		c.log.Debugf("attached new video element under %s", targetID)
		return nil
	}

	// Cast before touching the element so a wrong target is left untouched.
	video, err := asVideoElement(target, "HtmlVideoElement")
	if err != nil {
		return err
	}
	if err := setAutoplayInline(video); err != nil {
		return err
	}

	video.SetWidth(resolution.Width)
	video.SetHeight(resolution.Height)
	if err := video.SetSrcObject(c.stream); err != nil {
		return &SetPropertyError{Property: "Video-srcObject", Value: c.stream.ID(), Err: err.Error()}
	}

	c.attachedNode = video
	c.attached = true
	c.log.Debugf("attached to existing element %s", targetID)
	return nil
}

// DeAttach releases the bound presentation node. Detaching a session that
// is not attached is a no-op success; it fails only if the attached node
// cannot be reinterpreted as a video element, which correct usage never
// produces.
func (c *Camera) DeAttach() error {
	if !c.attached {
		return nil
	}
	if c.attachedNode == nil {
		c.attached = false
		return nil
	}

	video, err := asVideoElement(c.attachedNode, "HtmlVideoElement")
	if err != nil {
		return err
	}
	if err := video.SetSrcObject(nil); err != nil {
		return &SetPropertyError{Property: "Video-srcObject", Value: "none", Err: err.Error()}
	}

	c.attachedNode = nil
	c.attached = false
	c.log.Debugf("detached")
	return nil
}

// FrameRaw draws the stream once into an off-screen canvas sized to the
// preferred resolution and reads back the raw RGBA pixel buffer. When the
// session is attached it draws from the attached node; otherwise it
// synthesizes a temporary video element bound to the same stream for the
// single draw.
func (c *Camera) FrameRaw() ([]byte, error) {
	surface, err := surfaceOf(c.rt)
	if err != nil {
		return nil, err
	}

	resolution := c.PreferredResolution()

	element, err := createElement(surface, "canvas")
	if err != nil {
		return nil, err
	}
	canvas, err := asCanvasElement(element, "HtmlCanvasElement")
	if err != nil {
		return nil, err
	}
	canvas.SetHeight(resolution.Height)
	canvas.SetWidth(resolution.Width)

	context2d, err := canvas.Context2D()
	if err != nil {
		return nil, &StructureError{Structure: "HtmlCanvasElement Context 2D", Err: err.Error()}
	}
	if context2d == nil {
		return nil, &StructureError{Structure: "HtmlCanvasElement Context 2D", Err: "none"}
	}

	var video VideoElement
	if c.attached && c.attachedNode != nil {
		video, err = asVideoElement(c.attachedNode, "HtmlVideoElement")
		if err != nil {
			return nil, err
		}
	} else {
		element, err := createElement(surface, "video")
		if err != nil {
			return nil, err
		}
		video, err = asVideoElement(element, "HtmlVideoElement")
		if err != nil {
			return nil, err
		}
		if err := setAutoplayInline(video); err != nil {
			return nil, err
		}
	}

	video.SetWidth(resolution.Width)
	video.SetHeight(resolution.Height)
	if err := video.SetSrcObject(c.stream); err != nil {
		return nil, &SetPropertyError{Property: "Video-srcObject", Value: c.stream.ID(), Err: err.Error()}
	}

	if err := context2d.DrawImage(video, 0, 0, float64(resolution.Width), float64(resolution.Height)); err != nil {
		return nil, &ReadFrameError{Err: err.Error()}
	}

	data, err := context2d.ImageData(0, 0, float64(resolution.Width), float64(resolution.Height))
	if err != nil {
		return nil, &ReadFrameError{Err: err.Error()}
	}
	return data, nil
}

// Frame reads one frame and returns it as a packed RGB24 pixel grid,
// dropping alpha. It fails if the readback size does not match the
// preferred resolution.
func (c *Camera) Frame() (*VideoFrame, error) {
	raw, err := c.FrameRaw()
	if err != nil {
		return nil, err
	}
	resolution := c.PreferredResolution()
	if len(raw) != resolution.PixelBufferSize(PixelFormatRGBA32) {
		return nil, &ReadFrameError{
			Err: fmt.Sprintf("raw frame is %d bytes, want %d for %s RGBA", len(raw), resolution.PixelBufferSize(PixelFormatRGBA32), resolution),
		}
	}
	rgb, err := rgbaToRGB(raw)
	if err != nil {
		return nil, err
	}
	return NewVideoFrame(resolution, PixelFormatRGB24, rgb)
}

// RGBAFrame reads one frame and returns it as a packed RGBA32 pixel grid.
// It fails if the readback size does not match the preferred resolution.
func (c *Camera) RGBAFrame() (*VideoFrame, error) {
	raw, err := c.FrameRaw()
	if err != nil {
		return nil, err
	}
	return NewVideoFrame(c.PreferredResolution(), PixelFormatRGBA32, raw)
}

// MinBufferSize returns the buffer size WriteFrameToBuffer needs at the
// current preferred resolution: width*height*4 for RGBA, *3 for RGB.
func (c *Camera) MinBufferSize(useRGBA bool) int {
	if useRGBA {
		return c.PreferredResolution().PixelBufferSize(PixelFormatRGBA32)
	}
	return c.PreferredResolution().PixelBufferSize(PixelFormatRGB24)
}

// WriteFrameToBuffer captures one frame into the caller-supplied buffer and
// returns the number of bytes written. With convertRGBA the raw RGBA bytes
// are copied verbatim; otherwise the frame is repacked to RGB24 first. The
// destination size is checked before anything is copied.
func (c *Camera) WriteFrameToBuffer(buffer []byte, convertRGBA bool) (int, error) {
	raw, err := c.FrameRaw()
	if err != nil {
		return 0, err
	}

	if convertRGBA {
		if len(buffer) < len(raw) {
			return 0, &ReadFrameError{
				Err: fmt.Sprintf("destination buffer is %d bytes, need %d", len(buffer), len(raw)),
			}
		}
		copy(buffer, raw)
		return len(raw), nil
	}

	rgb, err := rgbaToRGB(raw)
	if err != nil {
		return 0, err
	}
	if len(buffer) < len(rgb) {
		return 0, &ReadFrameError{
			Err: fmt.Sprintf("destination buffer is %d bytes, need %d", len(buffer), len(rgb)),
		}
	}
	copy(buffer, rgb)
	return len(rgb), nil
}

// Close releases the session: it detaches if still attached and stops every
// stream track. Closing an already-closed session is a no-op; resources are
// released exactly once.
func (c *Camera) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	if c.attached {
		if err := c.DeAttach(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.stream != nil {
		if err := c.stream.StopTracks(); err != nil {
			errs = append(errs, &StructureError{Structure: "MediaStreamStopTracks", Err: err.Error()})
		}
	}
	c.log.Debugf("closed")
	return errors.Join(errs...)
}
