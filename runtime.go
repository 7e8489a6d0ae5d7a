// Platform capabilities injected into capture sessions.
//
// Nothing in this package reaches for ambient globals; the embedding
// environment (a real browser bridge, a native shim, or a test double)
// provides a Runtime and the session talks only to it.
package nokhwa

import "context"

// DeviceKind is the type of a media device.
type DeviceKind int

const (
	DeviceKindVideoInput  DeviceKind = iota // Camera
	DeviceKindAudioInput                    // Microphone
	DeviceKindAudioOutput                   // Speaker/headphones
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceKindVideoInput:
		return "videoinput"
	case DeviceKindAudioInput:
		return "audioinput"
	case DeviceKindAudioOutput:
		return "audiooutput"
	default:
		return "unknown"
	}
}

// DeviceDescriptor describes one media device as reported by the platform.
type DeviceDescriptor struct {
	DeviceID string
	GroupID  string
	Kind     DeviceKind
	Label    string
}

// MediaStream is a live negotiated stream handle. It is exclusively owned
// by the session that opened it.
type MediaStream interface {
	// ID returns the platform identifier of the stream.
	ID() string

	// StopTracks stops every track of the stream, releasing the device.
	StopTracks() error
}

// MediaDevices is the capture subsystem capability: permission prompts,
// device listing, and stream negotiation.
//
// The two negotiation calls suspend the caller until the platform
// permission/negotiation dialog resolves; they must respect ctx but have no
// finer-grained cancellation semantic. A cancelled negotiation reports the
// same failure as a denial.
type MediaDevices interface {
	// RequestPermission asks the platform for camera access without
	// opening a stream.
	RequestPermission(ctx context.Context) error

	// OpenStream negotiates a stream satisfying the request. It fails if
	// permission is denied or the constraints are unsatisfiable.
	OpenStream(ctx context.Context, request MediaStreamRequest) (MediaStream, error)

	// EnumerateDevices lists the media devices known to the platform.
	EnumerateDevices(ctx context.Context) ([]DeviceDescriptor, error)

	// SupportedConstraints lists the constraint field names the platform
	// understands.
	SupportedConstraints(ctx context.Context) ([]string, error)
}

// Element is a presentation node. Concrete elements additionally implement
// VideoElement or CanvasElement; sessions discover that by type assertion,
// the moral equivalent of a DOM cast.
type Element interface {
	// Tag returns the element's tag name, e.g. "video".
	Tag() string

	// SetAttribute applies a presentation attribute.
	SetAttribute(name, value string) error

	// AppendChild appends the child under this element and returns the
	// attached node.
	AppendChild(child Element) (Element, error)
}

// VideoElement is an element that can play a media stream.
type VideoElement interface {
	Element

	SetWidth(width uint32)
	SetHeight(height uint32)

	// SetSrcObject binds the stream as the element's source; nil clears it.
	SetSrcObject(stream MediaStream) error
}

// CanvasElement is an element exposing a 2D drawing context.
type CanvasElement interface {
	Element

	SetWidth(width uint32)
	SetHeight(height uint32)

	// Context2D returns the canvas's 2D drawing context.
	Context2D() (DrawContext, error)
}

// DrawContext is a 2D drawing surface with pixel readback.
type DrawContext interface {
	// DrawImage draws the video element's current frame at (x, y) scaled to
	// width x height.
	DrawImage(src VideoElement, x, y, width, height float64) error

	// ImageData reads back the RGBA pixel buffer of the given region.
	ImageData(x, y, width, height float64) ([]byte, error)
}

// Surface is the presentation capability: element creation and lookup.
type Surface interface {
	// CreateElement creates a detached element of the given tag.
	CreateElement(tag string) (Element, error)

	// ElementByID finds an existing element by its id.
	ElementByID(id string) (Element, error)
}

// Runtime bundles the platform capabilities a session needs.
type Runtime interface {
	// MediaDevices returns the capture subsystem.
	MediaDevices() (MediaDevices, error)

	// Surface returns the presentation surface.
	Surface() (Surface, error)
}

func mediaDevicesOf(rt Runtime) (MediaDevices, error) {
	devices, err := rt.MediaDevices()
	if err != nil {
		return nil, &StructureError{Structure: "MediaDevices", Err: err.Error()}
	}
	if devices == nil {
		return nil, &StructureError{Structure: "MediaDevices", Err: "none"}
	}
	return devices, nil
}

func surfaceOf(rt Runtime) (Surface, error) {
	surface, err := rt.Surface()
	if err != nil {
		return nil, &StructureError{Structure: "Surface", Err: err.Error()}
	}
	if surface == nil {
		return nil, &StructureError{Structure: "Surface", Err: "none"}
	}
	return surface, nil
}

func elementByID(surface Surface, id string) (Element, error) {
	element, err := surface.ElementByID(id)
	if err != nil {
		return nil, &StructureError{Structure: "Document " + id, Err: err.Error()}
	}
	if element == nil {
		return nil, &StructureError{Structure: "Document " + id, Err: "none"}
	}
	return element, nil
}

func createElement(surface Surface, tag string) (Element, error) {
	element, err := surface.CreateElement(tag)
	if err != nil {
		return nil, &StructureError{Structure: "Document " + tag + " Element", Err: err.Error()}
	}
	if element == nil {
		return nil, &StructureError{Structure: "Document " + tag + " Element", Err: "none"}
	}
	return element, nil
}

func asVideoElement(element Element, name string) (VideoElement, error) {
	video, ok := element.(VideoElement)
	if !ok {
		return nil, &StructureError{Structure: name, Err: "cannot cast to video element"}
	}
	return video, nil
}

func asCanvasElement(element Element, name string) (CanvasElement, error) {
	canvas, ok := element.(CanvasElement)
	if !ok {
		return nil, &StructureError{Structure: name, Err: "cannot cast to canvas element"}
	}
	return canvas, nil
}

func setAutoplayInline(element Element) error {
	if err := element.SetAttribute("autoplay", "autoplay"); err != nil {
		return &SetPropertyError{Property: "Video-autoplay", Value: "autoplay", Err: err.Error()}
	}
	if err := element.SetAttribute("playsinline", "playsinline"); err != nil {
		return &SetPropertyError{Property: "Video-playsinline", Value: "playsinline", Err: err.Error()}
	}
	return nil
}

// RequestPermission asks the platform for camera access without opening a
// stream. It suspends until the permission dialog resolves.
func RequestPermission(ctx context.Context, rt Runtime) error {
	devices, err := mediaDevicesOf(rt)
	if err != nil {
		return err
	}
	if err := devices.RequestPermission(ctx); err != nil {
		return &StructureError{Structure: "UserMediaPermission", Err: err.Error()}
	}
	return nil
}

// QueryCameras lists the platform's video-input devices as CameraInfo,
// indexed in enumeration order. Misc carries "<groupId>:<deviceId>".
func QueryCameras(ctx context.Context, rt Runtime) ([]CameraInfo, error) {
	devices, err := mediaDevicesOf(rt)
	if err != nil {
		return nil, err
	}
	descriptors, err := devices.EnumerateDevices(ctx)
	if err != nil {
		return nil, &StructureError{Structure: "EnumerateDevices", Err: err.Error()}
	}

	var cameras []CameraInfo
	for i, d := range descriptors {
		if d.Kind != DeviceKindVideoInput {
			continue
		}
		cameras = append(cameras, CameraInfo{
			HumanName:   d.Label,
			Description: d.Kind.String(),
			Misc:        d.GroupID + ":" + d.DeviceID,
			Index:       i,
		})
	}
	return cameras, nil
}

// QuerySupportedCapabilities asks the platform which constraint fields it
// understands, skipping names this library has no variant for.
func QuerySupportedCapabilities(ctx context.Context, rt Runtime) ([]SupportedCapability, error) {
	devices, err := mediaDevicesOf(rt)
	if err != nil {
		return nil, err
	}
	names, err := devices.SupportedConstraints(ctx)
	if err != nil {
		return nil, &StructureError{Structure: "SupportedConstraints", Err: err.Error()}
	}

	var capabilities []SupportedCapability
	for _, name := range names {
		capability, err := ParseSupportedCapability(name)
		if err != nil {
			continue
		}
		capabilities = append(capabilities, capability)
	}
	return capabilities, nil
}
