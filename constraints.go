// Constraint model: the negotiation request a capture session is opened
// with, built from per-field ideal/exact directives.
package nokhwa

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SupportedCapability enumerates the constraint fields a platform may
// support for video.
type SupportedCapability int

const (
	CapabilityDeviceID SupportedCapability = iota
	CapabilityGroupID
	CapabilityAspectRatio
	CapabilityFacingMode
	CapabilityFrameRate
	CapabilityHeight
	CapabilityWidth
	CapabilityResizeMode
)

func (c SupportedCapability) String() string {
	switch c {
	case CapabilityDeviceID:
		return "deviceId"
	case CapabilityGroupID:
		return "groupId"
	case CapabilityAspectRatio:
		return "aspectRatio"
	case CapabilityFacingMode:
		return "facingMode"
	case CapabilityFrameRate:
		return "frameRate"
	case CapabilityHeight:
		return "height"
	case CapabilityWidth:
		return "width"
	case CapabilityResizeMode:
		return "resizeMode"
	default:
		return "unknown"
	}
}

// ParseSupportedCapability maps a platform capability string back to its
// variant.
func ParseSupportedCapability(s string) (SupportedCapability, error) {
	switch s {
	case "deviceId":
		return CapabilityDeviceID, nil
	case "groupId":
		return CapabilityGroupID, nil
	case "aspectRatio":
		return CapabilityAspectRatio, nil
	case "facingMode":
		return CapabilityFacingMode, nil
	case "frameRate":
		return CapabilityFrameRate, nil
	case "height":
		return CapabilityHeight, nil
	case "width":
		return CapabilityWidth, nil
	case "resizeMode":
		return CapabilityResizeMode, nil
	default:
		return 0, &StructureError{Structure: "SupportedCapability", Err: "no match for " + s}
	}
}

// FacingMode is the direction the camera faces, mostly relevant on mobile.
//   - FacingModeAny: no particular choice.
//   - FacingModeEnvironment: shows the user's surroundings (back camera).
//   - FacingModeUser: shows the user (front camera).
//   - FacingModeLeft / FacingModeRight: the user's left or right side.
type FacingMode int

const (
	FacingModeAny FacingMode = iota
	FacingModeEnvironment
	FacingModeUser
	FacingModeLeft
	FacingModeRight
)

func (m FacingMode) String() string {
	switch m {
	case FacingModeEnvironment:
		return "environment"
	case FacingModeUser:
		return "user"
	case FacingModeLeft:
		return "left"
	case FacingModeRight:
		return "right"
	default:
		return "any"
	}
}

// ResizeMode says whether the platform may crop and/or scale the stream to
// match the requested resolution.
type ResizeMode int

const (
	ResizeModeAny ResizeMode = iota
	ResizeModeNone
	ResizeModeCropAndScale
)

func (m ResizeMode) String() string {
	switch m {
	case ResizeModeNone:
		return "none"
	case ResizeModeCropAndScale:
		return "crop-and-scale"
	default:
		return ""
	}
}

// MediaStreamRequest is the rendered negotiation request: audio is always
// declined, and Video carries either the sorted directive fragments or the
// degenerate "true" (accept any video source).
type MediaStreamRequest struct {
	Audio bool
	Video string
}

// Unconstrained reports whether the request accepts any video source.
func (r MediaStreamRequest) Unconstrained() bool {
	return r.Video == "true"
}

func (r MediaStreamRequest) String() string {
	if r.Unconstrained() {
		return fmt.Sprintf("{ audio: %t, video: true }", r.Audio)
	}
	return fmt.Sprintf("{ audio: %t, video: { %s } }", r.Audio, r.Video)
}

// ConstraintsBuilder accumulates eight independent optional directives, each
// with a companion "exact" flag. It is pure data until Build, which renders
// the directives into a MediaStreamRequest; the builder never validates
// value ranges.
type ConstraintsBuilder struct {
	preferredResolution Resolution
	resolutionExact     bool
	aspectRatio         float64
	aspectRatioExact    bool
	facingMode          FacingMode
	facingModeExact     bool
	frameRate           uint32
	frameRateExact      bool
	resizeMode          ResizeMode
	resizeModeExact     bool
	deviceID            string
	deviceIDExact       bool
	groupID             string
	groupIDExact        bool
}

// NewConstraintsBuilder returns a builder with every directive unset; a
// Build without setters yields the unconstrained request.
func NewConstraintsBuilder() *ConstraintsBuilder {
	return &ConstraintsBuilder{}
}

// Resolution sets the preferred resolution (width and height directives).
func (b *ConstraintsBuilder) Resolution(r Resolution) *ConstraintsBuilder {
	b.preferredResolution = r
	return b
}

// ResolutionExact sets whether width and height use exact.
func (b *ConstraintsBuilder) ResolutionExact(exact bool) *ConstraintsBuilder {
	b.resolutionExact = exact
	return b
}

// AspectRatio sets the aspect-ratio directive.
func (b *ConstraintsBuilder) AspectRatio(ratio float64) *ConstraintsBuilder {
	b.aspectRatio = ratio
	return b
}

// AspectRatioExact sets whether the aspect ratio uses exact.
func (b *ConstraintsBuilder) AspectRatioExact(exact bool) *ConstraintsBuilder {
	b.aspectRatioExact = exact
	return b
}

// FacingMode sets the facing-mode directive.
func (b *ConstraintsBuilder) FacingMode(mode FacingMode) *ConstraintsBuilder {
	b.facingMode = mode
	return b
}

// FacingModeExact sets whether the facing mode uses exact.
func (b *ConstraintsBuilder) FacingModeExact(exact bool) *ConstraintsBuilder {
	b.facingModeExact = exact
	return b
}

// FrameRate sets the frame-rate directive.
func (b *ConstraintsBuilder) FrameRate(fps uint32) *ConstraintsBuilder {
	b.frameRate = fps
	return b
}

// FrameRateExact sets whether the frame rate uses exact.
func (b *ConstraintsBuilder) FrameRateExact(exact bool) *ConstraintsBuilder {
	b.frameRateExact = exact
	return b
}

// ResizeMode sets the resize-mode directive.
func (b *ConstraintsBuilder) ResizeMode(mode ResizeMode) *ConstraintsBuilder {
	b.resizeMode = mode
	return b
}

// ResizeModeExact sets whether the resize mode uses exact.
func (b *ConstraintsBuilder) ResizeModeExact(exact bool) *ConstraintsBuilder {
	b.resizeModeExact = exact
	return b
}

// DeviceID sets the device-id directive.
func (b *ConstraintsBuilder) DeviceID(id string) *ConstraintsBuilder {
	b.deviceID = id
	return b
}

// DeviceIDExact sets whether the device id uses exact.
func (b *ConstraintsBuilder) DeviceIDExact(exact bool) *ConstraintsBuilder {
	b.deviceIDExact = exact
	return b
}

// GroupID sets the group-id directive.
func (b *ConstraintsBuilder) GroupID(id string) *ConstraintsBuilder {
	b.groupID = id
	return b
}

// GroupIDExact sets whether the group id uses exact.
func (b *ConstraintsBuilder) GroupIDExact(exact bool) *ConstraintsBuilder {
	b.groupIDExact = exact
	return b
}

// renderDirective applies the uniform per-field rule: an unset (zero) value
// emits nothing, otherwise the value renders under exact or ideal.
func renderDirective(field, value string, exact, zero bool) string {
	if zero {
		return ""
	}
	if exact {
		return fmt.Sprintf("%s: { exact: %s }", field, value)
	}
	return fmt.Sprintf("%s: { ideal: %s }", field, value)
}

// checkDirective verifies that a rendered fragment still has the
// `field: { keyword: value }` shape after interpolation. Free-form id text
// containing braces or newlines breaks the request body.
func checkDirective(fragment string) error {
	open := strings.Index(fragment, "{")
	if open < 0 || !strings.HasSuffix(fragment, "}") {
		return &StructureError{Structure: "MediaStreamRequestBuild", Err: "malformed directive: " + fragment}
	}
	inner := fragment[open+1 : len(fragment)-1]
	if strings.ContainsAny(inner, "{}\n") {
		return &StructureError{Structure: "MediaStreamRequestBuild", Err: "malformed directive value in: " + fragment}
	}
	return nil
}

// Build renders the directives into a Constraints snapshot.
//
// Security: the device id and group id are interpolated into the request
// body verbatim. They are treated as caller-trusted input; callers embedding
// untrusted text there are responsible for sanitizing it first.
//
// Build fails only if a rendered directive no longer parses, e.g. a
// malformed device or group identifier.
func (b *ConstraintsBuilder) Build() (*Constraints, error) {
	fragments := []string{
		renderDirective("width", strconv.FormatUint(uint64(b.preferredResolution.Width), 10),
			b.resolutionExact, b.preferredResolution == Resolution{}),
		renderDirective("height", strconv.FormatUint(uint64(b.preferredResolution.Height), 10),
			b.resolutionExact, b.preferredResolution == Resolution{}),
		renderDirective("aspectRatio", strconv.FormatFloat(b.aspectRatio, 'f', -1, 64),
			b.aspectRatioExact, b.aspectRatio == 0),
		renderDirective("facingMode", b.facingMode.String(),
			b.facingModeExact, b.facingMode == FacingModeAny),
		renderDirective("frameRate", strconv.FormatUint(uint64(b.frameRate), 10),
			b.frameRateExact, b.frameRate == 0),
		renderDirective("resizeMode", b.resizeMode.String(),
			b.resizeModeExact, b.resizeMode == ResizeModeAny),
		renderDirective("deviceId", b.deviceID, b.deviceIDExact, b.deviceID == ""),
		renderDirective("groupId", b.groupID, b.groupIDExact, b.groupID == ""),
	}

	sort.Strings(fragments)
	rendered := fragments[:0]
	var prev string
	for _, frag := range fragments {
		if frag == "" || frag == prev {
			continue
		}
		if err := checkDirective(frag); err != nil {
			return nil, err
		}
		rendered = append(rendered, frag)
		prev = frag
	}

	video := "true"
	if len(rendered) > 0 {
		video = strings.Join(rendered, ",\n")
	}

	return &Constraints{
		PreferredResolution: b.preferredResolution,
		ResolutionExact:     b.resolutionExact,
		AspectRatio:         b.aspectRatio,
		AspectRatioExact:    b.aspectRatioExact,
		FacingMode:          b.facingMode,
		FacingModeExact:     b.facingModeExact,
		FrameRate:           b.frameRate,
		FrameRateExact:      b.frameRateExact,
		ResizeMode:          b.resizeMode,
		ResizeModeExact:     b.resizeModeExact,
		DeviceID:            b.deviceID,
		DeviceIDExact:       b.deviceIDExact,
		GroupID:             b.groupID,
		GroupIDExact:        b.groupIDExact,
		media:               MediaStreamRequest{Audio: false, Video: video},
	}, nil
}

// Constraints is an immutable-by-convention snapshot of directives plus the
// request rendered from them. Edit the fields freely; the rendered request
// does not change until Apply rebuilds and swaps it.
type Constraints struct {
	PreferredResolution Resolution
	ResolutionExact     bool
	AspectRatio         float64
	AspectRatioExact    bool
	FacingMode          FacingMode
	FacingModeExact     bool
	FrameRate           uint32
	FrameRateExact      bool
	ResizeMode          ResizeMode
	ResizeModeExact     bool
	DeviceID            string
	DeviceIDExact       bool
	GroupID             string
	GroupIDExact        bool

	media MediaStreamRequest
}

// MediaRequest returns the rendered negotiation request.
func (c *Constraints) MediaRequest() MediaStreamRequest {
	return c.media
}

// Apply re-renders the request from the current field values and swaps it
// in. The same security note as on Build applies to the id fields.
func (c *Constraints) Apply() error {
	rebuilt, err := (&ConstraintsBuilder{
		preferredResolution: c.PreferredResolution,
		resolutionExact:     c.ResolutionExact,
		aspectRatio:         c.AspectRatio,
		aspectRatioExact:    c.AspectRatioExact,
		facingMode:          c.FacingMode,
		facingModeExact:     c.FacingModeExact,
		frameRate:           c.FrameRate,
		frameRateExact:      c.FrameRateExact,
		resizeMode:          c.ResizeMode,
		resizeModeExact:     c.ResizeModeExact,
		deviceID:            c.DeviceID,
		deviceIDExact:       c.DeviceIDExact,
		groupID:             c.GroupID,
		groupIDExact:        c.GroupIDExact,
	}).Build()
	if err != nil {
		return err
	}
	c.media = rebuilt.media
	return nil
}
