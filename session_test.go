package nokhwa

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test doubles for the injected runtime capabilities.

type fakeStream struct {
	id      string
	stopped int
	stopErr error
}

func (s *fakeStream) ID() string { return s.id }

func (s *fakeStream) StopTracks() error {
	s.stopped++
	return s.stopErr
}

type fakeDevices struct {
	stream      *fakeStream
	openErr     error
	lastRequest MediaStreamRequest
	descriptors []DeviceDescriptor
	constraints []string
	permErr     error
}

func (d *fakeDevices) RequestPermission(ctx context.Context) error { return d.permErr }

func (d *fakeDevices) OpenStream(ctx context.Context, request MediaStreamRequest) (MediaStream, error) {
	d.lastRequest = request
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.stream, nil
}

func (d *fakeDevices) EnumerateDevices(ctx context.Context) ([]DeviceDescriptor, error) {
	return d.descriptors, nil
}

func (d *fakeDevices) SupportedConstraints(ctx context.Context) ([]string, error) {
	return d.constraints, nil
}

type fakeElement struct {
	tag        string
	attributes map[string]string
	children   []Element
}

func newFakeElement(tag string) *fakeElement {
	return &fakeElement{tag: tag, attributes: map[string]string{}}
}

func (e *fakeElement) Tag() string { return e.tag }

func (e *fakeElement) SetAttribute(name, value string) error {
	e.attributes[name] = value
	return nil
}

func (e *fakeElement) AppendChild(child Element) (Element, error) {
	e.children = append(e.children, child)
	return child, nil
}

type fakeVideo struct {
	*fakeElement
	width, height uint32
	src           MediaStream
	srcSets       int
}

func newFakeVideo() *fakeVideo {
	return &fakeVideo{fakeElement: newFakeElement("video")}
}

func (v *fakeVideo) SetWidth(w uint32)  { v.width = w }
func (v *fakeVideo) SetHeight(h uint32) { v.height = h }

func (v *fakeVideo) SetSrcObject(stream MediaStream) error {
	v.src = stream
	v.srcSets++
	return nil
}

type fakeContext struct {
	draws int
}

func (c *fakeContext) DrawImage(src VideoElement, x, y, width, height float64) error {
	c.draws++
	return nil
}

func (c *fakeContext) ImageData(x, y, width, height float64) ([]byte, error) {
	data := make([]byte, int(width)*int(height)*4)
	for i := range data {
		data[i] = byte(i)
	}
	return data, nil
}

type fakeCanvas struct {
	*fakeElement
	width, height uint32
	context       *fakeContext
}

func (c *fakeCanvas) SetWidth(w uint32)  { c.width = w }
func (c *fakeCanvas) SetHeight(h uint32) { c.height = h }

func (c *fakeCanvas) Context2D() (DrawContext, error) { return c.context, nil }

type fakeSurface struct {
	byID    map[string]Element
	created []Element
	context *fakeContext
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{byID: map[string]Element{}, context: &fakeContext{}}
}

func (s *fakeSurface) CreateElement(tag string) (Element, error) {
	var element Element
	switch tag {
	case "video":
		element = newFakeVideo()
	case "canvas":
		element = &fakeCanvas{fakeElement: newFakeElement("canvas"), context: s.context}
	default:
		element = newFakeElement(tag)
	}
	s.created = append(s.created, element)
	return element, nil
}

func (s *fakeSurface) ElementByID(id string) (Element, error) {
	element, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("no element with id %s", id)
	}
	return element, nil
}

type fakeRuntime struct {
	devices *fakeDevices
	surface *fakeSurface
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		devices: &fakeDevices{stream: &fakeStream{id: "stream-1"}},
		surface: newFakeSurface(),
	}
}

func (r *fakeRuntime) MediaDevices() (MediaDevices, error) { return r.devices, nil }
func (r *fakeRuntime) Surface() (Surface, error)           { return r.surface, nil }

func openTestCamera(t *testing.T, rt *fakeRuntime, cfg SessionConfig) *Camera {
	t.Helper()
	camera, err := Open(context.Background(), rt, cfg)
	require.NoError(t, err)
	return camera
}

func TestOpenDefaultsToUnconstrained(t *testing.T) {
	rt := newFakeRuntime()
	camera := openTestCamera(t, rt, SessionConfig{})

	assert.Equal(t, "true", rt.devices.lastRequest.Video)
	assert.False(t, rt.devices.lastRequest.Audio)
	assert.Equal(t, "stream-1", camera.Stream().ID())
	assert.Equal(t, Resolution{640, 480}, camera.PreferredResolution())
}

func TestOpenDeniedPermission(t *testing.T) {
	rt := newFakeRuntime()
	rt.devices.openErr = errors.New("NotAllowedError")

	_, err := Open(context.Background(), rt, SessionConfig{})
	require.Error(t, err)
	var structErr *StructureError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, "MediaDevicesGetUserMedia", structErr.Structure)
}

func TestCameraAttachSetsWidthAndHeight(t *testing.T) {
	rt := newFakeRuntime()
	rt.surface.byID["container"] = newFakeElement("div")

	constraints, err := NewConstraintsBuilder().Resolution(Resolution{1280, 720}).Build()
	require.NoError(t, err)
	camera := openTestCamera(t, rt, SessionConfig{Constraints: constraints})

	require.NoError(t, camera.Attach("container", true))
	assert.True(t, camera.IsAttached())

	container := rt.surface.byID["container"].(*fakeElement)
	require.Len(t, container.children, 1)
	video := container.children[0].(*fakeVideo)
	assert.Equal(t, uint32(1280), video.width)
	assert.Equal(t, uint32(720), video.height)
	assert.Equal(t, "autoplay", video.attributes["autoplay"])
	assert.Equal(t, "playsinline", video.attributes["playsinline"])
	assert.Same(t, camera.Stream(), video.src)
}

func TestCameraAttachExistingElement(t *testing.T) {
	rt := newFakeRuntime()
	video := newFakeVideo()
	rt.surface.byID["player"] = video
	camera := openTestCamera(t, rt, SessionConfig{})

	require.NoError(t, camera.Attach("player", false))
	assert.Equal(t, uint32(640), video.width)
	assert.Equal(t, uint32(480), video.height)
	assert.Same(t, camera.Stream(), video.src)
}

func TestCameraAttachNonVideoElement(t *testing.T) {
	rt := newFakeRuntime()
	div := newFakeElement("div")
	rt.surface.byID["player"] = div
	camera := openTestCamera(t, rt, SessionConfig{})

	err := camera.Attach("player", false)
	var structErr *StructureError
	require.ErrorAs(t, err, &structErr)
	assert.False(t, camera.IsAttached())
	assert.Empty(t, div.attributes, "failed attach must not mutate the target")
}

func TestCameraAttachRebind(t *testing.T) {
	rt := newFakeRuntime()
	first := newFakeVideo()
	second := newFakeVideo()
	rt.surface.byID["first"] = first
	rt.surface.byID["second"] = second
	camera := openTestCamera(t, rt, SessionConfig{})

	require.NoError(t, camera.Attach("first", false))
	require.NoError(t, camera.Attach("second", false))

	// DeAttach releases only the most recently bound node.
	require.NoError(t, camera.DeAttach())
	assert.Nil(t, second.src)
	assert.NotNil(t, first.src)
	assert.False(t, camera.IsAttached())
}

func TestCameraDeAttachWithoutAttach(t *testing.T) {
	rt := newFakeRuntime()
	camera := openTestCamera(t, rt, SessionConfig{})

	require.NoError(t, camera.DeAttach())
	assert.False(t, camera.IsAttached())
}

func TestCameraFrame(t *testing.T) {
	rt := newFakeRuntime()
	constraints, err := NewConstraintsBuilder().Resolution(Resolution{4, 2}).Build()
	require.NoError(t, err)
	camera := openTestCamera(t, rt, SessionConfig{Constraints: constraints})

	frame, err := camera.Frame()
	require.NoError(t, err)
	assert.Equal(t, Resolution{4, 2}, frame.Resolution)
	assert.Equal(t, PixelFormatRGB24, frame.Format)
	assert.Len(t, frame.Data, 4*2*3)
	assert.Equal(t, 1, rt.surface.context.draws)
}

func TestCameraRGBAFrame(t *testing.T) {
	rt := newFakeRuntime()
	constraints, err := NewConstraintsBuilder().Resolution(Resolution{4, 2}).Build()
	require.NoError(t, err)
	camera := openTestCamera(t, rt, SessionConfig{Constraints: constraints})

	frame, err := camera.RGBAFrame()
	require.NoError(t, err)
	assert.Equal(t, PixelFormatRGBA32, frame.Format)
	assert.Len(t, frame.Data, 4*2*4)
}

func TestWriteFrameToBuffer(t *testing.T) {
	rt := newFakeRuntime()
	constraints, err := NewConstraintsBuilder().Resolution(Resolution{4, 2}).Build()
	require.NoError(t, err)
	camera := openTestCamera(t, rt, SessionConfig{Constraints: constraints})

	buffer := make([]byte, camera.MinBufferSize(false))
	n, err := camera.WriteFrameToBuffer(buffer, false)
	require.NoError(t, err)
	assert.Equal(t, 4*2*3, n)

	rgba := make([]byte, camera.MinBufferSize(true))
	n, err = camera.WriteFrameToBuffer(rgba, true)
	require.NoError(t, err)
	assert.Equal(t, 4*2*4, n)
}

func TestWriteFrameToBufferShortBuffer(t *testing.T) {
	rt := newFakeRuntime()
	constraints, err := NewConstraintsBuilder().Resolution(Resolution{4, 2}).Build()
	require.NoError(t, err)
	camera := openTestCamera(t, rt, SessionConfig{Constraints: constraints})

	short := make([]byte, camera.MinBufferSize(false)-1)
	n, err := camera.WriteFrameToBuffer(short, false)
	var readErr *ReadFrameError
	require.ErrorAs(t, err, &readErr)
	assert.Zero(t, n)
	for _, b := range short {
		require.Zero(t, b, "short buffer must stay untouched")
	}
}

func TestCameraSetPreferredResolution(t *testing.T) {
	rt := newFakeRuntime()
	camera := openTestCamera(t, rt, SessionConfig{})

	camera.SetPreferredResolution(Resolution{320, 240})
	assert.Equal(t, Resolution{320, 240}, camera.PreferredResolution())

	frame, err := camera.Frame()
	require.NoError(t, err)
	assert.Len(t, frame.Data, 320*240*3)
}

func TestCameraApplyConstraints(t *testing.T) {
	rt := newFakeRuntime()
	camera := openTestCamera(t, rt, SessionConfig{})

	camera.Constraints().FrameRate = 30
	require.NoError(t, camera.ApplyConstraints())
	assert.Contains(t, camera.Constraints().MediaRequest().Video, "frameRate: { ideal: 30 }")
}

func TestCameraCloseIdempotent(t *testing.T) {
	rt := newFakeRuntime()
	video := newFakeVideo()
	rt.surface.byID["player"] = video
	camera := openTestCamera(t, rt, SessionConfig{})
	require.NoError(t, camera.Attach("player", false))

	require.NoError(t, camera.Close())
	assert.False(t, camera.IsAttached())
	assert.Nil(t, video.src)
	assert.Equal(t, 1, rt.devices.stream.stopped)

	require.NoError(t, camera.Close())
	assert.Equal(t, 1, rt.devices.stream.stopped, "tracks must stop exactly once")
}

func TestCameraCloseReportsStopFailure(t *testing.T) {
	rt := newFakeRuntime()
	rt.devices.stream.stopErr = errors.New("track already ended")
	camera := openTestCamera(t, rt, SessionConfig{})

	err := camera.Close()
	var structErr *StructureError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, "MediaStreamStopTracks", structErr.Structure)
}
