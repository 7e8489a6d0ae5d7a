package nokhwa

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCameras(t *testing.T) {
	rt := newFakeRuntime()
	rt.devices.descriptors = []DeviceDescriptor{
		{DeviceID: "mic0", GroupID: "g0", Kind: DeviceKindAudioInput, Label: "Microphone"},
		{DeviceID: "cam0", GroupID: "g1", Kind: DeviceKindVideoInput, Label: "Front Camera"},
		{DeviceID: "spk0", GroupID: "g0", Kind: DeviceKindAudioOutput, Label: "Speakers"},
		{DeviceID: "cam1", GroupID: "g2", Kind: DeviceKindVideoInput, Label: "Back Camera"},
	}

	cameras, err := QueryCameras(context.Background(), rt)
	require.NoError(t, err)
	require.Len(t, cameras, 2)

	assert.Equal(t, "Front Camera", cameras[0].HumanName)
	assert.Equal(t, "videoinput", cameras[0].Description)
	assert.Equal(t, "g1:cam0", cameras[0].Misc)
	assert.Equal(t, 1, cameras[0].Index, "index follows enumeration order")

	assert.Equal(t, "Back Camera", cameras[1].HumanName)
	assert.Equal(t, 3, cameras[1].Index)
}

func TestQuerySupportedCapabilities(t *testing.T) {
	rt := newFakeRuntime()
	rt.devices.constraints = []string{"width", "height", "torch", "frameRate"}

	capabilities, err := QuerySupportedCapabilities(context.Background(), rt)
	require.NoError(t, err)
	assert.Equal(t, []SupportedCapability{CapabilityWidth, CapabilityHeight, CapabilityFrameRate}, capabilities)
}

func TestRequestPermission(t *testing.T) {
	rt := newFakeRuntime()
	require.NoError(t, RequestPermission(context.Background(), rt))

	rt.devices.permErr = errors.New("NotAllowedError")
	err := RequestPermission(context.Background(), rt)
	var structErr *StructureError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, "UserMediaPermission", structErr.Structure)
}
