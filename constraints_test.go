package nokhwa

import (
	"errors"
	"strings"
	"testing"
)

func TestConstraintsBuilderDefaultIsUnconstrained(t *testing.T) {
	constraints, err := NewConstraintsBuilder().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	request := constraints.MediaRequest()
	if !request.Unconstrained() {
		t.Errorf("MediaRequest().Video = %q, want %q", request.Video, "true")
	}
	if request.Audio {
		t.Error("MediaRequest().Audio = true, want false")
	}
}

func TestConstraintsBuilderResolution(t *testing.T) {
	tests := []struct {
		name  string
		exact bool
		want  []string
	}{
		{"ideal", false, []string{"width: { ideal: 640 }", "height: { ideal: 480 }"}},
		{"exact", true, []string{"width: { exact: 640 }", "height: { exact: 480 }"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			constraints, err := NewConstraintsBuilder().
				Resolution(Resolution{640, 480}).
				ResolutionExact(tt.exact).
				Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			video := constraints.MediaRequest().Video
			fragments := strings.Split(video, ",\n")
			if len(fragments) != 2 {
				t.Fatalf("Build() rendered %d fragments (%q), want 2", len(fragments), video)
			}
			for _, want := range tt.want {
				if !strings.Contains(video, want) {
					t.Errorf("Build() = %q, missing %q", video, want)
				}
			}
		})
	}
}

func TestConstraintsBuilderRendersEveryField(t *testing.T) {
	constraints, err := NewConstraintsBuilder().
		Resolution(Resolution{1920, 1080}).
		AspectRatio(1.777).
		FacingMode(FacingModeUser).
		FrameRate(30).
		ResizeMode(ResizeModeCropAndScale).
		DeviceID("cam0").
		GroupID("groupA").
		GroupIDExact(true).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	video := constraints.MediaRequest().Video
	for _, want := range []string{
		"width: { ideal: 1920 }",
		"height: { ideal: 1080 }",
		"aspectRatio: { ideal: 1.777 }",
		"facingMode: { ideal: user }",
		"frameRate: { ideal: 30 }",
		"resizeMode: { ideal: crop-and-scale }",
		"deviceId: { ideal: cam0 }",
		"groupId: { exact: groupA }",
	} {
		if !strings.Contains(video, want) {
			t.Errorf("Build() = %q, missing %q", video, want)
		}
	}

	// Fragments come out sorted.
	fragments := strings.Split(video, ",\n")
	for i := 1; i < len(fragments); i++ {
		if fragments[i-1] > fragments[i] {
			t.Errorf("fragments not sorted: %q before %q", fragments[i-1], fragments[i])
		}
	}
}

func TestConstraintsBuilderRejectsMalformedID(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"closing brace", "cam}0"},
		{"opening brace", "cam{0"},
		{"newline", "cam\n0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConstraintsBuilder().DeviceID(tt.id).Build()
			if err == nil {
				t.Fatalf("Build() with id %q = nil error, want structure error", tt.id)
			}
			var structErr *StructureError
			if !errors.As(err, &structErr) {
				t.Errorf("Build() error = %T, want *StructureError", err)
			}
		})
	}
}

func TestConstraintsApply(t *testing.T) {
	constraints, err := NewConstraintsBuilder().Resolution(Resolution{640, 480}).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	constraints.FrameRate = 60
	if strings.Contains(constraints.MediaRequest().Video, "frameRate") {
		t.Error("field edit changed the request before Apply()")
	}

	if err := constraints.Apply(); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !strings.Contains(constraints.MediaRequest().Video, "frameRate: { ideal: 60 }") {
		t.Errorf("MediaRequest() after Apply = %q, missing frame rate", constraints.MediaRequest().Video)
	}
}

func TestParseSupportedCapability(t *testing.T) {
	for c := CapabilityDeviceID; c <= CapabilityResizeMode; c++ {
		parsed, err := ParseSupportedCapability(c.String())
		if err != nil {
			t.Errorf("ParseSupportedCapability(%q) error = %v", c.String(), err)
			continue
		}
		if parsed != c {
			t.Errorf("ParseSupportedCapability(%q) = %v, want %v", c.String(), parsed, c)
		}
	}
	if _, err := ParseSupportedCapability("torch"); err == nil {
		t.Error("ParseSupportedCapability(torch) = nil error, want no-match error")
	}
}
