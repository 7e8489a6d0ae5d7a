package nokhwa

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestYUYV444ToRGB(t *testing.T) {
	tests := []struct {
		name    string
		y, u, v int32
		want    [3]uint8
	}{
		{"black", 16, 128, 128, [3]uint8{0, 0, 0}},
		{"white", 235, 128, 128, [3]uint8{255, 255, 255}},
		{"red", 81, 90, 240, [3]uint8{255, 0, 0}},
		{"below black clamps", 0, 128, 128, [3]uint8{0, 0, 0}},
		{"above white clamps", 255, 128, 128, [3]uint8{255, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := YUYV444ToRGB(tt.y, tt.u, tt.v); got != tt.want {
				t.Errorf("YUYV444ToRGB(%d, %d, %d) = %v, want %v", tt.y, tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestYUYV422ToRGB(t *testing.T) {
	// One chroma pair shared by two luma samples: black then white.
	out, err := YUYV422ToRGB([]byte{16, 128, 235, 128})
	if err != nil {
		t.Fatalf("YUYV422ToRGB() error = %v", err)
	}
	want := []byte{0, 0, 0, 255, 255, 255}
	if !bytes.Equal(out, want) {
		t.Errorf("YUYV422ToRGB() = %v, want %v", out, want)
	}
}

func TestYUYV422ToRGBLength(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantOut int
		wantErr bool
	}{
		{"empty", 0, 0, false},
		{"one group", 4, 6, false},
		{"full row", 1280, 1920, false},
		{"truncated group", 6, 0, true},
		{"single byte", 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := YUYV422ToRGB(make([]byte, tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("YUYV422ToRGB(len %d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && len(out) != tt.wantOut {
				t.Errorf("YUYV422ToRGB(len %d) output length = %d, want %d", tt.input, len(out), tt.wantOut)
			}
		})
	}
}

func TestMJPEGToRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode() error = %v", err)
	}

	out, err := MJPEGToRGB(buf.Bytes())
	if err != nil {
		t.Fatalf("MJPEGToRGB() error = %v", err)
	}
	if len(out) != 32*24*3 {
		t.Errorf("MJPEGToRGB() output length = %d, want %d", len(out), 32*24*3)
	}
}

func TestMJPEGToRGBRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a JPEG", []byte("definitely not a jpeg")},
		{"truncated SOI", []byte{0xff, 0xd8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := MJPEGToRGB(tt.data); err == nil {
				t.Error("MJPEGToRGB() = nil error, want decode failure")
			}
		})
	}
}

func TestRGBAToRGB(t *testing.T) {
	out, err := rgbaToRGB([]byte{1, 2, 3, 255, 4, 5, 6, 0})
	if err != nil {
		t.Fatalf("rgbaToRGB() error = %v", err)
	}
	want := []byte{1, 2, 3, 4, 5, 6}
	if !bytes.Equal(out, want) {
		t.Errorf("rgbaToRGB() = %v, want %v", out, want)
	}

	if _, err := rgbaToRGB(make([]byte, 5)); err == nil {
		t.Error("rgbaToRGB(len 5) = nil error, want length error")
	}
}
