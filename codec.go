// Pixel codec: deterministic conversion of encoded camera frames into
// packed 8-bit pixel buffers. Pure functions, one output allocation, no I/O.
package nokhwa

import "fmt"

const rgb888 = "RGB888"

// MJPEGToRGB converts one motion-JPEG frame into packed RGB888
// (R,G,B,R,G,B,...). The output length always equals width*height*3, with
// width and height taken from the decoded JPEG header.
//
// Decoding goes through libturbojpeg when the shared library can be loaded
// (see TurboJPEGAvailable) and otherwise falls back to the pure-Go baseline
// decoder.
func MJPEGToRGB(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, &ProcessFrameError{
			Src:         FrameFormatMJPEG,
			Destination: rgb888,
			Err:         "empty frame",
		}
	}
	if turboJPEGUsable() {
		return turboJPEGToRGB(data)
	}
	return jpegFallbackToRGB(data)
}

// YUYV422ToRGB converts a packed YUYV 4:2:2 stream into RGB888. Each 4-byte
// group Y1,U,Y2,V yields two RGB pixels sharing the chroma pair (4:2:2
// upsampled to 4:4:4). The input length must be divisible by 4.
func YUYV422ToRGB(data []byte) ([]byte, error) {
	if len(data)%4 != 0 {
		return nil, &ProcessFrameError{
			Src:         FrameFormatYUYV,
			Destination: rgb888,
			Err:         "stream is not 4:2:2 (length not divisible by 4)",
		}
	}

	// 4 bytes in, 6 bytes (2 RGB pixels) out.
	out := make([]byte, len(data)/4*6)
	oi := 0
	for i := 0; i+3 < len(data); i += 4 {
		y1 := int32(data[i])
		u := int32(data[i+1])
		y2 := int32(data[i+2])
		v := int32(data[i+3])

		p1 := YUYV444ToRGB(y1, u, v)
		p2 := YUYV444ToRGB(y2, u, v)
		out[oi] = p1[0]
		out[oi+1] = p1[1]
		out[oi+2] = p1[2]
		out[oi+3] = p2[0]
		out[oi+4] = p2[1]
		out[oi+5] = p2[2]
		oi += 6
	}
	return out, nil
}

// YUYV444ToRGB converts one YCbCr 4:4:4 sample to an RGB888 pixel using the
// BT.601 integer approximation:
//
//	c = (Y-16)*298
//	R = clamp((c + 409*(V-128) + 128) >> 8)
//	G = clamp((c - 100*(U-128) - 208*(V-128) + 128) >> 8)
//	B = clamp((c + 516*(U-128) + 128) >> 8)
//
// This exact arithmetic is the behavioral contract of the codec.
func YUYV444ToRGB(y, u, v int32) [3]uint8 {
	c := (y - 16) * 298
	d := u - 128
	e := v - 128
	r := clampU8((c + 409*e + 128) >> 8)
	g := clampU8((c - 100*d - 208*e + 128) >> 8)
	b := clampU8((c + 516*d + 128) >> 8)
	return [3]uint8{r, g, b}
}

func clampU8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// rgbaToRGB repacks an RGBA32 buffer into RGB24, dropping alpha.
// The input length must be divisible by 4.
func rgbaToRGB(data []byte) ([]byte, error) {
	if len(data)%4 != 0 {
		return nil, &ReadFrameError{
			Err: fmt.Sprintf("RGBA buffer length %d is not divisible by 4", len(data)),
		}
	}
	out := make([]byte, len(data)/4*3)
	oi := 0
	for i := 0; i+3 < len(data); i += 4 {
		out[oi] = data[i]
		out[oi+1] = data[i+1]
		out[oi+2] = data[i+2]
		oi += 3
	}
	return out, nil
}
