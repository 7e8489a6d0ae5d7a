// Pure-Go MJPEG decompression, used when libturbojpeg is not present.
package nokhwa

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
)

// jpegFallbackToRGB decodes one baseline JPEG with the standard-library
// decoder and packs the scanlines into contiguous RGB888.
func jpegFallbackToRGB(data []byte) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ProcessFrameError{
			Src:         FrameFormatMJPEG,
			Destination: rgb888,
			Err:         err.Error(),
		}
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := make([]byte, width*height*3)
	oi := 0

	switch src := img.(type) {
	case *image.YCbCr:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				yi := src.YOffset(x, y)
				ci := src.COffset(x, y)
				r, g, b := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				out[oi] = r
				out[oi+1] = g
				out[oi+2] = b
				oi += 3
			}
		}
	case *image.Gray:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				v := src.GrayAt(x, y).Y
				out[oi] = v
				out[oi+1] = v
				out[oi+2] = v
				oi += 3
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				out[oi] = uint8(r >> 8)
				out[oi+1] = uint8(g >> 8)
				out[oi+2] = uint8(b >> 8)
				oi += 3
			}
		}
	}
	return out, nil
}
