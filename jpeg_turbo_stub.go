//go:build !darwin && !linux

package nokhwa

// Platforms without the purego loader always use the pure-Go decoder.

// TurboJPEGAvailable reports whether libturbojpeg could be loaded. The MJPEG
// codec works either way; this only says which decoder backs it.
func TurboJPEGAvailable() bool { return false }

func turboJPEGUsable() bool { return false }

func turboJPEGToRGB(data []byte) ([]byte, error) {
	return jpegFallbackToRGB(data)
}
