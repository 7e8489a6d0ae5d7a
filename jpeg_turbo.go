//go:build darwin || linux

// MJPEG decompression via libturbojpeg, loaded at runtime with purego.
//
// The library is optional: loading is attempted once, and when it is absent
// the codec falls back to the pure-Go baseline decoder. Set
// TURBOJPEG_LIB_PATH to point at a specific shared library.

package nokhwa

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	turboJPEGOnce    sync.Once
	turboJPEGHandle  uintptr
	turboJPEGInitErr error
)

// libturbojpeg function pointers
var (
	tjInitDecompress    func() uintptr
	tjDecompressHeader3 func(handle uintptr, jpegBuf uintptr, jpegSize uint64, width, height, subsamp, colorspace uintptr) int32
	tjDecompress2       func(handle uintptr, jpegBuf uintptr, jpegSize uint64, dstBuf uintptr, width, pitch, height, pixelFormat, flags int32) int32
	tjGetErrorStr2      func(handle uintptr) uintptr
	tjDestroy           func(handle uintptr) int32
)

// TJPF_RGB from turbojpeg.h
const turboJPEGPixelFormatRGB = 0

// TurboJPEGAvailable reports whether libturbojpeg could be loaded. The MJPEG
// codec works either way; this only says which decoder backs it.
func TurboJPEGAvailable() bool {
	return loadTurboJPEG() == nil
}

func turboJPEGUsable() bool {
	return loadTurboJPEG() == nil
}

func loadTurboJPEG() error {
	turboJPEGOnce.Do(func() {
		turboJPEGInitErr = loadTurboJPEGLib()
	})
	return turboJPEGInitErr
}

func loadTurboJPEGLib() error {
	paths := turboJPEGLibPaths()

	var lastErr error
	for _, path := range paths {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			turboJPEGHandle = handle
			if err := loadTurboJPEGSymbols(); err != nil {
				purego.Dlclose(handle)
				lastErr = err
				continue
			}
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to load libturbojpeg: %w", lastErr)
}

func turboJPEGLibPaths() []string {
	var paths []string

	if envPath := os.Getenv("TURBOJPEG_LIB_PATH"); envPath != "" {
		paths = append(paths, envPath)
	}

	if runtime.GOOS == "darwin" {
		paths = append(paths,
			"libturbojpeg.dylib",
			"/opt/homebrew/lib/libturbojpeg.dylib",
			"/usr/local/lib/libturbojpeg.dylib",
		)
		return paths
	}

	paths = append(paths,
		"libturbojpeg.so.0",
		"libturbojpeg.so",
	)
	for _, dir := range []string{"/usr/lib", "/usr/local/lib", "/usr/lib/x86_64-linux-gnu", "/usr/lib/aarch64-linux-gnu"} {
		paths = append(paths, filepath.Join(dir, "libturbojpeg.so.0"))
	}
	return paths
}

func loadTurboJPEGSymbols() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to register libturbojpeg symbols: %v", r)
		}
	}()

	purego.RegisterLibFunc(&tjInitDecompress, turboJPEGHandle, "tjInitDecompress")
	purego.RegisterLibFunc(&tjDecompressHeader3, turboJPEGHandle, "tjDecompressHeader3")
	purego.RegisterLibFunc(&tjDecompress2, turboJPEGHandle, "tjDecompress2")
	purego.RegisterLibFunc(&tjGetErrorStr2, turboJPEGHandle, "tjGetErrorStr2")
	purego.RegisterLibFunc(&tjDestroy, turboJPEGHandle, "tjDestroy")
	return nil
}

func turboJPEGError(handle uintptr) string {
	msg := goStringFromPtr(tjGetErrorStr2(handle))
	if msg == "" {
		msg = "unknown turbojpeg error"
	}
	return msg
}

// turboJPEGToRGB decompresses one baseline JPEG into packed RGB888 using a
// per-call decompressor handle.
func turboJPEGToRGB(data []byte) ([]byte, error) {
	handle := tjInitDecompress()
	if handle == 0 {
		return nil, &ProcessFrameError{
			Src:         FrameFormatMJPEG,
			Destination: rgb888,
			Err:         "could not create turbojpeg decompressor",
		}
	}
	defer tjDestroy(handle)

	var width, height, subsamp, colorspace int32
	rc := tjDecompressHeader3(handle,
		uintptr(unsafe.Pointer(&data[0])), uint64(len(data)),
		uintptr(unsafe.Pointer(&width)), uintptr(unsafe.Pointer(&height)),
		uintptr(unsafe.Pointer(&subsamp)), uintptr(unsafe.Pointer(&colorspace)))
	if rc != 0 || width <= 0 || height <= 0 {
		return nil, &ProcessFrameError{
			Src:         FrameFormatMJPEG,
			Destination: rgb888,
			Err:         turboJPEGError(handle),
		}
	}

	out := make([]byte, int(width)*int(height)*3)
	rc = tjDecompress2(handle,
		uintptr(unsafe.Pointer(&data[0])), uint64(len(data)),
		uintptr(unsafe.Pointer(&out[0])),
		width, 0, height, turboJPEGPixelFormatRGB, 0)
	runtime.KeepAlive(data)
	if rc != 0 {
		return nil, &ProcessFrameError{
			Src:         FrameFormatMJPEG,
			Destination: rgb888,
			Err:         turboJPEGError(handle),
		}
	}
	return out, nil
}

// goStringFromPtr converts a C string pointer to a Go string.
func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := *(*unsafe.Pointer)(unsafe.Pointer(&ptr))
	var length int
	for {
		if *(*byte)(unsafe.Add(p, length)) == 0 {
			break
		}
		length++
		if length > 1024 { // Safety limit
			break
		}
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), length))
}
