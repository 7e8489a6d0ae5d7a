// Package nokhwa provides browser-style camera capture primitives in Go:
// a format/control data model, pixel decoding for common camera formats,
// and a getUserMedia-style capture session built on injected runtime
// capabilities.
//
// Key pieces include:
//   - CameraFormat/Resolution/CameraControl (camera data model)
//   - MJPEGToRGB/YUYV422ToRGB pixel decoding (libturbojpeg when available)
//   - ConstraintsBuilder and Constraints (MediaTrackConstraints requests)
//   - Camera (getUserMedia-style capture session over a Runtime)
//   - FrameSource registry for platform capture backends
//   - MJPEGPacketizer (RTP/JPEG, RFC 2435)
//
// # Architecture
//
//	Capture: Runtime -> Open -> Camera -> Attach/FrameRaw -> Frame (RGB)
//	Decode:  FrameSource.ReadFrame -> DecodeFrame -> RGB pixels
//	Publish: MJPEG frame -> MJPEGPacketizer -> []*rtp.Packet
//
// # Native Libraries
//
// MJPEG decoding uses libturbojpeg through purego when the shared library
// is present (CGO_ENABLED=0). Set TURBOJPEG_LIB_PATH to override the
// search path. Without it the package falls back to the pure-Go JPEG
// decoder from the standard library.
package nokhwa
