// Error types shared across the nokhwa package.
package nokhwa

import "fmt"

// StructureError reports a missing or mis-typed platform object, e.g. an
// element that could not be found or cast to the expected kind.
type StructureError struct {
	Structure string // Name of the structure that failed
	Err       string // What went wrong
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("could not get structure %s: %s", e.Structure, e.Err)
}

// SetPropertyError reports a presentation attribute that failed to apply.
type SetPropertyError struct {
	Property string // Attribute name
	Value    string // Value that failed to apply
	Err      string // What went wrong
}

func (e *SetPropertyError) Error() string {
	return fmt.Sprintf("could not set property %s to %s: %s", e.Property, e.Value, e.Err)
}

// ProcessFrameError reports a pixel-codec failure while converting an
// encoded frame into a pixel buffer.
type ProcessFrameError struct {
	Src         FrameFormat // Source encoding
	Destination string      // Target pixel layout, e.g. "RGB888"
	Err         string      // What went wrong
}

func (e *ProcessFrameError) Error() string {
	return fmt.Sprintf("could not process frame %s to %s: %s", e.Src, e.Destination, e.Err)
}

// ReadFrameError reports a drawing/readback failure or a buffer-size
// mismatch while producing a frame.
type ReadFrameError struct {
	Err string
}

func (e *ReadFrameError) Error() string {
	return fmt.Sprintf("could not read frame: %s", e.Err)
}

// NotImplementedError reports a control, format, or backend variant that has
// no mapping in this library.
type NotImplementedError struct {
	What string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("not implemented: %s", e.What)
}
