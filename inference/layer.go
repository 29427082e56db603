// Package inference - Output layers produced by an inference runtime.
//
// A Layer is the read-only view of one named output tensor after a forward
// pass: its element type, its declared dimensions and, for float layers, the
// backing buffer. Postprocessors locate the layer they need by name and type
// and validate its dimensions before interpreting the buffer.
package inference

import (
	"fmt"
	"strings"
)

// DataType is the element type of an output layer.
type DataType int

const (
	// Float is 32-bit IEEE-754.
	Float DataType = iota
	// Half is 16-bit IEEE-754.
	Half
	// Int8 is signed 8-bit integer.
	Int8
	// Int32 is signed 32-bit integer.
	Int32
)

// String returns a readable description of the DataType.
func (t DataType) String() string {
	switch t {
	case Float:
		return "FP32"
	case Half:
		return "FP16"
	case Int8:
		return "INT8"
	case Int32:
		return "INT32"
	default:
		return "UNKNOWN"
	}
}

// Dims are the declared dimensions of a layer, outermost first. The batch
// dimension is not included.
type Dims []int

// NumDims returns the rank.
func (d Dims) NumDims() int {
	return len(d)
}

// NumElements returns the product of all dimensions, 0 for an empty Dims.
func (d Dims) NumElements() int {
	if len(d) == 0 {
		return 0
	}
	n := 1
	for _, v := range d {
		n *= v
	}
	return n
}

// String formats the dimensions as [d0 d1 ...].
func (d Dims) String() string {
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Layer is a named output tensor.
type Layer struct {
	// Name is the output name declared by the model.
	Name string
	// DataType is the element type.
	DataType DataType
	// Dims are the declared dimensions.
	Dims Dims
	// Buffer holds the elements of a Float layer in row-major order. It is
	// owned by the runtime and must not be modified.
	Buffer []float32
}

// String returns the Layer's attributes formatted as a string.
func (l Layer) String() string {
	return fmt.Sprintf("name=%s, type=%s, dims=%s, len=%d", l.Name, l.DataType, l.Dims, len(l.Buffer))
}

// FindLayer returns the first layer with the given name and data type.
//
// Arguments:
//   - layers: The output layers of a forward pass.
//   - name: The output name to look for.
//   - dataType: The required element type.
//
// Returns:
//   - *Layer: The matching layer, nil if there is none.
func FindLayer(layers []Layer, name string, dataType DataType) *Layer {
	for i := range layers {
		if layers[i].DataType == dataType && layers[i].Name == name {
			return &layers[i]
		}
	}
	return nil
}
