package inference

import (
	"github.com/pkg/errors"
	"github.com/x448/float16"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"
)

// ErrUnsupportedTensor is returned when a tensor cannot be viewed as a Layer.
var ErrUnsupportedTensor = errors.New("unsupported tensor")

// LayerFromDense wraps a gorgonia dense tensor as a Layer without copying its
// backing data. A leading batch dimension of 1 is dropped from the declared
// dimensions.
//
// Arguments:
//   - name: The output name.
//   - t: The dense tensor holding the output.
//
// Returns:
//   - Layer: The layer view.
//   - error: ErrUnsupportedTensor if the tensor is not float32.
func LayerFromDense(name string, t *tensor.Dense) (Layer, error) {
	if t == nil {
		return Layer{}, errors.Wrap(ErrUnsupportedTensor, "nil tensor")
	}
	if t.Dtype() != tensor.Float32 {
		return Layer{}, errors.Wrapf(ErrUnsupportedTensor, "%s: dtype %v", name, t.Dtype())
	}
	buf, ok := t.Data().([]float32)
	if !ok {
		return Layer{}, errors.Wrapf(ErrUnsupportedTensor, "%s: scalar tensor", name)
	}

	return Layer{
		Name:     name,
		DataType: Float,
		Dims:     dropBatch(Dims(t.Shape().Clone())),
		Buffer:   buf,
	}, nil
}

// LayerFromORT wraps an onnxruntime output tensor as a Layer without copying
// its backing data.
func LayerFromORT(name string, t *ort.Tensor[float32]) (Layer, error) {
	if t == nil {
		return Layer{}, errors.Wrap(ErrUnsupportedTensor, "nil tensor")
	}

	dims, err := dimsFromShape(t.GetShape())
	if err != nil {
		return Layer{}, errors.Wrap(err, name)
	}

	return Layer{
		Name:     name,
		DataType: Float,
		Dims:     dims,
		Buffer:   t.GetData(),
	}, nil
}

// dimsFromShape converts an onnxruntime shape, dropping a batch dimension of 1.
func dimsFromShape(shape ort.Shape) (Dims, error) {
	dims := make(Dims, len(shape))
	for i, v := range shape {
		if v < 0 {
			return nil, errors.Wrapf(ErrUnsupportedTensor, "dynamic dimension %d", i)
		}
		dims[i] = int(v)
	}
	return dropBatch(dims), nil
}

// LayerFromHalf converts half precision output bits into a Float layer. The
// conversion allocates a new buffer.
//
// Arguments:
//   - name: The output name.
//   - dims: The declared dimensions.
//   - bits: The raw IEEE-754 binary16 values.
//
// Returns:
//   - Layer: A Float layer holding the converted values.
//   - error: ErrUnsupportedTensor if the element count does not match dims.
func LayerFromHalf(name string, dims Dims, bits []uint16) (Layer, error) {
	if dims.NumElements() != len(bits) {
		return Layer{}, errors.Wrapf(ErrUnsupportedTensor, "%s: %d values for dims %s", name, len(bits), dims)
	}

	buf := make([]float32, len(bits))
	for i, b := range bits {
		buf[i] = float16.Frombits(b).Float32()
	}

	return Layer{
		Name:     name,
		DataType: Float,
		Dims:     dims,
		Buffer:   buf,
	}, nil
}

func dropBatch(d Dims) Dims {
	if len(d) > 2 && d[0] == 1 {
		return d[1:]
	}
	return d
}
