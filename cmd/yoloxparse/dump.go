package main

import (
	"encoding/binary"
	"math"

	"github.com/nvr-ai/go-yolox/inference"
	"github.com/nvr-ai/go-yolox/models/yolox"
	"github.com/pkg/errors"
)

// errDumpSize is returned when a dump does not hold whole records.
var errDumpSize = errors.New("dump size is not a whole number of records")

// parseDump decodes a raw little-endian dump of the output layer.
//
// Arguments:
//   - data: The dump contents.
//   - name: The layer name to give the result.
//   - half: Whether the dump holds float16 values instead of float32.
//
// Returns:
//   - inference.Layer: A [N, RecordStride] float32 layer.
//   - error: An error if the dump holds a partial record.
func parseDump(data []byte, name string, half bool) (inference.Layer, error) {
	width := 4
	if half {
		width = 2
	}

	record := width * yolox.RecordStride
	if len(data)%record != 0 {
		return inference.Layer{}, errors.Wrapf(errDumpSize, "%d bytes, %d per record", len(data), record)
	}
	dims := inference.Dims{len(data) / record, yolox.RecordStride}

	if half {
		bits := make([]uint16, len(data)/2)
		for i := range bits {
			bits[i] = binary.LittleEndian.Uint16(data[i*2:])
		}
		return inference.LayerFromHalf(name, dims, bits)
	}

	buf := make([]float32, len(data)/4)
	for i := range buf {
		buf[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return inference.Layer{
		Name:     name,
		DataType: inference.Float,
		Dims:     dims,
		Buffer:   buf,
	}, nil
}
