// Package yolox - postprocess the output of a YOLOX detector trained with
// rotated boxes and nine keypoints.
//
// The network emits a single float32 layer of shape [N, 34]. Each row is one
// candidate instance:
//
//	0-3   box center x, center y, width, height (network input space)
//	4     rotation angle in radians
//	5     best class score
//	6     best class index
//	7-33  nine keypoints as x, y, visibility
//
// Decoding maps every row back to frame space with the letterbox scale and
// keeps the rows whose score exceeds the threshold of their class. Rows are
// never sorted, merged or suppressed.
package yolox

import (
	"sync"

	"github.com/nvr-ai/go-yolox/images"
	"github.com/nvr-ai/go-yolox/inference"
	"github.com/nvr-ai/go-yolox/models/postprocess"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrMissingOutput is returned when no float32 layer has the output name.
	ErrMissingOutput = errors.New("output layer missing or unsupported data type")
	// ErrShapeMismatch is returned when the output layer does not hold
	// [N, RecordStride] records.
	ErrShapeMismatch = errors.New("output layer dimensions are incorrect")
	// ErrInvalidFrame is returned for a frame without positive dimensions.
	ErrInvalidFrame = errors.New("invalid frame dimensions")
	// ErrInvalidConfig is returned when the decoder cannot be configured.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Result is the outcome of decoding one frame.
type Result struct {
	// Detections are the accepted instances in ascending row order.
	Detections []postprocess.Detection
	// Instances is the number of rows in the output layer.
	Instances int
	// Rejected counts rows whose score did not exceed their threshold.
	Rejected int
	// UnknownClass counts rows whose class has no threshold.
	UnknownClass int
}

// Decode validates the output layer and decodes every instance in it.
//
// Arguments:
//   - layers: The output layers of one forward pass.
//   - frame: The size of the frame the network input was resized from.
//
// Returns:
//   - *Result: The accepted detections and counters.
//   - error: ErrMissingOutput, ErrShapeMismatch or ErrInvalidFrame. No partial
//     result is returned with an error.
func (m *YOLOX) Decode(layers []inference.Layer, frame images.Pixels) (*Result, error) {
	rs, err := m.validate(layers)
	if err != nil {
		m.log.WithError(err).WithField("output", m.options.Output).Error("yolox: cannot parse output layer")
		return nil, err
	}

	scale, err := LetterboxScale(m.options.Network, frame)
	if err != nil {
		m.log.WithError(err).WithField("frame", frame.String()).Error("yolox: cannot compute letterbox scale")
		return nil, err
	}

	res := m.decode(rs, scale)
	if res.UnknownClass > 0 {
		m.log.WithFields(logrus.Fields{
			"count":   res.UnknownClass,
			"classes": len(m.thresholds),
		}).Warn("yolox: skipped instances with unknown class")
	}

	return res, nil
}

// PostProcess decodes the output layers and returns only the detections.
func (m *YOLOX) PostProcess(layers []inference.Layer, frame images.Pixels) ([]postprocess.Detection, error) {
	res, err := m.Decode(layers, frame)
	if err != nil {
		return nil, err
	}
	return res.Detections, nil
}

// validate locates the output layer and checks it holds whole records.
func (m *YOLOX) validate(layers []inference.Layer) (records, error) {
	layer := inference.FindLayer(layers, m.options.Output, inference.Float)
	if layer == nil {
		return records{}, errors.Wrapf(ErrMissingOutput, "%q", m.options.Output)
	}

	if layer.Dims.NumDims() != 2 || layer.Dims[1] != RecordStride {
		return records{}, errors.Wrapf(ErrShapeMismatch, "%q: dims %s, want [N %d]",
			layer.Name, layer.Dims, RecordStride)
	}

	n := layer.Dims[0]
	if n < 0 || n > len(layer.Buffer)/RecordStride {
		return records{}, errors.Wrapf(ErrShapeMismatch, "%q: %d values for %d instances",
			layer.Name, len(layer.Buffer), n)
	}

	return records{buf: layer.Buffer, n: n}, nil
}

// decode walks every record. With more than one worker the rows are split
// into contiguous chunks whose results are joined in chunk order.
func (m *YOLOX) decode(rs records, scale float32) *Result {
	n := rs.Len()
	workers := m.workers
	if workers > n {
		workers = n
	}

	if workers <= 1 {
		c := m.decodeRange(rs, scale, 0, n)
		return &Result{
			Detections:   c.detections,
			Instances:    n,
			Rejected:     c.rejected,
			UnknownClass: c.unknown,
		}
	}

	size := (n + workers - 1) / workers
	chunks := make([]chunk, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		from := w * size
		to := min(from+size, n)
		wg.Add(1)
		go func(w, from, to int) {
			defer wg.Done()
			chunks[w] = m.decodeRange(rs, scale, from, to)
		}(w, from, to)
	}
	wg.Wait()

	res := &Result{Instances: n}
	total := 0
	for _, c := range chunks {
		total += len(c.detections)
	}
	res.Detections = make([]postprocess.Detection, 0, total)
	for _, c := range chunks {
		res.Detections = append(res.Detections, c.detections...)
		res.Rejected += c.rejected
		res.UnknownClass += c.unknown
	}

	return res
}

// chunk is the result of decoding a contiguous range of rows.
type chunk struct {
	detections []postprocess.Detection
	rejected   int
	unknown    int
}

func (m *YOLOX) decodeRange(rs records, scale float32, from, to int) chunk {
	var c chunk
	c.detections = make([]postprocess.Detection, 0)

	for i := from; i < to; i++ {
		r := rs.At(i)

		class := r.Class()
		if _, ok := m.thresholds.Lookup(class); !ok {
			c.unknown++
			continue
		}

		if !m.thresholds.Pass(class, r.Score()) {
			c.rejected++
			continue
		}

		c.detections = append(c.detections, decodeRecord(r, class, scale))
	}

	return c
}

// decodeRecord maps one record to frame space. The angle, score and
// visibilities are scale invariant.
func decodeRecord(r record, class int, scale float32) postprocess.Detection {
	cx := r.CenterX() / scale
	cy := r.CenterY() / scale
	w := r.Width() / scale
	h := r.Height() / scale

	det := postprocess.Detection{
		Box:        images.BoxFromCenter(cx, cy, w, h),
		Angle:      r.Angle(),
		Class:      class,
		Confidence: r.Score(),
	}

	for k := range det.Keypoints {
		x, y, v := r.Keypoint(k)
		det.Keypoints[k] = postprocess.Keypoint{
			X:          x / scale,
			Y:          y / scale,
			Visibility: v,
		}
	}

	return det
}
