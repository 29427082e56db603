package yolox

import (
	"github.com/nvr-ai/go-yolox/images"
	"github.com/nvr-ai/go-yolox/inference"
	"github.com/nvr-ai/go-yolox/models/model"
	"github.com/nvr-ai/go-yolox/models/postprocess"
	"github.com/sirupsen/logrus"
)

// ParseCustom is the bounding box parser entry point used by stream
// pipelines. It decodes the "output0" layer and appends the accepted
// detections to objects.
//
// It returns false, leaving objects untouched, when the output layer is
// missing, has the wrong shape, or the frame size is invalid. The reason is
// logged to the standard logrus logger. A true result with no new detections
// is a normal outcome.
//
// Arguments:
//   - layers: The output layers of one forward pass.
//   - network: The network input size.
//   - thresholds: The per class confidence thresholds.
//   - frame: The size of the muxer output frame.
//   - objects: The list detections are appended to.
//
// Returns:
//   - bool: Whether the output could be parsed.
func ParseCustom(
	layers []inference.Layer,
	network model.NetworkInfo,
	thresholds postprocess.Thresholds,
	frame images.Pixels,
	objects *[]postprocess.Detection,
) bool {
	log := logrus.StandardLogger()

	m, err := NewModel(model.NewModelArgs{
		Network:    network,
		Outputs:    []string{DefaultOutput},
		Thresholds: thresholds,
	}, WithLogger(log))
	if err != nil {
		log.WithError(err).Error("yolox: cannot create parser")
		return false
	}

	res, err := m.Decode(layers, frame)
	if err != nil {
		return false
	}

	*objects = append(*objects, res.Detections...)
	return true
}
