// Package models - registry for model decoders.
package models

import (
	"github.com/nvr-ai/go-yolox/models/model"
	"github.com/nvr-ai/go-yolox/models/yolox"
	"github.com/pkg/errors"
)

// ErrUnsupportedModel is returned for a model name with no decoder.
var ErrUnsupportedModel = errors.New("unsupported model name")

// NewModel creates the decoder registered for args.Name.
//
// An empty name selects the YOLOX pose decoder.
//
// Arguments:
//   - args: The model name, network size, output names and thresholds.
//
// Returns:
//   - model.Model: The decoder.
//   - error: ErrUnsupportedModel, or the error of the decoder constructor.
//
// Example:
//
//	m, err := models.NewModel(model.NewModelArgs{
//	    Name:       model.ModelNameYOLOXPose,
//	    Thresholds: postprocess.Thresholds{0.5},
//	})
//	if err != nil {
//	    log.Fatalf("failed to create decoder: %v", err)
//	}
//	dets, err := m.PostProcess(layers, images.Pixels{Width: 1920, Height: 1080})
func NewModel(args model.NewModelArgs) (model.Model, error) {
	switch args.Name {
	case model.ModelNameYOLOXPose, "":
		m, err := yolox.NewModel(args)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedModel, "%q", args.Name)
	}
}
