// Package model - Definitions shared by every model decoder.
package model

import (
	"github.com/nvr-ai/go-yolox/images"
	"github.com/nvr-ai/go-yolox/inference"
	"github.com/nvr-ai/go-yolox/models/postprocess"
)

// Family is the family of models.
type Family string

const (
	// ModelFamilyYOLO is the YOLO model family.
	ModelFamilyYOLO Family = "yolo"
)

// Name is the unique identifier of a model.
type Name string

const (
	// ModelNameYOLOXPose is the YOLOX detector with rotated boxes and keypoints.
	ModelNameYOLOXPose Name = "yolox-pose"
)

// NetworkInfo describes the input the network was trained on. Decoders use it
// to map network space coordinates back to the source frame.
type NetworkInfo struct {
	// Width is the network input width in pixels.
	Width int `json:"width" yaml:"width" validate:"gt=0"`
	// Height is the network input height in pixels.
	Height int `json:"height" yaml:"height" validate:"gt=0"`
	// Channels is the number of input channels.
	Channels int `json:"channels" yaml:"channels" validate:"gte=0"`
}

// BaseModel is the base model for all models.
type BaseModel struct {
	Name    Name
	Family  Family
	Network NetworkInfo
	Outputs []string
}

// Model turns the output layers of one forward pass into detections.
type Model interface {
	Options() BaseModel
	PostProcess(layers []inference.Layer, frame images.Pixels) ([]postprocess.Detection, error)
}

// NewModelArgs is the arguments for creating a new model.
type NewModelArgs struct {
	Name       Name                   `json:"name" yaml:"name"`
	Network    NetworkInfo            `json:"network" yaml:"network"`
	Outputs    []string               `json:"outputs" yaml:"outputs"`
	Thresholds postprocess.Thresholds `json:"thresholds" yaml:"thresholds"`
}
