package yolox

import (
	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-yolox/images"
	"github.com/nvr-ai/go-yolox/models/model"
	"github.com/pkg/errors"
)

// LetterboxScale returns the uniform factor the frame was resized by to fit
// the network input while keeping its aspect ratio. Network coordinates are
// divided by it to get frame coordinates.
//
// Arguments:
//   - network: The network input size.
//   - frame: The source frame size.
//
// Returns:
//   - float32: min(network.Width/frame.Width, network.Height/frame.Height).
//   - error: ErrInvalidFrame or ErrInvalidConfig if a dimension is not positive.
func LetterboxScale(network model.NetworkInfo, frame images.Pixels) (float32, error) {
	if !frame.Valid() {
		return 0, errors.Wrapf(ErrInvalidFrame, "frame %s", frame)
	}
	if network.Width <= 0 || network.Height <= 0 {
		return 0, errors.Wrapf(ErrInvalidConfig, "network input %dx%d", network.Width, network.Height)
	}

	return math32.Min(
		float32(network.Width)/float32(frame.Width),
		float32(network.Height)/float32(frame.Height),
	), nil
}
