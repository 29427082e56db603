// Package postprocess - Detection records produced by output decoders.
package postprocess

import (
	"fmt"

	"github.com/nvr-ai/go-yolox/images"
)

// NumKeypoints is the number of landmarks attached to every detection.
const NumKeypoints = 9

// Keypoint is a landmark in frame pixel coordinates.
type Keypoint struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	// Visibility is the raw visibility score emitted by the network.
	Visibility float32 `json:"visibility"`
}

// Detection represents a single decoded instance.
type Detection struct {
	// Box is the unrotated box in frame pixel coordinates.
	Box images.Box `json:"box"`
	// Angle is the box rotation in radians.
	Angle float32 `json:"angle"`
	// Class is the predicted class index.
	Class int `json:"class"`
	// Confidence is the best class score. It is not clamped.
	Confidence float32 `json:"confidence"`
	// Keypoints are the landmarks in the fixed model order.
	Keypoints [NumKeypoints]Keypoint `json:"keypoints"`
}

// Corners returns the four corners of the rotated box.
func (d Detection) Corners() [4]images.Point {
	return d.Box.Corners(d.Angle)
}

// String formats the detection for logs.
func (d Detection) String() string {
	return fmt.Sprintf("class %d (confidence %f): (%f, %f) %fx%f angle %f",
		d.Class, d.Confidence, d.Box.Left, d.Box.Top, d.Box.Width, d.Box.Height, d.Angle)
}

// Thresholds holds a minimum confidence per class, indexed by class id.
type Thresholds []float32

// Uniform returns a table of n classes sharing the same threshold.
func Uniform(n int, threshold float32) Thresholds {
	t := make(Thresholds, n)
	for i := range t {
		t[i] = threshold
	}
	return t
}

// Lookup returns the threshold of a class and whether the class is known.
func (t Thresholds) Lookup(class int) (float32, bool) {
	if class < 0 || class >= len(t) {
		return 0, false
	}
	return t[class], true
}

// Pass reports whether a score strictly exceeds the class threshold. Unknown
// classes never pass.
func (t Thresholds) Pass(class int, score float32) bool {
	threshold, ok := t.Lookup(class)
	return ok && score > threshold
}
