package yolox

import "github.com/nvr-ai/go-yolox/models/postprocess"

// Layout of one instance record in the output layer.
const (
	offCenterX = 0
	offCenterY = 1
	offWidth   = 2
	offHeight  = 3
	offAngle   = 4
	offScore   = 5
	offClass   = 6
	// offKeypoints is the first keypoint; each keypoint is x, y, visibility.
	offKeypoints   = 7
	keypointStride = 3

	// NumKeypoints is the number of keypoints in a record.
	NumKeypoints = postprocess.NumKeypoints
	// RecordStride is the number of float32 values per instance.
	RecordStride = 34
)

// RecordStride must cover exactly the header and the keypoint block.
var _ [0]struct{} = [RecordStride - offKeypoints - keypointStride*NumKeypoints]struct{}{}

// record is a read-only view of one instance. Its length is RecordStride.
type record []float32

func (r record) CenterX() float32 { return r[offCenterX] }
func (r record) CenterY() float32 { return r[offCenterY] }
func (r record) Width() float32   { return r[offWidth] }
func (r record) Height() float32  { return r[offHeight] }
func (r record) Angle() float32   { return r[offAngle] }
func (r record) Score() float32   { return r[offScore] }

// Class converts the stored class index once. Values that cannot be a class
// index (negative, NaN, out of int32 range) map to -1.
func (r record) Class() int {
	v := r[offClass]
	if !(v >= 0) || v > maxClass {
		return -1
	}
	return int(v)
}

const maxClass = 1<<31 - 1

// Keypoint returns keypoint k in network coordinates.
func (r record) Keypoint(k int) (x, y, visibility float32) {
	o := offKeypoints + k*keypointStride
	return r[o], r[o+1], r[o+2]
}

// records is the instance table of a validated output layer.
type records struct {
	buf []float32
	n   int
}

// Len returns the number of instances.
func (rs records) Len() int {
	return rs.n
}

// At returns instance i.
func (rs records) At(i int) record {
	o := i * RecordStride
	return record(rs.buf[o : o+RecordStride : o+RecordStride])
}
