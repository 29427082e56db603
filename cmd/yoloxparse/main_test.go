package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-yolox/images"
	"github.com/nvr-ai/go-yolox/inference"
	"github.com/nvr-ai/go-yolox/models/postprocess"
	"github.com/nvr-ai/go-yolox/models/yolox"
	"github.com/nvr-ai/go-yolox/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func encodeFloat32(values []float32) []byte {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}

func encodeHalf(values []float32) []byte {
	data := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(data[i*2:], float16.Fromfloat32(v).Bits())
	}
	return data
}

func sampleRecords(n int) []float32 {
	values := make([]float32, n*yolox.RecordStride)
	for i := range values {
		values[i] = float32(i%64) / 4
	}
	return values
}

func TestParseDump(t *testing.T) {
	values := sampleRecords(3)

	layer, err := parseDump(encodeFloat32(values), "output0", false)
	require.NoError(t, err)
	assert.Equal(t, "output0", layer.Name)
	assert.Equal(t, inference.Float, layer.DataType)
	assert.Equal(t, inference.Dims{3, yolox.RecordStride}, layer.Dims)
	assert.Equal(t, values, layer.Buffer)

	// Quarter steps up to 16 are exact in float16.
	layer, err = parseDump(encodeHalf(values), "output0", true)
	require.NoError(t, err)
	assert.Equal(t, inference.Dims{3, yolox.RecordStride}, layer.Dims)
	assert.Equal(t, values, layer.Buffer)
}

func TestParseDumpEmpty(t *testing.T) {
	layer, err := parseDump(nil, "output0", false)
	require.NoError(t, err)
	assert.Equal(t, inference.Dims{0, yolox.RecordStride}, layer.Dims)
}

func TestParseDumpPartialRecord(t *testing.T) {
	data := encodeFloat32(sampleRecords(2))

	_, err := parseDump(data[:len(data)-4], "output0", false)
	assert.ErrorIs(t, err, errDumpSize)

	_, err = parseDump(data[:3], "output0", true)
	assert.ErrorIs(t, err, errDumpSize)
}

func TestLoadDumps(t *testing.T) {
	dir := t.TempDir()
	data := encodeFloat32(sampleRecords(1))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame-3.bin"), data, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame-1.bin"), data, 0o600))

	dumps, err := loadDumps(dir)
	require.NoError(t, err)
	require.Len(t, dumps, 2)
	assert.Equal(t, 1, dumps[0].Frame)
	assert.Equal(t, 3, dumps[1].Frame)

	dumps, err = loadDumps(filepath.Join(dir, "frame-3.bin"))
	require.NoError(t, err)
	require.Len(t, dumps, 1)
	assert.Equal(t, 3, dumps[0].Frame)
	assert.Equal(t, data, dumps[0].Data)

	single := filepath.Join(t.TempDir(), "output0.bin")
	require.NoError(t, os.WriteFile(single, data, 0o600))
	dumps, err = loadDumps(single)
	require.NoError(t, err)
	assert.Equal(t, 0, dumps[0].Frame)

	_, err = loadDumps(filepath.Join(dir, "missing.bin"))
	assert.Error(t, err)
}

func TestDecodeRepeat(t *testing.T) {
	m, err := yolox.NewFromConfig(yolox.DefaultConfig())
	require.NoError(t, err)
	timer := profiler.NewTimeTracker("decode", 0)

	rec := make([]float32, yolox.RecordStride)
	rec[0], rec[1], rec[2], rec[3], rec[5] = 100, 50, 20, 10, 0.9
	layer, err := parseDump(encodeFloat32(rec), yolox.DefaultOutput, false)
	require.NoError(t, err)

	res, err := decode(m, timer, layer, images.Pixels{Width: 512, Height: 288}, 5)
	require.NoError(t, err)
	require.Len(t, res.Detections, 1)
	assert.Equal(t, images.Box{Left: 90, Top: 45, Width: 20, Height: 10}, res.Detections[0].Box)
	assert.Equal(t, int64(5), timer.Summary().Count)

	_, err = decode(m, timer, layer, images.Pixels{}, 3)
	assert.ErrorIs(t, err, yolox.ErrInvalidFrame)
	assert.Equal(t, int64(6), timer.Summary().Count, "decoding stops at the first failure")
}

func TestWriteDetections(t *testing.T) {
	dets := []postprocess.Detection{
		{Box: images.Box{Left: 90, Top: 45, Width: 20, Height: 10}, Class: 0, Confidence: 0.75},
		{Box: images.Box{Left: 1, Top: 2, Width: 3, Height: 4}, Class: 5, Confidence: 0.5},
	}

	var buf bytes.Buffer
	require.NoError(t, writeDetections(&buf, 12, dets, postprocess.NewLabels("armor")))

	var lines []detectionLine
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var line detectionLine
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, 12, lines[0].Frame)
	assert.Equal(t, "armor", lines[0].Label)
	assert.Equal(t, dets[0], lines[0].Detection)
	assert.Equal(t, [4]images.Point{{X: 90, Y: 45}, {X: 110, Y: 45}, {X: 110, Y: 55}, {X: 90, Y: 55}}, lines[0].Corners)
	assert.Equal(t, "class 5", lines[1].Label)
}

func TestWriteDetectionsWithoutLabels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDetections(&buf, 0, []postprocess.Detection{{Class: 2}}, nil))
	assert.NotContains(t, buf.String(), "label")
}

func TestNewDecoderSharesLogger(t *testing.T) {
	dir := t.TempDir()
	cfg := yolox.DefaultConfig()
	cfg.Log.File = filepath.Join(dir, "yoloxparse.log")
	cfg.Log.NoColors = true

	d, err := newDecoder(cfg)
	require.NoError(t, err)
	assert.Same(t, d.log, d.model.Logger(), "the decoder writes to the command logger")

	_, err = d.model.Decode(nil, images.Pixels{Width: 1920, Height: 1080})
	require.Error(t, err)
	d.log.Info("done")

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cannot parse output layer")
	assert.Contains(t, string(data), "done")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "a single log file is open")
}

func TestNewDecoderLabels(t *testing.T) {
	labelFile := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(labelFile, []byte("armor_red\narmor_blue\nbase\n"), 0o600))

	cfg := yolox.DefaultConfig()
	cfg.Log.Level = "error"
	cfg.Labels = labelFile
	cfg.Thresholds = postprocess.Thresholds{0.4}
	cfg.LabelThresholds = map[string]float32{"base": 0.8}

	d, err := newDecoder(cfg)
	require.NoError(t, err)
	require.NotNil(t, d.labels)
	assert.Equal(t, "armor_blue", d.labels.Name(1))
	assert.Equal(t, postprocess.Thresholds{0.4, 0.4, 0.8}, d.model.Thresholds())

	cfg.LabelThresholds = map[string]float32{"tower": 0.8}
	_, err = newDecoder(cfg)
	assert.ErrorIs(t, err, yolox.ErrInvalidConfig)
}

func TestFrameName(t *testing.T) {
	assert.Equal(t, "HD 720p (1280x720, 0.92MP)", frameName(images.Pixels{Width: 1280, Height: 720}))
	assert.Equal(t, "1000x1000", frameName(images.Pixels{Width: 1000, Height: 1000}))
}
