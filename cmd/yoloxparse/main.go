// Command yoloxparse decodes raw dumps of the YOLOX pose output layer and
// prints one JSON object per accepted detection.
//
// -dump names a single dump or a directory of "frame-<N>.bin" dumps, which
// are decoded in frame order.
package main

import (
	"flag"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/nvr-ai/go-yolox/images"
	"github.com/nvr-ai/go-yolox/inference"
	"github.com/nvr-ai/go-yolox/logging"
	"github.com/nvr-ai/go-yolox/models/postprocess"
	"github.com/nvr-ai/go-yolox/models/yolox"
	"github.com/nvr-ai/go-yolox/profiler"
	"github.com/nvr-ai/go-yolox/util"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// detectionLine is one line of output.
type detectionLine struct {
	postprocess.Detection
	Frame   int             `json:"frame"`
	Label   string          `json:"label,omitempty"`
	Corners [4]images.Point `json:"corners"`
}

func main() {
	configFile := flag.String("config", "", "YAML decoder configuration (defaults are used when empty)")
	dumpPath := flag.String("dump", "output0.bin", "Raw little-endian dump of the output layer, or a directory of frame-<N>.bin dumps")
	half := flag.Bool("half", false, "The dumps hold float16 values")
	frame := flag.String("frame", "", "Frame size as WIDTHxHEIGHT or a resolution name; overrides the configuration")
	labelFile := flag.String("labels", "", "Text file with one class label per line")
	workers := flag.Int("workers", -1, "Decode goroutines; overrides the configuration when set")
	repeat := flag.Int("repeat", 1, "Decode every dump this many times and log timing statistics")
	flag.Parse()

	cfg := yolox.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = yolox.LoadConfig(*configFile); err != nil {
			logrus.WithError(err).Fatal("failed to load configuration")
		}
	}
	if *frame != "" {
		cfg.Resolution = *frame
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if *labelFile != "" {
		cfg.Labels = *labelFile
	}

	d, err := newDecoder(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create decoder")
	}
	log, cfg := d.log, d.cfg

	dumps, err := loadDumps(*dumpPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load output dumps")
	}

	timer := profiler.NewTimeTracker("decode", 0)
	failed := false
	for _, dump := range dumps {
		layer, err := parseDump(dump.Data, cfg.Output, *half)
		if err != nil {
			log.WithError(err).WithField("path", dump.Path).Error("failed to parse output dump")
			failed = true
			continue
		}

		res, err := decode(d.model, timer, layer, cfg.Frame, max(*repeat, 1))
		if err != nil {
			failed = true
			continue
		}

		if err := writeDetections(os.Stdout, dump.Frame, res.Detections, d.labels); err != nil {
			log.WithError(err).Fatal("failed to write detections")
		}

		log.WithFields(logrus.Fields{
			"path":      dump.Path,
			"instances": res.Instances,
			"accepted":  len(res.Detections),
			"rejected":  res.Rejected,
			"unknown":   res.UnknownClass,
			"frame":     frameName(cfg.Frame),
		}).Info("decoded output layer")
	}

	log.WithFields(timer.Summary().Fields()).Info("decode timing")

	if failed {
		os.Exit(1)
	}
}

// decoder is the validated configuration and what was built from it.
type decoder struct {
	cfg    yolox.Config
	log    *logrus.Logger
	model  *yolox.YOLOX
	labels *postprocess.Labels
}

// newDecoder validates cfg and builds the logger, the model and the label
// set. The command and the model write to the same logger.
func newDecoder(cfg yolox.Config) (*decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	m, err := yolox.NewFromConfig(cfg, yolox.WithLogger(log))
	if err != nil {
		return nil, err
	}

	labels, err := cfg.LoadLabels()
	if err != nil {
		return nil, err
	}

	return &decoder{cfg: cfg, log: log, model: m, labels: labels}, nil
}

// frameName names a frame size after its standard resolution when it has one.
func frameName(p images.Pixels) string {
	if res, ok := images.LookupResolution(p); ok {
		return res.String()
	}
	return p.String()
}

// decode runs the decoder repeat times on the same layer and returns the
// last result.
func decode(m *yolox.YOLOX, timer *profiler.TimeTracker, layer inference.Layer, frame images.Pixels, repeat int) (*yolox.Result, error) {
	var res *yolox.Result
	for i := 0; i < repeat; i++ {
		err := timer.Time(func() error {
			var err error
			res, err = m.Decode([]inference.Layer{layer}, frame)
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// loadDumps reads a single dump file or a directory of dumps.
func loadDumps(path string) ([]util.DumpFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return util.LoadDirectoryDumpFiles(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	frame, err := util.FrameNumber(path)
	if err != nil {
		frame = 0
	}
	return []util.DumpFile{{Path: path, Data: data, Frame: frame}}, nil
}

// writeDetections writes one JSON line per detection.
func writeDetections(w io.Writer, frame int, dets []postprocess.Detection, labels *postprocess.Labels) error {
	enc := json.NewEncoder(w)
	for _, d := range dets {
		line := detectionLine{Detection: d, Frame: frame, Corners: d.Corners()}
		if labels != nil {
			line.Label = labels.Name(d.Class)
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}
