package yolox

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/nvr-ai/go-yolox/images"
	"github.com/nvr-ai/go-yolox/logging"
	"github.com/nvr-ai/go-yolox/models/model"
	"github.com/nvr-ai/go-yolox/models/postprocess"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the pipeline configuration of the decoder.
type Config struct {
	// Network is the input size the model was trained on.
	Network model.NetworkInfo `json:"network" yaml:"network"`
	// Output is the name of the detection layer.
	Output string `json:"output" yaml:"output" validate:"required"`
	// Thresholds are the per class confidence thresholds. With Labels set it
	// may hold a single threshold shared by every label.
	Thresholds postprocess.Thresholds `json:"thresholds" yaml:"thresholds" validate:"min=1"`
	// Labels, when set, is a label file with one class name per line.
	Labels string `json:"labels" yaml:"labels"`
	// LabelThresholds overrides Thresholds by label name. Requires Labels.
	LabelThresholds map[string]float32 `json:"label_thresholds" yaml:"label_thresholds"`
	// Frame is the muxer output frame size.
	Frame images.Pixels `json:"frame" yaml:"frame"`
	// Resolution, when set, names the frame size instead of Frame. It accepts
	// a resolution name ("HD 720p") or "WIDTHxHEIGHT".
	Resolution string `json:"resolution" yaml:"resolution"`
	// Workers is the number of goroutines decoding one frame.
	Workers int `json:"workers" yaml:"workers" validate:"gte=0"`
	// Log configures the decoder logger.
	Log logging.Config `json:"log" yaml:"log"`
}

// DefaultConfig returns the configuration of the stock model: a 512x288
// network, one class at 0.5 and Full HD frames.
func DefaultConfig() Config {
	return Config{
		Network:    DefaultNetwork,
		Output:     DefaultOutput,
		Thresholds: postprocess.Thresholds{0.5},
		Frame:      images.Pixels{Width: 1920, Height: 1080},
		Workers:    1,
		Log:        logging.DefaultConfig(),
	}
}

var validate = validator.New()

// Validate resolves Resolution into Frame, expands Thresholds to one entry
// per label when Labels is set, and checks every field. Validating twice
// gives the same result.
//
// Returns:
//   - error: ErrInvalidConfig wrapping the first problems found.
func (c *Config) Validate() error {
	if c.Resolution != "" {
		frame, err := images.ParseResolution(c.Resolution)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "resolution: %v", err)
		}
		c.Frame = frame
	}

	labels, err := c.LoadLabels()
	if err != nil {
		return errors.Wrapf(ErrInvalidConfig, "labels: %v", err)
	}
	if labels != nil {
		thresholds, err := labels.Thresholds(c.Thresholds, c.LabelThresholds)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "labels: %v", err)
		}
		c.Thresholds = thresholds
	} else if len(c.LabelThresholds) > 0 {
		return errors.Wrap(ErrInvalidConfig, "label_thresholds requires labels")
	}

	if err := validate.Struct(c); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%v", err)
	}
	return nil
}

// LoadLabels reads the label file named by Labels. It returns nil without an
// error when Labels is empty.
func (c *Config) LoadLabels() (*postprocess.Labels, error) {
	if c.Labels == "" {
		return nil, nil
	}
	return postprocess.LoadLabels(c.Labels)
}

// LoadConfig reads a YAML configuration. Fields missing from the file keep
// their DefaultConfig value.
//
// Arguments:
//   - path: The configuration file.
//
// Returns:
//   - Config: The validated configuration.
//   - error: An error if the file cannot be read, parsed or validated.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config file")
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig builds the model described by cfg.
//
// The decoder logs to a new logger built from cfg.Log unless opts carry
// WithLogger, in which case cfg.Log is not used and no log file is opened.
//
// Arguments:
//   - cfg: A configuration; it is validated first.
//   - opts: Optional settings applied after cfg.Workers.
//
// Returns:
//   - *YOLOX: The model.
//   - error: An error if the configuration is invalid.
func NewFromConfig(cfg Config, opts ...Option) (*YOLOX, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m, err := newModel(model.NewModelArgs{
		Name:       model.ModelNameYOLOXPose,
		Network:    cfg.Network,
		Outputs:    []string{cfg.Output},
		Thresholds: cfg.Thresholds,
	}, append([]Option{WithWorkers(cfg.Workers)}, opts...))
	if err != nil {
		return nil, err
	}

	if m.log == nil {
		log, err := logging.New(cfg.Log)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "%v", err)
		}
		m.log = log
	}

	return m, nil
}
