package yolox

import (
	"github.com/nvr-ai/go-yolox/logging"
	"github.com/nvr-ai/go-yolox/models/model"
	"github.com/nvr-ai/go-yolox/models/postprocess"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultOutput is the name of the detection output layer.
const DefaultOutput = "output0"

// DefaultNetwork is the input resolution the model is trained on.
var DefaultNetwork = model.NetworkInfo{Width: 512, Height: 288, Channels: 3}

// Options is the options for the YOLOX model.
type Options struct {
	Name    model.Name        `json:"name" yaml:"name"`
	Family  model.Family      `json:"family" yaml:"family"`
	Network model.NetworkInfo `json:"network" yaml:"network"`
	Output  string            `json:"output" yaml:"output"`
}

// YOLOX is the instance of the YOLOX rotated box and keypoint model. It holds
// only immutable configuration and is safe for concurrent use.
type YOLOX struct {
	options    Options
	thresholds postprocess.Thresholds
	workers    int
	log        logrus.FieldLogger
}

// Option customises a YOLOX instance.
type Option func(*YOLOX)

// WithLogger sets the logger validation failures and skipped classes are
// reported to. The default drops every entry.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *YOLOX) {
		if log != nil {
			m.log = log
		}
	}
}

// WithWorkers sets how many goroutines decode the instance table. Values
// below 2 decode on the calling goroutine.
func WithWorkers(n int) Option {
	return func(m *YOLOX) {
		m.workers = n
	}
}

// NewModel creates a new model.
//
// Arguments:
//   - args: The arguments for creating a new model. Network defaults to
//     DefaultNetwork and Outputs to DefaultOutput when empty.
//   - opts: Optional settings.
//
// Returns:
//   - *YOLOX: The model.
//   - error: ErrInvalidConfig if the thresholds are empty or the network size
//     is not positive.
func NewModel(args model.NewModelArgs, opts ...Option) (*YOLOX, error) {
	m, err := newModel(args, opts)
	if err != nil {
		return nil, err
	}
	if m.log == nil {
		m.log = logging.Discard()
	}
	return m, nil
}

// newModel builds the model without a default logger.
func newModel(args model.NewModelArgs, opts []Option) (*YOLOX, error) {
	network := args.Network
	if network == (model.NetworkInfo{}) {
		network = DefaultNetwork
	}
	if network.Width <= 0 || network.Height <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "network input %dx%d", network.Width, network.Height)
	}

	output := DefaultOutput
	if len(args.Outputs) > 0 && args.Outputs[0] != "" {
		output = args.Outputs[0]
	}

	if len(args.Thresholds) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "no class thresholds")
	}

	m := &YOLOX{
		options: Options{
			Name:    model.ModelNameYOLOXPose,
			Family:  model.ModelFamilyYOLO,
			Network: network,
			Output:  output,
		},
		thresholds: append(postprocess.Thresholds(nil), args.Thresholds...),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Options returns the base options of the model.
func (m *YOLOX) Options() model.BaseModel {
	return model.BaseModel{
		Name:    m.options.Name,
		Family:  m.options.Family,
		Network: m.options.Network,
		Outputs: []string{m.options.Output},
	}
}

// Logger returns the logger diagnostics are written to.
func (m *YOLOX) Logger() logrus.FieldLogger {
	return m.log
}

// Thresholds returns a copy of the per class thresholds.
func (m *YOLOX) Thresholds() postprocess.Thresholds {
	return append(postprocess.Thresholds(nil), m.thresholds...)
}
