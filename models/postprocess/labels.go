package postprocess

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownLabel is returned when a label name is not in the label set.
	ErrUnknownLabel = errors.New("unknown label")
	// ErrThresholdCount is returned when a threshold table does not match the
	// label set.
	ErrThresholdCount = errors.New("threshold count does not match labels")
)

// Labels maps the class indices a model emits to human readable names.
type Labels struct {
	names     []string
	nameToIdx map[string]int
}

// NewLabels builds a label set. Index i of names is class i.
func NewLabels(names ...string) *Labels {
	l := &Labels{
		names:     append([]string(nil), names...),
		nameToIdx: make(map[string]int, len(names)),
	}
	for i, n := range l.names {
		if _, ok := l.nameToIdx[n]; !ok {
			l.nameToIdx[n] = i
		}
	}
	return l
}

// LoadLabels reads a label file holding one label per line.
//
// Arguments:
//   - file: The label file.
//
// Returns:
//   - *Labels: The label set.
//   - error: An error if the file cannot be read.
func LoadLabels(file string) (*Labels, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open label file")
	}
	defer f.Close()

	return ReadLabels(f)
}

// ReadLabels reads one label per line. Surrounding whitespace is trimmed and
// trailing empty lines are dropped; empty lines in between keep their index.
func ReadLabels(r io.Reader) (*Labels, error) {
	var names []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		names = append(names, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read labels")
	}

	for len(names) > 0 && names[len(names)-1] == "" {
		names = names[:len(names)-1]
	}

	return NewLabels(names...), nil
}

// Len returns the number of classes.
func (l *Labels) Len() int {
	return len(l.names)
}

// Name returns the label of class idx, or "class <idx>" when there is none.
func (l *Labels) Name(idx int) string {
	if idx >= 0 && idx < len(l.names) && l.names[idx] != "" {
		return l.names[idx]
	}
	return "class " + strconv.Itoa(idx)
}

// Index returns the class index of a label.
func (l *Labels) Index(name string) (int, error) {
	idx, ok := l.nameToIdx[name]
	if !ok {
		return -1, errors.Wrapf(ErrUnknownLabel, "%q", name)
	}
	return idx, nil
}

// Thresholds expands base to one threshold per label and applies the
// overrides keyed by label name. base holds either a single threshold shared
// by every class or exactly one threshold per label.
//
// Arguments:
//   - base: The shared threshold, or the full table.
//   - overrides: Thresholds by label name.
//
// Returns:
//   - Thresholds: Len() thresholds.
//   - error: ErrThresholdCount if base fits neither form, ErrUnknownLabel if
//     an override names no label.
func (l *Labels) Thresholds(base Thresholds, overrides map[string]float32) (Thresholds, error) {
	var t Thresholds
	switch len(base) {
	case 1:
		t = Uniform(len(l.names), base[0])
	case len(l.names):
		t = append(Thresholds(nil), base...)
	default:
		return nil, errors.Wrapf(ErrThresholdCount, "%d thresholds for %d labels", len(base), len(l.names))
	}

	for name, v := range overrides {
		idx, err := l.Index(name)
		if err != nil {
			return nil, err
		}
		t[idx] = v
	}
	return t, nil
}
