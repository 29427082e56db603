// Package images provides frame geometry shared by the decoder: the pixel
// dimensions of the source stream, the named camera resolutions a pipeline can
// be configured with, and the floating point boxes detections are reported in.
package images

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// AspectRatio represents a frame aspect ratio by name (e.g., "16:9").
type AspectRatio string

// Defines standard aspect ratios for camera streams.
const (
	AspectRatio169 AspectRatio = "16:9"
	AspectRatio43  AspectRatio = "4:3"
	AspectRatio54  AspectRatio = "5:4"
)

// ResolutionType represents a common name for a stream resolution.
type ResolutionType string

// Defines the identifier of each supported stream resolution.
const (
	ResolutionTypeNHD      ResolutionType = "nHD"
	ResolutionTypeFWVGA    ResolutionType = "FWVGA"
	ResolutionTypeQHD540   ResolutionType = "qHD 540p"
	ResolutionTypeHD720p   ResolutionType = "HD 720p"
	ResolutionType1MP54    ResolutionType = "1MP (5:4)"
	ResolutionTypeFHD1080p ResolutionType = "Full HD 1080p"
	ResolutionType2MP43    ResolutionType = "2MP (4:3)"
	ResolutionTypeQHD1440p ResolutionType = "QHD 1440p"
	ResolutionType4KUHD    ResolutionType = "4K UHD"
)

// ErrUnknownResolution is returned when a resolution name cannot be resolved.
var ErrUnknownResolution = errors.New("unknown resolution")

// Pixels describes the exact dimensions of a frame.
type Pixels struct {
	Width  int `json:"width" yaml:"width" validate:"gt=0"`
	Height int `json:"height" yaml:"height" validate:"gt=0"`
}

// Valid reports whether both dimensions are strictly positive.
func (p Pixels) Valid() bool {
	return p.Width > 0 && p.Height > 0
}

// String formats the dimensions as WxH.
func (p Pixels) String() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// Resolution describes a named stream resolution.
type Resolution struct {
	Name        ResolutionType `json:"name"`
	AspectRatio AspectRatio    `json:"aspectRatio"`
	Pixels      Pixels         `json:"pixels"`
}

// GetMegaPixels calculates the megapixel value based on the resolution's pixel dimensions.
// It returns the value rounded to two decimal places (e.g., 2.07 for 1080p).
func (r Resolution) GetMegaPixels() float64 {
	if !r.Pixels.Valid() {
		return 0.0
	}
	mp := float64(r.Pixels.Width*r.Pixels.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Name, r.Pixels.Width, r.Pixels.Height, r.GetMegaPixels())
}

var resolutions = map[ResolutionType]Resolution{
	ResolutionTypeNHD: {
		Name:        ResolutionTypeNHD,
		AspectRatio: AspectRatio169,
		Pixels:      Pixels{Width: 640, Height: 360},
	},
	ResolutionTypeFWVGA: {
		Name:        ResolutionTypeFWVGA,
		AspectRatio: AspectRatio169,
		Pixels:      Pixels{Width: 854, Height: 480},
	},
	ResolutionTypeQHD540: {
		Name:        ResolutionTypeQHD540,
		AspectRatio: AspectRatio169,
		Pixels:      Pixels{Width: 960, Height: 540},
	},
	ResolutionTypeHD720p: {
		Name:        ResolutionTypeHD720p,
		AspectRatio: AspectRatio169,
		Pixels:      Pixels{Width: 1280, Height: 720},
	},
	ResolutionType1MP54: {
		Name:        ResolutionType1MP54,
		AspectRatio: AspectRatio54,
		Pixels:      Pixels{Width: 1280, Height: 1024},
	},
	ResolutionTypeFHD1080p: {
		Name:        ResolutionTypeFHD1080p,
		AspectRatio: AspectRatio169,
		Pixels:      Pixels{Width: 1920, Height: 1080},
	},
	ResolutionType2MP43: {
		Name:        ResolutionType2MP43,
		AspectRatio: AspectRatio43,
		Pixels:      Pixels{Width: 1600, Height: 1200},
	},
	ResolutionTypeQHD1440p: {
		Name:        ResolutionTypeQHD1440p,
		AspectRatio: AspectRatio169,
		Pixels:      Pixels{Width: 2560, Height: 1440},
	},
	ResolutionType4KUHD: {
		Name:        ResolutionType4KUHD,
		AspectRatio: AspectRatio169,
		Pixels:      Pixels{Width: 3840, Height: 2160},
	},
}

// GetResolutionByType retrieves a specific resolution by its type.
// It returns the Resolution and true if found, otherwise an empty Resolution and false.
func GetResolutionByType(t ResolutionType) (Resolution, bool) {
	res, ok := resolutions[t]
	return res, ok
}

// LookupResolution returns the standard resolution with exactly the given
// dimensions.
func LookupResolution(p Pixels) (Resolution, bool) {
	for _, res := range resolutions {
		if res.Pixels == p {
			return res, true
		}
	}
	return Resolution{}, false
}

// ParseResolution resolves a frame size from either a named resolution
// ("Full HD 1080p") or an explicit "WIDTHxHEIGHT" string ("1920x1080").
//
// Arguments:
//   - s: The resolution name or dimensions.
//
// Returns:
//   - Pixels: The resolved frame dimensions.
//   - error: ErrUnknownResolution if s matches neither form.
func ParseResolution(s string) (Pixels, error) {
	if res, ok := GetResolutionByType(ResolutionType(s)); ok {
		return res.Pixels, nil
	}

	w, h, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !found {
		return Pixels{}, errors.Wrapf(ErrUnknownResolution, "%q", s)
	}

	width, err := strconv.Atoi(w)
	if err != nil {
		return Pixels{}, errors.Wrapf(ErrUnknownResolution, "%q: width", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Pixels{}, errors.Wrapf(ErrUnknownResolution, "%q: height", s)
	}

	p := Pixels{Width: width, Height: height}
	if !p.Valid() {
		return Pixels{}, errors.Wrapf(ErrUnknownResolution, "%q: dimensions must be positive", s)
	}
	return p, nil
}
