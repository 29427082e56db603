package postprocess

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLabels(t *testing.T) {
	l, err := ReadLabels(strings.NewReader("  armor_red \n\narmor_blue\r\nbase\n\n\n"))
	require.NoError(t, err)

	assert.Equal(t, 4, l.Len())
	assert.Equal(t, "armor_red", l.Name(0))
	assert.Equal(t, "class 1", l.Name(1), "empty lines keep their index")
	assert.Equal(t, "armor_blue", l.Name(2))
	assert.Equal(t, "base", l.Name(3))
	assert.Equal(t, "class 4", l.Name(4))
	assert.Equal(t, "class -1", l.Name(-1))
}

func TestLoadLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("car\nperson\n"), 0o600))

	l, err := LoadLabels(path)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())

	idx, err := l.Index("person")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = LoadLabels(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLabelsIndex(t *testing.T) {
	l := NewLabels("a", "b", "a")

	idx, err := l.Index("a")
	require.NoError(t, err)
	assert.Equal(t, 0, idx, "the first occurrence wins")

	_, err = l.Index("c")
	assert.ErrorIs(t, err, ErrUnknownLabel)
}

func TestLabelsThresholds(t *testing.T) {
	l := NewLabels("car", "person", "bike")

	tests := []struct {
		name      string
		base      Thresholds
		overrides map[string]float32
		want      Thresholds
		err       error
	}{
		{name: "shared", base: Thresholds{0.5}, want: Thresholds{0.5, 0.5, 0.5}},
		{name: "shared with override", base: Thresholds{0.5}, overrides: map[string]float32{"person": 0.7}, want: Thresholds{0.5, 0.7, 0.5}},
		{name: "full table", base: Thresholds{0.1, 0.2, 0.3}, want: Thresholds{0.1, 0.2, 0.3}},
		{name: "full table with override", base: Thresholds{0.1, 0.2, 0.3}, overrides: map[string]float32{"bike": 0.9}, want: Thresholds{0.1, 0.2, 0.9}},
		{name: "count mismatch", base: Thresholds{0.1, 0.2}, err: ErrThresholdCount},
		{name: "empty base", base: nil, err: ErrThresholdCount},
		{name: "unknown label", base: Thresholds{0.5}, overrides: map[string]float32{"truck": 0.7}, err: ErrUnknownLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Thresholds(tt.base, tt.overrides)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelsThresholdsCopiesBase(t *testing.T) {
	base := Thresholds{0.1, 0.2}
	got, err := NewLabels("a", "b").Thresholds(base, map[string]float32{"a": 0.9})
	require.NoError(t, err)
	assert.Equal(t, Thresholds{0.9, 0.2}, got)
	assert.Equal(t, Thresholds{0.1, 0.2}, base)
}
