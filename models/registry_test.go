package models

import (
	"testing"

	"github.com/nvr-ai/go-yolox/models/model"
	"github.com/nvr-ai/go-yolox/models/postprocess"
	"github.com/nvr-ai/go-yolox/models/yolox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	tests := []struct {
		name string
		args model.NewModelArgs
		err  error
	}{
		{
			name: "yolox pose",
			args: model.NewModelArgs{Name: model.ModelNameYOLOXPose, Thresholds: postprocess.Thresholds{0.5}},
		},
		{
			name: "default name",
			args: model.NewModelArgs{Thresholds: postprocess.Thresholds{0.5}},
		},
		{
			name: "unsupported",
			args: model.NewModelArgs{Name: "rfdetr", Thresholds: postprocess.Thresholds{0.5}},
			err:  ErrUnsupportedModel,
		},
		{
			name: "constructor error",
			args: model.NewModelArgs{Name: model.ModelNameYOLOXPose},
			err:  yolox.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewModel(tt.args)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.ModelNameYOLOXPose, m.Options().Name)
			assert.Equal(t, model.ModelFamilyYOLO, m.Options().Family)
			assert.Equal(t, yolox.DefaultNetwork, m.Options().Network)
		})
	}
}
