package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"linewatch/internal/domain/entity"
	"linewatch/internal/imgproc"
)

// frameWithSpot строит серый кадр с тёмным круглым пятном.
func frameWithSpot(w, h, cx, cy, r int, bg, spot byte) *entity.Image {
	img := entity.NewFilledImage(w, h, 3, bg)
	imgproc.DrawCircle(img, cx, cy, r, imgproc.Color{spot, spot, spot}, -1)
	return img
}

func TestContaminationDetector_FindsDarkSpot(t *testing.T) {
	det := NewContaminationDetector("test", DefaultContaminationConfig())
	img := frameWithSpot(200, 200, 100, 100, 20, 200, 30)

	defects, err := det.Detect(img, nil)
	require.NoError(t, err)
	require.Len(t, defects, 1)

	d := defects[0]
	require.Equal(t, entity.DefectContamination, d.Type)
	require.InDelta(t, 100, d.Position[0], 3)
	require.InDelta(t, 100, d.Position[1], 3)
	require.GreaterOrEqual(t, d.Confidence, 0.3)
	require.Greater(t, d.Size, 0.0)

	require.Contains(t, d.Metadata, "intensity_diff")
	require.Contains(t, d.Metadata, "shape_score")
	require.Contains(t, d.Metadata, "color_score")
	_, ok := d.BoundingBox()
	require.True(t, ok)
}

func TestContaminationDetector_CleanFrameEmpty(t *testing.T) {
	det := NewContaminationDetector("test", DefaultContaminationConfig())
	img := entity.NewFilledImage(200, 200, 3, 200)

	defects, err := det.Detect(img, nil)
	require.NoError(t, err)
	require.Empty(t, defects)
}

func TestContaminationDetector_Deterministic(t *testing.T) {
	det := NewContaminationDetector("test", DefaultContaminationConfig())
	img := frameWithSpot(200, 200, 80, 120, 15, 200, 40)

	first, err := det.Detect(img, nil)
	require.NoError(t, err)
	second, err := det.Detect(img, nil)
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))
	if len(first) > 0 {
		require.Equal(t, first[0].Position, second[0].Position)
		require.Equal(t, first[0].Confidence, second[0].Confidence)
	}
}

func TestContaminationDetector_SizeGate(t *testing.T) {
	cfg := DefaultContaminationConfig()
	cfg.MaxContaminantSize = 50
	det := NewContaminationDetector("test", cfg)

	// Пятно радиуса 20 даёт компоненту заметно больше 50 пикселей.
	img := frameWithSpot(200, 200, 100, 100, 20, 200, 30)
	defects, err := det.Detect(img, nil)
	require.NoError(t, err)
	require.Empty(t, defects)
}

func TestContaminationDetector_DefaultsApplied(t *testing.T) {
	det := NewContaminationDetector("test", ContaminationConfig{})
	def := DefaultContaminationConfig()
	require.Equal(t, def.MinContaminantSize, det.cfg.MinContaminantSize)
	require.Equal(t, def.MaxContaminantSize, det.cfg.MaxContaminantSize)
	require.Equal(t, def.ContrastThreshold, det.cfg.ContrastThreshold)
	require.Equal(t, def.MinConfidence, det.cfg.MinConfidence)
	require.Equal(t, def.ContrastNorm, det.cfg.ContrastNorm)
}

func TestContaminationDetector_Visualize(t *testing.T) {
	det := NewContaminationDetector("test", DefaultContaminationConfig())
	img := frameWithSpot(200, 200, 100, 100, 20, 200, 30)

	defects, err := det.Detect(img, nil)
	require.NoError(t, err)
	require.NotEmpty(t, defects)

	viz := det.Visualize(img, defects)
	require.Equal(t, 3, viz.Channels)
	require.Equal(t, img.Width, viz.Width)
	require.NotEqual(t, img.Pix, viz.Pix)
}
