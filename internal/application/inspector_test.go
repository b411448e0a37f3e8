package application

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"linewatch/internal/domain/entity"
	"linewatch/internal/pipeline"
)

type failingStage struct{ err error }

func (s *failingStage) Name() string { return "failing" }

func (s *failingStage) Process(img *entity.Image, _ *pipeline.Context) (*entity.Image, error) {
	return nil, s.err
}

// fillStage заливает кадр одним значением.
type fillStage struct{ value byte }

func (s *fillStage) Name() string { return "fill" }

func (s *fillStage) Process(img *entity.Image, _ *pipeline.Context) (*entity.Image, error) {
	out := img.Clone()
	for i := range out.Pix {
		out.Pix[i] = s.value
	}
	return out, nil
}

type stubDetector struct {
	name    string
	defects []entity.Defect
	err     error
	calls   int
	seen    *entity.Image
}

func (d *stubDetector) Name() string { return d.name }

func (d *stubDetector) Detect(img *entity.Image, _ *pipeline.Context) ([]entity.Defect, error) {
	d.calls++
	d.seen = img
	return d.defects, d.err
}

// vizDetector — детектор с собственной визуализацией.
type vizDetector struct{ stubDetector }

func (d *vizDetector) Visualize(img *entity.Image, _ []entity.Defect) *entity.Image {
	return img.Clone()
}

func testFrame() *entity.Image {
	return entity.NewFilledImage(32, 32, 3, 180)
}

func TestInspector_SuccessfulInspection(t *testing.T) {
	in := NewInspector("line1", pipeline.New("empty"))
	result := in.Inspect(testFrame())

	require.True(t, result.Success)
	require.True(t, strings.HasPrefix(result.InspectionID, "line1_"))
	require.Contains(t, result.Images, "original")
	require.Contains(t, result.Images, "processed")
	require.Contains(t, result.Images, "visualization")
	require.Greater(t, result.ProcessingTime.Seconds(), 0.0)
	require.Equal(t, "line1", result.Metadata["inspector_id"])
}

func TestInspector_UniqueIDs(t *testing.T) {
	in := NewInspector("line1", pipeline.New("empty"))
	a := in.Inspect(testFrame())
	b := in.Inspect(testFrame())
	require.NotEqual(t, a.InspectionID, b.InspectionID)
}

func TestInspector_DetectorSeesProcessedImage(t *testing.T) {
	det := &stubDetector{name: "stub"}
	pipe := pipeline.New("fill", &fillStage{value: 200})
	in := NewInspector("line1", pipe, det)

	in.Inspect(entity.NewFilledImage(8, 8, 1, 10))

	require.Equal(t, 1, det.calls)
	require.Equal(t, byte(200), det.seen.Pix[0])
}

func TestInspector_PipelineFailure(t *testing.T) {
	pipe := pipeline.New("broken", &failingStage{err: errors.New("lens cap on")})
	det := &stubDetector{name: "stub"}
	in := NewInspector("line1", pipe, det)

	result := in.Inspect(testFrame())

	require.False(t, result.Success)
	require.Contains(t, result.Metadata["error"], "lens cap on")
	require.Empty(t, result.Defects)
	require.Equal(t, 0, det.calls)
	require.Contains(t, result.Images, "original")
	require.NotContains(t, result.Images, "visualization")
}

func TestInspector_DefectsCollected(t *testing.T) {
	det := &stubDetector{
		name: "stub",
		defects: []entity.Defect{{
			Type:       entity.DefectContamination,
			Position:   [2]int{10, 10},
			Size:       40,
			Confidence: 0.9,
		}},
	}
	in := NewInspector("line1", pipeline.New("empty"), det)

	result := in.Inspect(testFrame())

	require.True(t, result.Success)
	require.Equal(t, 1, result.DefectCount())
	require.Contains(t, result.Images, "visualization")
}

func TestInspector_VisualizerCalledWithoutDefects(t *testing.T) {
	det := &vizDetector{stubDetector{name: "clean"}}
	in := NewInspector("line1", pipeline.New("empty"), det)

	result := in.Inspect(testFrame())

	require.True(t, result.Success)
	require.Empty(t, result.Defects)
	require.Contains(t, result.Images, "visualization_clean")
	require.Contains(t, result.Images, "visualization")
}

func TestInspector_DetectorFailureStopsChain(t *testing.T) {
	good := &stubDetector{
		name:    "good",
		defects: []entity.Defect{{Type: entity.DefectContamination, Confidence: 0.8}},
	}
	bad := &stubDetector{name: "bad", err: errors.New("model not loaded")}
	after := &stubDetector{name: "after"}
	in := NewInspector("line1", pipeline.New("empty"), good, bad, after)

	result := in.Inspect(testFrame())

	require.False(t, result.Success)
	require.Equal(t, 1, result.DefectCount())
	require.Contains(t, result.Metadata["error"], "model not loaded")
	require.Equal(t, 0, after.calls)
}
