package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"linewatch/internal/domain/entity"
)

type stubStage struct {
	name  string
	err   error
	delay time.Duration
	calls int
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Process(img *entity.Image, _ *Context) (*entity.Image, error) {
	s.calls++
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	out := img.Clone()
	for i := range out.Pix {
		out.Pix[i]++
	}
	return out, nil
}

func TestPipeline_ProcessInOrder(t *testing.T) {
	p := New("test",
		&stubStage{name: "first"},
		&stubStage{name: "second"},
	)
	require.Equal(t, 2, p.Stages())

	img := entity.NewImage(2, 2, 1)
	pctx := p.Process(img, nil)

	require.True(t, pctx.Success)
	require.NoError(t, pctx.Err)
	require.Equal(t, "test", pctx.PipelineName)
	require.Equal(t, byte(2), pctx.ResultImage.Pix[0])
	require.Equal(t, byte(0), img.Pix[0])
}

func TestPipeline_StageTimesRecorded(t *testing.T) {
	p := New("timed",
		&stubStage{name: "slow", delay: 5 * time.Millisecond},
		&stubStage{name: "fast"},
	)
	pctx := p.Process(entity.NewImage(2, 2, 1), nil)

	require.Len(t, pctx.StageTimes, 2)
	require.GreaterOrEqual(t, pctx.StageTimes["slow"], 5*time.Millisecond)
	require.GreaterOrEqual(t, pctx.TotalTime, pctx.StageTimeTotal())
}

func TestPipeline_FailureShortCircuits(t *testing.T) {
	boom := errors.New("boom")
	last := &stubStage{name: "after"}
	p := New("failing",
		&stubStage{name: "ok"},
		&stubStage{name: "broken", err: boom},
		last,
	)

	pctx := p.Process(entity.NewImage(2, 2, 1), nil)

	require.False(t, pctx.Success)
	require.ErrorIs(t, pctx.Err, boom)
	require.Equal(t, "broken", pctx.ErrorStage)
	require.Equal(t, 0, last.calls)
	// Последний успешный кадр: выход стадии ok.
	require.Equal(t, byte(1), pctx.ResultImage.Pix[0])
	require.Greater(t, pctx.TotalTime, time.Duration(0))
}

func TestPipeline_AddStageChaining(t *testing.T) {
	p := New("chain").
		AddStage(&stubStage{name: "a"}).
		AddStage(&stubStage{name: "b"})
	require.Equal(t, 2, p.Stages())
}

func TestPipeline_ReusableAfterFailure(t *testing.T) {
	failing := &stubStage{name: "flaky", err: errors.New("once")}
	p := New("reuse", failing)

	pctx := p.Process(entity.NewImage(2, 2, 1), nil)
	require.False(t, pctx.Success)

	failing.err = nil
	pctx = p.Process(entity.NewImage(2, 2, 1), nil)
	require.True(t, pctx.Success)
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"basic", "bottle_base", "sidewall", "preform", "contamination"} {
		typ, err := ParseType(s)
		require.NoError(t, err)
		require.Equal(t, Type(s), typ)
	}
	_, err := ParseType("unknown")
	require.Error(t, err)
}

func TestNewFromType_BuildsStages(t *testing.T) {
	cases := map[Type]int{
		TypeBasic:         3,
		TypeBottleBase:    5,
		TypeSidewall:      4,
		TypePreform:       4,
		TypeContamination: 4,
	}
	for typ, stages := range cases {
		p, err := NewFromType("p", typ, nil)
		require.NoError(t, err)
		require.Equal(t, stages, p.Stages())
	}

	_, err := NewFromType("p", Type("bogus"), nil)
	require.Error(t, err)
}

func TestContourStage_CollectsContours(t *testing.T) {
	img := entity.NewImage(20, 20, 1)
	for y := 5; y <= 9; y++ {
		for x := 5; x <= 9; x++ {
			img.Set(x, y, 0, 255)
		}
	}

	stage := NewContourStage("contours", 10, 0, false)
	pctx := NewContext()
	_, err := stage.Process(img, pctx)
	require.NoError(t, err)
	require.Len(t, pctx.Contours, 1)
	require.Equal(t, 25, pctx.Contours[0].Area)
}
