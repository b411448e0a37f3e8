package application

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"linewatch/internal/domain/entity"
	"linewatch/internal/pipeline"
)

type fakeSource struct {
	openErr error
	readErr error
	reads   atomic.Int64
	closed  atomic.Bool
}

func (s *fakeSource) Open() error { return s.openErr }

func (s *fakeSource) Read() (*entity.Image, error) {
	s.reads.Add(1)
	if s.readErr != nil {
		return nil, s.readErr
	}
	return entity.NewFilledImage(16, 16, 3, 180), nil
}

func (s *fakeSource) Close() { s.closed.Store(true) }

func newTestStation(src *fakeSource, rate time.Duration) *Station {
	return NewStation("st1", src, NewInspector("st1", pipeline.New("empty")), nil, rate)
}

func TestStation_StartStop(t *testing.T) {
	src := &fakeSource{}
	st := newTestStation(src, time.Millisecond)

	require.NoError(t, st.Start())
	require.True(t, st.Running())

	require.Eventually(t, func() bool {
		return st.Status().FramesProcessed > 0
	}, time.Second, 5*time.Millisecond)

	st.Stop()
	require.False(t, st.Running())
	require.True(t, src.closed.Load())

	_, ok := st.LastResult()
	require.True(t, ok)
}

func TestStation_DoubleStartFails(t *testing.T) {
	st := newTestStation(&fakeSource{}, time.Millisecond)
	require.NoError(t, st.Start())
	defer st.Stop()

	require.Error(t, st.Start())
}

func TestStation_StopIdempotent(t *testing.T) {
	st := newTestStation(&fakeSource{}, time.Millisecond)
	st.Stop()
	st.Stop()
	require.False(t, st.Running())
}

func TestStation_OpenFailure(t *testing.T) {
	src := &fakeSource{openErr: errors.New("device busy")}
	st := newTestStation(src, time.Millisecond)

	require.Error(t, st.Start())
	require.False(t, st.Running())
}

func TestStation_ReadErrorsDoNotStopLoop(t *testing.T) {
	src := &fakeSource{readErr: errors.New("frame lost")}
	st := newTestStation(src, time.Millisecond)

	require.NoError(t, st.Start())
	require.Eventually(t, func() bool {
		return src.reads.Load() >= 2
	}, time.Second, 5*time.Millisecond)
	st.Stop()

	require.Equal(t, int64(0), st.Status().FramesProcessed)
}

func TestStation_RestartAfterStop(t *testing.T) {
	st := newTestStation(&fakeSource{}, time.Millisecond)
	require.NoError(t, st.Start())
	st.Stop()
	require.NoError(t, st.Start())
	st.Stop()
}

func TestStation_UpdateStatsEMA(t *testing.T) {
	st := newTestStation(&fakeSource{}, 0)

	st.updateStats(&entity.InspectionResult{ProcessingTime: 100 * time.Millisecond})
	require.InDelta(t, 0.1, st.Status().AvgProcessingTime, 1e-9)

	st.updateStats(&entity.InspectionResult{ProcessingTime: 200 * time.Millisecond})
	require.InDelta(t, 0.11, st.Status().AvgProcessingTime, 1e-9)

	st.updateStats(&entity.InspectionResult{
		ProcessingTime: 100 * time.Millisecond,
		Defects:        []entity.Defect{{}, {}},
	})
	status := st.Status()
	require.Equal(t, int64(3), status.FramesProcessed)
	require.Equal(t, int64(1), status.DefectsDetected)
	require.False(t, status.LastResultTime.IsZero())
}

func TestStation_DefectsCountedPerFrame(t *testing.T) {
	st := newTestStation(&fakeSource{}, 0)
	for i := 0; i < 3; i++ {
		st.updateStats(&entity.InspectionResult{
			Defects: []entity.Defect{{}, {}, {}},
		})
	}
	st.updateStats(&entity.InspectionResult{})

	status := st.Status()
	require.Equal(t, int64(4), status.FramesProcessed)
	require.Equal(t, int64(3), status.DefectsDetected)
}

func TestStation_FrameDelay(t *testing.T) {
	st := newTestStation(&fakeSource{}, 100*time.Millisecond)
	require.Equal(t, 70*time.Millisecond, st.frameDelay(30*time.Millisecond))
	require.Equal(t, time.Duration(0), st.frameDelay(150*time.Millisecond))
	require.Equal(t, time.Duration(0), st.frameDelay(100*time.Millisecond))

	unlimited := newTestStation(&fakeSource{}, 0)
	require.Equal(t, time.Duration(0), unlimited.frameDelay(30*time.Millisecond))
}

func TestStation_EMAConverges(t *testing.T) {
	st := newTestStation(&fakeSource{}, 0)
	for i := 0; i < 100; i++ {
		st.updateStats(&entity.InspectionResult{ProcessingTime: 50 * time.Millisecond})
	}
	require.InDelta(t, 0.05, st.Status().AvgProcessingTime, 1e-6)
}
