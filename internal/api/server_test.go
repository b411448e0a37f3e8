package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"linewatch/internal/application"
	"linewatch/internal/domain/entity"
	"linewatch/internal/pipeline"
)

type fakeSource struct{}

func (s *fakeSource) Open() error { return nil }

func (s *fakeSource) Read() (*entity.Image, error) {
	return entity.NewFilledImage(16, 16, 3, 180), nil
}

func (s *fakeSource) Close() {}

func newTestServer(t *testing.T) (*Server, *application.Station) {
	t.Helper()
	sys := application.NewSystem()
	st := application.NewStation("line1", &fakeSource{},
		application.NewInspector("line1", pipeline.New("empty")), nil, time.Millisecond)
	sys.AddStation(st)
	t.Cleanup(sys.Stop)
	return NewServer(":0", sys), st
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

func TestServer_Status(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var status application.SystemStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, 1, status.StationCount)
	require.Contains(t, status.Stations, "line1")
}

func TestServer_StationNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/stations/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StartStopStation(t *testing.T) {
	srv, st := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/stations/line1/start")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, st.Running())

	// Повторный старт работающей станции - конфликт.
	rec = doRequest(t, srv, http.MethodPost, "/api/stations/line1/start")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/stations/line1/stop")
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, st.Running())
}

func TestServer_SnapshotBeforeInspection(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/stations/line1/snapshot")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Snapshot(t *testing.T) {
	srv, st := newTestServer(t)
	require.NoError(t, st.Start())
	require.Eventually(t, func() bool {
		return st.Status().FramesProcessed > 0
	}, time.Second, 5*time.Millisecond)
	st.Stop()

	rec := doRequest(t, srv, http.MethodGet, "/api/stations/line1/snapshot?image=original")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	require.NotEmpty(t, rec.Body.Bytes())

	rec = doRequest(t, srv, http.MethodGet, "/api/stations/line1/snapshot?image=absent")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
