//go:build gocv
// +build gocv

package acquisition

import (
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"

	"linewatch/internal/domain/entity"
	"linewatch/internal/domain/port"
)

// CameraSource читает кадры с физической камеры через OpenCV.
type CameraSource struct {
	id       string
	deviceID int
	width    int
	height   int
	capture  *gocv.VideoCapture
	mat      gocv.Mat
	log      *slog.Logger
}

// NewCameraSource создаёт источник для камеры deviceID. Нулевые размеры
// оставляют нативное разрешение устройства.
func NewCameraSource(id string, deviceID, width, height int) (port.ImageSource, error) {
	return &CameraSource{
		id:       id,
		deviceID: deviceID,
		width:    width,
		height:   height,
		log:      slog.Default().With("component", "source", "source", id),
	}, nil
}

// Open захватывает устройство и при необходимости задаёт разрешение.
func (s *CameraSource) Open() error {
	capture, err := gocv.OpenVideoCapture(s.deviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", s.deviceID, err)
	}
	if s.width > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(s.width))
	}
	if s.height > 0 {
		capture.Set(gocv.VideoCaptureFrameHeight, float64(s.height))
	}
	s.capture = capture
	s.mat = gocv.NewMat()
	s.log.Info("camera source opened", "device", s.deviceID)
	return nil
}

// Read забирает очередной кадр с камеры.
func (s *CameraSource) Read() (*entity.Image, error) {
	if s.capture == nil {
		return nil, fmt.Errorf("camera source %s is not opened", s.id)
	}
	if ok := s.capture.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, fmt.Errorf("camera %d returned no frame", s.deviceID)
	}
	return entity.FromBytes(s.mat.Cols(), s.mat.Rows(), s.mat.Channels(), s.mat.ToBytes())
}

// Close освобождает устройство.
func (s *CameraSource) Close() {
	if s.capture != nil {
		s.capture.Close()
		s.capture = nil
		s.mat.Close()
	}
}

var _ port.ImageSource = (*CameraSource)(nil)
