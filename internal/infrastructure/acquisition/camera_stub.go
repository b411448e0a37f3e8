//go:build !gocv
// +build !gocv

package acquisition

import (
	"errors"

	"linewatch/internal/domain/port"
)

// ErrCameraUnavailable возвращается при сборке без тега gocv.
var ErrCameraUnavailable = errors.New("camera source requires the gocv build tag")

// NewCameraSource сообщает, что поддержка камер не вкомпилирована.
func NewCameraSource(id string, deviceID, width, height int) (port.ImageSource, error) {
	return nil, ErrCameraUnavailable
}
