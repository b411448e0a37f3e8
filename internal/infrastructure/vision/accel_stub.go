//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"linewatch/internal/imgproc"
)

// ErrAcceleratorUnavailable возвращается, если сборка без тега gocv.
var ErrAcceleratorUnavailable = errors.New("gocv build tag is not enabled")

// NewAccelerator сообщает, что нативный бэкенд недоступен; конвейер в этом
// случае работает на чистых реализациях пакета imgproc.
func NewAccelerator() (imgproc.Accelerator, error) {
	return nil, ErrAcceleratorUnavailable
}
