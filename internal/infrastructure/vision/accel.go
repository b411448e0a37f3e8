//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"linewatch/internal/domain/entity"
	"linewatch/internal/imgproc"
)

// GoCVAccelerator выполняет горячие операции конвейера через OpenCV.
// Семантика операций совпадает с чистыми реализациями пакета imgproc.
type GoCVAccelerator struct{}

// NewAccelerator создаёт ускоряющий бэкенд на OpenCV.
func NewAccelerator() (imgproc.Accelerator, error) {
	return &GoCVAccelerator{}, nil
}

// Name возвращает имя бэкенда.
func (a *GoCVAccelerator) Name() string { return "gocv" }

func toMat(img *entity.Image) (gocv.Mat, error) {
	mt := gocv.MatTypeCV8UC3
	if img.IsGray() {
		mt = gocv.MatTypeCV8UC1
	}
	return gocv.NewMatFromBytes(img.Height, img.Width, mt, img.Pix)
}

func fromMat(mat gocv.Mat) (*entity.Image, error) {
	channels := mat.Channels()
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}
	return entity.FromBytes(mat.Cols(), mat.Rows(), channels, mat.ToBytes())
}

// Grayscale переводит кадр в оттенки серого.
func (a *GoCVAccelerator) Grayscale(img *entity.Image) (*entity.Image, error) {
	if img.IsGray() {
		return img.Clone(), nil
	}
	src, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	return fromMat(dst)
}

// GaussianBlur сглаживает кадр гауссовым фильтром.
func (a *GoCVAccelerator) GaussianBlur(img *entity.Image, ksize int, sigma float64) (*entity.Image, error) {
	src, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.GaussianBlur(src, &dst, image.Pt(ksize, ksize), sigma, sigma, gocv.BorderDefault)
	return fromMat(dst)
}

// Threshold бинаризует кадр глобальным порогом.
func (a *GoCVAccelerator) Threshold(img *entity.Image, thresh float64, maxval byte, mode imgproc.ThresholdMode) (*entity.Image, error) {
	gray, err := a.Grayscale(img)
	if err != nil {
		return nil, err
	}
	src, err := toMat(gray)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var typ gocv.ThresholdType
	switch mode {
	case imgproc.ThresholdBinary:
		typ = gocv.ThresholdBinary
	case imgproc.ThresholdBinaryInv:
		typ = gocv.ThresholdBinaryInv
	case imgproc.ThresholdOtsu:
		typ = gocv.ThresholdBinary | gocv.ThresholdOtsu
	case imgproc.ThresholdTriangle:
		typ = gocv.ThresholdBinary | gocv.ThresholdTriangle
	default:
		return nil, errors.New("unsupported threshold mode")
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Threshold(src, &dst, float32(thresh), float32(maxval), typ)
	return fromMat(dst)
}

// AdaptiveThreshold бинаризует кадр по локальному фону.
func (a *GoCVAccelerator) AdaptiveThreshold(img *entity.Image, maxval byte, method imgproc.AdaptiveMethod, inverse bool, blockSize int, c float64) (*entity.Image, error) {
	gray, err := a.Grayscale(img)
	if err != nil {
		return nil, err
	}
	src, err := toMat(gray)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	adaptive := gocv.AdaptiveThresholdMean
	if method == imgproc.AdaptiveGaussian {
		adaptive = gocv.AdaptiveThresholdGaussian
	}
	typ := gocv.ThresholdBinary
	if inverse {
		typ = gocv.ThresholdBinaryInv
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.AdaptiveThreshold(src, &dst, float32(maxval), adaptive, typ, blockSize, float32(c))
	return fromMat(dst)
}

// Morphology применяет морфологическую операцию.
func (a *GoCVAccelerator) Morphology(img *entity.Image, op imgproc.MorphOp, shape imgproc.KernelShape, ksize, iterations int) (*entity.Image, error) {
	src, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var morphOp gocv.MorphType
	switch op {
	case imgproc.MorphErode:
		morphOp = gocv.MorphErode
	case imgproc.MorphDilate:
		morphOp = gocv.MorphDilate
	case imgproc.MorphOpen:
		morphOp = gocv.MorphOpen
	case imgproc.MorphClose:
		morphOp = gocv.MorphClose
	default:
		return nil, errors.New("unsupported morphology operation")
	}

	var morphShape gocv.MorphShape
	switch shape {
	case imgproc.KernelEllipse:
		morphShape = gocv.MorphEllipse
	case imgproc.KernelCross:
		morphShape = gocv.MorphCross
	default:
		morphShape = gocv.MorphRect
	}
	kernel := gocv.GetStructuringElement(morphShape, image.Pt(ksize, ksize))
	defer kernel.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.MorphologyExWithParams(src, &dst, morphOp, kernel, iterations, gocv.BorderConstant)
	return fromMat(dst)
}
