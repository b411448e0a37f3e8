package pipeline

import (
	"linewatch/internal/domain/entity"
	"linewatch/internal/imgproc"
)

// GrayscaleStage переводит кадр в оттенки серого.
type GrayscaleStage struct {
	name  string
	accel imgproc.Accelerator
}

func NewGrayscaleStage(name string, accel imgproc.Accelerator) *GrayscaleStage {
	return &GrayscaleStage{name: name, accel: accel}
}

func (s *GrayscaleStage) Name() string { return s.name }

func (s *GrayscaleStage) Process(img *entity.Image, _ *Context) (*entity.Image, error) {
	if s.accel != nil {
		if out, err := s.accel.Grayscale(img); err == nil {
			return out, nil
		}
	}
	return imgproc.Grayscale(img), nil
}

// BlurStage подавляет шум сенсора гауссовым сглаживанием.
type BlurStage struct {
	name  string
	ksize int
	sigma float64
	accel imgproc.Accelerator
}

func NewBlurStage(name string, ksize int, sigma float64, accel imgproc.Accelerator) *BlurStage {
	return &BlurStage{name: name, ksize: ksize, sigma: sigma, accel: accel}
}

func (s *BlurStage) Name() string { return s.name }

func (s *BlurStage) Process(img *entity.Image, _ *Context) (*entity.Image, error) {
	if s.accel != nil {
		if out, err := s.accel.GaussianBlur(img, s.ksize, s.sigma); err == nil {
			return out, nil
		}
	}
	return imgproc.GaussianBlur(img, s.ksize, s.sigma), nil
}

// ThresholdStage бинаризует кадр глобальным порогом.
type ThresholdStage struct {
	name   string
	thresh float64
	maxval byte
	mode   imgproc.ThresholdMode
	accel  imgproc.Accelerator
}

func NewThresholdStage(name string, thresh float64, maxval byte, mode imgproc.ThresholdMode, accel imgproc.Accelerator) *ThresholdStage {
	return &ThresholdStage{name: name, thresh: thresh, maxval: maxval, mode: mode, accel: accel}
}

func (s *ThresholdStage) Name() string { return s.name }

func (s *ThresholdStage) Process(img *entity.Image, _ *Context) (*entity.Image, error) {
	if s.accel != nil {
		if out, err := s.accel.Threshold(img, s.thresh, s.maxval, s.mode); err == nil {
			return out, nil
		}
	}
	return imgproc.Threshold(img, s.thresh, s.maxval, s.mode), nil
}

// AdaptiveThresholdStage бинаризует по локальному фону: устойчивее к
// неравномерной засветке, чем глобальный порог.
type AdaptiveThresholdStage struct {
	name      string
	maxval    byte
	method    imgproc.AdaptiveMethod
	inverse   bool
	blockSize int
	c         float64
	accel     imgproc.Accelerator
}

func NewAdaptiveThresholdStage(name string, maxval byte, method imgproc.AdaptiveMethod, inverse bool, blockSize int, c float64, accel imgproc.Accelerator) *AdaptiveThresholdStage {
	return &AdaptiveThresholdStage{
		name:      name,
		maxval:    maxval,
		method:    method,
		inverse:   inverse,
		blockSize: blockSize,
		c:         c,
		accel:     accel,
	}
}

func (s *AdaptiveThresholdStage) Name() string { return s.name }

func (s *AdaptiveThresholdStage) Process(img *entity.Image, _ *Context) (*entity.Image, error) {
	if s.accel != nil {
		if out, err := s.accel.AdaptiveThreshold(img, s.maxval, s.method, s.inverse, s.blockSize, s.c); err == nil {
			return out, nil
		}
	}
	return imgproc.AdaptiveThreshold(img, s.maxval, s.method, s.inverse, s.blockSize, s.c), nil
}

// MorphologyStage чистит бинарную маску морфологической операцией.
type MorphologyStage struct {
	name       string
	op         imgproc.MorphOp
	shape      imgproc.KernelShape
	ksize      int
	iterations int
	accel      imgproc.Accelerator
}

func NewMorphologyStage(name string, op imgproc.MorphOp, shape imgproc.KernelShape, ksize, iterations int, accel imgproc.Accelerator) *MorphologyStage {
	return &MorphologyStage{name: name, op: op, shape: shape, ksize: ksize, iterations: iterations, accel: accel}
}

func (s *MorphologyStage) Name() string { return s.name }

func (s *MorphologyStage) Process(img *entity.Image, _ *Context) (*entity.Image, error) {
	if s.accel != nil {
		if out, err := s.accel.Morphology(img, s.op, s.shape, s.ksize, s.iterations); err == nil {
			return out, nil
		}
	}
	kernel := imgproc.StructuringElement(s.shape, s.ksize)
	return imgproc.Morphology(img, s.op, kernel, s.iterations), nil
}

// CannyStage выделяет границы.
type CannyStage struct {
	name       string
	threshold1 float64
	threshold2 float64
}

func NewCannyStage(name string, threshold1, threshold2 float64) *CannyStage {
	return &CannyStage{name: name, threshold1: threshold1, threshold2: threshold2}
}

func (s *CannyStage) Name() string { return s.name }

func (s *CannyStage) Process(img *entity.Image, _ *Context) (*entity.Image, error) {
	return imgproc.Canny(img, s.threshold1, s.threshold2), nil
}

// EqualizeStage выравнивает контраст гистограммы.
type EqualizeStage struct {
	name string
}

func NewEqualizeStage(name string) *EqualizeStage {
	return &EqualizeStage{name: name}
}

func (s *EqualizeStage) Name() string { return s.name }

func (s *EqualizeStage) Process(img *entity.Image, _ *Context) (*entity.Image, error) {
	return imgproc.EqualizeHist(img), nil
}

// ContourStage находит внешние контуры на бинарной маске, фильтрует их по
// площади и кладёт в контекст; при draw дополнительно обводит их на кадре.
type ContourStage struct {
	name      string
	minArea   int
	maxArea   int // 0 = без верхней границы
	draw      bool
	color     imgproc.Color
	thickness int
}

func NewContourStage(name string, minArea, maxArea int, draw bool) *ContourStage {
	return &ContourStage{
		name:      name,
		minArea:   minArea,
		maxArea:   maxArea,
		draw:      draw,
		color:     imgproc.ColorGreen,
		thickness: 2,
	}
}

func (s *ContourStage) Name() string { return s.name }

func (s *ContourStage) Process(img *entity.Image, pctx *Context) (*entity.Image, error) {
	contours := imgproc.FindContours(img)
	filtered := contours[:0]
	for _, c := range contours {
		if c.Area < s.minArea {
			continue
		}
		if s.maxArea > 0 && c.Area > s.maxArea {
			continue
		}
		filtered = append(filtered, c)
	}
	if pctx != nil {
		pctx.Contours = filtered
	}

	if !s.draw {
		return img, nil
	}
	result := imgproc.ToBGR(img)
	for _, c := range filtered {
		imgproc.DrawPoints(result, c.Boundary, s.color)
	}
	return result, nil
}

// HoughLinesStage ищет отрезки преобразованием Хафа и кладёт их в контекст;
// при draw рисует найденные линии на кадре.
type HoughLinesStage struct {
	name          string
	rho           float64
	theta         float64
	threshold     int
	minLineLength int
	maxLineGap    int
	draw          bool
	color         imgproc.Color
	thickness     int
}

func NewHoughLinesStage(name string, threshold, minLineLength, maxLineGap int, draw bool) *HoughLinesStage {
	return &HoughLinesStage{
		name:          name,
		rho:           1,
		theta:         0, // 0 = шаг по умолчанию (1 градус)
		threshold:     threshold,
		minLineLength: minLineLength,
		maxLineGap:    maxLineGap,
		draw:          draw,
		color:         imgproc.ColorRed,
		thickness:     2,
	}
}

func (s *HoughLinesStage) Name() string { return s.name }

func (s *HoughLinesStage) Process(img *entity.Image, pctx *Context) (*entity.Image, error) {
	lines := imgproc.HoughLines(img, s.rho, s.theta, s.threshold, s.minLineLength, s.maxLineGap)
	if pctx != nil {
		pctx.Lines = lines
	}

	if !s.draw || len(lines) == 0 {
		return img, nil
	}
	result := imgproc.ToBGR(img)
	for _, l := range lines {
		imgproc.DrawLine(result, l.X1, l.Y1, l.X2, l.Y2, s.color, s.thickness)
	}
	return result, nil
}
