package imgproc

import (
	"fmt"

	"linewatch/internal/domain/entity"
)

// MorphOp задаёт морфологическую операцию.
type MorphOp int

const (
	MorphErode MorphOp = iota
	MorphDilate
	MorphOpen
	MorphClose
)

// ParseMorphOp разбирает операцию из конфигурации.
func ParseMorphOp(s string) (MorphOp, error) {
	switch s {
	case "erode":
		return MorphErode, nil
	case "dilate":
		return MorphDilate, nil
	case "open":
		return MorphOpen, nil
	case "close":
		return MorphClose, nil
	default:
		return 0, fmt.Errorf("unknown morphology operation: %q", s)
	}
}

func (op MorphOp) String() string {
	switch op {
	case MorphErode:
		return "erode"
	case MorphDilate:
		return "dilate"
	case MorphOpen:
		return "open"
	case MorphClose:
		return "close"
	}
	return "unknown"
}

// KernelShape задаёт форму структурирующего элемента.
type KernelShape int

const (
	KernelRect KernelShape = iota
	KernelEllipse
	KernelCross
)

// ParseKernelShape разбирает форму ядра из конфигурации.
func ParseKernelShape(s string) (KernelShape, error) {
	switch s {
	case "rect":
		return KernelRect, nil
	case "ellipse":
		return KernelEllipse, nil
	case "cross":
		return KernelCross, nil
	default:
		return 0, fmt.Errorf("unknown kernel shape: %q", s)
	}
}

// StructuringElement строит квадратное ядро size×size заданной формы.
func StructuringElement(shape KernelShape, size int) [][]bool {
	if size < 1 {
		size = 1
	}
	kern := make([][]bool, size)
	c := float64(size-1) / 2
	for y := range kern {
		kern[y] = make([]bool, size)
		for x := range kern[y] {
			switch shape {
			case KernelRect:
				kern[y][x] = true
			case KernelCross:
				kern[y][x] = y == size/2 || x == size/2
			case KernelEllipse:
				dx := (float64(x) - c) / (c + 0.5)
				dy := (float64(y) - c) / (c + 0.5)
				kern[y][x] = dx*dx+dy*dy <= 1
			}
		}
	}
	return kern
}

// Morphology применяет операцию op к одноканальному изображению.
// Open и Close раскладываются на erode/dilate; iterations повторяет каждую
// элементарную операцию.
func Morphology(src *entity.Image, op MorphOp, kernel [][]bool, iterations int) *entity.Image {
	if iterations < 1 {
		iterations = 1
	}
	switch op {
	case MorphOpen:
		out := applyN(src, kernel, iterations, true)
		return applyN(out, kernel, iterations, false)
	case MorphClose:
		out := applyN(src, kernel, iterations, false)
		return applyN(out, kernel, iterations, true)
	case MorphErode:
		return applyN(src, kernel, iterations, true)
	default:
		return applyN(src, kernel, iterations, false)
	}
}

func applyN(src *entity.Image, kernel [][]bool, n int, erode bool) *entity.Image {
	out := src
	for i := 0; i < n; i++ {
		out = apply(out, kernel, erode)
	}
	return out
}

// apply — min-фильтр (erode) либо max-фильтр (dilate) по маске ядра.
// Края обрабатываются репликацией.
func apply(src *entity.Image, kernel [][]bool, erode bool) *entity.Image {
	w, h := src.Width, src.Height
	kh := len(kernel)
	kw := len(kernel[0])
	ry, rx := kh/2, kw/2

	dst := entity.NewImage(w, h, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var best byte
			if erode {
				best = 255
			}
			for ky := 0; ky < kh; ky++ {
				for kx := 0; kx < kw; kx++ {
					if !kernel[ky][kx] {
						continue
					}
					yy := clampInt(y+ky-ry, 0, h-1)
					xx := clampInt(x+kx-rx, 0, w-1)
					v := src.Pix[yy*w+xx]
					if erode {
						if v < best {
							best = v
						}
					} else if v > best {
						best = v
					}
				}
			}
			dst.Pix[y*w+x] = best
		}
	}
	return dst
}
