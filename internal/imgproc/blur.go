package imgproc

import (
	"math"

	"linewatch/internal/domain/entity"
)

// gaussianKernel строит нормированное одномерное гауссово ядро.
// При sigma <= 0 значение выводится из размера ядра.
func gaussianKernel(ksize int, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 0.3*(float64(ksize-1)*0.5-1) + 0.8
	}
	kern := make([]float64, ksize)
	center := float64(ksize-1) / 2
	sum := 0.0
	for i := range kern {
		d := float64(i) - center
		kern[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kern[i]
	}
	for i := range kern {
		kern[i] /= sum
	}
	return kern
}

// GaussianBlur сглаживает изображение сепарабельным гауссовым фильтром.
// Края обрабатываются репликацией граничных пикселей.
func GaussianBlur(src *entity.Image, ksize int, sigma float64) *entity.Image {
	if ksize < 3 {
		return src.Clone()
	}
	if ksize%2 == 0 {
		ksize++
	}
	kern := gaussianKernel(ksize, sigma)
	r := ksize / 2
	w, h, ch := src.Width, src.Height, src.Channels

	tmp := make([]float64, w*h*ch)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < ch; c++ {
				acc := 0.0
				for i := -r; i <= r; i++ {
					xx := clampInt(x+i, 0, w-1)
					acc += kern[i+r] * float64(src.At(xx, y, c))
				}
				tmp[(y*w+x)*ch+c] = acc
			}
		}
	}

	dst := entity.NewImage(w, h, ch)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < ch; c++ {
				acc := 0.0
				for i := -r; i <= r; i++ {
					yy := clampInt(y+i, 0, h-1)
					acc += kern[i+r] * tmp[(yy*w+x)*ch+c]
				}
				dst.Set(x, y, c, clampByte(acc))
			}
		}
	}
	return dst
}

// boxMean считает среднее по квадратной окрестности через интегральное
// изображение. Вход одноканальный.
func boxMean(src *entity.Image, ksize int) []float64 {
	w, h := src.Width, src.Height
	r := ksize / 2

	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var row int64
		for x := 0; x < w; x++ {
			row += int64(src.Pix[y*w+x])
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + row
		}
	}

	mean := make([]float64, w*h)
	for y := 0; y < h; y++ {
		y0 := clampInt(y-r, 0, h-1)
		y1 := clampInt(y+r, 0, h-1)
		for x := 0; x < w; x++ {
			x0 := clampInt(x-r, 0, w-1)
			x1 := clampInt(x+r, 0, w-1)
			sum := integral[(y1+1)*(w+1)+x1+1] - integral[y0*(w+1)+x1+1] -
				integral[(y1+1)*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean[y*w+x] = float64(sum) / float64((x1-x0+1)*(y1-y0+1))
		}
	}
	return mean
}
