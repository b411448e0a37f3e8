// Package imgproc содержит примитивы обработки изображений, на которых
// построены стадии конвейера и детекторы: преобразования цвета, фильтры,
// пороги, морфология, контуры и отрисовка. Все функции чистые: вход не
// мутируется, результат — новое изображение.
package imgproc

import "linewatch/internal/domain/entity"

// Grayscale переводит BGR-изображение в одноканальное по стандартным весам.
func Grayscale(src *entity.Image) *entity.Image {
	if src.IsGray() {
		return src.Clone()
	}
	dst := entity.NewImage(src.Width, src.Height, 1)
	n := src.Width * src.Height
	for i := 0; i < n; i++ {
		b := int(src.Pix[i*3])
		g := int(src.Pix[i*3+1])
		r := int(src.Pix[i*3+2])
		dst.Pix[i] = byte((299*r + 587*g + 114*b + 500) / 1000)
	}
	return dst
}

// ToBGR разворачивает одноканальное изображение в трёхканальное.
// BGR-вход возвращается копией.
func ToBGR(src *entity.Image) *entity.Image {
	if !src.IsGray() {
		return src.Clone()
	}
	dst := entity.NewImage(src.Width, src.Height, 3)
	for i, v := range src.Pix {
		dst.Pix[i*3] = v
		dst.Pix[i*3+1] = v
		dst.Pix[i*3+2] = v
	}
	return dst
}

// EqualizeHist выравнивает гистограмму одноканального изображения.
func EqualizeHist(src *entity.Image) *entity.Image {
	gray := src
	if !src.IsGray() {
		gray = Grayscale(src)
	}
	var hist [256]int
	for _, v := range gray.Pix {
		hist[v]++
	}
	total := len(gray.Pix)
	if total == 0 {
		return gray.Clone()
	}

	// Минимальное ненулевое значение CDF, чтобы растянуть диапазон полностью.
	var lut [256]byte
	cdf := 0
	cdfMin := -1
	cum := make([]int, 256)
	for i := 0; i < 256; i++ {
		cdf += hist[i]
		cum[i] = cdf
		if cdfMin < 0 && cdf > 0 {
			cdfMin = cdf
		}
	}
	if cdfMin < 0 || cdfMin == total {
		return gray.Clone()
	}
	for i := 0; i < 256; i++ {
		lut[i] = byte((cum[i] - cdfMin) * 255 / (total - cdfMin))
	}

	dst := entity.NewImage(gray.Width, gray.Height, 1)
	for i, v := range gray.Pix {
		dst.Pix[i] = lut[v]
	}
	return dst
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
