package imgproc

import (
	"fmt"

	"linewatch/internal/domain/entity"
)

// ThresholdMode задаёт способ бинаризации.
type ThresholdMode int

const (
	ThresholdBinary ThresholdMode = iota
	ThresholdBinaryInv
	ThresholdOtsu
	ThresholdTriangle
)

// ParseThresholdMode разбирает режим бинаризации из конфигурации.
func ParseThresholdMode(s string) (ThresholdMode, error) {
	switch s {
	case "binary":
		return ThresholdBinary, nil
	case "binary_inv":
		return ThresholdBinaryInv, nil
	case "otsu":
		return ThresholdOtsu, nil
	case "triangle":
		return ThresholdTriangle, nil
	default:
		return 0, fmt.Errorf("unknown threshold mode: %q", s)
	}
}

func (m ThresholdMode) String() string {
	switch m {
	case ThresholdBinary:
		return "binary"
	case ThresholdBinaryInv:
		return "binary_inv"
	case ThresholdOtsu:
		return "otsu"
	case ThresholdTriangle:
		return "triangle"
	}
	return "unknown"
}

// Threshold бинаризует одноканальное изображение. Для режимов Otsu и
// Triangle порог вычисляется из гистограммы, параметр thresh игнорируется.
func Threshold(src *entity.Image, thresh float64, maxval byte, mode ThresholdMode) *entity.Image {
	gray := src
	if !src.IsGray() {
		gray = Grayscale(src)
	}

	switch mode {
	case ThresholdOtsu:
		thresh = otsuThreshold(gray)
		mode = ThresholdBinary
	case ThresholdTriangle:
		thresh = triangleThreshold(gray)
		mode = ThresholdBinary
	}

	dst := entity.NewImage(gray.Width, gray.Height, 1)
	for i, v := range gray.Pix {
		above := float64(v) > thresh
		if mode == ThresholdBinaryInv {
			above = !above
		}
		if above {
			dst.Pix[i] = maxval
		}
	}
	return dst
}

// otsuThreshold максимизирует межклассовую дисперсию гистограммы.
func otsuThreshold(gray *entity.Image) float64 {
	var hist [256]int
	for _, v := range gray.Pix {
		hist[v]++
	}
	total := len(gray.Pix)
	if total == 0 {
		return 0
	}

	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i) * float64(n)
	}

	var sumBg, wBg float64
	best, bestVar := 0, -1.0
	for t := 0; t < 256; t++ {
		wBg += float64(hist[t])
		if wBg == 0 {
			continue
		}
		wFg := float64(total) - wBg
		if wFg == 0 {
			break
		}
		sumBg += float64(t) * float64(hist[t])
		meanBg := sumBg / wBg
		meanFg := (sumAll - sumBg) / wFg
		between := wBg * wFg * (meanBg - meanFg) * (meanBg - meanFg)
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	return float64(best)
}

// triangleThreshold строит линию от пика гистограммы к дальнему краю и
// берёт уровень с максимальным расстоянием до неё.
func triangleThreshold(gray *entity.Image) float64 {
	var hist [256]int
	for _, v := range gray.Pix {
		hist[v]++
	}

	first, last, peak := -1, -1, 0
	for i := 0; i < 256; i++ {
		if hist[i] > 0 {
			if first < 0 {
				first = i
			}
			last = i
			if hist[i] > hist[peak] {
				peak = i
			}
		}
	}
	if first < 0 || first == last {
		return 0
	}

	// Дальний от пика край гистограммы.
	end := last
	if peak-first > last-peak {
		end = first
	}
	if end == peak {
		return float64(peak)
	}

	dy := float64(hist[peak])
	dx := float64(end - peak)
	norm := dx*dx + dy*dy
	best, bestDist := peak, -1.0
	step := 1
	if end < peak {
		step = -1
	}
	for i := peak; i != end; i += step {
		// Расстояние до линии (peak, hist[peak]) -> (end, 0).
		d := dy*float64(i-peak) + dx*float64(hist[i]) - dy*0
		dist := d * d / norm
		if float64(hist[i]) < dy && dist > bestDist {
			bestDist = dist
			best = i
		}
	}
	return float64(best)
}

// AdaptiveMethod задаёт способ оценки локального фона.
type AdaptiveMethod int

const (
	AdaptiveMean AdaptiveMethod = iota
	AdaptiveGaussian
)

// ParseAdaptiveMethod разбирает метод адаптивного порога из конфигурации.
func ParseAdaptiveMethod(s string) (AdaptiveMethod, error) {
	switch s {
	case "mean":
		return AdaptiveMean, nil
	case "gaussian":
		return AdaptiveGaussian, nil
	default:
		return 0, fmt.Errorf("unknown adaptive threshold method: %q", s)
	}
}

// AdaptiveThreshold сравнивает каждый пиксель с локальным средним его
// окрестности минус константа c. При inverse пиксели темнее фона помечаются
// значением maxval: это выделяет тёмные включения при неравномерной засветке.
func AdaptiveThreshold(src *entity.Image, maxval byte, method AdaptiveMethod, inverse bool, blockSize int, c float64) *entity.Image {
	gray := src
	if !src.IsGray() {
		gray = Grayscale(src)
	}
	if blockSize < 3 {
		blockSize = 3
	}
	if blockSize%2 == 0 {
		blockSize++
	}

	var mean []float64
	if method == AdaptiveMean {
		mean = boxMean(gray, blockSize)
	} else {
		blurred := GaussianBlur(gray, blockSize, 0)
		mean = make([]float64, len(blurred.Pix))
		for i, v := range blurred.Pix {
			mean[i] = float64(v)
		}
	}

	dst := entity.NewImage(gray.Width, gray.Height, 1)
	for i, v := range gray.Pix {
		above := float64(v) > mean[i]-c
		if inverse {
			above = !above
		}
		if above {
			dst.Pix[i] = maxval
		}
	}
	return dst
}
