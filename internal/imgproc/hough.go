package imgproc

import (
	"math"

	"linewatch/internal/domain/entity"
)

// Line — отрезок в координатах изображения.
type Line struct {
	X1, Y1, X2, Y2 int
}

// Length возвращает длину отрезка.
func (l Line) Length() float64 {
	dx := float64(l.X2 - l.X1)
	dy := float64(l.Y2 - l.Y1)
	return math.Hypot(dx, dy)
}

// HoughLines ищет отрезки на бинарном изображении: аккумулятор (rho, theta),
// локальные максимумы выше threshold, затем проход вдоль каждой найденной
// прямой с объединением разрывов до maxLineGap и отбором отрезков длиннее
// minLineLength.
func HoughLines(src *entity.Image, rhoStep, thetaStep float64, threshold, minLineLength, maxLineGap int) []Line {
	gray := src
	if !src.IsGray() {
		gray = Grayscale(src)
	}
	w, h := gray.Width, gray.Height
	if rhoStep <= 0 {
		rhoStep = 1
	}
	if thetaStep <= 0 {
		thetaStep = math.Pi / 180
	}

	maxRho := math.Hypot(float64(w), float64(h))
	nRho := int(2*maxRho/rhoStep) + 1
	nTheta := int(math.Pi / thetaStep)
	if nTheta < 1 {
		nTheta = 1
	}

	sin := make([]float64, nTheta)
	cos := make([]float64, nTheta)
	for t := 0; t < nTheta; t++ {
		angle := float64(t) * thetaStep
		sin[t] = math.Sin(angle)
		cos[t] = math.Cos(angle)
	}

	acc := make([]int32, nRho*nTheta)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if gray.Pix[y*w+x] == 0 {
				continue
			}
			for t := 0; t < nTheta; t++ {
				rho := float64(x)*cos[t] + float64(y)*sin[t]
				r := int((rho + maxRho) / rhoStep)
				if r >= 0 && r < nRho {
					acc[r*nTheta+t]++
				}
			}
		}
	}

	var lines []Line
	for r := 0; r < nRho; r++ {
		for t := 0; t < nTheta; t++ {
			v := acc[r*nTheta+t]
			if v < int32(threshold) || !isLocalMax(acc, nRho, nTheta, r, t) {
				continue
			}
			rho := float64(r)*rhoStep - maxRho
			lines = append(lines, traceSegments(gray, rho, cos[t], sin[t], minLineLength, maxLineGap)...)
		}
	}
	return lines
}

func isLocalMax(acc []int32, nRho, nTheta, r, t int) bool {
	v := acc[r*nTheta+t]
	for dr := -1; dr <= 1; dr++ {
		for dt := -1; dt <= 1; dt++ {
			if dr == 0 && dt == 0 {
				continue
			}
			rr, tt := r+dr, t+dt
			if rr < 0 || rr >= nRho || tt < 0 || tt >= nTheta {
				continue
			}
			if acc[rr*nTheta+tt] > v {
				return false
			}
		}
	}
	return true
}

// traceSegments идёт вдоль прямой rho = x*cos + y*sin и собирает непрерывные
// пробеги пикселей переднего плана.
func traceSegments(gray *entity.Image, rho, cosT, sinT float64, minLen, maxGap int) []Line {
	w, h := gray.Width, gray.Height

	// Шагаем вдоль направляющего вектора (-sin, cos) от опорной точки.
	baseX := rho * cosT
	baseY := rho * sinT
	diag := int(math.Hypot(float64(w), float64(h)))

	var segs []Line
	runStart, lastHit, gap := -1, -1, 0
	flush := func(endStep int) {
		if runStart < 0 {
			return
		}
		x1 := int(baseX - float64(runStart)*sinT)
		y1 := int(baseY + float64(runStart)*cosT)
		x2 := int(baseX - float64(endStep)*sinT)
		y2 := int(baseY + float64(endStep)*cosT)
		l := Line{X1: x1, Y1: y1, X2: x2, Y2: y2}
		if l.Length() >= float64(minLen) {
			segs = append(segs, l)
		}
		runStart = -1
	}
	for step := -diag; step <= diag; step++ {
		x := int(baseX - float64(step)*sinT)
		y := int(baseY + float64(step)*cosT)
		on := x >= 0 && x < w && y >= 0 && y < h && gray.Pix[y*w+x] > 0
		if on {
			if runStart < 0 {
				runStart = step
			}
			lastHit = step
			gap = 0
		} else if runStart >= 0 {
			gap++
			if gap > maxGap {
				flush(lastHit)
			}
		}
	}
	flush(lastHit)
	return segs
}
