package imgproc

import (
	"image"

	"linewatch/internal/domain/entity"
)

// Contour — связная компонента переднего плана бинарной маски.
type Contour struct {
	Rect     image.Rectangle // ограничивающий прямоугольник
	Area     int             // число пикселей компоненты
	Boundary []image.Point   // пиксели внешней границы, в порядке обхода скана
	mask     []bool          // заполненность внутри Rect, строка за строкой
	sumX     int64
	sumY     int64
}

// Centroid возвращает центр масс по моментам первого порядка.
// ok=false при нулевой массе (вырожденная компонента).
func (c *Contour) Centroid() (x, y int, ok bool) {
	if c.Area == 0 {
		return 0, 0, false
	}
	return int(c.sumX / int64(c.Area)), int(c.sumY / int64(c.Area)), true
}

// Filled сообщает, принадлежит ли пиксель (в глобальных координатах)
// компоненте.
func (c *Contour) Filled(x, y int) bool {
	if !image.Pt(x, y).In(c.Rect) {
		return false
	}
	return c.mask[(y-c.Rect.Min.Y)*c.Rect.Dx()+(x-c.Rect.Min.X)]
}

// FindContours выделяет внешние связные компоненты (8-связность) на
// одноканальном изображении; передним планом считается любое ненулевое
// значение. Компоненты возвращаются в порядке сканирования, детерминированно.
func FindContours(src *entity.Image) []*Contour {
	gray := src
	if !src.IsGray() {
		gray = Grayscale(src)
	}
	w, h := gray.Width, gray.Height

	labels := make([]int32, w*h)
	var contours []*Contour
	stack := make([]int, 0, 256)

	for start := 0; start < w*h; start++ {
		if gray.Pix[start] == 0 || labels[start] != 0 {
			continue
		}
		label := int32(len(contours) + 1)
		labels[start] = label
		stack = append(stack[:0], start)

		minX, minY := start%w, start/w
		maxX, maxY := minX, minY
		area := 0
		var sumX, sumY int64
		pixels := make([]int, 0, 64)

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			y, x := i/w, i%w

			area++
			sumX += int64(x)
			sumY += int64(y)
			pixels = append(pixels, i)
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			for ny := y - 1; ny <= y+1; ny++ {
				for nx := x - 1; nx <= x+1; nx++ {
					if ny < 0 || ny >= h || nx < 0 || nx >= w {
						continue
					}
					n := ny*w + nx
					if gray.Pix[n] != 0 && labels[n] == 0 {
						labels[n] = label
						stack = append(stack, n)
					}
				}
			}
		}

		rect := image.Rect(minX, minY, maxX+1, maxY+1)
		mask := make([]bool, rect.Dx()*rect.Dy())
		for _, i := range pixels {
			y, x := i/w, i%w
			mask[(y-minY)*rect.Dx()+(x-minX)] = true
		}

		c := &Contour{
			Rect: rect,
			Area: area,
			mask: mask,
			sumX: sumX,
			sumY: sumY,
		}
		c.Boundary = boundaryPoints(c, w, h)
		contours = append(contours, c)
	}
	return contours
}

// boundaryPoints собирает пиксели компоненты, имеющие фонового 4-соседа
// либо лежащие на границе изображения.
func boundaryPoints(c *Contour, imgW, imgH int) []image.Point {
	var pts []image.Point
	for y := c.Rect.Min.Y; y < c.Rect.Max.Y; y++ {
		for x := c.Rect.Min.X; x < c.Rect.Max.X; x++ {
			if !c.Filled(x, y) {
				continue
			}
			if x == 0 || y == 0 || x == imgW-1 || y == imgH-1 ||
				!c.Filled(x-1, y) || !c.Filled(x+1, y) ||
				!c.Filled(x, y-1) || !c.Filled(x, y+1) {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}
