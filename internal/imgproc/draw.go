package imgproc

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"linewatch/internal/domain/entity"
)

// Color — цвет в порядке каналов BGR.
type Color [3]byte

var (
	ColorGreen = Color{0, 255, 0}
	ColorRed   = Color{0, 0, 255}
	ColorBlack = Color{0, 0, 0}
)

// ConfidenceColor плавно переводит зелёный в красный по мере роста
// уверенности детектора.
func ConfidenceColor(confidence float64) Color {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return Color{0, byte(255 * (1 - confidence)), byte(255 * confidence)}
}

func setPixel(img *entity.Image, x, y int, col Color) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return
	}
	if img.IsGray() {
		img.Set(x, y, 0, byte((299*int(col[2])+587*int(col[1])+114*int(col[0]))/1000))
		return
	}
	img.Set(x, y, 0, col[0])
	img.Set(x, y, 1, col[1])
	img.Set(x, y, 2, col[2])
}

// DrawRect рисует рамку толщиной thickness внутрь от границ прямоугольника.
func DrawRect(img *entity.Image, rect image.Rectangle, col Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	for t := 0; t < thickness; t++ {
		x0, y0 := rect.Min.X+t, rect.Min.Y+t
		x1, y1 := rect.Max.X-1-t, rect.Max.Y-1-t
		if x0 > x1 || y0 > y1 {
			break
		}
		for x := x0; x <= x1; x++ {
			setPixel(img, x, y0, col)
			setPixel(img, x, y1, col)
		}
		for y := y0; y <= y1; y++ {
			setPixel(img, x0, y, col)
			setPixel(img, x1, y, col)
		}
	}
}

// DrawCircle рисует окружность; thickness < 0 заливает круг целиком.
func DrawCircle(img *entity.Image, cx, cy, radius int, col Color, thickness int) {
	if radius < 0 {
		return
	}
	rOut := float64(radius)
	rIn := rOut - float64(thickness)
	rIn2 := rIn * rIn
	if thickness < 0 || rIn < 0 {
		rIn2 = -1
	}
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			d2 := dx*dx + dy*dy
			if d2 <= rOut*rOut && d2 > rIn2 {
				setPixel(img, x, y, col)
			}
		}
	}
}

// DrawLine рисует отрезок алгоритмом Брезенхэма.
func DrawLine(img *entity.Image, x1, y1, x2, y2 int, col Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	dx := absInt(x2 - x1)
	dy := -absInt(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	x, y := x1, y1
	for {
		for ty := -(thickness - 1) / 2; ty <= thickness/2; ty++ {
			for tx := -(thickness - 1) / 2; tx <= thickness/2; tx++ {
				setPixel(img, x+tx, y+ty, col)
			}
		}
		if x == x2 && y == y2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// DrawPoints отмечает набор точек (например, границу контура).
func DrawPoints(img *entity.Image, pts []image.Point, col Color) {
	for _, p := range pts {
		setPixel(img, p.X, p.Y, col)
	}
}

// DrawLabel печатает короткую подпись базовым растровым шрифтом;
// точка (x, y) задаёт базовую линию текста.
func DrawLabel(img *entity.Image, text string, x, y int, col Color) {
	face := basicfont.Face7x13
	bounds, _ := font.BoundString(face, text)
	w := (bounds.Max.X - bounds.Min.X).Ceil() + 2
	h := (bounds.Max.Y - bounds.Min.Y).Ceil() + 2
	if w <= 0 || h <= 0 {
		return
	}

	canvas := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Alpha{A: 255}),
		Face: face,
		Dot:  fixed.P(1, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	top := y - face.Metrics().Ascent.Ceil()
	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			if canvas.AlphaAt(cx, cy).A > 127 {
				setPixel(img, x+cx, top+cy, col)
			}
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
