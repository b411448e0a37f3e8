package imgproc

import "linewatch/internal/domain/entity"

// Canny выделяет границы: градиент Собеля, подавление немаксимумов и
// гистерезисная трассировка между двумя порогами.
func Canny(src *entity.Image, threshold1, threshold2 float64) *entity.Image {
	gray := src
	if !src.IsGray() {
		gray = Grayscale(src)
	}
	if threshold1 > threshold2 {
		threshold1, threshold2 = threshold2, threshold1
	}
	w, h := gray.Width, gray.Height

	gx := make([]int32, w*h)
	gy := make([]int32, w*h)
	mag := make([]int32, w*h)
	px := func(x, y int) int32 {
		return int32(gray.Pix[clampInt(y, 0, h-1)*w+clampInt(x, 0, w-1)])
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx := -px(x-1, y-1) - 2*px(x-1, y) - px(x-1, y+1) +
				px(x+1, y-1) + 2*px(x+1, y) + px(x+1, y+1)
			sy := -px(x-1, y-1) - 2*px(x, y-1) - px(x+1, y-1) +
				px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1)
			gx[y*w+x] = sx
			gy[y*w+x] = sy
			m := sx
			if m < 0 {
				m = -m
			}
			a := sy
			if a < 0 {
				a = -a
			}
			mag[y*w+x] = m + a
		}
	}

	// Подавление немаксимумов по четырём квантованным направлениям.
	const (
		weak   byte = 1
		strong byte = 2
	)
	mark := make([]byte, w*h)
	lo := int32(threshold1)
	hi := int32(threshold2)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := mag[i]
			if m < lo {
				continue
			}
			var m1, m2 int32
			dx, dy := gx[i], gy[i]
			adx, ady := dx, dy
			if adx < 0 {
				adx = -adx
			}
			if ady < 0 {
				ady = -ady
			}
			switch {
			case 2*ady <= adx: // ~горизонтальный градиент
				m1, m2 = mag[i-1], mag[i+1]
			case 2*adx <= ady: // ~вертикальный
				m1, m2 = mag[i-w], mag[i+w]
			case (dx > 0) == (dy > 0): // диагональ \
				m1, m2 = mag[i-w-1], mag[i+w+1]
			default: // диагональ /
				m1, m2 = mag[i-w+1], mag[i+w-1]
			}
			if m >= m1 && m >= m2 {
				if m >= hi {
					mark[i] = strong
				} else {
					mark[i] = weak
				}
			}
		}
	}

	// Гистерезис: слабые пиксели выживают только по связности с сильными.
	dst := entity.NewImage(w, h, 1)
	stack := make([]int, 0, w)
	for i, m := range mark {
		if m == strong && dst.Pix[i] == 0 {
			dst.Pix[i] = 255
			stack = append(stack, i)
			for len(stack) > 0 {
				j := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				jy, jx := j/w, j%w
				for ny := jy - 1; ny <= jy+1; ny++ {
					for nx := jx - 1; nx <= jx+1; nx++ {
						if ny < 0 || ny >= h || nx < 0 || nx >= w {
							continue
						}
						n := ny*w + nx
						if mark[n] != 0 && dst.Pix[n] == 0 {
							dst.Pix[n] = 255
							stack = append(stack, n)
						}
					}
				}
			}
		}
	}
	return dst
}
