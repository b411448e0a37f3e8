package entity

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
)

// Image хранит raw-пиксели кадра: H×W×C, интерлив BGR (C=3) или grayscale (C=1).
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte // row-major, длина Width*Height*Channels
}

// NewImage создаёт чёрное изображение заданного размера.
func NewImage(width, height, channels int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}
}

// NewFilledImage создаёт изображение, залитое одним значением по всем каналам.
func NewFilledImage(width, height, channels int, value byte) *Image {
	img := NewImage(width, height, channels)
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

// FromBytes оборачивает готовый буфер в Image.
func FromBytes(width, height, channels int, pix []byte) (*Image, error) {
	if len(pix) != width*height*channels {
		return nil, fmt.Errorf("pixel buffer size %d does not match %dx%dx%d", len(pix), width, height, channels)
	}
	return &Image{Width: width, Height: height, Channels: channels, Pix: pix}, nil
}

// Clone возвращает глубокую копию изображения.
func (m *Image) Clone() *Image {
	pix := make([]byte, len(m.Pix))
	copy(pix, m.Pix)
	return &Image{Width: m.Width, Height: m.Height, Channels: m.Channels, Pix: pix}
}

// IsGray сообщает, одноканальное ли изображение.
func (m *Image) IsGray() bool {
	return m.Channels == 1
}

// Empty сообщает, пустое ли изображение.
func (m *Image) Empty() bool {
	return m == nil || m.Width == 0 || m.Height == 0 || len(m.Pix) == 0
}

// At возвращает значение пикселя в канале c.
func (m *Image) At(x, y, c int) byte {
	return m.Pix[(y*m.Width+x)*m.Channels+c]
}

// Set записывает значение пикселя в канале c.
func (m *Image) Set(x, y, c int, v byte) {
	m.Pix[(y*m.Width+x)*m.Channels+c] = v
}

// Bounds возвращает прямоугольник изображения.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// FromImage конвертирует stdlib-изображение в трёхканальный BGR Image.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	dst := NewImage(b.Dx(), b.Dy(), 3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			dst.Pix[i] = byte(bl >> 8)
			dst.Pix[i+1] = byte(g >> 8)
			dst.Pix[i+2] = byte(r >> 8)
			i += 3
		}
	}
	return dst
}

// ToImage конвертирует Image в stdlib-представление для кодирования.
func (m *Image) ToImage() image.Image {
	if m.IsGray() {
		dst := image.NewGray(m.Bounds())
		copy(dst.Pix, m.Pix)
		return dst
	}
	dst := image.NewRGBA(m.Bounds())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := (y*m.Width + x) * m.Channels
			dst.SetRGBA(x, y, color.RGBA{R: m.Pix[i+2], G: m.Pix[i+1], B: m.Pix[i], A: 255})
		}
	}
	return dst
}

// EncodeJPEG кодирует изображение в JPEG с заданным качеством.
func (m *Image) EncodeJPEG(quality int) ([]byte, error) {
	if m.Empty() {
		return nil, fmt.Errorf("cannot encode empty image")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, m.ToImage(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
