package acquisition

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"math/rand"

	"linewatch/internal/domain/entity"
	"linewatch/internal/domain/port"
	"linewatch/internal/imgproc"
)

// SimSource генерирует синтетические кадры бутылки: светлый фон, контур
// корпуса, круг дна и с заданной вероятностью тёмное пятно-загрязнение.
// Сид делает поток кадров воспроизводимым для тестов и стендов.
type SimSource struct {
	id      string
	width   int
	height  int
	defectP float64
	rng     *rand.Rand
	frame   int
	opened  bool
	log     *slog.Logger
}

// NewSimSource создаёт симулятор. Нулевые размеры заменяются на 640x480,
// нулевая вероятность дефекта — на 0.3.
func NewSimSource(id string, cfg Config) *SimSource {
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}
	defectP := cfg.DefectProbability
	if defectP <= 0 {
		defectP = 0.3
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	return &SimSource{
		id:      id,
		width:   width,
		height:  height,
		defectP: defectP,
		rng:     rand.New(rand.NewSource(seed)),
		log:     slog.Default().With("component", "source", "source", id),
	}
}

// Open помечает источник готовым.
func (s *SimSource) Open() error {
	s.opened = true
	s.frame = 0
	s.log.Info("simulation source opened",
		"width", s.width, "height", s.height, "defect_probability", s.defectP)
	return nil
}

// Read генерирует очередной кадр.
func (s *SimSource) Read() (*entity.Image, error) {
	if !s.opened {
		return nil, fmt.Errorf("simulation source %s is not opened", s.id)
	}
	s.frame++

	img := entity.NewFilledImage(s.width, s.height, 3, 220)

	// Корпус бутылки: прямоугольный контур по центру кадра.
	bodyCol := imgproc.Color{100, 100, 100}
	body := image.Rect(s.width/4, s.height/8, s.width*3/4, s.height*7/8)
	imgproc.DrawRect(img, body, bodyCol, 2)

	// Дно: залитый круг в нижней трети корпуса.
	baseCol := imgproc.Color{80, 80, 80}
	baseCX := s.width / 2
	baseCY := s.height * 3 / 4
	baseR := s.width / 8
	imgproc.DrawCircle(img, baseCX, baseCY, baseR, baseCol, 2)

	if s.rng.Float64() < s.defectP {
		// Загрязнение: тёмное пятно внутри круга дна.
		r := 3 + s.rng.Intn(8)
		angle := s.rng.Float64() * 2 * math.Pi
		dist := s.rng.Float64() * float64(baseR-r-2)
		cx := baseCX + int(dist*math.Cos(angle))
		cy := baseCY + int(dist*math.Sin(angle))
		shade := byte(s.rng.Intn(61))
		imgproc.DrawCircle(img, cx, cy, r, imgproc.Color{shade, shade, shade}, -1)
	}

	imgproc.DrawLabel(img, fmt.Sprintf("frame %d", s.frame), 10, 20, imgproc.ColorBlack)
	return img, nil
}

// Close останавливает генерацию.
func (s *SimSource) Close() {
	s.opened = false
}

var _ port.ImageSource = (*SimSource)(nil)
