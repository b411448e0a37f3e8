// Package vision содержит детекторы дефектов и нативный ускоряющий бэкенд
// обработки (сборка с тегом gocv).
package vision

import (
	"image"
	"log/slog"
	"math"

	"linewatch/internal/domain/entity"
	"linewatch/internal/domain/port"
	"linewatch/internal/imgproc"
	"linewatch/internal/pipeline"
)

// ContaminationConfig — параметры детектора загрязнений. Веса скоринга и
// нормировочная константа подобраны эмпирически и намеренно вынесены в
// конфигурацию для калибровки без правки кода.
type ContaminationConfig struct {
	MinContaminantSize int     // нижняя граница площади, пиксели
	MaxContaminantSize int     // верхняя граница площади, пиксели
	ContrastThreshold  float64 // константа чувствительности адаптивного порога
	MinConfidence      float64 // порог допуска дефекта
	UseColor           bool    // включает цветовой скоринг
	IntensityWeight    float64
	ShapeWeight        float64
	ColorWeight        float64
	ContrastNorm       float64 // нормировка разности интенсивностей
}

// DefaultContaminationConfig возвращает параметры по умолчанию.
func DefaultContaminationConfig() ContaminationConfig {
	return ContaminationConfig{
		MinContaminantSize: 10,
		MaxContaminantSize: 3000,
		ContrastThreshold:  15,
		MinConfidence:      0.25,
		UseColor:           true,
		IntensityWeight:    0.5,
		ShapeWeight:        0.2,
		ColorWeight:        0.3,
		ContrastNorm:       30,
	}
}

// ContaminationDetector ищет тёмные включения (примеси, загрязнения) на
// поверхности и оценивает каждую находку по интенсивности, форме и цвету.
type ContaminationDetector struct {
	name string
	cfg  ContaminationConfig
	log  *slog.Logger
}

// NewContaminationDetector создаёт детектор; нулевые поля конфигурации
// заменяются значениями по умолчанию.
func NewContaminationDetector(name string, cfg ContaminationConfig) *ContaminationDetector {
	def := DefaultContaminationConfig()
	if cfg.MinContaminantSize <= 0 {
		cfg.MinContaminantSize = def.MinContaminantSize
	}
	if cfg.MaxContaminantSize <= 0 {
		cfg.MaxContaminantSize = def.MaxContaminantSize
	}
	if cfg.ContrastThreshold <= 0 {
		cfg.ContrastThreshold = def.ContrastThreshold
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = def.MinConfidence
	}
	if cfg.IntensityWeight <= 0 && cfg.ShapeWeight <= 0 && cfg.ColorWeight <= 0 {
		cfg.IntensityWeight = def.IntensityWeight
		cfg.ShapeWeight = def.ShapeWeight
		cfg.ColorWeight = def.ColorWeight
	}
	if cfg.ContrastNorm <= 0 {
		cfg.ContrastNorm = def.ContrastNorm
	}
	return &ContaminationDetector{
		name: name,
		cfg:  cfg,
		log:  slog.Default().With("component", "detector", "detector", name),
	}
}

// Name возвращает имя детектора.
func (d *ContaminationDetector) Name() string { return d.name }

// Detect ищет загрязнения на кадре. Алгоритм: серый + блюр, инверсный
// адаптивный порог (тёмные зоны = передний план), морфологическая чистка,
// внешние контуры, фильтр по площади и многофакторный скоринг уверенности.
func (d *ContaminationDetector) Detect(img *entity.Image, _ *pipeline.Context) ([]entity.Defect, error) {
	original := img
	gray := imgproc.Grayscale(img)

	blurred := imgproc.GaussianBlur(gray, 5, 0)
	binary := imgproc.AdaptiveThreshold(blurred, 255, imgproc.AdaptiveGaussian, true, 11, d.cfg.ContrastThreshold)

	// OPEN убирает одиночные шумовые точки, CLOSE закрывает мелкие разрывы.
	kernel := imgproc.StructuringElement(imgproc.KernelRect, 3)
	binary = imgproc.Morphology(binary, imgproc.MorphOpen, kernel, 1)
	binary = imgproc.Morphology(binary, imgproc.MorphClose, kernel, 1)

	contours := imgproc.FindContours(binary)

	var defects []entity.Defect
	for _, c := range contours {
		if c.Area < d.cfg.MinContaminantSize || c.Area > d.cfg.MaxContaminantSize {
			continue
		}
		cx, cy, ok := c.Centroid()
		if !ok {
			continue
		}

		intensityDiff := regionMeanDiff(gray, c, 0)
		intensityScore := math.Min(1.0, intensityDiff/d.cfg.ContrastNorm)

		// Низкая заполненность bounding box = неровная форма, характерная
		// для органических включений.
		rectArea := c.Rect.Dx() * c.Rect.Dy()
		areaRatio := 0.0
		if rectArea > 0 {
			areaRatio = float64(c.Area) / float64(rectArea)
		}
		shapeScore := 1.0 - areaRatio

		colorScore := 0.5
		if d.cfg.UseColor && !original.IsGray() {
			maxDiff := 0.0
			for ch := 0; ch < original.Channels; ch++ {
				if diff := regionMeanDiff(original, c, ch); diff > maxDiff {
					maxDiff = diff
				}
			}
			colorScore = math.Min(1.0, maxDiff/d.cfg.ContrastNorm)
		}

		confidence := intensityScore*d.cfg.IntensityWeight +
			shapeScore*d.cfg.ShapeWeight +
			colorScore*d.cfg.ColorWeight
		if confidence < d.cfg.MinConfidence {
			continue
		}

		defects = append(defects, entity.Defect{
			Type:       entity.DefectContamination,
			Position:   [2]int{cx, cy},
			Size:       float64(c.Area),
			Confidence: confidence,
			Metadata: map[string]any{
				"intensity_diff": intensityDiff,
				"shape_score":    shapeScore,
				"color_score":    colorScore,
				"bounding_box":   [4]int{c.Rect.Min.X, c.Rect.Min.Y, c.Rect.Dx(), c.Rect.Dy()},
				"contour":        boundaryToSlice(c.Boundary),
			},
		})
	}

	d.log.Debug("contamination scan finished",
		"candidates", len(contours),
		"defects", len(defects))
	return defects, nil
}

// regionMeanDiff возвращает |mean(фон) - mean(передний план)| по каналу ch
// внутри bounding box компоненты. Если одна из зон пуста, её средняя
// интенсивность считается нейтральной (127).
func regionMeanDiff(img *entity.Image, c *imgproc.Contour, ch int) float64 {
	var fgSum, bgSum float64
	var fgN, bgN int
	for y := c.Rect.Min.Y; y < c.Rect.Max.Y; y++ {
		for x := c.Rect.Min.X; x < c.Rect.Max.X; x++ {
			v := float64(img.At(x, y, ch))
			if c.Filled(x, y) {
				fgSum += v
				fgN++
			} else {
				bgSum += v
				bgN++
			}
		}
	}
	fg, bg := 127.0, 127.0
	if fgN > 0 {
		fg = fgSum / float64(fgN)
	}
	if bgN > 0 {
		bg = bgSum / float64(bgN)
	}
	return math.Abs(bg - fg)
}

func boundaryToSlice(pts []image.Point) [][]int {
	out := make([][]int, 0, len(pts))
	for _, p := range pts {
		out = append(out, []int{p.X, p.Y})
	}
	return out
}

// Проверка реализации интерфейсов
var (
	_ port.DefectDetector = (*ContaminationDetector)(nil)
	_ port.Visualizer     = (*ContaminationDetector)(nil)
)
