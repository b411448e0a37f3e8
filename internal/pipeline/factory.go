package pipeline

import (
	"fmt"

	"linewatch/internal/imgproc"
)

// Type — идентификатор канонической последовательности стадий. Закрытое
// перечисление: неизвестный тег отклоняется при разборе конфигурации, а не
// в момент прогона.
type Type string

const (
	// TypeBasic — базовый конвейер для отладки: серый, блюр, границы.
	TypeBasic Type = "basic"
	// TypeBottleBase — инспекция дна бутылки.
	TypeBottleBase Type = "bottle_base"
	// TypeSidewall — инспекция боковой стенки.
	TypeSidewall Type = "sidewall"
	// TypePreform — инспекция преформ.
	TypePreform Type = "preform"
	// TypeContamination — выделение тёмных включений под детектор загрязнений.
	TypeContamination Type = "contamination"
)

// ParseType проверяет тег конвейера из конфигурации.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeBasic, TypeBottleBase, TypeSidewall, TypePreform, TypeContamination:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported pipeline type: %q", s)
	}
}

// NewFromType собирает канонический конвейер по тегу. Набор стадий на тег —
// конфигурация фабрики, движок конвейера от него не зависит. Ускоритель
// опционален (nil = только чистые реализации).
func NewFromType(name string, t Type, accel imgproc.Accelerator) (*Pipeline, error) {
	p := New(name)
	switch t {
	case TypeBasic:
		p.AddStage(NewGrayscaleStage("grayscale", accel))
		p.AddStage(NewBlurStage("blur", 5, 0, accel))
		p.AddStage(NewCannyStage("edges", 50, 150))

	case TypeBottleBase:
		p.AddStage(NewGrayscaleStage("grayscale", accel))
		p.AddStage(NewBlurStage("blur", 5, 0, accel))
		p.AddStage(NewAdaptiveThresholdStage("threshold", 255, imgproc.AdaptiveGaussian, false, 11, 2, accel))
		p.AddStage(NewMorphologyStage("morphology", imgproc.MorphClose, imgproc.KernelRect, 5, 1, accel))
		p.AddStage(NewContourStage("contours", 50, 0, true))

	case TypeSidewall:
		p.AddStage(NewGrayscaleStage("grayscale", accel))
		p.AddStage(NewBlurStage("blur", 3, 0, accel))
		p.AddStage(NewCannyStage("edges", 30, 120))
		p.AddStage(NewHoughLinesStage("lines", 100, 50, 10, true))

	case TypePreform:
		p.AddStage(NewGrayscaleStage("grayscale", accel))
		p.AddStage(NewEqualizeStage("equalize"))
		p.AddStage(NewBlurStage("blur", 3, 0, accel))
		p.AddStage(NewThresholdStage("threshold", 0, 255, imgproc.ThresholdOtsu, accel))

	case TypeContamination:
		p.AddStage(NewGrayscaleStage("grayscale", accel))
		p.AddStage(NewBlurStage("blur", 3, 0, accel))
		p.AddStage(NewThresholdStage("threshold", 50, 255, imgproc.ThresholdBinaryInv, accel))
		p.AddStage(NewMorphologyStage("morphology", imgproc.MorphOpen, imgproc.KernelRect, 3, 1, accel))

	default:
		return nil, fmt.Errorf("unsupported pipeline type: %q", t)
	}
	return p, nil
}
