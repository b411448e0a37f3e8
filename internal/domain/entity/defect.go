package entity

import "fmt"

// DefectType классифицирует найденную аномалию.
type DefectType string

const (
	// DefectContamination — загрязнение/примесь на поверхности.
	DefectContamination DefectType = "contamination"
)

// Defect представляет найденный и оценённый дефект.
type Defect struct {
	Type       DefectType     // тип дефекта
	Position   [2]int         // координаты (x, y) центра
	Size       float64        // площадь в пикселях
	Confidence float64        // уверенность детектора, 0..1
	Metadata   map[string]any // доп. данные: bounding box, контур, скоринг
}

// BoundingBox возвращает прямоугольник [x, y, w, h] из метаданных, если он есть.
func (d Defect) BoundingBox() ([4]int, bool) {
	box, ok := d.Metadata["bounding_box"].([4]int)
	return box, ok
}

// ToMap разворачивает дефект в плоскую map для сериализации:
// базовые поля плюс содержимое метаданных.
func (d Defect) ToMap() map[string]any {
	out := map[string]any{
		"type":       string(d.Type),
		"position":   []int{d.Position[0], d.Position[1]},
		"size":       d.Size,
		"confidence": d.Confidence,
	}
	for k, v := range d.Metadata {
		if box, ok := v.([4]int); ok {
			v = []int{box[0], box[1], box[2], box[3]}
		}
		out[k] = v
	}
	return out
}

func (d Defect) String() string {
	return fmt.Sprintf("Defect(%s, pos=(%d,%d), size=%.1f, conf=%.2f)",
		d.Type, d.Position[0], d.Position[1], d.Size, d.Confidence)
}
