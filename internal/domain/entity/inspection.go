package entity

import (
	"fmt"
	"time"
)

// InspectionResult хранит итог одной инспекции кадра.
type InspectionResult struct {
	InspectionID   string            // уникальный идентификатор инспекции
	Timestamp      time.Time         // момент начала инспекции
	Success        bool              // завершилась ли инспекция без ошибок
	Defects        []Defect          // найденные дефекты, в порядке детекторов
	Images         map[string]*Image // original, processed, visualization...
	ProcessingTime time.Duration     // полное время инспекции
	Metadata       map[string]any    // inspector_id, error, processing_time...
}

// HasDefects сообщает, найден ли хотя бы один дефект.
func (r *InspectionResult) HasDefects() bool {
	return len(r.Defects) > 0
}

// DefectCount возвращает число найденных дефектов.
func (r *InspectionResult) DefectCount() int {
	return len(r.Defects)
}

// Image возвращает сохранённое изображение по имени.
func (r *InspectionResult) Image(name string) (*Image, bool) {
	img, ok := r.Images[name]
	return img, ok
}

// ToMap сериализует результат без изображений.
func (r *InspectionResult) ToMap() map[string]any {
	defects := make([]map[string]any, 0, len(r.Defects))
	for _, d := range r.Defects {
		defects = append(defects, d.ToMap())
	}
	return map[string]any{
		"inspection_id":   r.InspectionID,
		"timestamp":       float64(r.Timestamp.UnixNano()) / float64(time.Second),
		"success":         r.Success,
		"has_defects":     r.HasDefects(),
		"defect_count":    r.DefectCount(),
		"defects":         defects,
		"processing_time": r.ProcessingTime.Seconds(),
		"metadata":        r.Metadata,
	}
}

func (r *InspectionResult) String() string {
	return fmt.Sprintf("InspectionResult(id=%s, success=%t, defects=%d)",
		r.InspectionID, r.Success, r.DefectCount())
}
