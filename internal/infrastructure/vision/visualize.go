package vision

import (
	"fmt"
	"image"
	"math"

	"linewatch/internal/domain/entity"
	"linewatch/internal/imgproc"
)

// Visualize отрисовывает найденные загрязнения поверх копии кадра:
// bounding box, границу контура и подпись уверенности. Цвет меняется от
// зелёного к красному с ростом уверенности.
func (d *ContaminationDetector) Visualize(img *entity.Image, defects []entity.Defect) *entity.Image {
	viz := imgproc.ToBGR(img)

	for _, defect := range defects {
		if defect.Type != entity.DefectContamination {
			continue
		}
		col := imgproc.ConfidenceColor(defect.Confidence)

		if box, ok := defect.BoundingBox(); ok {
			rect := image.Rect(box[0], box[1], box[0]+box[2], box[1]+box[3])
			imgproc.DrawRect(viz, rect, col, 2)
			if contour, ok := defect.Metadata["contour"].([][]int); ok {
				pts := make([]image.Point, 0, len(contour))
				for _, p := range contour {
					if len(p) == 2 {
						pts = append(pts, image.Pt(p[0], p[1]))
					}
				}
				imgproc.DrawPoints(viz, pts, col)
			}
			imgproc.DrawLabel(viz, fmt.Sprintf("%.2f", defect.Confidence), box[0], box[1]-5, col)
			continue
		}

		// Запасной вариант без bounding box: круг по эквивалентному радиусу.
		radius := int(math.Sqrt(defect.Size / math.Pi))
		imgproc.DrawCircle(viz, defect.Position[0], defect.Position[1], radius, col, 2)
		imgproc.DrawLabel(viz, fmt.Sprintf("%.2f", defect.Confidence),
			defect.Position[0]-20, defect.Position[1]-radius-5, col)
	}
	return viz
}
