package notify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"linewatch/internal/domain/entity"
)

func TestLogRejecter_Reject(t *testing.T) {
	r := NewLogRejecter()
	result := &entity.InspectionResult{
		InspectionID: "insp_1",
		Defects: []entity.Defect{{
			Type:       entity.DefectContamination,
			Position:   [2]int{10, 20},
			Size:       50,
			Confidence: 0.7,
		}},
	}
	require.NoError(t, r.Reject(result))
}
