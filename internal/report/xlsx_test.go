package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Cxsmxnaut/Gradely/internal/model"
)

func TestExportWorkbookLayout(t *testing.T) {
	courses := []model.Course{
		{
			ID:           "ap-biology-2",
			Name:         "AP Biology",
			Teacher:      "Dr. Okafor",
			Period:       2,
			CurrentGrade: 94.2,
			LetterGrade:  "A",
			Assignments: []model.Assignment{
				{Name: "Lab 1", Category: "Labs", Score: 47, MaxScore: 50, Percent: 94},
				{Name: "Final", Category: "Tests", IsNotGraded: true},
			},
		},
		{
			ID:           "study-hall-7",
			Name:         "Study Hall",
			CurrentGrade: 0,
			LetterGrade:  "N/A",
		},
	}
	gpa := model.GPAResult{
		UnweightedGPA:   4.0,
		WeightedGPA:     5.0,
		IncludedCourses: 1,
		Classification:  "Dean's List",
		CourseDetails: []model.CourseWeightingInfo{
			{ID: "ap-biology-2", DetectedWeighting: model.WeightingAP},
			{ID: "study-hall-7", IsExcluded: true, ExclusionReason: "no grade issued"},
		},
	}

	data, err := NewExporter().Export(courses, gpa)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	assert.ElementsMatch(t, []string{"Summary", "Assignments"}, file.GetSheetList())

	name, err := file.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "AP Biology", name)

	weighting, err := file.GetCellValue("Summary", "F2")
	require.NoError(t, err)
	assert.Equal(t, "ap", weighting)

	included, err := file.GetCellValue("Summary", "G3")
	require.NoError(t, err)
	assert.Equal(t, "No", included)

	status, err := file.GetCellValue("Assignments", "G3")
	require.NoError(t, err)
	assert.Equal(t, "Not Graded", status)
}
