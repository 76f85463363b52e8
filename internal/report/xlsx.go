package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Cxsmxnaut/Gradely/internal/model"
)

const (
	summarySheet     = "Summary"
	assignmentsSheet = "Assignments"
)

// Exporter renders a grade snapshot and its GPA aggregate as an XLSX
// workbook: a summary sheet of courses with the GPA block, and one
// assignments sheet across all courses.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Export(courses []model.Course, gpa model.GPAResult) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName(file.GetSheetName(0), summarySheet)
	if err := e.writeSummary(file, courses, gpa); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(assignmentsSheet); err != nil {
		return nil, fmt.Errorf("failed to create assignments sheet: %w", err)
	}
	if err := e.writeAssignments(file, courses); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) writeSummary(file *excelize.File, courses []model.Course, gpa model.GPAResult) error {
	header := []interface{}{"Course", "Teacher", "Period", "Grade", "Letter", "Weighting", "Included"}
	if err := file.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	details := make(map[string]model.CourseWeightingInfo, len(gpa.CourseDetails))
	for _, info := range gpa.CourseDetails {
		details[info.ID] = info
	}

	row := 2
	for _, course := range courses {
		info, hasDetail := details[course.ID]
		included := "No"
		weighting := string(model.WeightingNone)
		if hasDetail {
			if !info.IsExcluded {
				included = "Yes"
			}
			weighting = string(info.DetectedWeighting)
			if info.UserOverride != "" {
				weighting = string(info.UserOverride)
			}
		}

		cells := []interface{}{
			course.Name,
			course.Teacher,
			course.Period,
			course.CurrentGrade,
			course.LetterGrade,
			weighting,
			included,
		}
		if err := file.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &cells); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
		row++
	}

	// GPA block below the course table.
	row++
	block := [][]interface{}{
		{"Unweighted GPA", gpa.UnweightedGPA},
		{"Weighted GPA", gpa.WeightedGPA},
		{"Classification", gpa.Classification},
		{"Courses Included", gpa.IncludedCourses},
	}
	for _, cells := range block {
		line := cells
		if err := file.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &line); err != nil {
			return fmt.Errorf("failed to write gpa block: %w", err)
		}
		row++
	}
	return nil
}

func (e *Exporter) writeAssignments(file *excelize.File, courses []model.Course) error {
	header := []interface{}{"Course", "Assignment", "Category", "Score", "Max Score", "Percent", "Status"}
	if err := file.SetSheetRow(assignmentsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write assignments header: %w", err)
	}

	row := 2
	for _, course := range courses {
		for _, a := range course.Assignments {
			cells := []interface{}{
				course.Name,
				a.Name,
				a.Category,
				a.Score,
				a.MaxScore,
				a.Percent,
				assignmentStatus(a),
			}
			if err := file.SetSheetRow(assignmentsSheet, fmt.Sprintf("A%d", row), &cells); err != nil {
				return fmt.Errorf("failed to write assignment row: %w", err)
			}
			row++
		}
	}
	return nil
}

func assignmentStatus(a model.Assignment) string {
	switch {
	case a.IsHypothetical:
		return "What If"
	case a.IsNotGraded:
		return "Not Graded"
	case a.IsMissing:
		return "Missing"
	default:
		return "Graded"
	}
}
