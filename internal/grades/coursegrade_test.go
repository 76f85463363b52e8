package grades

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Cxsmxnaut/Gradely/internal/model"
)

func TestCourseGradeWeightedCategories(t *testing.T) {
	course := model.Course{
		CategoryWeights: map[string]float64{
			"Tests":    60,
			"Homework": 40,
		},
		Assignments: []model.Assignment{
			{Category: "Tests", Score: 18, MaxScore: 20},
			{Category: "Tests", Score: 9, MaxScore: 10},
			{Category: "Homework", Score: 5, MaxScore: 10},
		},
	}

	// Tests: 27/30 = 90%, Homework: 5/10 = 50%.
	// 90*0.6 + 50*0.4 = 74, total weight 1.0.
	assert.InDelta(t, 74.0, CourseGrade(course), 1e-9)
}

func TestCourseGradeSkipsEmptyCategory(t *testing.T) {
	course := model.Course{
		CategoryWeights: map[string]float64{
			"A": 60,
			"B": 40,
		},
		Assignments: []model.Assignment{
			{Category: "A", Score: 9, MaxScore: 10},
		},
	}

	// Category B has no possible points, so it is excluded from the
	// denominator entirely rather than dragging the grade to 54.
	assert.InDelta(t, 90.0, CourseGrade(course), 1e-9)
}

func TestCourseGradeIgnoresUnweightedCategories(t *testing.T) {
	course := model.Course{
		CategoryWeights: map[string]float64{
			"Tests": 100,
		},
		Assignments: []model.Assignment{
			{Category: "Tests", Score: 8, MaxScore: 10},
			{Category: "Extra Credit", Score: 100, MaxScore: 100},
		},
	}

	assert.InDelta(t, 80.0, CourseGrade(course), 1e-9)
}

func TestCourseGradeNotGradedExcluded(t *testing.T) {
	base := model.Course{
		CategoryWeights: map[string]float64{"Tests": 100},
		Assignments: []model.Assignment{
			{Category: "Tests", Score: 18, MaxScore: 20},
		},
	}
	withNotGraded := model.Course{
		CategoryWeights: map[string]float64{"Tests": 100},
		Assignments: []model.Assignment{
			{Category: "Tests", Score: 18, MaxScore: 20},
			{Category: "Tests", Score: 0, MaxScore: 50, IsNotGraded: true},
		},
	}

	// A not-graded assignment contributes nothing, it is not a zero.
	assert.Equal(t, CourseGrade(base), CourseGrade(withNotGraded))
}

func TestCourseGradeNoScoreableAssignments(t *testing.T) {
	course := model.Course{
		CategoryWeights: map[string]float64{"Tests": 100},
	}
	assert.Equal(t, 0.0, CourseGrade(course))

	course.Assignments = []model.Assignment{
		{Category: "Tests", Score: 0, MaxScore: 10, IsNotGraded: true},
	}
	assert.Equal(t, 0.0, CourseGrade(course))
}

func TestCourseGradeToleratesWeightsNotSummingTo100(t *testing.T) {
	course := model.Course{
		CategoryWeights: map[string]float64{
			"Tests":    30,
			"Homework": 30,
		},
		Assignments: []model.Assignment{
			{Category: "Tests", Score: 9, MaxScore: 10},
			{Category: "Homework", Score: 8, MaxScore: 10},
		},
	}

	// Weights normalize over participating categories: (90+80)/2.
	assert.InDelta(t, 85.0, CourseGrade(course), 1e-9)
}

func TestCourseGradeStaysInRange(t *testing.T) {
	course := model.Course{
		CategoryWeights: map[string]float64{"Tests": 70, "Quizzes": 30},
		Assignments: []model.Assignment{
			{Category: "Tests", Score: 10, MaxScore: 10},
			{Category: "Quizzes", Score: 10, MaxScore: 10},
		},
	}
	assert.InDelta(t, 100.0, CourseGrade(course), 1e-9)
}
