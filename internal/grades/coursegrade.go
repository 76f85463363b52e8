package grades

import (
	"github.com/Cxsmxnaut/Gradely/internal/model"
)

type categoryTotal struct {
	earned   float64
	possible float64
}

// CourseGrade computes a course's category-weighted percentage from its
// assignments and category weight map.
//
// Assignments marked not-graded contribute nothing at all, and
// assignments whose category has no weight entry are ignored rather
// than creating a new category. Categories with zero possible points
// are dropped from both numerator and denominator, so the remaining
// weights are renormalized instead of penalizing the course. A course
// with no scoreable assignments in any weighted category grades out at
// exactly 0.
func CourseGrade(course model.Course) float64 {
	totals := make(map[string]*categoryTotal, len(course.CategoryWeights))
	for category := range course.CategoryWeights {
		totals[category] = &categoryTotal{}
	}

	for _, a := range course.Assignments {
		if a.IsNotGraded {
			continue
		}
		t, ok := totals[a.Category]
		if !ok {
			continue
		}
		t.earned += a.Score
		t.possible += a.MaxScore
	}

	var weightedSum, totalWeight float64
	for category, t := range totals {
		if t.possible <= 0 {
			continue
		}
		categoryPercent := t.earned / t.possible * 100
		weight := course.CategoryWeights[category] / 100
		weightedSum += categoryPercent * weight
		totalWeight += weight
	}

	if totalWeight <= 0 {
		return 0
	}
	return weightedSum / totalWeight
}
