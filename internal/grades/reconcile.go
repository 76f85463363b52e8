package grades

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Cxsmxnaut/Gradely/internal/logger"
	"github.com/Cxsmxnaut/Gradely/internal/model"
)

const notGradedDisplay = "Not Graded"

// Reconciler normalizes raw upstream gradebook records into the clean
// internal course model. All string→number parsing and default-filling
// happens here; nothing downstream ever sees a raw record.
type Reconciler struct {
	log zerolog.Logger
}

func NewReconciler() *Reconciler {
	return &Reconciler{log: logger.With("reconcile")}
}

// Reconcile transforms the full raw course list. Each course is
// processed to completion before its record is appended; there are no
// partial course results.
func (r *Reconciler) Reconcile(raw []model.RawCourse) []model.Course {
	courses := make([]model.Course, 0, len(raw))
	for _, rc := range raw {
		courses = append(courses, r.reconcileCourse(rc))
	}
	return courses
}

func (r *Reconciler) reconcileCourse(raw model.RawCourse) model.Course {
	period, _ := strconv.Atoi(raw.Period)
	id := model.CourseID(raw.Title, period)

	assignments := r.reconcileAssignments(id, raw.Marks)

	course := model.Course{
		ID:              id,
		Name:            raw.Title,
		Teacher:         raw.Staff,
		Period:          period,
		Room:            raw.Room,
		Assignments:     assignments,
		CategoryWeights: categoryWeights(raw, assignments),
	}

	// The upstream aggregate is authoritative only when it is a parseable
	// number strictly greater than zero; newly created or ungraded
	// courses routinely report 0 or nothing at all.
	var percent float64
	var letter string
	if len(raw.Marks) > 0 {
		primary := raw.Marks[0]
		if v, err := strconv.ParseFloat(primary.CalculatedScoreRaw, 64); err == nil {
			percent = v
		}
		letter = primary.CalculatedScoreString
	}

	if percent <= 0 {
		recomputed := CourseGrade(course)
		r.log.Debug().
			Str("course", raw.Title).
			Float64("upstream_percent", percent).
			Float64("recomputed_percent", recomputed).
			Msg("Upstream grade missing or zero, recomputed from assignments")
		percent = recomputed
	}
	if letter == "" && percent > 0 {
		letter = LetterFromPercent(percent)
	}

	course.CurrentGrade = percent
	course.LetterGrade = letter
	return course
}

func (r *Reconciler) reconcileAssignments(courseID string, marks []model.RawMark) []model.Assignment {
	var assignments []model.Assignment
	index := 0
	for _, mark := range marks {
		for _, raw := range mark.Assignments {
			assignments = append(assignments, r.reconcileAssignment(courseID, index, raw))
			index++
		}
	}
	return assignments
}

func (r *Reconciler) reconcileAssignment(courseID string, index int, raw model.RawAssignment) model.Assignment {
	isNotGraded := raw.DisplayScore == notGradedDisplay
	hasNoScore := raw.Point == "" && raw.ScoreCalValue == ""
	hasPossible := raw.PointPossible != "" || raw.ScoreMaxValue != ""

	var score, maxScore, percent float64
	if isNotGraded {
		// Score and percent stay zero but stay renderable as "not
		// graded"; possible points are still captured for display.
		maxScore = parseScore(raw.PointPossible, raw.ScoreMaxValue)
	} else {
		score = parseScore(raw.Point, raw.ScoreCalValue)
		maxScore = parseScore(raw.PointPossible, raw.ScoreMaxValue)
		if maxScore > 0 {
			percent = score / maxScore * 100
		}
	}

	name := raw.Measure
	if name == "" {
		name = "Untitled Assignment"
	}
	category := raw.Type
	if category == "" {
		category = "Uncategorized"
	}

	return model.Assignment{
		ID:          fmt.Sprintf("%s-assignment-%d", courseID, index),
		Name:        name,
		Category:    category,
		Score:       score,
		MaxScore:    maxScore,
		Percent:     percent,
		DueDate:     raw.DueDate,
		IsMissing:   !isNotGraded && hasNoScore && hasPossible,
		IsNotGraded: isNotGraded,
	}
}

func parseScore(primary, fallback string) float64 {
	s := primary
	if s == "" {
		s = fallback
	}
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// categoryWeights prefers upstream-reported weights; when absent, the
// weight is distributed evenly across the categories observed on the
// course's assignments.
func categoryWeights(raw model.RawCourse, assignments []model.Assignment) map[string]float64 {
	if len(raw.CategoryWeights) > 0 {
		weights := make(map[string]float64, len(raw.CategoryWeights))
		for category, weight := range raw.CategoryWeights {
			weights[category] = weight
		}
		return weights
	}

	seen := make(map[string]struct{})
	var order []string
	for _, a := range assignments {
		if _, ok := seen[a.Category]; !ok {
			seen[a.Category] = struct{}{}
			order = append(order, a.Category)
		}
	}

	weights := make(map[string]float64, len(order))
	if len(order) == 0 {
		return weights
	}
	per := 100 / float64(len(order))
	for _, category := range order {
		weights[category] = per
	}
	return weights
}
