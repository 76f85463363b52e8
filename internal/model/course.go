package model

import (
	"fmt"
	"regexp"
	"strings"
)

type Assignment struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Score          float64 `json:"score"`
	MaxScore       float64 `json:"max_score"`
	Percent        float64 `json:"percent"`
	DueDate        string  `json:"due_date"`
	IsMissing      bool    `json:"is_missing"`
	IsNotGraded    bool    `json:"is_not_graded"`
	IsHypothetical bool    `json:"is_hypothetical"`
}

type Course struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Teacher         string             `json:"teacher"`
	Period          int                `json:"period"`
	Room            string             `json:"room"`
	CurrentGrade    float64            `json:"current_grade"`
	LetterGrade     string             `json:"letter_grade"`
	Assignments     []Assignment       `json:"assignments"`
	CategoryWeights map[string]float64 `json:"category_weights"`
}

var slugPattern = regexp.MustCompile(`\s+`)

// CourseID derives a stable course identifier from name and period.
// Not globally unique across schools, but unique within one student's
// course list, which is the only scope it is ever used in.
func CourseID(name string, period int) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return fmt.Sprintf("%s-%d", slug, period)
}
