package grades

import (
	"math"
	"strings"

	"github.com/Cxsmxnaut/Gradely/internal/model"
)

// Eligibility is the result of classifying one course for GPA purposes.
type Eligibility struct {
	IsEligible      bool
	GradingType     model.GradingType
	ExclusionReason string
	IsElective      bool
}

var electiveKeywords = []string{
	"orchestra", "band", "choir", "music", "art", "drama", "theater",
	"photography", "ceramics", "drawing", "painting", "sculpture",
	"journalism", "yearbook", "debate", "speech", "computer science",
}

// DetectEligibility classifies a course from its name and letter grade.
// First match wins: pass/fail grading, then no numeric grade, then the
// blanket PE exclusion, otherwise standard and eligible.
//
// TODO: the bare "pe" substring check also matches names like "Open
// Period"; kept as-is pending product clarification.
func DetectEligibility(course model.Course) Eligibility {
	name := strings.ToLower(course.Name)
	letter := strings.ToLower(course.LetterGrade)

	if letter == "p" || letter == "pass" || letter == "f" || letter == "fail" {
		return Eligibility{
			GradingType:     model.GradingPassFail,
			ExclusionReason: "Pass/Fail grading",
		}
	}

	if letter == "" || letter == "n/a" || letter == "incomplete" {
		return Eligibility{
			GradingType:     model.GradingNoGrade,
			ExclusionReason: "No numeric grade",
		}
	}

	if strings.Contains(name, "pe") || strings.Contains(name, "physical education") || strings.Contains(name, "gym") {
		return Eligibility{
			GradingType:     model.GradingStandard,
			ExclusionReason: "Physical Education",
		}
	}

	isElective := false
	for _, keyword := range electiveKeywords {
		if strings.Contains(name, keyword) {
			isElective = true
			break
		}
	}

	return Eligibility{
		IsEligible:  true,
		GradingType: model.GradingStandard,
		IsElective:  isElective,
	}
}

// DetectWeighting auto-detects Honors/AP weighting from course naming
// conventions. Checked independently of eligibility.
func DetectWeighting(course model.Course) model.WeightingType {
	name := strings.ToLower(course.Name)

	if strings.Contains(name, "ap ") || strings.Contains(name, "advanced placement") {
		return model.WeightingAP
	}

	if strings.Contains(name, "honors") || strings.Contains(name, "honour") || strings.Contains(name, "honor") {
		return model.WeightingHonors
	}

	return model.WeightingNone
}

// ApplyWeighting boosts base GPA points for honors/AP courses. AP adds
// 1.0 capped at 5.0, honors adds 0.5 capped at 4.5; applying a cap
// twice is a no-op.
func ApplyWeighting(basePoints float64, weighting model.WeightingType) float64 {
	switch weighting {
	case model.WeightingAP:
		return math.Min(basePoints+1.0, 5.0)
	case model.WeightingHonors:
		return math.Min(basePoints+0.5, 4.5)
	default:
		return basePoints
	}
}
