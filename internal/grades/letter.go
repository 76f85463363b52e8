package grades

import (
	"strings"

	"github.com/Cxsmxnaut/Gradely/internal/logger"
)

// LetterFromPercent maps a percentage to a letter grade using the fixed
// band table. Total over all inputs; anything below 60 is an F.
func LetterFromPercent(percent float64) string {
	switch {
	case percent >= 97:
		return "A+"
	case percent >= 93:
		return "A"
	case percent >= 90:
		return "A-"
	case percent >= 87:
		return "B+"
	case percent >= 83:
		return "B"
	case percent >= 80:
		return "B-"
	case percent >= 77:
		return "C+"
	case percent >= 73:
		return "C"
	case percent >= 70:
		return "C-"
	case percent >= 67:
		return "D+"
	case percent >= 63:
		return "D"
	case percent >= 60:
		return "D-"
	default:
		return "F"
	}
}

// PointsFromLetter maps a letter grade to its 4.0-scale value. This is
// the canonical mapping for GPA aggregation. Unrecognized input yields
// 0.0 with a warning; it must never abort an aggregation run.
func PointsFromLetter(letter string) float64 {
	switch strings.ToUpper(strings.TrimSpace(letter)) {
	case "A+", "A":
		return 4.0
	case "A-":
		return 3.7
	case "B+":
		return 3.3
	case "B":
		return 3.0
	case "B-":
		return 2.7
	case "C+":
		return 2.3
	case "C":
		return 2.0
	case "C-":
		return 1.7
	case "D+":
		return 1.3
	case "D":
		return 1.0
	case "D-":
		return 0.7
	case "F":
		return 0.0
	default:
		log := logger.With("grades")
		log.Warn().Str("letter_grade", letter).Msg("Unknown letter grade, counting as 0.0")
		return 0.0
	}
}

// PointsFromPercent is the secondary percentage→points mapper, used only
// as a fallback when a course never reports a letter grade. Note the D
// band bottoms out at 65 here rather than 63; the canonical path is
// always percent → letter → points.
func PointsFromPercent(percent float64) float64 {
	switch {
	case percent >= 97:
		return 4.0
	case percent >= 93:
		return 4.0
	case percent >= 90:
		return 3.7
	case percent >= 87:
		return 3.3
	case percent >= 83:
		return 3.0
	case percent >= 80:
		return 2.7
	case percent >= 77:
		return 2.3
	case percent >= 73:
		return 2.0
	case percent >= 70:
		return 1.7
	case percent >= 67:
		return 1.3
	case percent >= 65:
		return 1.0
	case percent >= 60:
		return 0.7
	default:
		return 0.0
	}
}
