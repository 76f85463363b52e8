package attendance

import (
	"strings"

	"github.com/Cxsmxnaut/Gradely/internal/model"
)

// Reconcile flattens raw upstream absence records into per-period
// attendance records. Lunch and "Not Included" periods are dropped.
// The period's own icon takes precedence; a day-level icon fills in
// when the period carries none.
func Reconcile(raw model.RawAttendance) []model.AttendanceRecord {
	var records []model.AttendanceRecord
	for _, absence := range raw.Absences {
		for _, period := range absence.Periods {
			if period.Name == "Not Included" || period.Course == "Lunch" {
				continue
			}

			status := statusFromIcon(period.IconName)
			if status == model.AttendancePresent {
				status = dailyStatus(absence.DailyIconName)
			}

			records = append(records, model.AttendanceRecord{
				Date:   absence.AbsenceDate,
				Status: status,
				Course: period.Course,
			})
		}
	}
	return records
}

func statusFromIcon(icon string) model.AttendanceStatus {
	switch {
	case icon == "":
		return model.AttendancePresent
	case strings.Contains(icon, "unxtardy"), strings.Contains(icon, "tardy"):
		return model.AttendanceTardy
	case strings.Contains(icon, "unexcused"):
		return model.AttendanceAbsent
	case strings.Contains(icon, "excused"):
		return model.AttendanceExcused
	case strings.Contains(icon, "activity"):
		// School passes and activities count as present.
		return model.AttendancePresent
	default:
		return model.AttendancePresent
	}
}

func dailyStatus(icon string) model.AttendanceStatus {
	switch {
	case icon == "":
		return model.AttendancePresent
	case strings.Contains(icon, "unexcused"):
		return model.AttendanceAbsent
	case strings.Contains(icon, "excused"):
		return model.AttendanceExcused
	default:
		return model.AttendancePresent
	}
}

// Summarize computes overall and per-course attendance rates. Tardy and
// excused periods still count as attended; only absences count against
// the rate.
func Summarize(records []model.AttendanceRecord) model.AttendanceSummary {
	summary := model.AttendanceSummary{
		Records:     records,
		CourseRates: map[string]float64{},
	}
	if len(records) == 0 {
		summary.OverallRate = 100
		return summary
	}

	type tally struct{ total, attended int }
	perCourse := map[string]*tally{}
	overall := tally{}

	for _, r := range records {
		t, ok := perCourse[r.Course]
		if !ok {
			t = &tally{}
			perCourse[r.Course] = t
		}
		t.total++
		overall.total++
		if r.Status != model.AttendanceAbsent {
			t.attended++
			overall.attended++
		}
	}

	for course, t := range perCourse {
		summary.CourseRates[course] = float64(t.attended) / float64(t.total) * 100
	}
	summary.OverallRate = float64(overall.attended) / float64(overall.total) * 100
	return summary
}
