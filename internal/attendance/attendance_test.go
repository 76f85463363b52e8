package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cxsmxnaut/Gradely/internal/model"
)

func TestReconcileStatusMapping(t *testing.T) {
	raw := model.RawAttendance{
		Absences: []model.RawAbsence{{
			AbsenceDate: "2024-03-11",
			Periods: []model.RawPeriod{
				{Course: "Algebra II", IconName: "icon_excused"},
				{Course: "Chemistry", IconName: "icon_unexcused"},
				{Course: "English 10", IconName: "icon_unxtardy"},
				{Course: "Biology", IconName: "icon_activity"},
				{Course: "Lunch"},
				{Name: "Not Included", Course: "Advisory"},
			},
		}},
	}

	records := Reconcile(raw)
	require.Len(t, records, 4)

	assert.Equal(t, model.AttendanceExcused, records[0].Status)
	assert.Equal(t, model.AttendanceAbsent, records[1].Status)
	assert.Equal(t, model.AttendanceTardy, records[2].Status)
	assert.Equal(t, model.AttendancePresent, records[3].Status)
	assert.Equal(t, "2024-03-11", records[0].Date)
}

func TestReconcileDailyIconFallback(t *testing.T) {
	raw := model.RawAttendance{
		Absences: []model.RawAbsence{{
			AbsenceDate:   "2024-03-12",
			DailyIconName: "icon_unexcused",
			Periods: []model.RawPeriod{
				{Course: "Algebra II"},
				{Course: "Chemistry", IconName: "icon_excused"},
			},
		}},
	}

	records := Reconcile(raw)
	require.Len(t, records, 2)
	// No period icon: fall back to the daily icon.
	assert.Equal(t, model.AttendanceAbsent, records[0].Status)
	// Period icon wins over the daily icon.
	assert.Equal(t, model.AttendanceExcused, records[1].Status)
}

func TestSummarizeRates(t *testing.T) {
	records := []model.AttendanceRecord{
		{Course: "Algebra II", Status: model.AttendancePresent},
		{Course: "Algebra II", Status: model.AttendanceAbsent},
		{Course: "Chemistry", Status: model.AttendanceTardy},
		{Course: "Chemistry", Status: model.AttendanceExcused},
	}

	summary := Summarize(records)
	assert.InDelta(t, 75.0, summary.OverallRate, 1e-9)
	assert.InDelta(t, 50.0, summary.CourseRates["Algebra II"], 1e-9)
	assert.InDelta(t, 100.0, summary.CourseRates["Chemistry"], 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 100.0, summary.OverallRate)
	assert.Empty(t, summary.CourseRates)
}
