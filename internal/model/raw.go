package model

// Raw gradebook records as reported by the upstream school information
// system. Fields arrive stringly typed and frequently absent; nothing
// outside the reconciler should ever touch these.

type RawGradebook struct {
	Courses []RawCourse `json:"courses"`
}

type RawCourse struct {
	Title           string             `json:"title"`
	Staff           string             `json:"staff"`
	Period          string             `json:"period"`
	Room            string             `json:"room"`
	Marks           []RawMark          `json:"marks"`
	CategoryWeights map[string]float64 `json:"category_weights,omitempty"`
}

type RawMark struct {
	CalculatedScoreRaw    string          `json:"calculated_score_raw"`
	CalculatedScoreString string          `json:"calculated_score_string"`
	Assignments           []RawAssignment `json:"assignments"`
}

type RawAssignment struct {
	Measure       string `json:"measure"`
	Type          string `json:"type"`
	DueDate       string `json:"due_date"`
	Point         string `json:"point"`
	PointPossible string `json:"point_possible"`
	ScoreCalValue string `json:"score_cal_value"`
	ScoreMaxValue string `json:"score_max_value"`
	DisplayScore  string `json:"display_score"`
}

type RawAttendance struct {
	Absences []RawAbsence `json:"absences"`
}

type RawAbsence struct {
	AbsenceDate   string      `json:"absence_date"`
	DailyIconName string      `json:"daily_icon_name"`
	Periods       []RawPeriod `json:"periods"`
}

type RawPeriod struct {
	Name     string `json:"name"`
	Course   string `json:"course"`
	IconName string `json:"icon_name"`
}
