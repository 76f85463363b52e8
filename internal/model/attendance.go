package model

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceTardy   AttendanceStatus = "Tardy"
	AttendanceExcused AttendanceStatus = "Excused"
)

type AttendanceRecord struct {
	Date   string           `json:"date"`
	Status AttendanceStatus `json:"status"`
	Course string           `json:"course"`
}

type AttendanceSummary struct {
	Records     []AttendanceRecord `json:"records"`
	OverallRate float64            `json:"overall_rate"`
	// CourseRates is keyed by course name as reported upstream.
	CourseRates map[string]float64 `json:"course_rates"`
}

type Student struct {
	Name       string `json:"name"`
	GradeLevel string `json:"grade_level"`
	StudentID  string `json:"student_id"`
	SchoolName string `json:"school_name"`
	Counselor  string `json:"counselor"`
	PhotoKey   string `json:"photo_key,omitempty"`
}
