package model

type WeightingType string

const (
	WeightingNone   WeightingType = "none"
	WeightingHonors WeightingType = "honors"
	WeightingAP     WeightingType = "ap"
)

type GradingType string

const (
	GradingStandard GradingType = "standard"
	GradingPassFail GradingType = "pass_fail"
	GradingNoGrade  GradingType = "no_grade"
)

// GPASettings is the user-tunable GPA policy. It persists across
// sessions and is only mutated through the calculator's update
// operations.
type GPASettings struct {
	UseWeightedGPA  bool                     `json:"use_weighted_gpa"`
	CourseOverrides map[string]WeightingType `json:"course_overrides"`
	ExcludedCourses map[string]bool          `json:"excluded_courses"`
}

func DefaultGPASettings() GPASettings {
	return GPASettings{
		UseWeightedGPA:  false,
		CourseOverrides: map[string]WeightingType{},
		ExcludedCourses: map[string]bool{},
	}
}

// CourseWeightingInfo is the per-course diagnostic record produced by
// each aggregation run, surfaced so the display layer can explain why
// a course did or did not count.
type CourseWeightingInfo struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	GradingType       GradingType   `json:"grading_type"`
	DetectedWeighting WeightingType `json:"detected_weighting"`
	UserOverride      WeightingType `json:"user_override,omitempty"`
	IsExcluded        bool          `json:"is_excluded"`
	ExclusionReason   string        `json:"exclusion_reason,omitempty"`
	IsElective        bool          `json:"is_elective"`
}

type GPABreakdown struct {
	TotalUnweightedPoints float64 `json:"total_unweighted_points"`
	TotalWeightedPoints   float64 `json:"total_weighted_points"`
}

type GPAResult struct {
	UnweightedGPA   float64               `json:"unweighted_gpa"`
	WeightedGPA     float64               `json:"weighted_gpa"`
	UseWeighted     bool                  `json:"use_weighted"`
	TotalCourses    int                   `json:"total_courses"`
	IncludedCourses int                   `json:"included_courses"`
	ExcludedCourses int                   `json:"excluded_courses"`
	CourseDetails   []CourseWeightingInfo `json:"course_details"`
	Breakdown       GPABreakdown          `json:"breakdown"`
	Classification  string                `json:"classification"`
}

// FinalGPA returns the GPA selected by the use-weighted toggle.
func (r GPAResult) FinalGPA() float64 {
	if r.UseWeighted {
		return r.WeightedGPA
	}
	return r.UnweightedGPA
}
