package grades

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Cxsmxnaut/Gradely/internal/logger"
	"github.com/Cxsmxnaut/Gradely/internal/model"
)

// SettingsStore persists the process-wide GPA settings.
type SettingsStore interface {
	GetSettings(ctx context.Context) (model.GPASettings, error)
	PutSettings(ctx context.Context, settings model.GPASettings) error
}

// Calculator aggregates per-course points into weighted and unweighted
// GPAs under the persisted settings. Computation is a pure pass over the
// course list; callers re-run Compute after any mutation, there is no
// reactive recompute.
type Calculator struct {
	settings SettingsStore
	log      zerolog.Logger
}

func NewCalculator(settings SettingsStore) *Calculator {
	return &Calculator{
		settings: settings,
		log:      logger.With("gpa"),
	}
}

// Compute runs the full aggregation: eligibility, weighting resolution,
// exclusion resolution, then point averaging over included courses.
func (c *Calculator) Compute(ctx context.Context, courses []model.Course) (model.GPAResult, error) {
	settings := c.loadSettings(ctx)
	return ComputeWithSettings(courses, settings), nil
}

// ComputeWithSettings is the settings-injected form of Compute. It is
// deterministic: identical courses and settings produce an identical
// result.
func ComputeWithSettings(courses []model.Course, settings model.GPASettings) model.GPAResult {
	result := model.GPAResult{
		UseWeighted:   settings.UseWeightedGPA,
		TotalCourses:  len(courses),
		CourseDetails: make([]model.CourseWeightingInfo, 0, len(courses)),
	}

	for _, course := range courses {
		eligibility := DetectEligibility(course)
		detected := DetectWeighting(course)

		weighting := detected
		override, hasOverride := settings.CourseOverrides[course.ID]
		if hasOverride {
			weighting = override
		}

		userExcluded := settings.ExcludedCourses[course.ID]
		excluded := !eligibility.IsEligible || userExcluded

		info := model.CourseWeightingInfo{
			ID:                course.ID,
			Name:              course.Name,
			GradingType:       eligibility.GradingType,
			DetectedWeighting: detected,
			IsExcluded:        excluded,
			ExclusionReason:   eligibility.ExclusionReason,
			IsElective:        eligibility.IsElective,
		}
		if hasOverride {
			info.UserOverride = override
		}

		if excluded {
			result.ExcludedCourses++
		} else {
			basePoints := PointsFromLetter(course.LetterGrade)
			weightedPoints := ApplyWeighting(basePoints, weighting)

			result.Breakdown.TotalUnweightedPoints += basePoints
			result.Breakdown.TotalWeightedPoints += weightedPoints
			result.IncludedCourses++
		}

		result.CourseDetails = append(result.CourseDetails, info)
	}

	if result.IncludedCourses > 0 {
		result.UnweightedGPA = result.Breakdown.TotalUnweightedPoints / float64(result.IncludedCourses)
		result.WeightedGPA = result.Breakdown.TotalWeightedPoints / float64(result.IncludedCourses)
	}
	result.Classification = Classify(result.FinalGPA())

	return result
}

// Classify buckets a GPA into its display classification.
func Classify(gpa float64) string {
	switch {
	case gpa >= 3.8:
		return "Dean's List"
	case gpa >= 3.5:
		return "Honor Roll"
	case gpa >= 3.0:
		return "Good Standing"
	case gpa >= 2.0:
		return "Academic Warning"
	default:
		return "Academic Probation"
	}
}

// UpdateCourseWeighting records an explicit weighting override for a
// course. The caller re-runs Compute to observe the change.
func (c *Calculator) UpdateCourseWeighting(ctx context.Context, courseID string, weighting model.WeightingType) model.GPASettings {
	settings := c.loadSettings(ctx)
	if settings.CourseOverrides == nil {
		settings.CourseOverrides = map[string]model.WeightingType{}
	}
	settings.CourseOverrides[courseID] = weighting
	c.saveSettings(ctx, settings)
	return settings
}

// UpdateCourseExclusion force-includes or force-excludes a course
// regardless of auto-eligibility.
func (c *Calculator) UpdateCourseExclusion(ctx context.Context, courseID string, excluded bool) model.GPASettings {
	settings := c.loadSettings(ctx)
	if settings.ExcludedCourses == nil {
		settings.ExcludedCourses = map[string]bool{}
	}
	settings.ExcludedCourses[courseID] = excluded
	c.saveSettings(ctx, settings)
	return settings
}

// ToggleWeightedGPA flips the global weighted/unweighted toggle.
func (c *Calculator) ToggleWeightedGPA(ctx context.Context) model.GPASettings {
	settings := c.loadSettings(ctx)
	settings.UseWeightedGPA = !settings.UseWeightedGPA
	c.saveSettings(ctx, settings)
	return settings
}

// Settings exposes the current persisted settings (defaults on first
// access or on store corruption).
func (c *Calculator) Settings(ctx context.Context) model.GPASettings {
	return c.loadSettings(ctx)
}

func (c *Calculator) loadSettings(ctx context.Context) model.GPASettings {
	settings, err := c.settings.GetSettings(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to load GPA settings, using defaults")
		return model.DefaultGPASettings()
	}
	if settings.CourseOverrides == nil {
		settings.CourseOverrides = map[string]model.WeightingType{}
	}
	if settings.ExcludedCourses == nil {
		settings.ExcludedCourses = map[string]bool{}
	}
	return settings
}

// Persistence failure is non-fatal: the returned settings still reflect
// the requested change for the current session.
func (c *Calculator) saveSettings(ctx context.Context, settings model.GPASettings) {
	if err := c.settings.PutSettings(ctx, settings); err != nil {
		c.log.Warn().Err(err).Msg("Failed to persist GPA settings")
	}
}
