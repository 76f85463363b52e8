package grades

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cxsmxnaut/Gradely/internal/model"
)

type memSettingsStore struct {
	settings model.GPASettings
	getErr   error
	putErr   error
}

func (s *memSettingsStore) GetSettings(context.Context) (model.GPASettings, error) {
	return s.settings, s.getErr
}

func (s *memSettingsStore) PutSettings(_ context.Context, settings model.GPASettings) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.settings = settings
	return nil
}

func newMemStore() *memSettingsStore {
	return &memSettingsStore{settings: model.DefaultGPASettings()}
}

func sampleCourses() []model.Course {
	return []model.Course{
		{ID: "ap-biology-1", Name: "AP Biology", LetterGrade: "A", CurrentGrade: 95},
		{ID: "honors-english-10-2", Name: "Honors English 10", LetterGrade: "B+", CurrentGrade: 88},
		{ID: "algebra-ii-3", Name: "Algebra II", LetterGrade: "B", CurrentGrade: 85},
		{ID: "pe-9-4", Name: "PE 9", LetterGrade: "A", CurrentGrade: 99},
	}
}

func TestComputeEmptyCourseList(t *testing.T) {
	result := ComputeWithSettings(nil, model.DefaultGPASettings())

	assert.Zero(t, result.UnweightedGPA)
	assert.Zero(t, result.WeightedGPA)
	assert.Zero(t, result.TotalCourses)
	assert.Zero(t, result.IncludedCourses)
	assert.Zero(t, result.ExcludedCourses)
	assert.Empty(t, result.CourseDetails)
}

func TestComputeMixedCourses(t *testing.T) {
	result := ComputeWithSettings(sampleCourses(), model.DefaultGPASettings())

	assert.Equal(t, 4, result.TotalCourses)
	assert.Equal(t, 3, result.IncludedCourses)
	assert.Equal(t, 1, result.ExcludedCourses)

	// Unweighted: (4.0 + 3.3 + 3.0) / 3.
	assert.InDelta(t, 10.3/3, result.UnweightedGPA, 1e-9)
	// Weighted: (5.0 + 3.8 + 3.0) / 3.
	assert.InDelta(t, 11.8/3, result.WeightedGPA, 1e-9)

	require.Len(t, result.CourseDetails, 4)
	pe := result.CourseDetails[3]
	assert.True(t, pe.IsExcluded)
	assert.Equal(t, "Physical Education", pe.ExclusionReason)
}

func TestComputeDeterministic(t *testing.T) {
	courses := sampleCourses()
	settings := model.DefaultGPASettings()

	first := ComputeWithSettings(courses, settings)
	second := ComputeWithSettings(courses, settings)

	assert.Equal(t, first, second)
}

func TestComputeUserExclusion(t *testing.T) {
	settings := model.DefaultGPASettings()
	settings.ExcludedCourses["algebra-ii-3"] = true

	result := ComputeWithSettings(sampleCourses(), settings)

	assert.Equal(t, 2, result.IncludedCourses)
	assert.Equal(t, 2, result.ExcludedCourses)
	assert.InDelta(t, 7.3/2, result.UnweightedGPA, 1e-9)
}

func TestComputeUserOverrideBeatsDetection(t *testing.T) {
	settings := model.DefaultGPASettings()
	settings.CourseOverrides["algebra-ii-3"] = model.WeightingHonors

	result := ComputeWithSettings(sampleCourses(), settings)

	// Algebra II now carries the honors boost: 3.0 → 3.5.
	assert.InDelta(t, (5.0+3.8+3.5)/3, result.WeightedGPA, 1e-9)

	detail := result.CourseDetails[2]
	assert.Equal(t, model.WeightingNone, detail.DetectedWeighting)
	assert.Equal(t, model.WeightingHonors, detail.UserOverride)
}

func TestClassification(t *testing.T) {
	assert.Equal(t, "Dean's List", Classify(3.9))
	assert.Equal(t, "Honor Roll", Classify(3.5))
	assert.Equal(t, "Good Standing", Classify(3.2))
	assert.Equal(t, "Academic Warning", Classify(2.4))
	assert.Equal(t, "Academic Probation", Classify(1.0))
}

func TestCalculatorMutatorsPersist(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	calc := NewCalculator(store)

	calc.UpdateCourseWeighting(ctx, "algebra-ii-3", model.WeightingAP)
	assert.Equal(t, model.WeightingAP, store.settings.CourseOverrides["algebra-ii-3"])

	calc.UpdateCourseExclusion(ctx, "ap-biology-1", true)
	assert.True(t, store.settings.ExcludedCourses["ap-biology-1"])

	calc.ToggleWeightedGPA(ctx)
	assert.True(t, store.settings.UseWeightedGPA)
	calc.ToggleWeightedGPA(ctx)
	assert.False(t, store.settings.UseWeightedGPA)
}

func TestCalculatorMutationRequiresRecompute(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	calc := NewCalculator(store)
	courses := sampleCourses()

	before, err := calc.Compute(ctx, courses)
	require.NoError(t, err)
	assert.False(t, before.UseWeighted)

	calc.ToggleWeightedGPA(ctx)

	after, err := calc.Compute(ctx, courses)
	require.NoError(t, err)
	assert.True(t, after.UseWeighted)
	assert.Equal(t, before.WeightedGPA, after.WeightedGPA)
}

func TestCalculatorSettingsReadFailureUsesDefaults(t *testing.T) {
	ctx := context.Background()
	store := &memSettingsStore{getErr: errors.New("store corrupted")}
	calc := NewCalculator(store)

	result, err := calc.Compute(ctx, sampleCourses())
	require.NoError(t, err)
	assert.False(t, result.UseWeighted)
	assert.Equal(t, 3, result.IncludedCourses)
}

func TestCalculatorSettingsWriteFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.putErr = errors.New("store unavailable")
	calc := NewCalculator(store)

	// The returned settings still reflect the requested change.
	settings := calc.UpdateCourseExclusion(ctx, "algebra-ii-3", true)
	assert.True(t, settings.ExcludedCourses["algebra-ii-3"])
}
