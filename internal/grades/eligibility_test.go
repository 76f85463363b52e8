package grades

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Cxsmxnaut/Gradely/internal/model"
)

func TestDetectEligibilityPassFail(t *testing.T) {
	for _, letter := range []string{"P", "p", "Pass", "F", "Fail"} {
		e := DetectEligibility(model.Course{Name: "Health", LetterGrade: letter})
		assert.False(t, e.IsEligible, "letter %q", letter)
		assert.Equal(t, model.GradingPassFail, e.GradingType)
		assert.Equal(t, "Pass/Fail grading", e.ExclusionReason)
	}
}

func TestDetectEligibilityNoGrade(t *testing.T) {
	for _, letter := range []string{"", "N/A", "Incomplete"} {
		e := DetectEligibility(model.Course{Name: "World History", LetterGrade: letter})
		assert.False(t, e.IsEligible, "letter %q", letter)
		assert.Equal(t, model.GradingNoGrade, e.GradingType)
		assert.Equal(t, "No numeric grade", e.ExclusionReason)
	}
}

func TestDetectEligibilityPE(t *testing.T) {
	for _, name := range []string{"PE 9", "Physical Education", "Gym"} {
		e := DetectEligibility(model.Course{Name: name, LetterGrade: "A"})
		assert.False(t, e.IsEligible, "name %q", name)
		assert.Equal(t, "Physical Education", e.ExclusionReason)
	}
}

func TestDetectEligibilityPESubstringIsBroad(t *testing.T) {
	// Documented quirk: the bare "pe" substring also swallows courses
	// that merely contain those letters.
	e := DetectEligibility(model.Course{Name: "Open Period", LetterGrade: "A"})
	assert.False(t, e.IsEligible)
	assert.Equal(t, "Physical Education", e.ExclusionReason)
}

func TestDetectEligibilityStandard(t *testing.T) {
	e := DetectEligibility(model.Course{Name: "Algebra II", LetterGrade: "B+"})
	assert.True(t, e.IsEligible)
	assert.Equal(t, model.GradingStandard, e.GradingType)
	assert.Empty(t, e.ExclusionReason)
	assert.False(t, e.IsElective)
}

func TestDetectEligibilityElective(t *testing.T) {
	for _, name := range []string{"Orchestra", "Jazz Band", "Art History", "Yearbook"} {
		e := DetectEligibility(model.Course{Name: name, LetterGrade: "A"})
		assert.True(t, e.IsEligible, "name %q", name)
		assert.True(t, e.IsElective, "name %q", name)
	}
}

func TestDetectWeighting(t *testing.T) {
	tests := []struct {
		name string
		want model.WeightingType
	}{
		{"AP Biology", model.WeightingAP},
		{"Advanced Placement Chemistry", model.WeightingAP},
		{"Honors English 10", model.WeightingHonors},
		{"Honour Chemistry", model.WeightingHonors},
		{"Algebra II", model.WeightingNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectWeighting(model.Course{Name: tt.name}), "name %q", tt.name)
	}
}

func TestApplyWeightingCaps(t *testing.T) {
	assert.Equal(t, 5.0, ApplyWeighting(4.0, model.WeightingAP))
	assert.Equal(t, 4.5, ApplyWeighting(4.0, model.WeightingHonors))
	assert.Equal(t, 4.0, ApplyWeighting(4.0, model.WeightingNone))

	// Repeated application stays at the cap.
	assert.Equal(t, 5.0, ApplyWeighting(ApplyWeighting(4.0, model.WeightingAP), model.WeightingAP))
	assert.Equal(t, 4.5, ApplyWeighting(ApplyWeighting(4.0, model.WeightingHonors), model.WeightingHonors))

	assert.InDelta(t, 4.7, ApplyWeighting(3.7, model.WeightingAP), 1e-9)
	assert.InDelta(t, 3.5, ApplyWeighting(3.0, model.WeightingHonors), 1e-9)
}
