package grading_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"farmdirect/internal/grading"
)

type fakeDetector struct {
	confidences []float64
	err         error
}

func (f *fakeDetector) Detect(_ context.Context, _ []byte) ([]float64, error) {
	return f.confidences, f.err
}

func TestGradeDecisionTable(t *testing.T) {
	g := grading.NewGrader()

	cases := []struct {
		name        string
		confidences []float64
		grade       string
		priceRange  string
	}{
		{"NoDetections", nil, "A", "₹2000 - ₹2400 per quintal"},
		{"CleanHighConfidence", []float64{0.9, 0.95, 0.85}, "A", "₹2000 - ₹2400 per quintal"},
		// ratio 0.25, avg exactly 0.7: fails avg > 0.7 for A, passes B.
		{"BorderlineAverage", []float64{0.9, 0.9, 0.9, 0.1}, "B", "₹1500 - ₹1900 per quintal"},
		{"ModerateDefects", []float64{0.8, 0.6, 0.4}, "B", "₹1500 - ₹1900 per quintal"},
		{"MostlyDefective", []float64{0.4, 0.3, 0.2, 0.9}, "C", "₹1000 - ₹1400 per quintal"},
		{"LowConfidenceOnly", []float64{0.1, 0.2}, "C", "₹1000 - ₹1400 per quintal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := g.Grade(tc.confidences)
			assert.Equal(t, tc.grade, res.Grade)
			assert.Equal(t, tc.priceRange, res.PriceRange)
			assert.NotEmpty(t, res.Analysis)
		})
	}
}

func TestGradeIsDeterministic(t *testing.T) {
	g := grading.NewGrader()
	input := []float64{0.9, 0.9, 0.9, 0.1}
	first := g.Grade(input)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, g.Grade(input))
	}
}

func TestGradeAnalysisCitesDefectRatio(t *testing.T) {
	g := grading.NewGrader()
	res := g.Grade([]float64{0.9, 0.9, 0.9, 0.1}) // ratio 0.25
	assert.Contains(t, res.Analysis, "25% defective areas")
}

func TestGradeImageFallbackOnDetectorError(t *testing.T) {
	g := grading.NewGrader()

	longErr := errors.New(strings.Repeat("detector exploded ", 10))
	res := g.GradeImage(context.Background(), &fakeDetector{err: longErr}, []byte("img"))

	assert.Equal(t, "B", res.Grade)
	assert.Equal(t, "₹1500 - ₹1900 per quintal", res.PriceRange)
	assert.Contains(t, res.Analysis, "Automatic grading encountered an issue:")
	assert.Contains(t, res.Analysis, "Manual review recommended.")
	// The embedded error message is truncated to 50 characters.
	assert.Contains(t, res.Analysis, longErr.Error()[:50])
	assert.NotContains(t, res.Analysis, longErr.Error())
}

func TestGradeImagePassesThroughDetections(t *testing.T) {
	g := grading.NewGrader()
	res := g.GradeImage(context.Background(), &fakeDetector{confidences: []float64{}}, []byte("img"))
	assert.Equal(t, "A", res.Grade)
}
