// Package grading assigns a quality grade to a produce listing from the
// output of an object-detection model. The model itself is an injected
// Detector; grading is a deterministic function over its confidence scores.
package grading

import (
	"context"
	"fmt"
)

// Price bands, one per grade.
const (
	priceBandA = "₹2000 - ₹2400 per quintal"
	priceBandB = "₹1500 - ₹1900 per quintal"
	priceBandC = "₹1000 - ₹1400 per quintal"
)

// defectThreshold marks detections below this confidence as defective areas.
const defectThreshold = 0.5

// Result is the grading outcome embedded into a listing at creation.
type Result struct {
	Grade      string `json:"grade"`
	PriceRange string `json:"price_range"`
	Analysis   string `json:"analysis"`
}

// Detector is the black-box object detection capability. Implementations
// return one confidence score per detected object.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]float64, error)
}

// Grader maps detection confidences to a grade and price band.
type Grader struct{}

func NewGrader() *Grader {
	return &Grader{}
}

// Grade applies the decision table over the detection confidences.
// No detections at all is treated as clean produce.
func (g *Grader) Grade(confidences []float64) Result {
	total := len(confidences)
	if total == 0 {
		return Result{
			Grade:      "A",
			PriceRange: priceBandA,
			Analysis:   "High quality produce with no visible defects detected.",
		}
	}

	defective := 0
	sum := 0.0
	for _, conf := range confidences {
		sum += conf
		if conf < defectThreshold {
			defective++
		}
	}
	ratio := float64(defective) / float64(total)
	avg := sum / float64(total)

	switch {
	case ratio < 0.2 && avg > 0.7:
		return Result{
			Grade:      "A",
			PriceRange: priceBandA,
			Analysis:   fmt.Sprintf("Premium quality produce. Minimal defects detected (%.0f%% defective areas).", ratio*100),
		}
	case ratio < 0.5 && avg > 0.5:
		return Result{
			Grade:      "B",
			PriceRange: priceBandB,
			Analysis:   fmt.Sprintf("Good quality produce with some minor defects. Moderate defects detected (%.0f%% defective areas).", ratio*100),
		}
	default:
		return Result{
			Grade:      "C",
			PriceRange: priceBandC,
			Analysis:   fmt.Sprintf("Fair quality produce with notable defects. Significant defects detected (%.0f%% defective areas).", ratio*100),
		}
	}
}

// GradeImage runs the detector over the image and grades its output.
// A detector failure never propagates: the caller always receives a result,
// degraded to a fixed grade B annotated with the truncated error.
func (g *Grader) GradeImage(ctx context.Context, detector Detector, image []byte) Result {
	confidences, err := detector.Detect(ctx, image)
	if err != nil {
		msg := err.Error()
		if len(msg) > 50 {
			msg = msg[:50]
		}
		return Result{
			Grade:      "B",
			PriceRange: priceBandB,
			Analysis:   fmt.Sprintf("Automatic grading encountered an issue: %s. Manual review recommended.", msg),
		}
	}
	return g.Grade(confidences)
}
