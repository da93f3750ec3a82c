package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name          string
		sum           int
		questionCount int
		maxPoints     int
		want          int
	}{
		{name: "all zero answers", sum: 0, questionCount: 3, maxPoints: 10, want: 0},
		{name: "all max answers", sum: 30, questionCount: 3, maxPoints: 10, want: 100},
		{name: "half the points", sum: 15, questionCount: 3, maxPoints: 10, want: 50},
		{name: "rounds half up", sum: 5, questionCount: 4, maxPoints: 10, want: 13},
		{name: "zero questions yields zero", sum: 10, questionCount: 0, maxPoints: 10, want: 0},
		{name: "negative sum yields zero", sum: -5, questionCount: 3, maxPoints: 10, want: 0},
		{name: "max points defaults when unset", sum: 20, questionCount: 4, maxPoints: 0, want: 50},
		{name: "sum above maximum is clamped", sum: 40, questionCount: 3, maxPoints: 10, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Number(t, model.HealthScore(tt.sum, tt.questionCount, tt.maxPoints)).Equal(tt.want)
		})
	}
}

func TestHealthScore_Classification(t *testing.T) {
	// End-to-end over the literal cases: raw sums of a three-question
	// quiz map to the documented levels.
	gt.Value(t, types.ClassifyHealthScore(model.HealthScore(0, 3, 10))).Equal(types.HealthLevelHigh)
	gt.Value(t, types.ClassifyHealthScore(model.HealthScore(15, 3, 10))).Equal(types.HealthLevelMedium)
	gt.Value(t, types.ClassifyHealthScore(model.HealthScore(30, 3, 10))).Equal(types.HealthLevelLow)
}
