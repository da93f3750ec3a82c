package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

func TestClassifyHealthScore(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  types.HealthLevel
	}{
		{name: "perfect score is low risk", score: 100, want: types.HealthLevelLow},
		{name: "boundary 80 is low risk", score: 80, want: types.HealthLevelLow},
		{name: "score 79 is medium risk", score: 79, want: types.HealthLevelMedium},
		{name: "boundary 50 is medium risk", score: 50, want: types.HealthLevelMedium},
		{name: "score 49 is high risk", score: 49, want: types.HealthLevelHigh},
		{name: "zero score is high risk", score: 0, want: types.HealthLevelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, types.ClassifyHealthScore(tt.score)).Equal(tt.want)
		})
	}
}

func TestHealthLevel_IsScored(t *testing.T) {
	gt.B(t, types.HealthLevelLow.IsScored()).True()
	gt.B(t, types.HealthLevelMedium.IsScored()).True()
	gt.B(t, types.HealthLevelHigh.IsScored()).True()
	gt.B(t, types.HealthLevelUnscored.IsScored()).False()
	gt.B(t, types.HealthLevel("").IsScored()).False()
}
