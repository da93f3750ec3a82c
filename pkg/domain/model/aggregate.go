package model

import "github.com/grc-lab/periksa/pkg/domain/types"

// MatrixSize is the number of levels per axis of the risk matrix
const MatrixSize = 5

// MatrixCell is one cell of the 5×5 risk matrix. Membership is
// partitioned by scoring mode: the same item can appear in one cell via
// its inherent pair and another (or the same) via its residual pair.
type MatrixCell struct {
	Likelihood int
	Impact     int
	Score      int
	Band       types.RiskBand
	Inherent   []RiskItemRef
	Residual   []RiskItemRef
}

// Matrix is the fixed 5×5 grid plus counters for items whose pair was
// unscorable and therefore excluded from the grid.
type Matrix struct {
	Cells            [MatrixSize][MatrixSize]MatrixCell
	UnscoredInherent int
	UnscoredResidual int
}

// Cell returns the cell for a likelihood/impact combination, nil when
// either level is out of range
func (m *Matrix) Cell(likelihood, impact int) *MatrixCell {
	if likelihood < 1 || likelihood > MatrixSize || impact < 1 || impact > MatrixSize {
		return nil
	}
	return &m.Cells[likelihood-1][impact-1]
}

// BandDistribution counts items per band. Undefined holds items whose
// pair was unscorable; the counts plus Undefined always sum to the item
// total.
type BandDistribution struct {
	Counts    map[types.RiskBand]int
	Undefined int
}

// Total returns the sum of all band counts plus the undefined count
func (d BandDistribution) Total() int {
	total := d.Undefined
	for _, n := range d.Counts {
		total += n
	}
	return total
}

// TypeCount is one entry of the type distribution
type TypeCount struct {
	RiskType string
	Count    int
}

// Summary holds headline statistics over an aggregated register
type Summary struct {
	TotalCount     int
	HighestBand    types.RiskBand
	MostCommonBand types.RiskBand
}

// AggregateResult is the full read-only output of Aggregate
type AggregateResult struct {
	Matrix   Matrix
	Inherent BandDistribution
	Residual BandDistribution
	Types    []TypeCount
	Summary  Summary
}

func newBandDistribution() BandDistribution {
	return BandDistribution{Counts: make(map[types.RiskBand]int)}
}

// Aggregate folds a risk register snapshot into the matrix, band and
// type distributions and summary statistics. It never mutates the input.
// Insertion order of items is irrelevant except for the type
// distribution, which preserves first-seen order for stable display.
func Aggregate(items []*RiskItem) *AggregateResult {
	result := &AggregateResult{
		Inherent: newBandDistribution(),
		Residual: newBandDistribution(),
	}

	for l := 1; l <= MatrixSize; l++ {
		for i := 1; i <= MatrixSize; i++ {
			cell := result.Matrix.Cell(l, i)
			cell.Likelihood = l
			cell.Impact = i
			cell.Score = l * i
			cell.Band = types.ClassifyRiskScore(cell.Score)
		}
	}

	typeIndex := make(map[string]int)
	highestScore := 0

	for _, item := range items {
		result.Summary.TotalCount++

		if item.Inherent.IsScorable() {
			cell := result.Matrix.Cell(item.Inherent.Likelihood, item.Inherent.Impact)
			cell.Inherent = append(cell.Inherent, item.Ref())
			result.Inherent.Counts[item.Inherent.Band()]++

			if score := item.Inherent.Score(); score > highestScore {
				highestScore = score
				result.Summary.HighestBand = item.Inherent.Band()
			}
		} else {
			result.Matrix.UnscoredInherent++
			result.Inherent.Undefined++
		}

		if item.Residual.IsScorable() {
			cell := result.Matrix.Cell(item.Residual.Likelihood, item.Residual.Impact)
			cell.Residual = append(cell.Residual, item.Ref())
			result.Residual.Counts[item.Residual.Band()]++
		} else {
			result.Matrix.UnscoredResidual++
			result.Residual.Undefined++
		}

		if idx, ok := typeIndex[item.RiskType]; ok {
			result.Types[idx].Count++
		} else {
			typeIndex[item.RiskType] = len(result.Types)
			result.Types = append(result.Types, TypeCount{RiskType: item.RiskType, Count: 1})
		}
	}

	result.Summary.MostCommonBand = mostCommonBand(result.Inherent)

	return result
}

// mostCommonBand picks the band with the largest inherent count. Ties
// are broken by severity, highest wins, so the output is deterministic.
func mostCommonBand(dist BandDistribution) types.RiskBand {
	best := types.BandUndefined
	bestCount := 0
	for _, band := range types.AllRiskBands() {
		if n := dist.Counts[band]; n >= bestCount && n > 0 {
			best = band
			bestCount = n
		}
	}
	return best
}
