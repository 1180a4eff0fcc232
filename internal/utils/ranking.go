package utils

import (
	"math"
	"time"
)

type RankConfig struct {
	Gravity        float64
	WeightComment  float64
	WeightUpvote   float64
	WeightDownvote float64
	ScaleFactor    float64
}

var DefaultConfig = RankConfig{
	Gravity:        1.5,
	WeightComment:  2.0,
	WeightUpvote:   1.0,
	WeightDownvote: 1.5,
	ScaleFactor:    100.0, // keep scores in a 0-100 band
}

// CalculateScore computes a post's hot score from its interactions, smoothed
// with log10 and decayed by age. Views are deliberately excluded: their
// magnitude dwarfs the weighted interactions.
func CalculateScore(t time.Time, up, down, comment int) float64 {
	hours := time.Since(t).Hours()

	weightedSum := (float64(up) * DefaultConfig.WeightUpvote) +
		(float64(comment) * DefaultConfig.WeightComment) -
		(float64(down) * DefaultConfig.WeightDownvote)

	if weightedSum < 0 {
		weightedSum = 0 // log10 needs a non-negative input
	}

	// log10(sum + 1) so that sum=0 yields 0
	logScore := math.Log10(weightedSum + 1)

	numerator := logScore * DefaultConfig.ScaleFactor

	decay := math.Pow(hours+2, DefaultConfig.Gravity)

	return numerator / decay
}
