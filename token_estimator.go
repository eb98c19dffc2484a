package imagestudio

import (
	"math"
	"unicode/utf8"
)

// TokenEstimator approximates how many tokens a prompt will consume, for rate
// limiting before the request is sent.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// TokenEstimatorFunc adapts a function to TokenEstimator.
type TokenEstimatorFunc func(text string) int

// EstimateTokens calls f(text).
func (f TokenEstimatorFunc) EstimateTokens(text string) int { return f(text) }

// SimpleTokenEstimator assumes four characters per token plus a margin.
type SimpleTokenEstimator struct {
	SafetyMargin float64
}

// NewSimpleTokenEstimator returns an estimator with a 20% margin.
func NewSimpleTokenEstimator() *SimpleTokenEstimator {
	return &SimpleTokenEstimator{
		SafetyMargin: 1.2,
	}
}

// EstimateTokens rounds up and adds a small fixed overhead per message.
func (e *SimpleTokenEstimator) EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	estimate := float64(utf8.RuneCountInString(text)) / 4.0 * e.SafetyMargin
	return int(math.Ceil(estimate)) + 3
}

// imageTokenCost is the flat token charge assumed for each input image.
const imageTokenCost = 258
