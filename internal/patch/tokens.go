package patch

import "github.com/roivaz/gitreport/internal/tokens"

const approxCharsPerToken = tokens.ApproxCharsPerToken

var estimateTokensFunc = tokens.Estimate

// EstimateTokens approximates the number of model tokens in text.
func EstimateTokens(text string) int {
	return estimateTokensFunc(text)
}
