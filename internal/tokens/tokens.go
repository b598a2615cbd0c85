// Package tokens approximates model token counts with the cl100k encoding,
// falling back to a characters-per-token ratio when no encoder is available.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const ApproxCharsPerToken = 4

var (
	encoderOnce sync.Once
	encoder     *tiktoken.Tiktoken
)

func Estimate(text string) int {
	enc := getEncoder()
	if enc != nil {
		if n := len(enc.Encode(text, nil, nil)); n > 0 {
			return n
		}
	}
	return max(1, len(text)/ApproxCharsPerToken)
}

func getEncoder() *tiktoken.Tiktoken {
	encoderOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel("gpt-4o-mini")
		if err != nil {
			enc, _ = tiktoken.GetEncoding("cl100k_base")
		}
		encoder = enc
	})
	return encoder
}
