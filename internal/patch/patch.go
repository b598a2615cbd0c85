// Package patch prepares commit patches before they are embedded in a model
// prompt: generated and lock files are stripped and oversized patches are
// truncated to a token budget.
package patch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

var diffHeaderRegexp = regexp.MustCompile(`(?m)^diff --git a/(?P<old>.*?) b/(?P<new>.*?)$`)

type Options struct {
	FilterGenerated bool
	MaxTokens       int // 0 disables truncation
}

type Stats struct {
	FilesTotal    int
	FilesFiltered int
	Tokens        int
	Truncated     bool
}

type fileSection struct {
	Path string
	Text string
}

// Prepare returns the patch text to send to the model. Commit metadata that
// precedes the first file header is always kept.
func Prepare(diffText string, opts Options) (string, Stats) {
	preamble, sections := splitDiffIntoFiles(diffText)
	stats := Stats{FilesTotal: len(sections)}

	out := diffText
	if opts.FilterGenerated && len(sections) > 0 {
		included, skipped := filterGeneratedFiles(sections, ignorePatterns)
		stats.FilesFiltered = len(skipped)
		if len(skipped) > 0 {
			out = rebuild(preamble, included, skipped)
		}
	}

	stats.Tokens = EstimateTokens(out)
	if opts.MaxTokens > 0 && stats.Tokens > opts.MaxTokens {
		out = truncate(out, opts.MaxTokens, stats.Tokens)
		stats.Truncated = true
	}
	return out, stats
}

func splitDiffIntoFiles(diffText string) (string, []fileSection) {
	if strings.TrimSpace(diffText) == "" {
		return "", nil
	}
	matches := diffHeaderRegexp.FindAllStringIndex(diffText, -1)
	if len(matches) == 0 {
		return diffText, nil
	}

	sections := make([]fileSection, 0, len(matches))
	for i, loc := range matches {
		start := loc[0]
		end := len(diffText)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		chunk := diffText[start:end]
		header := diffHeaderRegexp.FindStringSubmatch(chunk)
		oldPath := header[diffHeaderRegexp.SubexpIndex("old")]
		newPath := header[diffHeaderRegexp.SubexpIndex("new")]
		path := newPath
		if path == "/dev/null" {
			path = oldPath
		}
		sections = append(sections, fileSection{Path: path, Text: chunk})
	}
	return diffText[:matches[0][0]], sections
}

func rebuild(preamble string, included, skipped []fileSection) string {
	var b strings.Builder
	b.WriteString(preamble)
	for _, sec := range included {
		b.WriteString(sec.Text)
	}
	names := make([]string, 0, len(skipped))
	for _, sec := range skipped {
		names = append(names, sec.Path)
	}
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "[generated files omitted: %s]\n", strings.Join(names, ", "))
	return b.String()
}

func truncate(text string, maxTokens, total int) string {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithSeparators([]string{"\ndiff --git", "\n@@", "\n", ""}),
		textsplitter.WithChunkSize(maxTokens*approxCharsPerToken),
		textsplitter.WithChunkOverlap(0),
	)
	head := text
	parts, err := splitter.SplitText(text)
	if err == nil && len(parts) > 0 {
		head = parts[0]
	} else if limit := maxTokens * approxCharsPerToken; len(text) > limit {
		head = text[:limit]
	}
	return fmt.Sprintf("%s\n[diff truncated: about %d of %d tokens omitted]\n", strings.TrimRight(head, "\n"), max(0, total-maxTokens), total)
}
