package patch

import (
	"regexp"
	"sort"
)

var ignorePatternMap = map[string]string{
	"package-lock":         `package-lock\.json$`,
	"yarn-lock":            `yarn\.lock$`,
	"pnpm-lock":            `pnpm-lock\.yaml$`,
	"npm-shrinkwrap":       `npm-shrinkwrap\.json$`,
	"go-sum":               `go\.sum$`,
	"go-work-sum":          `go\.work\.sum$`,
	"vendor":               `(^|/)vendor/`,
	"node_modules":         `(^|/)node_modules/`,
	"generated-go":         `\.(?:pb|pb\.gw|pb\.json|pb\.grpc)\.go$`,
	"generated-client":     `\.generated\.(?:ts|js|py|go|rs|java)$`,
	"typescript-snapshots": `\.snap$`,
	"minified":             `\.min\.(?:js|css)$`,
	"source-maps":          `\.map$`,
	"lockfiles":            `\.lock$`,
	"generated-json":       `.*\.swagger\.json$`,
}

var ignorePatterns = buildIgnorePatterns()

func buildIgnorePatterns() map[string]*regexp.Regexp {
	compiled := make(map[string]*regexp.Regexp, len(ignorePatternMap))
	for reason, pattern := range ignorePatternMap {
		compiled[reason] = regexp.MustCompile(pattern)
	}
	return compiled
}

// shouldIgnoreFile reports whether path looks generated. Reasons are checked
// in sorted order so the reported reason is stable.
func shouldIgnoreFile(path string, patterns map[string]*regexp.Regexp) (bool, string) {
	reasons := make([]string, 0, len(patterns))
	for reason := range patterns {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		if patterns[reason].MatchString(path) {
			return true, reason
		}
	}
	return false, ""
}

func filterGeneratedFiles(sections []fileSection, patterns map[string]*regexp.Regexp) (included, skipped []fileSection) {
	for _, sec := range sections {
		if ign, _ := shouldIgnoreFile(sec.Path, patterns); ign {
			skipped = append(skipped, sec)
			continue
		}
		included = append(included, sec)
	}
	return included, skipped
}
