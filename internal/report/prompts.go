package report

import (
	"fmt"
	"strings"

	"github.com/roivaz/gitreport/internal/history"
)

// Opening sentences of the single-shot templates. The mock backend keys its
// canned responses on them.
const (
	SummaryMarker  = "You are a Tech Lead"
	PersonalMarker = "You are a developer"
)

// AnalysisSeparator joins chunk analyses in the consolidation prompt.
const AnalysisSeparator = "\n\n---\n\n"

const summaryPromptTemplate = SummaryMarker + ` in charge of writing a weekly work report from commit logs. Analyze the information provided and produce a clear, well structured and professional summary.
Based on the commits below, write a report that includes:
1. A title and a short introduction describing the goal of the work.
2. A "Contributions by Developer" section.
3. For each developer, group their commits and describe the work done.
4. An "Observations" section for each developer when you notice interesting patterns.
5. Finally, a "Development Time Estimate" section with the approximate hours spent by each developer.
Use a professional tone and keep the report easy to read. Be impartial and objective.
Commit data (format: Date | Author | Message):
{{.Commits}}
---

Reply ONLY with the report, without additional explanations.`

const personalPromptTemplate = PersonalMarker + ` who must hand in a concise technical report to your manager about the work done, based on commit logs.

Write a report that includes:
1. A short, descriptive title for the work.
2. A clear, ordered list of the main tasks completed, grouped by feature or module.
3. For each task, a brief technical description of the changes and their impact.
4. An estimate of the hours spent on each task.
5. A final "Next steps" section with relevant pending work.

Be direct, professional and useful for technical supervision. Focus on results and time spent.

Commit data (format: Date | Author | Message):
{{.Commits}}
---

Reply ONLY with the report, without additional explanations.`

const chunkAnalysisPromptTemplate = `You are a code analysis expert reviewing a set of commits. Analyze the block of commits below, including their messages and code changes (diffs), to understand what was actually done.
Extract the following:
- **Technical Summary:** Describe in detail the technical changes. Mention modified files, added or removed functions, and the main logic implemented.
- **Affected Functionality:** Identify which parts of the application or which features were affected by these changes.
- **Possible Improvements or Risks:** Note any area that could be improved or any potential risk introduced by the code.
- **Key Participants:** Name the developers who made the most significant changes.

Commits and diffs:
{{.Chunk}}
---

Reply ONLY with the analysis, without additional explanations.`

const consolidationPromptTemplate = `You are a Software Architect who received analyses of several blocks of commits. Consolidate them into a single "Deep Dive" report that gives a complete and coherent view of the work done.
Use the following chunk analyses:
{{.Analyses}}
---
The final report must have this structure:
1. **Title:** "Deep Dive Commit Analysis Report"
2. **Executive Summary:** A short, high-level description of the most significant changes and their overall impact on the project.
3. **Detailed Analysis by Module/Feature:** Group the changes by the areas of the system they affected. For each area, describe the technical and functional changes.
4. **Observations and Recommendations:** Based on the full analysis, comment on code quality, recurring patterns and recommendations for future improvements or areas that need attention.
5. **Participants:** A summary with an hour estimate for each developer involved.

Be clear and structured, and useful to both developers and technical management.
Reply ONLY with the report, without additional explanations.`

// FormatCommitLines renders one "Date | Author | Message" line per commit.
func FormatCommitLines(commits []history.CommitRecord) string {
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		lines = append(lines, fmt.Sprintf("%s | %s | %s", c.Date, c.Author, c.Message))
	}
	return strings.Join(lines, "\n")
}

// FormatChunk renders each commit of a chunk as a metadata and diff block.
func FormatChunk(chunk []CommitWithDiff) string {
	blocks := make([]string, 0, len(chunk))
	for _, c := range chunk {
		blocks = append(blocks, fmt.Sprintf("Commit: %s\nAuthor: %s\nDate: %s\nMessage: %s\n\nDiff:\n%s\n---",
			c.Hash, c.Author, c.Date, c.Message, c.Diff))
	}
	return strings.Join(blocks, "\n")
}

func SummaryPrompt(commitLines string) string {
	return strings.ReplaceAll(summaryPromptTemplate, "{{.Commits}}", commitLines)
}

func PersonalPrompt(commitLines string) string {
	return strings.ReplaceAll(personalPromptTemplate, "{{.Commits}}", commitLines)
}

func ChunkAnalysisPrompt(chunkText string) string {
	return strings.ReplaceAll(chunkAnalysisPromptTemplate, "{{.Chunk}}", chunkText)
}

func ConsolidationPrompt(analyses []string) string {
	return strings.ReplaceAll(consolidationPromptTemplate, "{{.Analyses}}", strings.Join(analyses, AnalysisSeparator))
}
