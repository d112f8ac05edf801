package plan

import (
	"fmt"
	"strings"
)

// Sampling settings for the single plan completion.
const (
	Temperature = 0.2
	MaxTokens   = 1000
)

// CitationPlaceholder ends every task line of the output template.
const CitationPlaceholder = "[CITATION]"

// Days is the plan length; ReviewDays get spaced review of weak topics.
const Days = 7

// ReviewDays are the days reserved for spaced review.
var ReviewDays = []int{1, 3, 6}

// Prompt is the system/user message pair sent to the chat model.
type Prompt struct {
	System string
	User   string
}

const systemPrompt = `You are a supportive study coach for a university data science course.
You write a personalised 7-day study plan from a student's feedback and excerpts of the course material.

Structure:
- Exactly 7 days, Day 1 to Day 7.
- Spaced review of the student's weakest topics on Day 1, Day 3 and Day 6.
- 2 to 4 tasks per day. Each task states a time estimate in minutes and ends with exactly one citation marker like [2] that points to the context.

Output contract:
- Use only facts found in the context. Never invent files, pages, or course content.
- If the feedback mentions a topic the context does not cover, list it under "Gaps" and say explicitly that the material is missing.`

// BuildPrompt interpolates the feedback verbatim and the assembled context.
func BuildPrompt(feedback, contextBlock string) Prompt {
	var b strings.Builder
	b.WriteString("Student feedback:\n\"\"\"\n")
	b.WriteString(feedback)
	b.WriteString("\n\"\"\"\n\n")
	b.WriteString("Course context:\n")
	b.WriteString(contextBlock)
	b.WriteString("\n\n")
	b.WriteString("Replace every ")
	b.WriteString(CitationPlaceholder)
	b.WriteString(" with the matching context number. Answer in this format:\n\n")
	b.WriteString(OutputTemplate())

	return Prompt{System: systemPrompt, User: b.String()}
}

// OutputTemplate is the plan skeleton the model must fill in.
func OutputTemplate() string {
	var b strings.Builder
	for day := 1; day <= Days; day++ {
		if isReviewDay(day) {
			fmt.Fprintf(&b, "Day %d (spaced review)\n", day)
		} else {
			fmt.Fprintf(&b, "Day %d\n", day)
		}
		fmt.Fprintf(&b, "- <task> (<minutes> min) %s\n", CitationPlaceholder)
		fmt.Fprintf(&b, "- <task> (<minutes> min) %s\n", CitationPlaceholder)
		b.WriteString("\n")
	}
	b.WriteString("Gaps\n")
	b.WriteString("* <topic from the feedback that the context does not cover, or \"none\">\n")
	return b.String()
}

func isReviewDay(day int) bool {
	for _, d := range ReviewDays {
		if d == day {
			return true
		}
	}
	return false
}
