// Package plan holds the pure parts of study plan generation:
// citation-numbered context assembly and the fixed prompt pair.
package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/studyplan/internal/domain/search/result"
)

// missingPage is rendered for slide rows that carry no page number.
const missingPage = "n/a"

// AssembleContext numbers lab results first, then slide results, starting at 1.
// Numbering follows input order; identical texts are not merged.
// Lines are separated by one blank line. No input yields "".
func AssembleContext(labs, slides []result.Result) string {
	lines := make([]string, 0, len(labs)+len(slides))
	n := 1
	for i := range labs {
		lines = append(lines, fmt.Sprintf("[%d] (Lab file: %s) %s", n, labs[i].File(), labs[i].Text()))
		n++
	}
	for i := range slides {
		lines = append(lines, fmt.Sprintf("[%d] (Slide file: %s | Page %s) %s",
			n, slides[i].File(), pageLabel(&slides[i]), slides[i].Text()))
		n++
	}
	return strings.Join(lines, "\n\n")
}

func pageLabel(r *result.Result) string {
	page, ok := r.Page()
	if !ok {
		return missingPage
	}
	return strconv.Itoa(page)
}
