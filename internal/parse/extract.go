// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns a language model's semi-formatted course
// recommendation reply into ordered Recommendation records.
//
// Parsing runs in two stages. The extractor keeps only tagged lines
// ("**Key:** value") and tidies verbose Prerequisites phrasing; the builder
// walks those lines once and assembles records, accumulating multi-line
// Explanation text.
package parse

import (
	"regexp"
	"strings"
)

const prerequisitesTag = "**Prerequisites:**"

// verbosePrerequisites matches the phrase the model puts between the
// Prerequisites tag and the course list, e.g. "Need to take:".
var verbosePrerequisites = regexp.MustCompile(`(\*\*Prerequisites:\*\*)[^:]*:\s*`)

// ExtractTaggedLines returns the trimmed content of every line of text that
// contains at least one '*', in input order. Prerequisites lines lose the
// text between the tag and the first following colon:
//
//	**Prerequisites:** Need to take: CPSC 335  →  **Prerequisites:** CPSC 335
//
// Lines without a '*' are dropped.
func ExtractTaggedLines(text string) []string {
	return extractLines(text, false)
}

// extractLines is ExtractTaggedLines with an option to also keep non-blank
// lines that carry no '*', so wrapped explanation text can reach the builder.
func extractLines(text string, retainUntagged bool) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if !strings.Contains(trimmed, "*") {
			if retainUntagged && trimmed != "" {
				lines = append(lines, trimmed)
			}
			continue
		}

		if strings.HasPrefix(trimmed, prerequisitesTag) {
			trimmed = verbosePrerequisites.ReplaceAllString(trimmed, "${1} ")
		}
		lines = append(lines, trimmed)
	}
	return lines
}
