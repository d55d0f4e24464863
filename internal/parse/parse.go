// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import "github.com/pdiddy/elective-advisor/pkg/types"

// Parser converts a raw model reply into records.
type Parser struct {
	// RetainContinuations keeps untagged lines during extraction so that
	// Explanation text the model wrapped onto plain lines is not lost.
	RetainContinuations bool
}

// New returns a Parser configured from cfg.
func New(cfg types.ParserConfig) Parser {
	return Parser{RetainContinuations: cfg.RetainContinuations}
}

// Parse extracts tagged lines from text and builds records from them. An
// empty or untagged reply yields an empty, non-nil slice.
func (p Parser) Parse(text string) ([]types.Recommendation, error) {
	return BuildRecords(extractLines(text, p.RetainContinuations))
}

// Parse is Parser{}.Parse: strict extraction, untagged lines dropped.
func Parse(text string) ([]types.Recommendation, error) {
	return Parser{}.Parse(text)
}
