// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/elective-advisor/pkg/types"
)

// taggedLine matches "**Key:** value". The key stops at the first ":**".
var taggedLine = regexp.MustCompile(`^\*\*(.+?):\*\*\s*(.*)$`)

// ErrInvalidNumber is matched by every NumberError.
var ErrInvalidNumber = errors.New("invalid Number value")

// NumberError reports a Number field that is not an integer. It is fatal for
// the whole reply.
type NumberError struct {
	// Line is the 1-based position of the offending line in the tagged lines.
	Line  int
	Value string
	Err   error
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("line %d: Number %q is not an integer: %v", e.Line, e.Value, e.Err)
}

func (e *NumberError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalidNumber.
func (e *NumberError) Is(target error) bool { return target == ErrInvalidNumber }

// BuildRecords assembles tagged lines into records in a single forward pass.
//
// A Number line closes the open record (if any) and starts a new one.
// Explanation text continues over untagged lines until the next tagged line.
// Rating falls back to text when it is not an integer; unknown keys are
// kept verbatim. A non-integer Number fails the whole call and no records
// are returned.
func BuildRecords(lines []string) ([]types.Recommendation, error) {
	b := builder{records: make([]types.Recommendation, 0)}
	for i, line := range lines {
		if err := b.consume(i+1, line); err != nil {
			return nil, err
		}
	}
	b.finish()
	return b.records, nil
}

// builder holds the state of one pass: the record being filled, the key of
// the last tagged line and the buffered Explanation lines.
type builder struct {
	records     []types.Recommendation
	current     types.Recommendation
	key         string
	explanation []string
}

func (b *builder) consume(lineNo int, line string) error {
	m := taggedLine.FindStringSubmatch(line)
	if m == nil {
		b.continuation(line)
		return nil
	}

	key := strings.TrimSpace(m[1])
	value := strings.TrimSpace(m[2])

	switch key {
	case types.FieldNumber:
		b.closeRecord()
		n, err := strconv.Atoi(value)
		if err != nil {
			return &NumberError{Line: lineNo, Value: value, Err: err}
		}
		b.current.Number = &n
	case types.FieldCourseCode:
		b.current.CourseCode = types.Ptr(value)
	case types.FieldCourseName:
		b.current.CourseName = types.Ptr(value)
	case types.FieldRating:
		b.current.Rating = types.Ptr(types.ParseRating(value))
	case types.FieldExplanation:
		b.explanation = []string{value}
	case types.FieldPrerequisites:
		b.current.Prerequisites = types.Ptr(value)
	default:
		b.current.SetExtra(key, value)
	}
	b.key = key
	return nil
}

// continuation handles a line without a tag. Only Explanation continues; the
// record's Explanation is rebuilt from the whole buffer each time.
func (b *builder) continuation(line string) {
	if b.key != types.FieldExplanation {
		return
	}
	b.explanation = append(b.explanation, line)
	b.current.Explanation = types.Ptr(joinExplanation(b.explanation))
}

// closeRecord appends the open record. An empty record is not open, and its
// explanation buffer is left as is.
func (b *builder) closeRecord() {
	if b.current.IsEmpty() {
		return
	}
	if len(b.explanation) > 0 {
		b.current.Explanation = types.Ptr(joinExplanation(b.explanation))
		b.explanation = nil
	}
	b.records = append(b.records, b.current)
	b.current = types.Recommendation{}
}

func (b *builder) finish() {
	b.closeRecord()
	b.key = ""
}

func joinExplanation(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, " "))
}
