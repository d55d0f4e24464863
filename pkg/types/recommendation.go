// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// Field names of a recommendation record, exactly as they appear in model
// replies and in the JSON output.
const (
	FieldNumber        = "Number"
	FieldCourseCode    = "Course Code"
	FieldCourseName    = "Course Name"
	FieldRating        = "Rating"
	FieldExplanation   = "Explanation"
	FieldPrerequisites = "Prerequisites"
)

// NoPrerequisites is the conceptual value of an absent Prerequisites field.
const NoPrerequisites = "None"

// RatingKind tags which variant of Rating is populated.
type RatingKind int

const (
	RatingInteger RatingKind = iota
	RatingText
)

// Rating is the score the model gave a course. Models usually answer with an
// integer; anything else (e.g. "N/A") is kept verbatim as text.
type Rating struct {
	Kind RatingKind
	Int  int
	Text string
}

// IntegerRating returns an integer Rating.
func IntegerRating(n int) Rating {
	return Rating{Kind: RatingInteger, Int: n}
}

// TextRating returns a text Rating.
func TextRating(s string) Rating {
	return Rating{Kind: RatingText, Text: s}
}

// ParseRating parses s as an integer rating, falling back to a text rating.
func ParseRating(s string) Rating {
	if n, err := strconv.Atoi(s); err == nil {
		return IntegerRating(n)
	}
	return TextRating(s)
}

// String renders the rating as it would appear in a model reply.
func (r Rating) String() string {
	if r.Kind == RatingText {
		return r.Text
	}
	return strconv.Itoa(r.Int)
}

// MarshalJSON encodes integer ratings as JSON numbers and text ratings as strings.
func (r Rating) MarshalJSON() ([]byte, error) {
	if r.Kind == RatingText {
		return json.Marshal(r.Text)
	}
	return json.Marshal(r.Int)
}

// UnmarshalJSON accepts a JSON string or number. Non-integer numbers are kept
// as text so no precision is invented.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = TextRating(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*r = IntegerRating(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("rating must be a string or number: %w", err)
	}
	*r = TextRating(string(data))
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (r Rating) MarshalYAML() (any, error) {
	if r.Kind == RatingText {
		return r.Text, nil
	}
	return r.Int, nil
}

// ExtraField is a field with a key outside the known vocabulary.
type ExtraField struct {
	Key   string
	Value string
}

// Recommendation is one course recommended by the model. Every field is
// optional: a nil pointer means the reply never mentioned it, which is
// different from an empty value.
type Recommendation struct {
	Number        *int
	CourseCode    *string
	CourseName    *string
	Rating        *Rating
	Explanation   *string
	Prerequisites *string

	// Extra holds unrecognised keys in first-seen order.
	Extra []ExtraField
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// IsEmpty reports whether no field has been set.
func (r *Recommendation) IsEmpty() bool {
	return r.Number == nil && r.CourseCode == nil && r.CourseName == nil &&
		r.Rating == nil && r.Explanation == nil && r.Prerequisites == nil &&
		len(r.Extra) == 0
}

// SetExtra stores an unrecognised field. A repeated key overwrites the value
// but keeps its original position.
func (r *Recommendation) SetExtra(key, value string) {
	for i := range r.Extra {
		if r.Extra[i].Key == key {
			r.Extra[i].Value = value
			return
		}
	}
	r.Extra = append(r.Extra, ExtraField{Key: key, Value: value})
}

// ExtraValue returns the value of an unrecognised field.
func (r *Recommendation) ExtraValue(key string) (string, bool) {
	for _, f := range r.Extra {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// PrerequisitesOrNone returns the prerequisites, or NoPrerequisites when the
// field is absent or blank.
func (r *Recommendation) PrerequisitesOrNone() string {
	if r.Prerequisites == nil || *r.Prerequisites == "" {
		return NoPrerequisites
	}
	return *r.Prerequisites
}

// MarshalJSON writes the known fields in canonical order followed by the
// extra fields. Absent fields are omitted.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	return encodeOrdered(r.orderedFields())
}

// UnmarshalJSON reads an object produced by MarshalJSON, keeping the order of
// unknown keys. JSON nulls are treated as absent fields.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("recommendation must be a JSON object, got %v", tok)
	}

	var rec Recommendation
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if string(bytes.TrimSpace(raw)) == "null" {
			continue
		}
		if err := rec.setJSON(key, raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = rec
	return nil
}

func (r *Recommendation) setJSON(key string, raw json.RawMessage) error {
	str := func() (*string, error) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}

	var err error
	switch key {
	case FieldNumber:
		var n int
		if err = json.Unmarshal(raw, &n); err == nil {
			r.Number = &n
		}
	case FieldCourseCode:
		r.CourseCode, err = str()
	case FieldCourseName:
		r.CourseName, err = str()
	case FieldRating:
		var rating Rating
		if err = rating.UnmarshalJSON(raw); err == nil {
			r.Rating = &rating
		}
	case FieldExplanation:
		r.Explanation, err = str()
	case FieldPrerequisites:
		r.Prerequisites, err = str()
	default:
		var s string
		if json.Unmarshal(raw, &s) != nil {
			s = string(raw)
		}
		r.SetExtra(key, s)
	}
	return err
}

// MarshalYAML emits the same ordered mapping as MarshalJSON.
func (r Recommendation) MarshalYAML() (any, error) {
	return orderedNode(r.orderedFields())
}

type keyValue struct {
	key   string
	value any
}

func (r *Recommendation) orderedFields() []keyValue {
	var out []keyValue
	if r.Number != nil {
		out = append(out, keyValue{FieldNumber, *r.Number})
	}
	if r.CourseCode != nil {
		out = append(out, keyValue{FieldCourseCode, *r.CourseCode})
	}
	if r.CourseName != nil {
		out = append(out, keyValue{FieldCourseName, *r.CourseName})
	}
	if r.Rating != nil {
		out = append(out, keyValue{FieldRating, *r.Rating})
	}
	if r.Explanation != nil {
		out = append(out, keyValue{FieldExplanation, *r.Explanation})
	}
	if r.Prerequisites != nil {
		out = append(out, keyValue{FieldPrerequisites, *r.Prerequisites})
	}
	for _, f := range r.Extra {
		out = append(out, keyValue{f.Key, f.Value})
	}
	return out
}

func encodeOrdered(fields []keyValue) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		kb, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", f.key, err)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func orderedNode(fields []keyValue) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		var value yaml.Node
		if err := value.Encode(f.value); err != nil {
			return nil, fmt.Errorf("encoding %q: %w", f.key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.key},
			&value,
		)
	}
	return node, nil
}
