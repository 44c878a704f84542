// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package email

import (
	"fmt"
	"regexp"
	"strings"
)

// Field names extracted from notification emails.
const (
	FieldDOI         = "doi"
	FieldDatasetName = "dataset_name"
	FieldDepositor   = "depositor"
)

// FieldNotFoundError is returned when a rule's pattern does not match.
type FieldNotFoundError struct {
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field not found in email: %s", e.Field)
}

// Rule extracts one field using a pattern anchored to the surrounding
// template text. The pattern must have exactly one capture group.
type Rule struct {
	Field   string
	Pattern *regexp.Regexp
}

// NewRule compiles pattern in multi-line mode.
// It panics if the pattern does not have exactly one capture group.
func NewRule(field, pattern string) Rule {
	re := regexp.MustCompile("(?m)" + pattern)
	if re.NumSubexp() != 1 {
		panic(fmt.Sprintf("email rule %q must have exactly one capture group, has %d", field, re.NumSubexp()))
	}
	return Rule{Field: field, Pattern: re}
}

// Apply returns the trimmed capture, or a FieldNotFoundError.
func (r Rule) Apply(text string) (string, error) {
	m := r.Pattern.FindStringSubmatch(text)
	if m == nil {
		return "", &FieldNotFoundError{Field: r.Field}
	}
	value := strings.TrimSpace(m[1])
	if value == "" {
		return "", &FieldNotFoundError{Field: r.Field}
	}
	return value, nil
}

// doiPattern matches 10.<registrant>/<suffix> without a trailing sentence period.
const doiPattern = `10\.[0-9]+/[0-9A-Za-z._\-]*[0-9A-Za-z]`

var (
	DepositorRule = NewRule(FieldDepositor,
		`^Dear +([^ ].*),$`)

	DatasetNameRule = NewRule(FieldDatasetName,
		`^Thank you for submitting your dataset entitled, "(.*)"\.$`)

	// Both the older "doi:" wording and the newer doi.org URL wording are accepted.
	SubmissionDOIRule = NewRule(FieldDOI,
		`^(?:Your dataset has been assigned a|A) unique digital object identifier \(DOI\): (?:doi:|https://doi\.org/)(`+doiPattern+`)`)

	WithdrawalDOIRule = NewRule(FieldDOI,
		`(?:https://doi\.org/|doi:)(`+doiPattern+`)`)
)

var rulesByType = map[MessageType][]Rule{
	TypeSubmission: {DepositorRule, DatasetNameRule, SubmissionDOIRule},
	TypeWithdrawal: {WithdrawalDOIRule},
}

// Fields holds the values extracted from one email.
type Fields struct {
	DOI         string
	DatasetName string
	Depositor   string
}

// Extract applies every rule for the message type. It fails on the first
// rule that does not match; no partial result is returned.
func Extract(t MessageType, text string) (*Fields, error) {
	var f Fields
	for _, rule := range rulesByType[t] {
		value, err := rule.Apply(text)
		if err != nil {
			return nil, err
		}
		switch rule.Field {
		case FieldDOI:
			f.DOI = value
		case FieldDatasetName:
			f.DatasetName = value
		case FieldDepositor:
			f.Depositor = value
		}
	}
	return &f, nil
}
