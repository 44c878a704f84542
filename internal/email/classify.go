// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

// Package email classifies Dryad notification emails and extracts the
// fields needed to reconcile them against curation issues.
package email

import (
	"errors"
	"fmt"
	"strings"
)

// MessageType identifies which Dryad notification template an email was built from.
type MessageType string

const (
	TypeSubmission  MessageType = "submission"
	TypePublication MessageType = "publication"
	TypePeerReview  MessageType = "peer_review"
	TypeWithdrawal  MessageType = "withdrawal"
)

var (
	// ErrClassification is wrapped by every classification failure.
	ErrClassification = errors.New("email classification failed")

	// ErrUnrecognizedType means no marker phrase was found.
	ErrUnrecognizedType = fmt.Errorf("%w: unrecognized email message type", ErrClassification)

	// ErrAmbiguousType means more than one marker phrase was found.
	ErrAmbiguousType = fmt.Errorf("%w: ambiguous email message type", ErrClassification)
)

// Marker ties a message type to the phrase that only its template contains.
type Marker struct {
	Type   MessageType
	Phrase string
}

// Markers lists the marker phrases in a fixed order so classification
// results and error messages are deterministic.
var Markers = []Marker{
	{
		Type:   TypeSubmission,
		Phrase: "Your submission will soon enter our curation process.",
	},
	{
		Type:   TypePublication,
		Phrase: "has been reviewed by our curation team and approved for publication.",
	},
	{
		Type:   TypePeerReview,
		Phrase: `you have selected to keep your Dryad data submission in "Private for peer review" status`,
	},
	{
		Type:   TypeWithdrawal,
		Phrase: "Your dataset submission has been withdrawn",
	},
}

// Classify returns the message type whose marker phrase the text contains.
// Exactly one marker must be present.
func Classify(text string) (MessageType, error) {
	var matches []MessageType
	for _, m := range Markers {
		if strings.Contains(text, m.Phrase) {
			matches = append(matches, m.Type)
		}
	}

	switch len(matches) {
	case 0:
		return "", ErrUnrecognizedType
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w (matched %v)", ErrAmbiguousType, matches)
	}
}

// Handled reports whether emails of this type can lead to a tracker change.
func (t MessageType) Handled() bool {
	return len(rulesByType[t]) > 0
}
