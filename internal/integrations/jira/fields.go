// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package jira

import (
	"errors"
	"fmt"
	"strings"
)

// CurationStatus is a value of the curation-status select field.
type CurationStatus string

const (
	CurationSubmitted CurationStatus = "Submitted"
	CurationWithdrawn CurationStatus = "Withdrawn"
)

// Valid reports whether s is a known curation-status option.
func (s CurationStatus) Valid() bool {
	switch s {
	case CurationSubmitted, CurationWithdrawn:
		return true
	}
	return false
}

type updateKind int

const (
	updateAssignee updateKind = iota + 1
	updateResolution
	updateCurationStatus
)

// FieldUpdate is one change to an existing issue. Build it with
// ClearAssignee, SetResolution or SetCurationStatus.
type FieldUpdate struct {
	kind  updateKind
	value string
}

// ClearAssignee unassigns the issue.
func ClearAssignee() FieldUpdate {
	return FieldUpdate{kind: updateAssignee}
}

// SetResolution sets the issue resolution by name (e.g. "Won't Do").
func SetResolution(name string) (FieldUpdate, error) {
	if strings.TrimSpace(name) == "" {
		return FieldUpdate{}, errors.New("resolution name cannot be empty")
	}
	return FieldUpdate{kind: updateResolution, value: name}, nil
}

// SetCurationStatus sets the curation-status custom field.
func SetCurationStatus(status CurationStatus) (FieldUpdate, error) {
	if !status.Valid() {
		return FieldUpdate{}, fmt.Errorf("unknown curation status %q", status)
	}
	return FieldUpdate{kind: updateCurationStatus, value: string(status)}, nil
}

// String describes the update for logs.
func (u FieldUpdate) String() string {
	switch u.kind {
	case updateAssignee:
		return "assignee=<none>"
	case updateResolution:
		return "resolution=" + u.value
	case updateCurationStatus:
		return "curation_status=" + u.value
	}
	return "invalid"
}

// apply writes the update into a Jira "fields" payload.
func (u FieldUpdate) apply(fields map[string]interface{}, ids CustomFields) error {
	switch u.kind {
	case updateAssignee:
		fields["assignee"] = nil
	case updateResolution:
		fields["resolution"] = map[string]string{"name": u.value}
	case updateCurationStatus:
		fields[ids.CurationStatus] = map[string]string{"value": u.value}
	default:
		return errors.New("field update was not built with a constructor")
	}
	return nil
}

// IssueFields are the fields of a new curation issue.
type IssueFields struct {
	Summary        string
	Description    *Document
	DatasetName    string
	DOI            string
	Depositor      string
	CurationStatus CurationStatus
}

func (f IssueFields) payload(cfg Config) (map[string]interface{}, error) {
	if !f.CurationStatus.Valid() {
		return nil, fmt.Errorf("unknown curation status %q", f.CurationStatus)
	}
	fields := map[string]interface{}{
		"project":   map[string]string{"key": cfg.Project},
		"issuetype": map[string]string{"name": cfg.IssueType},
		"summary":   f.Summary,

		cfg.Fields.DatasetName: f.DatasetName,
		cfg.Fields.DOI:         f.DOI,
		cfg.Fields.Depositor:   f.Depositor,
	}
	fields[cfg.Fields.CurationStatus] = map[string]string{"value": string(f.CurationStatus)}
	if f.Description != nil {
		fields["description"] = f.Description
	}
	return map[string]interface{}{"fields": fields}, nil
}
