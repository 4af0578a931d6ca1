package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// RecordStatus is the lifecycle of a report or correction attached to a word.
type RecordStatus string

const (
	RecordOpen     RecordStatus = "open"
	RecordResolved RecordStatus = "resolved"
)

// ReportRecord flags a problem with a word under review.
type ReportRecord struct {
	ID             string         `json:"id"`
	SubmitterID    string         `json:"submitterId"`
	Reason         string         `json:"reason"`
	Payload        datatypes.JSON `json:"payload,omitempty"`
	Status         RecordStatus   `json:"status"`
	ResolvedBy     string         `json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time     `json:"resolvedAt,omitempty"`
	ResolutionNote string         `json:"resolutionNote,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// CorrectionRecord proposes a change to one field of a word under review.
type CorrectionRecord struct {
	ID             string         `json:"id"`
	SubmitterID    string         `json:"submitterId"`
	Field          string         `json:"field"`
	Payload        datatypes.JSON `json:"payload,omitempty"`
	Status         RecordStatus   `json:"status"`
	Accepted       bool           `json:"accepted"`
	ResolvedBy     string         `json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time     `json:"resolvedAt,omitempty"`
	ResolutionNote string         `json:"resolutionNote,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Correctable fields
const (
	FieldHeadword      = "headword"
	FieldMeanings      = "meanings"
	FieldPartOfSpeech  = "partOfSpeech"
	FieldPronunciation = "pronunciation"
	FieldTags          = "tags"
)

// CorrectableFields lists the fields a correction may target.
var CorrectableFields = []string{FieldHeadword, FieldMeanings, FieldPartOfSpeech, FieldPronunciation, FieldTags}

type ReportRecords []ReportRecord

type CorrectionRecords []CorrectionRecord

// OpenCount returns the number of unresolved reports.
func (r ReportRecords) OpenCount() int {
	n := 0
	for _, report := range r {
		if report.Status == RecordOpen {
			n++
		}
	}
	return n
}

// OpenCount returns the number of unresolved corrections.
func (c CorrectionRecords) OpenCount() int {
	n := 0
	for _, correction := range c {
		if correction.Status == RecordOpen {
			n++
		}
	}
	return n
}

func (r ReportRecords) clone() ReportRecords {
	if r == nil {
		return nil
	}
	out := make(ReportRecords, len(r))
	for i, report := range r {
		out[i] = report
		out[i].Payload = append(datatypes.JSON(nil), report.Payload...)
		if report.ResolvedAt != nil {
			at := *report.ResolvedAt
			out[i].ResolvedAt = &at
		}
	}
	return out
}

func (c CorrectionRecords) clone() CorrectionRecords {
	if c == nil {
		return nil
	}
	out := make(CorrectionRecords, len(c))
	for i, correction := range c {
		out[i] = correction
		out[i].Payload = append(datatypes.JSON(nil), correction.Payload...)
		if correction.ResolvedAt != nil {
			at := *correction.ResolvedAt
			out[i].ResolvedAt = &at
		}
	}
	return out
}

func (r ReportRecords) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal([]ReportRecord{})
	}
	return json.Marshal([]ReportRecord(r))
}

func (r *ReportRecords) Scan(value interface{}) error {
	return scanJSON(value, (*[]ReportRecord)(r))
}

func (c CorrectionRecords) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]CorrectionRecord{})
	}
	return json.Marshal([]CorrectionRecord(c))
}

func (c *CorrectionRecords) Scan(value interface{}) error {
	return scanJSON(value, (*[]CorrectionRecord)(c))
}
