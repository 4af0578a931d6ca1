package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// VoteChoice is a community reviewer's verdict on a word.
type VoteChoice string

const (
	VoteApprove VoteChoice = "approve"
	VoteReject  VoteChoice = "reject"
)

func (v VoteChoice) Valid() bool {
	return v == VoteApprove || v == VoteReject
}

// VoteRecord is one community vote. It is immutable once written.
type VoteRecord struct {
	VoterID   string     `json:"voterId"`
	Vote      VoteChoice `json:"vote"`
	Comment   string     `json:"comment,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// HistoryEntry is one line of a word's audit trail.
type HistoryEntry struct {
	Action    string      `json:"action"`
	ActorID   string      `json:"actorId"`
	From      ReviewState `json:"from,omitempty"`
	To        ReviewState `json:"to,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// VoteRecords is the reviewedBy list of the current episode, stored as JSONB.
type VoteRecords []VoteRecord

// HistoryEntries is the append-only audit log, stored as JSONB.
type HistoryEntries []HistoryEntry

// Value implements driver.Valuer for JSONB serialization
func (v VoteRecords) Value() (driver.Value, error) {
	if v == nil {
		return json.Marshal([]VoteRecord{})
	}
	return json.Marshal([]VoteRecord(v))
}

// Scan implements sql.Scanner for JSONB deserialization
func (v *VoteRecords) Scan(value interface{}) error {
	return scanJSON(value, (*[]VoteRecord)(v))
}

func (h HistoryEntries) Value() (driver.Value, error) {
	if h == nil {
		return json.Marshal([]HistoryEntry{})
	}
	return json.Marshal([]HistoryEntry(h))
}

func (h *HistoryEntries) Scan(value interface{}) error {
	return scanJSON(value, (*[]HistoryEntry)(h))
}

func (m Meanings) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal([]Meaning{})
	}
	return json.Marshal([]Meaning(m))
}

func (m *Meanings) Scan(value interface{}) error {
	return scanJSON(value, (*[]Meaning)(m))
}

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(t))
}

func (t *Tags) Scan(value interface{}) error {
	return scanJSON(value, (*[]string)(t))
}

// scanJSON decodes a JSONB column. Postgres hands back []byte, SQLite may
// hand back either []byte or string.
func scanJSON(value interface{}, dest interface{}) error {
	switch raw := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(raw) == 0 {
			return nil
		}
		return json.Unmarshal(raw, dest)
	case string:
		if raw == "" {
			return nil
		}
		return json.Unmarshal([]byte(raw), dest)
	default:
		return errors.New("failed to unmarshal JSONB column: unsupported source type")
	}
}
