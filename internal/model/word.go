package model

import (
	"time"
)

// ReviewState is the moderation lifecycle position of a word.
type ReviewState string

const (
	StateDraft                  ReviewState = "draft"
	StateSubmitted              ReviewState = "submitted"
	StatePendingAdminReview     ReviewState = "pending_admin_review"
	StatePendingCommunityReview ReviewState = "pending_community_review"
	StateInCommunityReview      ReviewState = "in_community_review"
	StateCommunityApproved      ReviewState = "community_approved"
	StateCommunityRejected      ReviewState = "community_rejected"
	StateInAdminReview          ReviewState = "in_admin_review"
	StateApproved               ReviewState = "approved"
	StateRejected               ReviewState = "rejected"
)

// AllStates lists every review state in lifecycle order.
var AllStates = []ReviewState{
	StateDraft,
	StateSubmitted,
	StatePendingAdminReview,
	StatePendingCommunityReview,
	StateInCommunityReview,
	StateCommunityApproved,
	StateCommunityRejected,
	StateInAdminReview,
	StateApproved,
	StateRejected,
}

func (s ReviewState) Valid() bool {
	for _, state := range AllStates {
		if s == state {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further event can move a word out of s.
func (s ReviewState) IsTerminal() bool {
	switch s {
	case StateApproved, StateRejected, StateCommunityRejected:
		return true
	}
	return false
}

// WordContent is the dictionary payload of a word. The moderation core
// treats it as opaque.
type WordContent struct {
	Headword      string   `gorm:"not null;size:255;index" json:"headword"`
	Meanings      Meanings `gorm:"type:jsonb;not null" json:"meanings"`
	PartOfSpeech  string   `gorm:"size:50" json:"partOfSpeech"`
	Pronunciation string   `gorm:"size:255" json:"pronunciation"`
	Tags          Tags     `gorm:"type:jsonb" json:"tags"`
}

// Word is the aggregate root of the review lifecycle. The moderation
// fields (State, vote counters, ReviewedBy, History, Reports, Corrections,
// Version) are written only by the moderation service.
type Word struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	WordContent `gorm:"embedded"`

	ContributorID         string            `gorm:"not null;size:64;index" json:"contributorId"`
	State                 ReviewState       `gorm:"not null;size:32;index:idx_words_state_created,priority:1" json:"state"`
	CommunityVotesFor     int               `gorm:"not null" json:"communityVotesFor"`
	CommunityVotesAgainst int               `gorm:"not null" json:"communityVotesAgainst"`
	ReviewedBy            VoteRecords       `gorm:"type:jsonb" json:"reviewedBy"`
	History               HistoryEntries    `gorm:"type:jsonb" json:"history"`
	Reports               ReportRecords     `gorm:"type:jsonb" json:"reports"`
	Corrections           CorrectionRecords `gorm:"type:jsonb" json:"corrections"`
	Version               int64             `gorm:"not null" json:"version"`
	CreatedAt             time.Time         `gorm:"autoCreateTime:false;index:idx_words_state_created,priority:2" json:"createdAt"`
	UpdatedAt             time.Time         `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Word) TableName() string {
	return "words"
}

// Clone returns a deep copy of w, so callers can derive a new version
// without aliasing the slices of the original.
func (w Word) Clone() Word {
	out := w
	out.Meanings = w.Meanings.clone()
	out.Tags = cloneSlice(w.Tags)
	out.ReviewedBy = cloneSlice(w.ReviewedBy)
	out.History = cloneSlice(w.History)
	out.Reports = w.Reports.clone()
	out.Corrections = w.Corrections.clone()
	return out
}

// cloneSlice copies s. An empty slice stays non-nil so it still encodes
// as [] instead of null.
func cloneSlice[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	return append(make(S, 0, len(s)), s...)
}

// Meaning is one sense of a headword in a given language.
type Meaning struct {
	Language   string        `json:"language"`
	Definition string        `json:"definition"`
	Examples   []ExamplePair `json:"examples,omitempty"`
}

// ExamplePair is a usage sentence and its translation.
type ExamplePair struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation"`
}

type Meanings []Meaning

func (m Meanings) clone() Meanings {
	if m == nil {
		return nil
	}
	out := make(Meanings, len(m))
	for i, meaning := range m {
		out[i] = meaning
		out[i].Examples = append([]ExamplePair(nil), meaning.Examples...)
	}
	return out
}

type Tags []string
