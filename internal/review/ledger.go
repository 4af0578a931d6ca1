package review

import (
	"strings"
	"time"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

// Tallies are the approve/reject counts of one community-review episode.
type Tallies struct {
	For     int `json:"for"`
	Against int `json:"against"`
}

func (t Tallies) Total() int {
	return t.For + t.Against
}

// Verdict is the outcome of comparing tallies with the vote threshold.
type Verdict int

const (
	VerdictPending Verdict = iota
	VerdictApproved
	VerdictRejected
)

func (v Verdict) String() string {
	switch v {
	case VerdictApproved:
		return "approved"
	case VerdictRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Verdict reports which threshold the tallies have reached. Approval is
// checked before rejection.
func (t Tallies) Verdict(threshold int) Verdict {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	if t.For >= threshold {
		return VerdictApproved
	}
	if t.Against >= threshold {
		return VerdictRejected
	}
	return VerdictPending
}

// Ledger is the reviewedBy list of one episode together with its tallies.
// The list and the tallies only change together.
type Ledger struct {
	contributorID string
	records       []model.VoteRecord
	tallies       Tallies
}

// NewLedger builds a ledger over a copy of records. Tallies are derived
// from the records, never trusted from stored counters.
func NewLedger(contributorID string, records []model.VoteRecord) *Ledger {
	l := &Ledger{
		contributorID: strings.TrimSpace(contributorID),
		records:       append([]model.VoteRecord(nil), records...),
	}
	l.tallies = CountVotes(l.records)
	return l
}

// CountVotes tallies approve and reject records.
func CountVotes(records []model.VoteRecord) Tallies {
	var t Tallies
	for _, record := range records {
		switch record.Vote {
		case model.VoteApprove:
			t.For++
		case model.VoteReject:
			t.Against++
		}
	}
	return t
}

// RecordVote appends a vote and returns the new tallies.
func (l *Ledger) RecordVote(voterID string, vote model.VoteChoice, comment string, at time.Time) (model.VoteRecord, Tallies, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID != "" && voterID == l.contributorID {
		return model.VoteRecord{}, l.tallies, ErrSelfVote
	}
	if voterID == "" || !vote.Valid() {
		return model.VoteRecord{}, l.tallies, ErrInvalidVote
	}
	if l.HasVoted(voterID) {
		return model.VoteRecord{}, l.tallies, ErrDuplicateVote
	}

	record := model.VoteRecord{
		VoterID:   voterID,
		Vote:      vote,
		Comment:   strings.TrimSpace(comment),
		Timestamp: at,
	}
	l.records = append(l.records, record)
	if vote == model.VoteApprove {
		l.tallies.For++
	} else {
		l.tallies.Against++
	}
	return record, l.tallies, nil
}

func (l *Ledger) HasVoted(voterID string) bool {
	voterID = strings.TrimSpace(voterID)
	for _, record := range l.records {
		if record.VoterID == voterID {
			return true
		}
	}
	return false
}

// ResetEpisode clears the ledger at the start of a new community-review
// episode.
func (l *Ledger) ResetEpisode() {
	l.records = nil
	l.tallies = Tallies{}
}

func (l *Ledger) Tallies() Tallies {
	return l.tallies
}

// Records returns a copy of the episode's votes in arrival order.
func (l *Ledger) Records() []model.VoteRecord {
	return append([]model.VoteRecord(nil), l.records...)
}
