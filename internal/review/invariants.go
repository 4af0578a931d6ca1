package review

import (
	"fmt"
	"strings"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

// Invariant rule names reported by CheckInvariants.
const (
	RuleUnknownState  = "unknown_state"
	RuleTallyMismatch = "tally_mismatch"
	RuleDuplicateVote = "duplicate_vote"
	RuleSelfVote      = "self_vote"
	RuleUnknownVote   = "unknown_vote"
)

// Violation is one broken invariant on a stored word.
type Violation struct {
	WordID string `json:"wordId"`
	Rule   string `json:"rule"`
	Detail string `json:"detail"`
}

// CheckInvariants verifies the stored moderation fields of w against the
// rules the ledger enforces on write.
func CheckInvariants(w model.Word) []Violation {
	var out []Violation
	add := func(rule, format string, args ...any) {
		out = append(out, Violation{WordID: w.ID, Rule: rule, Detail: fmt.Sprintf(format, args...)})
	}

	if !w.State.Valid() {
		add(RuleUnknownState, "state %q", w.State)
	}

	tallies := CountVotes(w.ReviewedBy)
	if tallies.For != w.CommunityVotesFor || tallies.Against != w.CommunityVotesAgainst {
		add(RuleTallyMismatch, "stored (%d,%d) derived (%d,%d)",
			w.CommunityVotesFor, w.CommunityVotesAgainst, tallies.For, tallies.Against)
	}

	seen := make(map[string]struct{}, len(w.ReviewedBy))
	contributor := strings.TrimSpace(w.ContributorID)
	for _, record := range w.ReviewedBy {
		voter := strings.TrimSpace(record.VoterID)
		if !record.Vote.Valid() {
			add(RuleUnknownVote, "voter %s cast %q", voter, record.Vote)
		}
		if voter == contributor {
			add(RuleSelfVote, "contributor %s voted on own word", voter)
		}
		if _, dup := seen[voter]; dup {
			add(RuleDuplicateVote, "voter %s appears more than once", voter)
		}
		seen[voter] = struct{}{}
	}
	return out
}
