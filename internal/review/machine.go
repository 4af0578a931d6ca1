package review

import (
	"strings"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

// DefaultThreshold is the number of same-direction votes that closes a
// community-review episode.
const DefaultThreshold = 5

// Snapshot is the read-only context a transition is computed from.
type Snapshot struct {
	State         model.ReviewState
	ContributorID string
	ReviewedBy    []model.VoteRecord
}

// SnapshotOf captures the moderation context of w.
func SnapshotOf(w model.Word) Snapshot {
	return Snapshot{
		State:         w.State,
		ContributorID: w.ContributorID,
		ReviewedBy:    append([]model.VoteRecord(nil), w.ReviewedBy...),
	}
}

// Patch is the full set of moderation fields after a transition. History
// holds only the entries to append.
type Patch struct {
	State        model.ReviewState
	ReviewedBy   []model.VoteRecord
	VotesFor     int
	VotesAgainst int
	History      []model.HistoryEntry
}

// StateChanged is emitted for every change of state.
type StateChanged struct {
	From    model.ReviewState
	To      model.ReviewState
	ActorID string
	Action  string
}

// Outcome is the result of a transition. When Applied is false the event
// was not accepted in the current state and nothing must be persisted.
type Outcome struct {
	From    model.ReviewState
	To      model.ReviewState
	Applied bool
	Vote    *model.VoteRecord
	Patch   Patch
	Effects []StateChanged
}

// Changed reports whether the outcome moves the word to another state.
func (o Outcome) Changed() bool {
	return o.Applied && o.From != o.To
}

// Machine evaluates review events. It is a value type and safe for
// concurrent use.
type Machine struct {
	threshold int
}

func NewMachine(threshold int) Machine {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	return Machine{threshold: threshold}
}

func (m Machine) Threshold() int {
	if m.threshold < 1 {
		return DefaultThreshold
	}
	return m.threshold
}

type handler func(m Machine, s Snapshot, ev Event) (Outcome, error)

var transitions = map[model.ReviewState]map[EventKind]handler{
	model.StateDraft: {
		EventSubmit: move(model.StateSubmitted),
	},
	model.StateSubmitted: {
		EventRouteToAdmin:     move(model.StatePendingAdminReview),
		EventRouteToCommunity: moveFresh(model.StatePendingCommunityReview),
	},
	model.StatePendingCommunityReview: {
		EventOpenCommunityReview: moveFresh(model.StateInCommunityReview),
	},
	model.StateInCommunityReview: {
		EventCommunityApprove: vote(model.VoteApprove),
		EventCommunityReject:  vote(model.VoteReject),
		EventAdminOverride:    move(model.StatePendingAdminReview),
		EventAdminApprove:     move(model.StateApproved),
		EventAdminReject:      move(model.StateRejected),
	},
	model.StateCommunityApproved: {
		EventRouteToAdmin: move(model.StatePendingAdminReview),
	},
	model.StatePendingAdminReview: {
		EventStartAdminReview: move(model.StateInAdminReview),
		EventAdminApprove:     move(model.StateApproved),
		EventAdminReject:      move(model.StateRejected),
	},
	model.StateInAdminReview: {
		EventAdminApprove:        move(model.StateApproved),
		EventAdminReject:         move(model.StateRejected),
		EventSendBackToCommunity: moveFresh(model.StatePendingCommunityReview),
	},
}

// Accepts reports whether kind is handled in state.
func Accepts(state model.ReviewState, kind EventKind) bool {
	_, ok := transitions[state][kind]
	return ok
}

// Transition computes the outcome of ev on s. Events the current state
// does not handle are ignored. A vote by the contributor always fails with
// ErrSelfVote, and a second vote by the same voter in one episode fails
// with ErrDuplicateVote.
func (m Machine) Transition(s Snapshot, ev Event) (Outcome, error) {
	if ev.Kind.IsVote() {
		actor := strings.TrimSpace(ev.ActorID)
		if actor != "" && actor == strings.TrimSpace(s.ContributorID) {
			return Outcome{}, ErrSelfVote
		}
	}
	h, ok := transitions[s.State][ev.Kind]
	if !ok {
		return Outcome{From: s.State, To: s.State}, nil
	}
	return h(m, s, ev)
}

func move(to model.ReviewState) handler {
	return func(_ Machine, s Snapshot, ev Event) (Outcome, error) {
		ledger := NewLedger(s.ContributorID, s.ReviewedBy)
		return settle(s, ev, ledger, to), nil
	}
}

// moveFresh is move for transitions that begin a new community-review
// episode.
func moveFresh(to model.ReviewState) handler {
	return func(_ Machine, s Snapshot, ev Event) (Outcome, error) {
		ledger := NewLedger(s.ContributorID, s.ReviewedBy)
		ledger.ResetEpisode()
		return settle(s, ev, ledger, to), nil
	}
}

func vote(choice model.VoteChoice) handler {
	return func(m Machine, s Snapshot, ev Event) (Outcome, error) {
		ledger := NewLedger(s.ContributorID, s.ReviewedBy)
		record, tallies, err := ledger.RecordVote(ev.ActorID, choice, ev.Comment, ev.At)
		if err != nil {
			return Outcome{}, err
		}

		var out Outcome
		switch tallies.Verdict(m.Threshold()) {
		case VerdictApproved:
			out = settle(s, ev, ledger, model.StateCommunityApproved)
			forward := model.HistoryEntry{
				Action:    ActionForwardToAdmin,
				ActorID:   SystemActor,
				From:      model.StateCommunityApproved,
				To:        model.StatePendingAdminReview,
				Timestamp: ev.At,
			}
			out.To = model.StatePendingAdminReview
			out.Patch.State = model.StatePendingAdminReview
			out.Patch.History = append(out.Patch.History, forward)
			out.Effects = append(out.Effects, StateChanged{
				From:    model.StateCommunityApproved,
				To:      model.StatePendingAdminReview,
				ActorID: SystemActor,
				Action:  ActionForwardToAdmin,
			})
		case VerdictRejected:
			out = settle(s, ev, ledger, model.StateCommunityRejected)
		default:
			out = settle(s, ev, ledger, s.State)
		}
		out.Vote = &record
		return out, nil
	}
}

// settle builds an applied outcome with exactly one history entry for ev.
func settle(s Snapshot, ev Event, ledger *Ledger, to model.ReviewState) Outcome {
	tallies := ledger.Tallies()
	reason := ev.Reason
	if reason == "" && ev.Kind.IsVote() {
		reason = ev.Comment
	}
	out := Outcome{
		From:    s.State,
		To:      to,
		Applied: true,
		Patch: Patch{
			State:        to,
			ReviewedBy:   ledger.Records(),
			VotesFor:     tallies.For,
			VotesAgainst: tallies.Against,
			History: []model.HistoryEntry{{
				Action:    string(ev.Kind),
				ActorID:   strings.TrimSpace(ev.ActorID),
				From:      s.State,
				To:        to,
				Reason:    strings.TrimSpace(reason),
				Timestamp: ev.At,
			}},
		},
	}
	if s.State != to {
		out.Effects = []StateChanged{{
			From:    s.State,
			To:      to,
			ActorID: strings.TrimSpace(ev.ActorID),
			Action:  string(ev.Kind),
		}}
	}
	return out
}
