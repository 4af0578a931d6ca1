package review

import "time"

// EventKind names an input to the review state machine.
type EventKind string

const (
	EventSubmit              EventKind = "SUBMIT"
	EventRouteToAdmin        EventKind = "ROUTE_TO_ADMIN"
	EventRouteToCommunity    EventKind = "ROUTE_TO_COMMUNITY"
	EventOpenCommunityReview EventKind = "OPEN_COMMUNITY_REVIEW"
	EventCommunityApprove    EventKind = "COMMUNITY_APPROVE"
	EventCommunityReject     EventKind = "COMMUNITY_REJECT"
	EventStartAdminReview    EventKind = "START_ADMIN_REVIEW"
	EventAdminApprove        EventKind = "ADMIN_APPROVE"
	EventAdminReject         EventKind = "ADMIN_REJECT"
	EventAdminOverride       EventKind = "ADMIN_OVERRIDE"
	EventSendBackToCommunity EventKind = "SEND_BACK_TO_COMMUNITY"
)

// ActionForwardToAdmin is the history action of the automatic
// communityApproved -> pendingAdminReview step.
const ActionForwardToAdmin = "FORWARD_TO_ADMIN_REVIEW"

// SystemActor is the actor id recorded for automatic transitions.
const SystemActor = "system"

// IsVote reports whether k is a community vote.
func (k EventKind) IsVote() bool {
	return k == EventCommunityApprove || k == EventCommunityReject
}

// IsAdmin reports whether k may only be sent by an administrator. The
// machine does not check this; callers authorize before sending.
func (k EventKind) IsAdmin() bool {
	switch k {
	case EventRouteToAdmin, EventRouteToCommunity, EventOpenCommunityReview,
		EventStartAdminReview, EventAdminApprove, EventAdminReject,
		EventAdminOverride, EventSendBackToCommunity:
		return true
	}
	return false
}

// Event is one input to Machine.Transition.
type Event struct {
	Kind    EventKind
	ActorID string
	Comment string
	Reason  string
	At      time.Time
}
