package moderation

import (
	"context"
	"time"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

// WordStore persists words. SaveWord must fail with ErrVersionConflict when
// the stored version differs from expectedVersion, and with ErrNotFound
// when the word does not exist.
type WordStore interface {
	CreateWord(ctx context.Context, word model.Word) error
	LoadWord(ctx context.Context, wordID string) (model.Word, error)
	SaveWord(ctx context.Context, word model.Word, expectedVersion int64) error
	QueryWordsByState(ctx context.Context, state model.ReviewState, limit, offset int) ([]model.Word, error)
	CountWordsByState(ctx context.Context) (map[model.ReviewState]int64, error)
}

// Authorizer answers role questions. The service asks before sending admin
// events and votes; the state machine trusts the answer.
type Authorizer interface {
	IsAdmin(ctx context.Context, actorID string) (bool, error)
	IsEligibleVoter(ctx context.Context, actorID string, word model.Word) (bool, error)
}

// WordStateChanged is published after every committed change of state.
type WordStateChanged struct {
	WordID     string            `json:"wordId"`
	From       model.ReviewState `json:"from"`
	To         model.ReviewState `json:"to"`
	ActorID    string            `json:"actorId"`
	Action     string            `json:"action"`
	OccurredAt time.Time         `json:"occurredAt"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event WordStateChanged) error
}

// SnapshotCache is a read-through cache for GetState. A miss is reported
// with found == false and a nil error. Invalidate drops the snapshot and
// makes later Puts of a version older than version no-ops, so a reader in
// another process that loaded before the write cannot restore a stale
// snapshot.
type SnapshotCache interface {
	Get(ctx context.Context, wordID string) (model.Word, bool, error)
	Put(ctx context.Context, word model.Word) error
	Invalidate(ctx context.Context, wordID string, version int64) error
}

// ContentValidator checks and normalizes the dictionary payload of a word.
type ContentValidator interface {
	Validate(content model.WordContent) (model.WordContent, error)
}

// Recorder receives moderation metrics.
type Recorder interface {
	RecordVote(vote model.VoteChoice, result string)
	RecordTransition(from, to model.ReviewState)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type noopRecorder struct{}

func (noopRecorder) RecordVote(model.VoteChoice, string) {}
func (noopRecorder) RecordTransition(model.ReviewState, model.ReviewState) {}
