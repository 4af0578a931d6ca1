package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/review"
)

const (
	logModule = "dictionary/moderation"
	logLayer  = "application"

	DefaultListLimit = 50
	MaxListLimit     = 200

	statsPageSize = 200
)

// History actions for changes that do not move the state machine.
const (
	ActionCreate            = "CREATE"
	ActionFileReport        = "FILE_REPORT"
	ActionResolveReport     = "RESOLVE_REPORT"
	ActionProposeCorrection = "PROPOSE_CORRECTION"
	ActionResolveCorrection = "RESOLVE_CORRECTION"
)

// Vote results reported to the Recorder.
const (
	VoteAccepted   = "accepted"
	VoteIgnored    = "ignored"
	VoteDuplicate  = "duplicate"
	VoteSelf       = "self_vote"
	VoteIneligible = "ineligible"
)

// Dependencies wires a Service. Store is required; Publisher, Cache,
// Validator and Recorder are optional. A nil Authorizer treats nobody as
// an admin and every signed-in user as an eligible voter.
type Dependencies struct {
	Store      WordStore
	Authorizer Authorizer
	Publisher  EventPublisher
	Cache      SnapshotCache
	Validator  ContentValidator
	Recorder   Recorder
	Clock      Clock
	IDGen      IDGenerator
	Threshold  int
	Logger     *slog.Logger
}

// Service is the single writer of moderation fields.
type Service struct {
	store     WordStore
	authz     Authorizer
	publisher EventPublisher
	cache     SnapshotCache
	validator ContentValidator
	recorder  Recorder
	clock     Clock
	ids       IDGenerator
	machine   review.Machine
	locks     *keyedLock
	logger    *slog.Logger
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		store:     deps.Store,
		authz:     deps.Authorizer,
		publisher: deps.Publisher,
		cache:     deps.Cache,
		validator: deps.Validator,
		recorder:  deps.Recorder,
		clock:     deps.Clock,
		ids:       deps.IDGen,
		machine:   review.NewMachine(deps.Threshold),
		locks:     newKeyedLock(),
		logger:    deps.Logger,
	}
	if s.authz == nil {
		s.authz = openAuthorizer{}
	}
	if s.recorder == nil {
		s.recorder = noopRecorder{}
	}
	if s.clock == nil {
		s.clock = systemClock{}
	}
	if s.ids == nil {
		s.ids = uuidGenerator{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Threshold returns the number of same-direction votes that closes a
// community-review episode.
func (s *Service) Threshold() int {
	return s.machine.Threshold()
}

type CreateWordCommand struct {
	ContributorID string
	Content       model.WordContent
}

type VoteCommand struct {
	WordID  string
	VoterID string
	Vote    model.VoteChoice
	Comment string
}

type AdminActionCommand struct {
	WordID  string
	AdminID string
	Action  review.EventKind
	Reason  string
}

// RouteTarget selects the first review queue for a submitted word.
type RouteTarget string

const (
	RouteToAdmin     RouteTarget = "admin"
	RouteToCommunity RouteTarget = "community"
)

type ReportCommand struct {
	WordID      string
	SubmitterID string
	Reason      string
	Payload     []byte
}

type CorrectionCommand struct {
	WordID      string
	SubmitterID string
	Field       string
	Payload     []byte
}

// ResolveCommand closes a report or correction. Accept only matters for
// corrections: an accepted correction is applied to the word's content.
type ResolveCommand struct {
	WordID   string
	RecordID string
	AdminID  string
	Note     string
	Accept   bool
}

// QueueStats summarizes the review queues for the admin dashboard.
type QueueStats struct {
	ByState         map[model.ReviewState]int64 `json:"byState"`
	Total           int64                       `json:"total"`
	OpenReports     int                         `json:"openReports"`
	OpenCorrections int                         `json:"openCorrections"`
}

// CreateWord stores a new draft owned by the contributor.
func (s *Service) CreateWord(ctx context.Context, cmd CreateWordCommand) (model.Word, error) {
	contributor := strings.TrimSpace(cmd.ContributorID)
	if contributor == "" {
		return model.Word{}, invalidInput("contributor id is required")
	}
	content := cmd.Content
	if s.validator != nil {
		normalized, err := s.validator.Validate(content)
		if err != nil {
			return model.Word{}, invalidInput("%v", err)
		}
		content = normalized
	}
	id, err := s.ids.NewID(ctx)
	if err != nil {
		return model.Word{}, s.persistenceError("new_id", err)
	}

	now := s.clock.Now().UTC()
	word := model.Word{
		ID:            id,
		WordContent:   content,
		ContributorID: contributor,
		State:         model.StateDraft,
		ReviewedBy:    model.VoteRecords{},
		Reports:       model.ReportRecords{},
		Corrections:   model.CorrectionRecords{},
		History: model.HistoryEntries{{
			Action:    ActionCreate,
			ActorID:   contributor,
			To:        model.StateDraft,
			Timestamp: now,
		}},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateWord(ctx, word); err != nil {
		return model.Word{}, s.storeError("create_word", err, "word_id", id)
	}
	s.logger.Info("word created",
		"event", "moderation_word_created",
		"module", logModule,
		"layer", logLayer,
		"word_id", id,
		"contributor_id", contributor,
	)
	return word, nil
}

// SubmitWord sends a draft into the review pipeline. Only the contributor
// may submit.
func (s *Service) SubmitWord(ctx context.Context, wordID, contributorID string) (model.Word, error) {
	wordID = strings.TrimSpace(wordID)
	actor := strings.TrimSpace(contributorID)
	if wordID == "" || actor == "" {
		return model.Word{}, invalidInput("word id and contributor id are required")
	}
	return s.mutate(ctx, "submit_word", wordID, func(word model.Word, now time.Time) (change, error) {
		if strings.TrimSpace(word.ContributorID) != actor {
			return change{}, ErrUnauthorizedAction
		}
		ch, _, err := s.applyEvent(word, review.Event{Kind: review.EventSubmit, ActorID: actor, At: now})
		return ch, err
	})
}

// RouteWord sends a submitted word to the admin or the community queue.
func (s *Service) RouteWord(ctx context.Context, wordID, adminID string, target RouteTarget) (model.Word, error) {
	var kind review.EventKind
	switch target {
	case RouteToAdmin:
		kind = review.EventRouteToAdmin
	case RouteToCommunity:
		kind = review.EventRouteToCommunity
	default:
		return model.Word{}, invalidInput("unknown route target %q", target)
	}
	return s.ApplyAdminAction(ctx, AdminActionCommand{WordID: wordID, AdminID: adminID, Action: kind})
}

// OpenCommunityReview starts voting on a word waiting in the community
// queue.
func (s *Service) OpenCommunityReview(ctx context.Context, wordID, adminID string) (model.Word, error) {
	return s.ApplyAdminAction(ctx, AdminActionCommand{WordID: wordID, AdminID: adminID, Action: review.EventOpenCommunityReview})
}

// StartAdminReview claims a word from the admin queue.
func (s *Service) StartAdminReview(ctx context.Context, wordID, adminID string) (model.Word, error) {
	return s.ApplyAdminAction(ctx, AdminActionCommand{WordID: wordID, AdminID: adminID, Action: review.EventStartAdminReview})
}

// SubmitVote records a community vote. The contributor's own vote always
// fails with ErrSelfVote, whatever the state of the word.
func (s *Service) SubmitVote(ctx context.Context, cmd VoteCommand) (model.Word, error) {
	wordID := strings.TrimSpace(cmd.WordID)
	voter := strings.TrimSpace(cmd.VoterID)
	if wordID == "" {
		return model.Word{}, invalidInput("word id is required")
	}
	return s.mutate(ctx, "submit_vote", wordID, func(word model.Word, now time.Time) (change, error) {
		if voter != "" && voter == strings.TrimSpace(word.ContributorID) {
			s.recorder.RecordVote(cmd.Vote, VoteSelf)
			return change{}, ErrSelfVote
		}
		if voter == "" || !cmd.Vote.Valid() {
			return change{}, invalidInput("voter id and a vote of approve or reject are required")
		}
		eligible, err := s.authz.IsEligibleVoter(ctx, voter, word)
		if err != nil {
			return change{}, s.persistenceError("is_eligible_voter", err, "word_id", wordID, "voter_id", voter)
		}
		if !eligible {
			s.recorder.RecordVote(cmd.Vote, VoteIneligible)
			return change{}, ErrIneligibleVoter
		}

		kind := review.EventCommunityApprove
		if cmd.Vote == model.VoteReject {
			kind = review.EventCommunityReject
		}
		ch, out, err := s.applyEvent(word, review.Event{
			Kind:    kind,
			ActorID: voter,
			Comment: strings.TrimSpace(cmd.Comment),
			At:      now,
		})
		switch {
		case errors.Is(err, ErrDuplicateVote):
			s.recorder.RecordVote(cmd.Vote, VoteDuplicate)
		case errors.Is(err, review.ErrInvalidVote):
			return change{}, invalidInput("%v", err)
		case err != nil:
		case out.Applied:
			s.recorder.RecordVote(cmd.Vote, VoteAccepted)
		default:
			s.recorder.RecordVote(cmd.Vote, VoteIgnored)
		}
		return ch, err
	})
}

// ApplyAdminAction applies an admin-only event after checking the actor's
// role. Events the word's state does not accept return the word unchanged.
func (s *Service) ApplyAdminAction(ctx context.Context, cmd AdminActionCommand) (model.Word, error) {
	wordID := strings.TrimSpace(cmd.WordID)
	admin := strings.TrimSpace(cmd.AdminID)
	if wordID == "" || admin == "" {
		return model.Word{}, invalidInput("word id and admin id are required")
	}
	if !cmd.Action.IsAdmin() {
		return model.Word{}, invalidInput("%q is not an admin action", cmd.Action)
	}
	if err := s.requireAdmin(ctx, admin); err != nil {
		return model.Word{}, err
	}
	return s.mutate(ctx, "admin_action", wordID, func(word model.Word, now time.Time) (change, error) {
		if !review.Accepts(word.State, cmd.Action) {
			s.logger.Info("admin action ignored",
				"event", "moderation_admin_action_ignored",
				"module", logModule,
				"layer", logLayer,
				"word_id", wordID,
				"state", string(word.State),
				"action", string(cmd.Action),
				"admin_id", admin,
			)
			return change{word: word}, nil
		}
		ch, _, err := s.applyEvent(word, review.Event{
			Kind:    cmd.Action,
			ActorID: admin,
			Reason:  strings.TrimSpace(cmd.Reason),
			At:      now,
		})
		return ch, err
	})
}

// GetState returns the current word. Cache misses are filled under the
// word's lock; writers in other processes are fenced by the version floor
// Invalidate leaves behind.
func (s *Service) GetState(ctx context.Context, wordID string) (model.Word, error) {
	wordID = strings.TrimSpace(wordID)
	if wordID == "" {
		return model.Word{}, invalidInput("word id is required")
	}
	if s.cache == nil {
		word, err := s.store.LoadWord(ctx, wordID)
		if err != nil {
			return model.Word{}, s.storeError("load_word", err, "word_id", wordID)
		}
		return word, nil
	}

	if word, found, err := s.cache.Get(ctx, wordID); err != nil {
		s.logWarn("moderation_cache_get_failed", err, "word_id", wordID)
	} else if found {
		return word, nil
	}

	unlock, err := s.locks.Lock(ctx, wordID)
	if err != nil {
		return model.Word{}, err
	}
	defer unlock()
	word, err := s.store.LoadWord(ctx, wordID)
	if err != nil {
		return model.Word{}, s.storeError("load_word", err, "word_id", wordID)
	}
	if err := s.cache.Put(ctx, word); err != nil {
		s.logWarn("moderation_cache_put_failed", err, "word_id", wordID)
	}
	return word, nil
}

// ViewWord returns a word as seen by viewerID. Drafts are visible only to
// their contributor and to admins; anyone else gets ErrNotFound.
func (s *Service) ViewWord(ctx context.Context, wordID, viewerID string) (model.Word, error) {
	word, err := s.GetState(ctx, wordID)
	if err != nil || word.State != model.StateDraft {
		return word, err
	}
	viewer := strings.TrimSpace(viewerID)
	if viewer == "" {
		return model.Word{}, ErrNotFound
	}
	if viewer == strings.TrimSpace(word.ContributorID) {
		return word, nil
	}
	isAdmin, err := s.authz.IsAdmin(ctx, viewer)
	if err != nil {
		return model.Word{}, s.persistenceError("is_admin", err, "word_id", word.ID, "viewer_id", viewer)
	}
	if !isAdmin {
		return model.Word{}, ErrNotFound
	}
	return word, nil
}

// ListByState pages through one review queue, oldest first.
func (s *Service) ListByState(ctx context.Context, state model.ReviewState, limit, offset int) ([]model.Word, error) {
	if !state.Valid() {
		return nil, invalidInput("unknown state %q", state)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	words, err := s.store.QueryWordsByState(ctx, state, limit, offset)
	if err != nil {
		return nil, s.storeError("query_words_by_state", err, "state", state)
	}
	return words, nil
}

// QueueStats counts words per state and open reports and corrections on
// words under review.
func (s *Service) QueueStats(ctx context.Context) (QueueStats, error) {
	counts, err := s.store.CountWordsByState(ctx)
	if err != nil {
		return QueueStats{}, s.storeError("count_words_by_state", err)
	}
	stats := QueueStats{ByState: make(map[model.ReviewState]int64, len(model.AllStates))}
	for _, state := range model.AllStates {
		stats.ByState[state] = counts[state]
		stats.Total += counts[state]
	}

	for _, state := range []model.ReviewState{model.StateInCommunityReview, model.StateInAdminReview} {
		for offset := 0; ; offset += statsPageSize {
			words, err := s.store.QueryWordsByState(ctx, state, statsPageSize, offset)
			if err != nil {
				return QueueStats{}, s.storeError("query_words_by_state", err, "state", state)
			}
			for _, word := range words {
				stats.OpenReports += word.Reports.OpenCount()
				stats.OpenCorrections += word.Corrections.OpenCount()
			}
			if len(words) < statsPageSize {
				break
			}
		}
	}
	return stats, nil
}

// FileReport attaches a report to a word under review.
func (s *Service) FileReport(ctx context.Context, cmd ReportCommand) (model.ReportRecord, error) {
	wordID := strings.TrimSpace(cmd.WordID)
	submitter := strings.TrimSpace(cmd.SubmitterID)
	reason := strings.TrimSpace(cmd.Reason)
	if wordID == "" || submitter == "" || reason == "" {
		return model.ReportRecord{}, invalidInput("word id, submitter id and reason are required")
	}
	payload, err := jsonPayload(cmd.Payload)
	if err != nil {
		return model.ReportRecord{}, err
	}

	var record model.ReportRecord
	_, err = s.mutate(ctx, "file_report", wordID, func(word model.Word, now time.Time) (change, error) {
		if !underReview(word.State) {
			return change{}, ErrReviewClosed
		}
		id, err := s.ids.NewID(ctx)
		if err != nil {
			return change{}, s.persistenceError("new_id", err)
		}
		record = model.ReportRecord{
			ID:          id,
			SubmitterID: submitter,
			Reason:      reason,
			Payload:     payload,
			Status:      model.RecordOpen,
			CreatedAt:   now,
		}
		word.Reports = append(word.Reports, record)
		word.History = append(word.History, bookkeeping(word, ActionFileReport, submitter, reason, now))
		return change{word: word, persist: true}, nil
	})
	if err != nil {
		return model.ReportRecord{}, err
	}
	return record, nil
}

// ProposeCorrection attaches a proposed field change to a word under review.
func (s *Service) ProposeCorrection(ctx context.Context, cmd CorrectionCommand) (model.CorrectionRecord, error) {
	wordID := strings.TrimSpace(cmd.WordID)
	submitter := strings.TrimSpace(cmd.SubmitterID)
	field := strings.TrimSpace(cmd.Field)
	if wordID == "" || submitter == "" {
		return model.CorrectionRecord{}, invalidInput("word id and submitter id are required")
	}
	if !correctable(field) {
		return model.CorrectionRecord{}, invalidInput("field %q cannot be corrected", field)
	}
	if len(cmd.Payload) == 0 {
		return model.CorrectionRecord{}, invalidInput("correction payload is required")
	}
	payload, err := jsonPayload(cmd.Payload)
	if err != nil {
		return model.CorrectionRecord{}, err
	}

	var record model.CorrectionRecord
	_, err = s.mutate(ctx, "propose_correction", wordID, func(word model.Word, now time.Time) (change, error) {
		if !underReview(word.State) {
			return change{}, ErrReviewClosed
		}
		if _, err := applyCorrection(word.WordContent, field, payload); err != nil {
			return change{}, err
		}
		id, err := s.ids.NewID(ctx)
		if err != nil {
			return change{}, s.persistenceError("new_id", err)
		}
		record = model.CorrectionRecord{
			ID:          id,
			SubmitterID: submitter,
			Field:       field,
			Payload:     payload,
			Status:      model.RecordOpen,
			CreatedAt:   now,
		}
		word.Corrections = append(word.Corrections, record)
		word.History = append(word.History, bookkeeping(word, ActionProposeCorrection, submitter, field, now))
		return change{word: word, persist: true}, nil
	})
	if err != nil {
		return model.CorrectionRecord{}, err
	}
	return record, nil
}

// ResolveReport closes an open report. Admin only.
func (s *Service) ResolveReport(ctx context.Context, cmd ResolveCommand) (model.Word, error) {
	wordID, recordID, admin, err := s.checkResolve(ctx, cmd)
	if err != nil {
		return model.Word{}, err
	}
	return s.mutate(ctx, "resolve_report", wordID, func(word model.Word, now time.Time) (change, error) {
		i := indexOfReport(word.Reports, recordID)
		if i < 0 {
			return change{}, ErrRecordNotFound
		}
		if word.Reports[i].Status == model.RecordResolved {
			return change{}, ErrAlreadyResolved
		}
		resolvedAt := now
		word.Reports[i].Status = model.RecordResolved
		word.Reports[i].ResolvedBy = admin
		word.Reports[i].ResolvedAt = &resolvedAt
		word.Reports[i].ResolutionNote = strings.TrimSpace(cmd.Note)
		word.History = append(word.History, bookkeeping(word, ActionResolveReport, admin, strings.TrimSpace(cmd.Note), now))
		return change{word: word, persist: true}, nil
	})
}

// ResolveCorrection closes an open correction, applying it to the word's
// content when accepted. Admin only.
func (s *Service) ResolveCorrection(ctx context.Context, cmd ResolveCommand) (model.Word, error) {
	wordID, recordID, admin, err := s.checkResolve(ctx, cmd)
	if err != nil {
		return model.Word{}, err
	}
	return s.mutate(ctx, "resolve_correction", wordID, func(word model.Word, now time.Time) (change, error) {
		i := indexOfCorrection(word.Corrections, recordID)
		if i < 0 {
			return change{}, ErrRecordNotFound
		}
		correction := word.Corrections[i]
		if correction.Status == model.RecordResolved {
			return change{}, ErrAlreadyResolved
		}
		if cmd.Accept {
			if word.State.IsTerminal() {
				return change{}, ErrReviewClosed
			}
			content, err := applyCorrection(word.WordContent, correction.Field, correction.Payload)
			if err != nil {
				return change{}, err
			}
			if s.validator != nil {
				if content, err = s.validator.Validate(content); err != nil {
					return change{}, invalidInput("%v", err)
				}
			}
			word.WordContent = content
		}
		resolvedAt := now
		word.Corrections[i].Status = model.RecordResolved
		word.Corrections[i].Accepted = cmd.Accept
		word.Corrections[i].ResolvedBy = admin
		word.Corrections[i].ResolvedAt = &resolvedAt
		word.Corrections[i].ResolutionNote = strings.TrimSpace(cmd.Note)
		word.History = append(word.History, bookkeeping(word, ActionResolveCorrection, admin, strings.TrimSpace(cmd.Note), now))
		return change{word: word, persist: true}, nil
	})
}

// change is the result of a mutation callback. Nothing is written unless
// persist is set.
type change struct {
	word    model.Word
	effects []review.StateChanged
	persist bool
}

type mutation func(word model.Word, now time.Time) (change, error)

// mutate runs one load, transition and save cycle under the word's lock.
// The callback receives a private copy of the stored word.
func (s *Service) mutate(ctx context.Context, op, wordID string, fn mutation) (model.Word, error) {
	unlock, err := s.locks.Lock(ctx, wordID)
	if err != nil {
		return model.Word{}, err
	}
	defer unlock()

	current, err := s.store.LoadWord(ctx, wordID)
	if err != nil {
		return model.Word{}, s.storeError("load_word", err, "word_id", wordID)
	}
	now := s.clock.Now().UTC()
	ch, err := fn(current.Clone(), now)
	if err != nil {
		if !errors.Is(err, ErrPersistence) {
			s.logger.Warn("moderation command rejected",
				"event", "moderation_"+op+"_rejected",
				"module", logModule,
				"layer", logLayer,
				"word_id", wordID,
				"state", string(current.State),
				"error", err.Error(),
			)
		}
		return model.Word{}, err
	}
	if !ch.persist {
		return current, nil
	}

	next := ch.word
	next.Version = current.Version + 1
	next.UpdatedAt = now
	if err := s.store.SaveWord(ctx, next, current.Version); err != nil {
		return model.Word{}, s.storeError("save_word", err, "word_id", wordID, "expected_version", current.Version)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, wordID, next.Version); err != nil {
			s.logWarn("moderation_cache_invalidate_failed", err, "word_id", wordID)
		}
	}

	for _, effect := range ch.effects {
		s.recorder.RecordTransition(effect.From, effect.To)
		s.logger.Info("word state changed",
			"event", "moderation_word_state_changed",
			"module", logModule,
			"layer", logLayer,
			"word_id", wordID,
			"from", string(effect.From),
			"to", string(effect.To),
			"actor_id", effect.ActorID,
			"action", effect.Action,
			"version", next.Version,
		)
		s.publish(ctx, WordStateChanged{
			WordID:     wordID,
			From:       effect.From,
			To:         effect.To,
			ActorID:    effect.ActorID,
			Action:     effect.Action,
			OccurredAt: now,
		})
	}
	return next, nil
}

// applyEvent runs ev through the state machine and folds the patch into
// word. An ignored event yields a change that is not persisted.
func (s *Service) applyEvent(word model.Word, ev review.Event) (change, review.Outcome, error) {
	out, err := s.machine.Transition(review.SnapshotOf(word), ev)
	if err != nil {
		return change{}, out, err
	}
	if !out.Applied {
		return change{word: word}, out, nil
	}
	word.State = out.Patch.State
	word.ReviewedBy = out.Patch.ReviewedBy
	word.CommunityVotesFor = out.Patch.VotesFor
	word.CommunityVotesAgainst = out.Patch.VotesAgainst
	word.History = append(word.History, out.Patch.History...)
	return change{word: word, effects: out.Effects, persist: true}, out, nil
}

// publish delivers a committed state change. Failures are logged only: the
// change is already durable and the caller must not retry it.
func (s *Service) publish(ctx context.Context, event WordStateChanged) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logWarn("moderation_publish_failed", err,
			"word_id", event.WordID,
			"from", string(event.From),
			"to", string(event.To),
		)
	}
}

func (s *Service) requireAdmin(ctx context.Context, actorID string) error {
	ok, err := s.authz.IsAdmin(ctx, actorID)
	if err != nil {
		return s.persistenceError("is_admin", err, "actor_id", actorID)
	}
	if !ok {
		s.logger.Warn("admin action denied",
			"event", "moderation_admin_denied",
			"module", logModule,
			"layer", logLayer,
			"actor_id", actorID,
		)
		return ErrUnauthorizedAction
	}
	return nil
}

func (s *Service) checkResolve(ctx context.Context, cmd ResolveCommand) (wordID, recordID, admin string, err error) {
	wordID = strings.TrimSpace(cmd.WordID)
	recordID = strings.TrimSpace(cmd.RecordID)
	admin = strings.TrimSpace(cmd.AdminID)
	if wordID == "" || recordID == "" || admin == "" {
		return "", "", "", invalidInput("word id, record id and admin id are required")
	}
	if err := s.requireAdmin(ctx, admin); err != nil {
		return "", "", "", err
	}
	return wordID, recordID, admin, nil
}

// storeError passes typed store failures through and wraps everything else
// in a PersistenceError.
func (s *Service) storeError(op string, err error, attrs ...any) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrVersionConflict), errors.Is(err, ErrAlreadyExists):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return s.persistenceError(op, err, attrs...)
}

func (s *Service) persistenceError(op string, err error, attrs ...any) error {
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return err
	}
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", "moderation_"+op+"_failed",
		"module", logModule,
		"layer", logLayer,
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	s.logger.Error("moderation collaborator failed", fields...)
	return &PersistenceError{Op: op, Err: err}
}

func (s *Service) logWarn(event string, err error, attrs ...any) {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", logModule,
		"layer", logLayer,
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	s.logger.Warn("moderation side effect failed", fields...)
}

func underReview(state model.ReviewState) bool {
	return state == model.StateInCommunityReview || state == model.StateInAdminReview
}

func bookkeeping(word model.Word, action, actor, reason string, now time.Time) model.HistoryEntry {
	return model.HistoryEntry{
		Action:    action,
		ActorID:   actor,
		From:      word.State,
		To:        word.State,
		Reason:    reason,
		Timestamp: now,
	}
}

func jsonPayload(raw []byte) (datatypes.JSON, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, invalidInput("payload must be valid JSON")
	}
	return datatypes.JSON(append([]byte(nil), raw...)), nil
}

func correctable(field string) bool {
	for _, f := range model.CorrectableFields {
		if f == field {
			return true
		}
	}
	return false
}

// applyCorrection returns content with field replaced by the decoded
// payload.
func applyCorrection(content model.WordContent, field string, payload []byte) (model.WordContent, error) {
	var err error
	switch field {
	case model.FieldHeadword:
		err = json.Unmarshal(payload, &content.Headword)
	case model.FieldPartOfSpeech:
		err = json.Unmarshal(payload, &content.PartOfSpeech)
	case model.FieldPronunciation:
		err = json.Unmarshal(payload, &content.Pronunciation)
	case model.FieldMeanings:
		var meanings model.Meanings
		err = json.Unmarshal(payload, &meanings)
		content.Meanings = meanings
	case model.FieldTags:
		var tags model.Tags
		err = json.Unmarshal(payload, &tags)
		content.Tags = tags
	default:
		return content, invalidInput("field %q cannot be corrected", field)
	}
	if err != nil {
		return content, invalidInput("payload does not fit field %s: %v", field, err)
	}
	return content, nil
}

func indexOfReport(records model.ReportRecords, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func indexOfCorrection(records model.CorrectionRecords, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

type uuidGenerator struct{}

func (uuidGenerator) NewID(context.Context) (string, error) {
	return uuid.NewString(), nil
}

type openAuthorizer struct{}

func (openAuthorizer) IsAdmin(context.Context, string) (bool, error) { return false, nil }

func (openAuthorizer) IsEligibleVoter(context.Context, string, model.Word) (bool, error) {
	return true, nil
}
