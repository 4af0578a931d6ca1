package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

func word(id string, state model.ReviewState, created time.Time) model.Word {
	return model.Word{
		ID:            id,
		WordContent:   model.WordContent{Headword: id},
		ContributorID: "author",
		State:         state,
		Version:       1,
		CreatedAt:     created,
	}
}

func TestSaveWordChecksVersion(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(word("w1", model.StateDraft, base))

	w, err := s.LoadWord(ctx, "w1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	w.State = model.StateSubmitted
	w.Version = 2
	if err := s.SaveWord(ctx, w, 1); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveWord(ctx, w, 1); !errors.Is(err, moderation.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	if err := s.SaveWord(ctx, word("missing", model.StateDraft, base), 1); !errors.Is(err, moderation.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.LoadWord(ctx, "missing"); !errors.Is(err, moderation.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateWordRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	w := word("w1", model.StateDraft, time.Now())
	if err := s.CreateWord(ctx, w); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateWord(ctx, w); !errors.Is(err, moderation.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestLoadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	w := word("w1", model.StateInCommunityReview, time.Now())
	w.ReviewedBy = model.VoteRecords{{VoterID: "v1", Vote: model.VoteApprove}}
	s := NewStore(w)

	loaded, _ := s.LoadWord(ctx, "w1")
	loaded.ReviewedBy[0].VoterID = "mutated"
	again, _ := s.LoadWord(ctx, "w1")
	if again.ReviewedBy[0].VoterID != "v1" {
		t.Fatalf("store handed out an aliased slice")
	}
}

func TestQueryWordsByStatePagesOldestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(
		word("c", model.StatePendingAdminReview, base.Add(2*time.Hour)),
		word("a", model.StatePendingAdminReview, base),
		word("b", model.StatePendingAdminReview, base.Add(time.Hour)),
		word("x", model.StateDraft, base),
	)

	page, err := s.QueryWordsByState(ctx, model.StatePendingAdminReview, 2, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(page) != 2 || page[0].ID != "a" || page[1].ID != "b" {
		t.Fatalf("unexpected first page %+v", page)
	}
	page, _ = s.QueryWordsByState(ctx, model.StatePendingAdminReview, 2, 2)
	if len(page) != 1 || page[0].ID != "c" {
		t.Fatalf("unexpected second page %+v", page)
	}
	page, _ = s.QueryWordsByState(ctx, model.StatePendingAdminReview, 2, 10)
	if len(page) != 0 {
		t.Fatalf("expected empty page past the end")
	}

	counts, _ := s.CountWordsByState(ctx)
	if counts[model.StatePendingAdminReview] != 3 || counts[model.StateDraft] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestScanWordsBatches(t *testing.T) {
	ctx := context.Background()
	s := NewStore(
		word("a", model.StateDraft, time.Now()),
		word("b", model.StateDraft, time.Now()),
		word("c", model.StateDraft, time.Now()),
	)
	var batches []int
	err := s.ScanWords(ctx, 2, func(words []model.Word) error {
		batches = append(batches, len(words))
		return nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(batches) != 2 || batches[0] != 2 || batches[1] != 1 {
		t.Fatalf("unexpected batches %v", batches)
	}
}
