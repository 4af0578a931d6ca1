package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Word{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return NewRepository(db, nil)
}

func sampleWord(id string, state model.ReviewState, created time.Time) model.Word {
	return model.Word{
		ID: id,
		WordContent: model.WordContent{
			Headword: "mankhna",
			Meanings: model.Meanings{{Language: "en", Definition: "to stay", Examples: []model.ExamplePair{{Sentence: "een mankhan", Translation: "I stay"}}}},
			Tags:     model.Tags{"verb"},
		},
		ContributorID: "author",
		State:         state,
		ReviewedBy:    model.VoteRecords{},
		History:       model.HistoryEntries{{Action: "CREATE", ActorID: "author", To: model.StateDraft, Timestamp: created}},
		Version:       1,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestRepositoryRoundTripsJSONColumns(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	created := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	w := sampleWord("w1", model.StateDraft, created)
	if err := repo.CreateWord(ctx, w); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.LoadWord(ctx, "w1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Headword != "mankhna" || len(got.Meanings) != 1 || got.Meanings[0].Examples[0].Translation != "I stay" {
		t.Fatalf("content lost: %+v", got.WordContent)
	}
	if len(got.History) != 1 || got.History[0].Action != "CREATE" || got.Tags[0] != "verb" {
		t.Fatalf("moderation fields lost: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created at changed: %v", got.CreatedAt)
	}

	if _, err := repo.LoadWord(ctx, "missing"); !errors.Is(err, moderation.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRepositorySaveWordOptimisticLock(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	created := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	if err := repo.CreateWord(ctx, sampleWord("w1", model.StateInCommunityReview, created)); err != nil {
		t.Fatalf("create: %v", err)
	}

	w, _ := repo.LoadWord(ctx, "w1")
	w.ReviewedBy = append(w.ReviewedBy, model.VoteRecord{VoterID: "voter-1", Vote: model.VoteApprove, Timestamp: created})
	w.CommunityVotesFor = 1
	w.Reports = model.ReportRecords{{ID: "r1", SubmitterID: "reader", Reason: "typo", Status: model.RecordOpen, Payload: []byte(`{"k":"v"}`)}}
	w.Version = 2
	if err := repo.SaveWord(ctx, w, 1); err != nil {
		t.Fatalf("save: %v", err)
	}

	stale := w
	stale.Version = 2
	if err := repo.SaveWord(ctx, stale, 1); !errors.Is(err, moderation.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	if err := repo.SaveWord(ctx, sampleWord("missing", model.StateDraft, created), 1); !errors.Is(err, moderation.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	got, _ := repo.LoadWord(ctx, "w1")
	if got.Version != 2 || got.CommunityVotesFor != 1 || len(got.ReviewedBy) != 1 || got.ReviewedBy[0].VoterID != "voter-1" {
		t.Fatalf("update not stored: %+v", got)
	}
	if len(got.Reports) != 1 || string(got.Reports[0].Payload) != `{"k":"v"}` {
		t.Fatalf("reports not stored: %+v", got.Reports)
	}
}

func TestRepositoryQueriesByState(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	for i, state := range []model.ReviewState{
		model.StatePendingAdminReview,
		model.StatePendingAdminReview,
		model.StatePendingAdminReview,
		model.StateApproved,
	} {
		w := sampleWord(fmt.Sprintf("w%d", i), state, base.Add(time.Duration(3-i)*time.Minute))
		if err := repo.CreateWord(ctx, w); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := repo.QueryWordsByState(ctx, model.StatePendingAdminReview, 2, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(page) != 2 || page[0].ID != "w2" || page[1].ID != "w1" {
		t.Fatalf("expected oldest first, got %v", ids(page))
	}
	page, _ = repo.QueryWordsByState(ctx, model.StatePendingAdminReview, 2, 2)
	if len(page) != 1 || page[0].ID != "w0" {
		t.Fatalf("unexpected second page %v", ids(page))
	}

	counts, err := repo.CountWordsByState(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[model.StatePendingAdminReview] != 3 || counts[model.StateApproved] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}

	var seen []string
	err = repo.ScanWords(ctx, 3, func(words []model.Word) error {
		seen = append(seen, ids(words)...)
		return nil
	})
	if err != nil || len(seen) != 4 {
		t.Fatalf("scan saw %v (%v)", seen, err)
	}
}

func ids(words []model.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.ID
	}
	return out
}
