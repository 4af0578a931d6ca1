// Package postgres is the gorm-backed WordStore. Moderation fields live in
// JSONB columns of the words row, so every save is a single-row update
// guarded by the version column.
package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

const logModule = "dictionary/store"

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateWord(ctx context.Context, word model.Word) error {
	if err := r.db.WithContext(ctx).Create(&word).Error; err != nil {
		if isUniqueViolation(err) {
			return moderation.ErrAlreadyExists
		}
		return r.logError("store_create_word_failed", err, "word_id", word.ID)
	}
	return nil
}

func (r *Repository) LoadWord(ctx context.Context, wordID string) (model.Word, error) {
	var word model.Word
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(wordID)).
		First(&word).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Word{}, moderation.ErrNotFound
		}
		return model.Word{}, r.logError("store_load_word_failed", err, "word_id", strings.TrimSpace(wordID))
	}
	return word, nil
}

// SaveWord overwrites the row only if its version still equals
// expectedVersion.
func (r *Repository) SaveWord(ctx context.Context, word model.Word, expectedVersion int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Word{}).
		Where("id = ? AND version = ?", word.ID, expectedVersion).
		Updates(map[string]any{
			"headword":                word.Headword,
			"meanings":                word.Meanings,
			"part_of_speech":          word.PartOfSpeech,
			"pronunciation":           word.Pronunciation,
			"tags":                    word.Tags,
			"state":                   word.State,
			"community_votes_for":     word.CommunityVotesFor,
			"community_votes_against": word.CommunityVotesAgainst,
			"reviewed_by":             word.ReviewedBy,
			"history":                 word.History,
			"reports":                 word.Reports,
			"corrections":             word.Corrections,
			"version":                 word.Version,
			"updated_at":              word.UpdatedAt,
		})
	if res.Error != nil {
		return r.logError("store_save_word_failed", res.Error,
			"word_id", word.ID,
			"expected_version", expectedVersion,
		)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Word{}).Where("id = ?", word.ID).Count(&count).Error; err != nil {
		return r.logError("store_save_word_failed", err, "word_id", word.ID)
	}
	if count == 0 {
		return moderation.ErrNotFound
	}
	return moderation.ErrVersionConflict
}

func (r *Repository) QueryWordsByState(ctx context.Context, state model.ReviewState, limit, offset int) ([]model.Word, error) {
	tx := r.db.WithContext(ctx).
		Where("state = ?", state).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset)
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var words []model.Word
	if err := tx.Find(&words).Error; err != nil {
		return nil, r.logError("store_query_words_by_state_failed", err, "state", string(state))
	}
	return words, nil
}

func (r *Repository) CountWordsByState(ctx context.Context) (map[model.ReviewState]int64, error) {
	var rows []struct {
		State model.ReviewState
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Word{}).
		Select("state, COUNT(*) AS count").
		Group("state").
		Scan(&rows).Error; err != nil {
		return nil, r.logError("store_count_words_by_state_failed", err)
	}
	counts := make(map[model.ReviewState]int64, len(rows))
	for _, row := range rows {
		counts[row.State] = row.Count
	}
	return counts, nil
}

// ScanWords calls fn with every stored word in primary-key order, batchSize
// rows at a time.
func (r *Repository) ScanWords(ctx context.Context, batchSize int, fn func([]model.Word) error) error {
	if batchSize <= 0 {
		batchSize = 100
	}
	var batch []model.Word
	res := r.db.WithContext(ctx).FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
		return fn(batch)
	})
	if res.Error != nil {
		return r.logError("store_scan_words_failed", res.Error)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", logModule,
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("word repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ moderation.WordStore = (*Repository)(nil)
