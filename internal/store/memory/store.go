// Package memory is an in-process WordStore used by tests and the seed tool.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

type Store struct {
	mu    sync.RWMutex
	words map[string]model.Word
}

func NewStore(seed ...model.Word) *Store {
	words := make(map[string]model.Word, len(seed))
	for _, word := range seed {
		words[word.ID] = word.Clone()
	}
	return &Store{words: words}
}

func (s *Store) CreateWord(_ context.Context, word model.Word) error {
	id := strings.TrimSpace(word.ID)
	if id == "" {
		return moderation.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.words[id]; exists {
		return moderation.ErrAlreadyExists
	}
	s.words[id] = word.Clone()
	return nil
}

func (s *Store) LoadWord(_ context.Context, wordID string) (model.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	word, ok := s.words[strings.TrimSpace(wordID)]
	if !ok {
		return model.Word{}, moderation.ErrNotFound
	}
	return word.Clone(), nil
}

func (s *Store) SaveWord(_ context.Context, word model.Word, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.words[word.ID]
	if !ok {
		return moderation.ErrNotFound
	}
	if current.Version != expectedVersion {
		return moderation.ErrVersionConflict
	}
	s.words[word.ID] = word.Clone()
	return nil
}

func (s *Store) QueryWordsByState(_ context.Context, state model.ReviewState, limit, offset int) ([]model.Word, error) {
	s.mu.RLock()
	matched := make([]model.Word, 0)
	for _, word := range s.words {
		if word.State == state {
			matched = append(matched, word.Clone())
		}
	}
	s.mu.RUnlock()

	sortOldestFirst(matched)
	if offset >= len(matched) {
		return []model.Word{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *Store) CountWordsByState(_ context.Context) (map[model.ReviewState]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[model.ReviewState]int64)
	for _, word := range s.words {
		counts[word.State]++
	}
	return counts, nil
}

// ScanWords calls fn with every stored word in batches of at most
// batchSize, ordered by id.
func (s *Store) ScanWords(ctx context.Context, batchSize int, fn func([]model.Word) error) error {
	if batchSize <= 0 {
		batchSize = 100
	}
	s.mu.RLock()
	all := make([]model.Word, 0, len(s.words))
	for _, word := range s.words {
		all = append(all, word.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	for start := 0; start < len(all); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + batchSize
		if end > len(all) {
			end = len(all)
		}
		if err := fn(all[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func sortOldestFirst(words []model.Word) {
	sort.Slice(words, func(i, j int) bool {
		if words[i].CreatedAt.Equal(words[j].CreatedAt) {
			return words[i].ID < words[j].ID
		}
		return words[i].CreatedAt.Before(words[j].CreatedAt)
	})
}

var _ moderation.WordStore = (*Store)(nil)
