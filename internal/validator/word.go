package validator

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

const (
	maxHeadwordLength   = 100
	maxDefinitionLength = 2000
	maxTags             = 20
)

// DefaultLanguages are the meaning languages accepted when no list is
// configured: Kurukh, Hindi and English.
var DefaultLanguages = []string{"kru", "hi", "en"}

// DefaultPartsOfSpeech is used when no parts-of-speech file is present.
var DefaultPartsOfSpeech = []string{
	"noun", "pronoun", "verb", "adjective", "adverb",
	"postposition", "conjunction", "interjection", "particle", "numeral",
}

type WordValidator struct {
	languages     map[string]struct{}
	partsOfSpeech map[string]struct{}
	mu            sync.RWMutex
}

// NewWordValidator loads allowed parts of speech from posListPath (one per
// line, # for comments). A missing file falls back to the defaults.
func NewWordValidator(posListPath string, languages []string) *WordValidator {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	v := &WordValidator{
		languages:     toSet(languages),
		partsOfSpeech: toSet(DefaultPartsOfSpeech),
	}
	if posListPath == "" {
		return v
	}
	if err := v.loadPartsOfSpeech(posListPath); err != nil {
		log.Printf("Warning: failed to load parts of speech, using defaults: %v", err)
	}
	return v
}

func (v *WordValidator) loadPartsOfSpeech(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	loaded := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		loaded[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(loaded) == 0 {
		return errors.New("parts of speech file is empty")
	}

	v.mu.Lock()
	v.partsOfSpeech = loaded
	v.mu.Unlock()
	log.Printf("Loaded %d parts of speech", len(loaded))
	return nil
}

// Validate trims and normalizes content and rejects entries that cannot be
// reviewed: no headword, no meaning, unknown language or part of speech.
func (v *WordValidator) Validate(content model.WordContent) (model.WordContent, error) {
	out := model.WordContent{
		Headword:      strings.TrimSpace(content.Headword),
		PartOfSpeech:  strings.ToLower(strings.TrimSpace(content.PartOfSpeech)),
		Pronunciation: strings.TrimSpace(content.Pronunciation),
	}

	if out.Headword == "" {
		return model.WordContent{}, errors.New("headword is required")
	}
	if utf8.RuneCountInString(out.Headword) > maxHeadwordLength {
		return model.WordContent{}, fmt.Errorf("headword is longer than %d characters", maxHeadwordLength)
	}
	if out.PartOfSpeech != "" && !v.IsPartOfSpeech(out.PartOfSpeech) {
		return model.WordContent{}, fmt.Errorf("unknown part of speech %q", out.PartOfSpeech)
	}

	if len(content.Meanings) == 0 {
		return model.WordContent{}, errors.New("at least one meaning is required")
	}
	for i, m := range content.Meanings {
		meaning := model.Meaning{
			Language:   strings.ToLower(strings.TrimSpace(m.Language)),
			Definition: strings.TrimSpace(m.Definition),
		}
		if _, ok := v.languages[meaning.Language]; !ok {
			return model.WordContent{}, fmt.Errorf("meaning %d: unsupported language %q", i+1, m.Language)
		}
		if meaning.Definition == "" {
			return model.WordContent{}, fmt.Errorf("meaning %d: definition is required", i+1)
		}
		if utf8.RuneCountInString(meaning.Definition) > maxDefinitionLength {
			return model.WordContent{}, fmt.Errorf("meaning %d: definition is longer than %d characters", i+1, maxDefinitionLength)
		}
		for _, ex := range m.Examples {
			example := model.ExamplePair{
				Sentence:    strings.TrimSpace(ex.Sentence),
				Translation: strings.TrimSpace(ex.Translation),
			}
			if example.Sentence == "" {
				continue
			}
			meaning.Examples = append(meaning.Examples, example)
		}
		out.Meanings = append(out.Meanings, meaning)
	}

	out.Tags = normalizeTags(content.Tags)
	if len(out.Tags) > maxTags {
		return model.WordContent{}, fmt.Errorf("at most %d tags are allowed", maxTags)
	}
	return out, nil
}

// IsPartOfSpeech checks the configured parts of speech.
func (v *WordValidator) IsPartOfSpeech(pos string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.partsOfSpeech[strings.ToLower(strings.TrimSpace(pos))]
	return ok
}

// normalizeTags lowercases, trims and de-duplicates tags, keeping order.
func normalizeTags(tags model.Tags) model.Tags {
	out := make(model.Tags, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
	}
	return set
}
