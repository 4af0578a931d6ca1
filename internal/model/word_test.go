package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestReviewStateTerminal(t *testing.T) {
	terminal := map[ReviewState]bool{
		StateApproved:          true,
		StateRejected:          true,
		StateCommunityRejected: true,
	}
	for _, s := range AllStates {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
		if s.IsTerminal() != terminal[s] {
			t.Fatalf("%s: IsTerminal = %v", s, s.IsTerminal())
		}
	}
	if ReviewState("inCommunityReview").Valid() {
		t.Fatalf("unknown state reported as valid")
	}
}

func TestWordCloneIsDeep(t *testing.T) {
	resolved := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	w := Word{
		ID: "w1",
		WordContent: WordContent{
			Headword: "ort",
			Meanings: Meanings{{Language: "en", Definition: "to say", Examples: []ExamplePair{{Sentence: "a", Translation: "b"}}}},
			Tags:     Tags{"verb"},
		},
		ReviewedBy:  VoteRecords{{VoterID: "v1", Vote: VoteApprove}},
		History:     HistoryEntries{{Action: "SUBMIT"}},
		Reports:     ReportRecords{{ID: "r1", Payload: datatypes.JSON(`{"a":1}`), ResolvedAt: &resolved}},
		Corrections: CorrectionRecords{{ID: "c1", Field: FieldHeadword}},
	}
	c := w.Clone()
	c.Meanings[0].Examples[0].Sentence = "changed"
	c.Tags[0] = "noun"
	c.ReviewedBy[0].VoterID = "v2"
	c.History[0].Action = "X"
	c.Reports[0].Payload[2] = 'z'
	*c.Reports[0].ResolvedAt = time.Time{}
	c.Corrections[0].Field = FieldTags

	if w.Meanings[0].Examples[0].Sentence != "a" || w.Tags[0] != "verb" {
		t.Fatalf("content aliased: %+v", w.WordContent)
	}
	if w.ReviewedBy[0].VoterID != "v1" || w.History[0].Action != "SUBMIT" {
		t.Fatalf("moderation fields aliased")
	}
	if string(w.Reports[0].Payload) != `{"a":1}` || !w.Reports[0].ResolvedAt.Equal(resolved) {
		t.Fatalf("report aliased: %+v", w.Reports[0])
	}
	if w.Corrections[0].Field != FieldHeadword {
		t.Fatalf("correction aliased")
	}
}

func TestCloneKeepsEmptyListsEncodable(t *testing.T) {
	w := Word{ID: "w1", ReviewedBy: VoteRecords{}, History: HistoryEntries{}, Reports: ReportRecords{}, Corrections: CorrectionRecords{}}
	raw, err := json.Marshal(w.Clone())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"reviewedBy":[]`, `"history":[]`, `"reports":[]`, `"corrections":[]`} {
		if !strings.Contains(string(raw), field) {
			t.Fatalf("expected %s in %s", field, raw)
		}
	}
	if c := (Word{}).Clone(); c.ReviewedBy != nil || c.History != nil {
		t.Fatalf("nil lists must stay nil")
	}
}

func TestJSONColumnsRoundTrip(t *testing.T) {
	in := VoteRecords{{VoterID: "v1", Vote: VoteReject, Comment: "typo"}}
	raw, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var fromBytes VoteRecords
	if err := fromBytes.Scan(raw); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	var fromString VoteRecords
	if err := fromString.Scan(string(raw.([]byte))); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if len(fromBytes) != 1 || fromBytes[0].VoterID != "v1" || fromBytes[0].Comment != "typo" || len(fromString) != 1 {
		t.Fatalf("round trip mismatch: %+v %+v", fromBytes, fromString)
	}

	var empty HistoryEntries
	if err := empty.Scan(nil); err != nil || empty != nil {
		t.Fatalf("nil scan: %v %+v", err, empty)
	}
	if err := empty.Scan(42); err == nil {
		t.Fatalf("expected error for unsupported source")
	}

	raw, _ = Tags(nil).Value()
	if string(raw.([]byte)) != "[]" {
		t.Fatalf("nil tags should encode as [], got %s", raw)
	}
}

func TestOpenCount(t *testing.T) {
	r := ReportRecords{{Status: RecordOpen}, {Status: RecordResolved}, {Status: RecordOpen}}
	if r.OpenCount() != 2 {
		t.Fatalf("expected 2 open reports, got %d", r.OpenCount())
	}
}
