package main

import (
	"context"
	"testing"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/authz"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/store/memory"
)

func TestParseRoute(t *testing.T) {
	for _, value := range []string{"community", "admin", "none"} {
		if got, err := parseRoute(value); err != nil || string(got) != value {
			t.Fatalf("parseRoute(%q) = %q, %v", value, got, err)
		}
	}
	for _, value := range []string{"", "Community", "queue"} {
		if _, err := parseRoute(value); err == nil {
			t.Fatalf("parseRoute(%q) should fail", value)
		}
	}
}

func TestSeedWordReachesTheChosenQueue(t *testing.T) {
	store := memory.NewStore()
	svc := moderation.NewService(moderation.Dependencies{
		Store:      store,
		Authorizer: authz.Static{Admins: []string{"seed-admin"}},
	})
	content := model.WordContent{Headword: "alla", Meanings: model.Meanings{{Language: "en", Definition: "dog"}}}
	ctx := context.Background()

	cases := map[moderation.RouteTarget]model.ReviewState{
		routeNone:                   model.StateDraft,
		moderation.RouteToAdmin:     model.StatePendingAdminReview,
		moderation.RouteToCommunity: model.StateInCommunityReview,
	}
	for target, want := range cases {
		if err := seedWord(ctx, svc, content, "seed", "seed-admin", target); err != nil {
			t.Fatalf("%s: %v", target, err)
		}
		words, err := svc.ListByState(ctx, want, 10, 0)
		if err != nil || len(words) != 1 {
			t.Fatalf("%s: expected one word in %s, got %d (%v)", target, want, len(words), err)
		}
	}
}
