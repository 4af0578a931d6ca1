package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/authz"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/config"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/database"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/store/postgres"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/validator"
)

// routeNone leaves seeded words as drafts.
const routeNone moderation.RouteTarget = "none"

// Words are created through the moderation service so every seeded entry
// carries a normal history and version.
func main() {
	filePath := flag.String("file", "data/seed_words.json", "JSON array of word entries")
	contributor := flag.String("contributor", "seed", "Contributor id recorded on every word")
	admin := flag.String("admin", "seed-admin", "Admin id used for routing")
	route := flag.String("route", "community", "Queue for submitted words: community, admin or none")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	target, err := parseRoute(*route)
	if err != nil {
		log.Fatalf("Invalid -route: %v", err)
	}

	entries, err := loadEntries(*filePath)
	if err != nil {
		log.Fatalf("Failed to load seed file: %v", err)
	}
	log.Printf("Loaded %d words from %s", len(entries), *filePath)

	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migration
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	svc := moderation.NewService(moderation.Dependencies{
		Store:      postgres.NewRepository(db, slog.Default()),
		Authorizer: authz.Static{Admins: []string{*admin}},
		Validator:  validator.NewWordValidator("data/parts_of_speech.txt", nil),
		Threshold:  cfg.VoteThreshold,
	})

	ctx := context.Background()
	var created, skipped int
	for _, content := range entries {
		if err := seedWord(ctx, svc, content, *contributor, *admin, target); err != nil {
			log.Printf("Skipping %q: %v", content.Headword, err)
			skipped++
			continue
		}
		created++
	}

	log.Printf("Seeding complete. Created: %d, Skipped: %d", created, skipped)
}

func seedWord(ctx context.Context, svc *moderation.Service, content model.WordContent, contributor, admin string, target moderation.RouteTarget) error {
	word, err := svc.CreateWord(ctx, moderation.CreateWordCommand{ContributorID: contributor, Content: content})
	if err != nil {
		return err
	}
	if target == routeNone {
		return nil
	}
	if _, err := svc.SubmitWord(ctx, word.ID, contributor); err != nil {
		return err
	}
	if _, err := svc.RouteWord(ctx, word.ID, admin, target); err != nil {
		return err
	}
	if target == moderation.RouteToCommunity {
		_, err = svc.OpenCommunityReview(ctx, word.ID, admin)
	}
	return err
}

func parseRoute(value string) (moderation.RouteTarget, error) {
	target := moderation.RouteTarget(value)
	switch target {
	case routeNone, moderation.RouteToAdmin, moderation.RouteToCommunity:
		return target, nil
	}
	return "", fmt.Errorf("%q is not one of community, admin or none", value)
}

func loadEntries(path string) ([]model.WordContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []model.WordContent
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("seed file has no entries")
	}
	return entries, nil
}
