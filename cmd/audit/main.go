package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/config"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/database"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/review"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/store/postgres"
)

func main() {
	workers := flag.Int("workers", 10, "Number of parallel workers")
	batchSize := flag.Int("batch", 500, "Words loaded per batch")
	outputFile := flag.String("output", "audit_results.json", "Output file for results")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	repo := postgres.NewRepository(db, slog.Default())

	startTime := time.Now()
	var (
		processed  int64
		violations []review.Violation
		mu         sync.Mutex
	)

	g, ctx := errgroup.WithContext(context.Background())
	wordChan := make(chan model.Word, *workers*10)

	// Fetch words in batches
	g.Go(func() error {
		defer close(wordChan)
		return repo.ScanWords(ctx, *batchSize, func(words []model.Word) error {
			for _, word := range words {
				select {
				case wordChan <- word:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	})

	for i := 0; i < *workers; i++ {
		g.Go(func() error {
			for word := range wordChan {
				found := review.CheckInvariants(word)
				if len(found) > 0 {
					mu.Lock()
					violations = append(violations, found...)
					mu.Unlock()
				}
				if p := atomic.AddInt64(&processed, 1); p%1000 == 0 {
					fmt.Printf("Progress: %d words, violations so far: %d\n", p, countViolations(&mu, &violations))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Audit aborted after %d words: %v", atomic.LoadInt64(&processed), err)
	}

	elapsed := time.Since(startTime)
	total := atomic.LoadInt64(&processed)
	fmt.Printf("\n=== Audit Complete ===\n")
	fmt.Printf("Total words: %d\n", total)
	fmt.Printf("Violations found: %d\n", len(violations))
	fmt.Printf("Time elapsed: %v\n", elapsed)

	// Group violations by rule
	byRule := make(map[string][]review.Violation)
	for _, v := range violations {
		byRule[v.Rule] = append(byRule[v.Rule], v)
	}

	fmt.Printf("\n=== Violations by Rule ===\n")
	for rule, list := range byRule {
		fmt.Printf("%s: %d\n", rule, len(list))
	}

	output := map[string]interface{}{
		"summary": map[string]interface{}{
			"total":      total,
			"violations": len(violations),
			"elapsed":    elapsed.String(),
		},
		"violationsByRule": byRule,
		"violations":       violations,
	}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	if err := os.WriteFile(*outputFile, jsonData, 0644); err != nil {
		log.Printf("Failed to write output file: %v", err)
	} else {
		fmt.Printf("\nResults saved to %s\n", *outputFile)
	}

	if len(violations) > 0 {
		os.Exit(1)
	}
}

func countViolations(mu *sync.Mutex, violations *[]review.Violation) int {
	mu.Lock()
	defer mu.Unlock()
	return len(*violations)
}
