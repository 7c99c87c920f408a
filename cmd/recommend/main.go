// Command recommend builds the recommendation models from a catalog CSV and
// prints recommendations for the given queries. Useful for checking model
// quality without standing up the full server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bookquest/bookquest-server/internal/catalog"
	"github.com/bookquest/bookquest-server/internal/domain"
	"github.com/bookquest/bookquest-server/internal/recommend"
)

func main() {
	catalogPath := flag.String("catalog", "Books.csv", "Path to the book dataset CSV")
	method := flag.String("method", "content", "Strategy: content, genre, author, collaborative, hybrid, popular")
	limit := flag.Int("limit", 8, "Number of recommendations per query")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: recommend [flags] <query> [query...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	loader := catalog.NewLoader(catalog.DefaultSchema, logger)
	engine := recommend.NewEngine(loader, *catalogPath, recommend.DefaultEngineConfig(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	if err := engine.Build(ctx); err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Models built in %s\n", time.Since(start).Round(time.Millisecond))

	m := domain.ParseMethod(*method)
	for _, query := range flag.Args() {
		recs, err := engine.Recommend(query, m, *limit)
		if err != nil {
			logger.Error("recommendation failed", "query", query, "error", err)
			continue
		}

		fmt.Printf("\n=== %q (%s) ===\n", query, m)
		for i, rec := range recs {
			fmt.Printf("%2d. %-40s %-24s %s sim=%.2f\n",
				i+1, rec.Title, rec.Author, rec.Genre, rec.Similarity)
			fmt.Printf("    %s\n", rec.Reason)
		}
	}
}
