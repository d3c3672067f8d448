// Command seed bulk-loads FAQs from a JSON file through the FAQ manager, so
// every entry is translated and the projection cache is invalidated exactly
// as it would be for POST /faq/add.
//
//	seed -file faqs.json
//
// The file holds an array of {"question": "...", "answer": "..."} objects.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/faqhub/faqhub/backend/go-services/internal/cache"
	"github.com/faqhub/faqhub/backend/go-services/internal/config"
	"github.com/faqhub/faqhub/backend/go-services/internal/database"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq/repository"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq/service"
	"github.com/faqhub/faqhub/backend/go-services/internal/translate"
	"github.com/faqhub/faqhub/backend/go-services/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type creator interface {
	Create(ctx context.Context, question, answer string) (*faq.Record, error)
}

func main() {
	file := flag.String("file", "faqs.json", "path to a JSON array of {question, answer}")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.MongoDB.URI == "" {
		logger.Fatalf("MONGODB_URI is required for seeding")
	}

	ctx := context.Background()
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 3)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	repo := repository.NewMongoRepo(client.Database(cfg.MongoDB.Database).Collection("faqs"))
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warnf("faq indexes: %v", err)
	}

	// Without Redis the running server's cache is unreachable from here; its
	// entries age out after the configured TTL.
	var c cache.Cache = cache.NewMemoryCache(cache.DefaultMemoryConfig())
	if cfg.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer func() { _ = rdb.Close() }()
		c = cache.NewRedisCache(rdb)
	}

	translators := translate.FromConfig(cfg.Translation)
	svc := service.New(repo, c, translators.Text,
		service.WithAnswerTranslator(translators.Answer),
		service.WithNamespace(cfg.Cache.Namespace),
		service.WithCallTimeout(cfg.Translation.CallTimeout),
		service.WithParallelTranslation(cfg.Translation.Parallel),
	)

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatalf("open %s: %v", *file, err)
	}
	defer f.Close()

	n, err := seed(ctx, svc, f)
	if err != nil {
		logger.Fatalf("seed stopped after %d entries: %v", n, err)
	}
	logger.Infof("seeded %d FAQs from %s", n, *file)
}

// seed creates every entry in order and stops at the first failure.
func seed(ctx context.Context, svc creator, r io.Reader) (int, error) {
	var entries []entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}
	for i, e := range entries {
		rec, err := svc.Create(ctx, e.Question, e.Answer)
		if err != nil {
			return i, fmt.Errorf("entry %d: %w", i, err)
		}
		logger.Debugf("seeded %s", rec.ID)
	}
	return len(entries), nil
}
