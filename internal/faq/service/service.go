// Package service implements the FAQ record workflow: translation
// population on write, a read-through projection cache and cache
// invalidation after every mutation.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/cache"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq/repository"
	"github.com/faqhub/faqhub/backend/go-services/internal/translate"
	"github.com/faqhub/faqhub/backend/go-services/pkg/logger"
	"github.com/faqhub/faqhub/backend/go-services/pkg/metrics"
	"github.com/faqhub/faqhub/backend/go-services/pkg/validate"
)

const (
	DefaultTTL         = 10 * time.Minute
	DefaultNamespace   = "faqs"
	DefaultCallTimeout = 10 * time.Second

	fieldQuestion = "question"
	fieldAnswer   = "answer"
)

// UpdateInput carries the fields of a partial update. Nil means "leave as is".
type UpdateInput struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

type createInput struct {
	Question string `validate:"notblank"`
	Answer   string `validate:"notblank"`
}

type Option func(*Service)

// WithTTL sets the lifetime of cached projections.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithNamespace sets the cache key prefix ("<namespace>:<lang>").
func WithNamespace(ns string) Option {
	return func(s *Service) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

// WithCallTimeout bounds every individual cache and translation call.
// Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Service) { s.callTimeout = d }
}

// WithParallelTranslation runs the per-language translation calls
// concurrently instead of one after another.
func WithParallelTranslation(on bool) Option {
	return func(s *Service) { s.parallel = on }
}

// WithAnswerTranslator routes answer translations through tr, leaving
// questions on the translator given to New. Answers may hold markup;
// questions are always plain text.
func WithAnswerTranslator(tr translate.Translator) Option {
	return func(s *Service) {
		if tr != nil {
			s.answerTr = tr
		}
	}
}

// Service is the FAQ record manager. It is safe for concurrent use; all
// shared state lives in the injected store and cache.
type Service struct {
	repo        repository.Repository
	cache       cache.Cache
	tr          translate.Translator
	answerTr    translate.Translator
	ttl         time.Duration
	namespace   string
	callTimeout time.Duration
	parallel    bool
	log         *slog.Logger
}

func New(repo repository.Repository, c cache.Cache, tr translate.Translator, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		cache:       c,
		tr:          tr,
		answerTr:    tr,
		ttl:         DefaultTTL,
		namespace:   DefaultNamespace,
		callTimeout: DefaultCallTimeout,
		log:         logger.With("component", "faq"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create validates and stores a new record, then fills in every
// translation it can obtain. Translation failures leave the affected field
// empty; they never fail the call.
func (s *Service) Create(ctx context.Context, question, answer string) (rec *faq.Record, err error) {
	defer func() { observe("create", err) }()

	if err := validate.Struct(createInput{Question: question, Answer: answer}); err != nil {
		return nil, fmt.Errorf("%w: %v", faq.ErrValidation, err)
	}

	s.invalidate(ctx)

	rec = faq.NewRecord(question, answer)
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: create: %v", faq.ErrStorage, err)
	}

	s.populate(ctx, rec, []string{fieldQuestion, fieldAnswer}, false)

	if err := s.repo.Update(ctx, rec); err != nil {
		if derr := s.repo.Delete(ctx, rec.ID); derr != nil {
			s.log.Error("compensating delete failed", "id", rec.ID, "err", derr)
		}
		s.invalidate(ctx)
		return nil, fmt.Errorf("%w: store translations: %v", faq.ErrStorage, err)
	}

	// Reads between the first invalidation and the second write may have
	// cached a projection without this record's translations.
	s.invalidate(ctx)
	s.log.Info("faq created", "id", rec.ID, "translated", len(rec.Translations))
	return rec, nil
}

// Read returns every record projected into lang. Unknown or empty tags
// resolve to the canonical language. Results are served from the cache when
// possible; cache failures fall back to the store.
func (s *Service) Read(ctx context.Context, lang string) (views []faq.View, err error) {
	defer func() { observe("read", err) }()

	l, _ := faq.ParseLang(lang)
	key := s.key(l)

	if views, ok := s.cached(ctx, key); ok {
		return views, nil
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", faq.ErrStorage, err)
	}
	views = make([]faq.View, 0, len(records))
	for _, r := range records {
		views = append(views, r.Project(l))
	}

	payload, err := json.Marshal(views)
	if err != nil {
		return views, nil
	}
	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	if err := s.cache.Set(cctx, key, payload, s.ttl); err != nil {
		s.log.Warn("cache set failed", "err", &faq.CacheError{Op: "set", Key: key, Cause: err})
	}
	return views, nil
}

// Get returns a single record projected into lang, read from the store.
func (s *Service) Get(ctx context.Context, id, lang string) (*faq.View, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	l, _ := faq.ParseLang(lang)
	v := rec.Project(l)
	return &v, nil
}

// Record returns the full stored record including all translations.
func (s *Service) Record(ctx context.Context, id string) (*faq.Record, error) {
	return s.load(ctx, id)
}

// Update applies a partial update. Each changed canonical field is
// re-translated into every supported language; a failed call keeps the
// previous translation for that language.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (rec *faq.Record, err error) {
	defer func() { observe("update", err) }()

	if in.Question != nil && strings.TrimSpace(*in.Question) == "" {
		return nil, fmt.Errorf("%w: field 'question' failed 'notblank'", faq.ErrValidation)
	}
	if in.Answer != nil && strings.TrimSpace(*in.Answer) == "" {
		return nil, fmt.Errorf("%w: field 'answer' failed 'notblank'", faq.ErrValidation)
	}

	rec, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	if in.Question != nil && *in.Question != rec.Question {
		rec.Question = *in.Question
		changed = append(changed, fieldQuestion)
	}
	if in.Answer != nil && *in.Answer != rec.Answer {
		rec.Answer = *in.Answer
		changed = append(changed, fieldAnswer)
	}
	if len(changed) > 0 {
		s.populate(ctx, rec, changed, true)
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		if errors.Is(err, faq.ErrNotFound) {
			return nil, fmt.Errorf("update %s: %w", id, faq.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: update: %v", faq.ErrStorage, err)
	}
	s.invalidate(ctx)
	s.log.Info("faq updated", "id", rec.ID, "changed", changed)
	return rec, nil
}

// Delete removes a record and drops every cached projection.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("delete", err) }()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, faq.ErrNotFound) {
			return fmt.Errorf("delete %s: %w", id, faq.ErrNotFound)
		}
		return fmt.Errorf("%w: delete: %v", faq.ErrStorage, err)
	}
	s.invalidate(ctx)
	s.log.Info("faq deleted", "id", id)
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*faq.Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, faq.ErrNotFound) {
			return nil, fmt.Errorf("get %s: %w", id, faq.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get: %v", faq.ErrStorage, err)
	}
	return rec, nil
}

func (s *Service) key(l faq.Lang) string {
	return s.namespace + ":" + string(l)
}

// Keys returns every projection cache key, canonical language first.
func (s *Service) Keys() []string {
	all := faq.AllLanguages()
	keys := make([]string, 0, len(all))
	for _, l := range all {
		keys = append(keys, s.key(l))
	}
	return keys
}

func (s *Service) cached(ctx context.Context, key string) ([]faq.View, bool) {
	cctx, cancel := s.callCtx(ctx)
	defer cancel()

	b, ok, err := s.cache.Get(cctx, key)
	if err != nil {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		s.log.Warn("cache unavailable, reading from store", "err", &faq.CacheError{Op: "get", Key: key, Cause: err})
		return nil, false
	}
	if !ok {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	var views []faq.View
	if err := json.Unmarshal(b, &views); err != nil {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		s.log.Warn("discarding undecodable cache entry", "key", key, "err", err)
		return nil, false
	}
	if views == nil {
		views = []faq.View{}
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return views, true
}

// invalidate drops every language projection in a single call. Failures are
// logged; the entries then expire with their TTL.
func (s *Service) invalidate(ctx context.Context) {
	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	if err := s.cache.Delete(cctx, s.Keys()...); err != nil {
		s.log.Warn("cache invalidation failed", "err", &faq.CacheError{Op: "delete", Cause: err})
	}
}

type job struct {
	lang  faq.Lang
	field string
	text  string
}

type result struct {
	out string
	err error
}

// populate translates the given fields of rec into every supported
// language. With overwrite false, fields that already hold a translation are
// skipped. Only successful calls touch rec.
func (s *Service) populate(ctx context.Context, rec *faq.Record, fields []string, overwrite bool) {
	var jobs []job
	for _, l := range faq.SupportedLanguages() {
		cur := rec.TranslationFor(l)
		for _, f := range fields {
			j := job{lang: l, field: f}
			switch f {
			case fieldQuestion:
				if !overwrite && cur.Question != "" {
					continue
				}
				j.text = rec.Question
			case fieldAnswer:
				if !overwrite && cur.Answer != "" {
					continue
				}
				j.text = rec.Answer
			}
			jobs = append(jobs, j)
		}
	}

	results := make([]result, len(jobs))
	if s.parallel {
		var wg sync.WaitGroup
		for i := range jobs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = s.translateOne(ctx, jobs[i])
			}(i)
		}
		wg.Wait()
	} else {
		for i := range jobs {
			results[i] = s.translateOne(ctx, jobs[i])
		}
	}

	for i, j := range jobs {
		res := results[i]
		if res.err != nil {
			metrics.TranslationFailures.WithLabelValues(string(j.lang), j.field).Inc()
			s.log.Warn("translation failed", "id", rec.ID, "err", &faq.TranslationError{Lang: j.lang, Field: j.field, Cause: res.err})
			continue
		}
		if strings.TrimSpace(res.out) == "" {
			continue
		}
		switch j.field {
		case fieldQuestion:
			rec.SetQuestion(j.lang, res.out)
		case fieldAnswer:
			rec.SetAnswer(j.lang, res.out)
		}
	}
}

func (s *Service) translateOne(ctx context.Context, j job) result {
	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	tr := s.tr
	if j.field == fieldAnswer {
		tr = s.answerTr
	}
	out, err := tr.Translate(cctx, j.text, j.lang)
	return result{out: out, err: err}
}

func (s *Service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.callTimeout)
}

func observe(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, faq.ErrValidation):
		outcome = "invalid"
	case errors.Is(err, faq.ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	metrics.FAQOperations.WithLabelValues(op, outcome).Inc()
}
