package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/faqhub/faqhub/backend/go-services/internal/cache"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq/repository"
	"github.com/faqhub/faqhub/backend/go-services/internal/translate"
	"github.com/faqhub/faqhub/backend/go-services/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// countingRepo wraps the memory repository, counts List calls and can be
// told to fail specific operations.
type countingRepo struct {
	*repository.MemoryRepo
	lists      int32
	failList   error
	failUpdate error
}

func (r *countingRepo) List(ctx context.Context) ([]*faq.Record, error) {
	atomic.AddInt32(&r.lists, 1)
	if r.failList != nil {
		return nil, r.failList
	}
	return r.MemoryRepo.List(ctx)
}

func (r *countingRepo) Update(ctx context.Context, rec *faq.Record) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	return r.MemoryRepo.Update(ctx, rec)
}

// downCache fails every operation.
type downCache struct{}

func (downCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (downCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (downCache) Delete(context.Context, ...string) error { return errors.New("connection refused") }

type fixture struct {
	svc  *Service
	repo *countingRepo
	tr   *translate.MockTranslator
	m    *mr.Miniredis
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	repo := &countingRepo{MemoryRepo: repository.NewMemoryRepo()}
	tr := translate.NewMockTranslator()
	c := cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	return &fixture{svc: New(repo, c, tr, opts...), repo: repo, tr: tr, m: m}
}

func (f *fixture) primeAll(t *testing.T) {
	t.Helper()
	for _, l := range faq.AllLanguages() {
		_, err := f.svc.Read(context.Background(), string(l))
		require.NoError(t, err)
	}
	for _, k := range f.svc.Keys() {
		require.True(t, f.m.Exists(k), "expected %s to be cached", k)
	}
}

func (f *fixture) requireNoneCached(t *testing.T) {
	t.Helper()
	for _, k := range f.svc.Keys() {
		require.False(t, f.m.Exists(k), "expected %s to be invalidated", k)
	}
}

func TestCreateThenReadCanonicalAndTranslated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, "What is Go?", "A programming language.")
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
	require.Len(t, rec.Translations, len(faq.SupportedLanguages()))

	en, err := f.svc.Read(ctx, "en")
	require.NoError(t, err)
	require.Len(t, en, 1)
	require.Equal(t, "What is Go?", en[0].Question)
	require.Equal(t, "A programming language.", en[0].Answer)

	for _, l := range faq.SupportedLanguages() {
		views, err := f.svc.Read(ctx, string(l))
		require.NoError(t, err)
		require.Equal(t, "["+string(l)+"] What is Go?", views[0].Question)
		require.NotEqual(t, en[0].Question, views[0].Question)
	}
}

func TestWhatIsXScenario(t *testing.T) {
	f := newFixture(t)
	f.tr.Func = func(text string, l faq.Lang) string {
		if l == faq.LangFR && text == "What is X?" {
			return "Qu'est-ce que X ?"
		}
		return "[" + string(l) + "] " + text
	}
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "What is X?", "X is Y.")
	require.NoError(t, err)

	fr, err := f.svc.Read(ctx, "fr")
	require.NoError(t, err)
	require.Equal(t, "Qu'est-ce que X ?", fr[0].Question)
	require.Equal(t, "[fr] X is Y.", fr[0].Answer)

	unknown, err := f.svc.Read(ctx, "xx")
	require.NoError(t, err)
	require.Equal(t, "What is X?", unknown[0].Question)
	require.Equal(t, "X is Y.", unknown[0].Answer)
	require.False(t, f.m.Exists("faqs:xx"), "unknown tags share the canonical key")
	require.True(t, f.m.Exists("faqs:en"))
}

func TestTranslationFailureFallsBackToCanonical(t *testing.T) {
	f := newFixture(t)
	f.tr.FailFor(faq.LangFR, &translate.ProviderError{Message: "quota exceeded"})
	before := testutil.ToFloat64(metrics.TranslationFailures.WithLabelValues("fr", "question"))
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, "What is X?", "X is Y.")
	require.NoError(t, err)
	require.Equal(t, faq.Translation{}, rec.TranslationFor(faq.LangFR))
	require.Equal(t, before+1, testutil.ToFloat64(metrics.TranslationFailures.WithLabelValues("fr", "question")))

	fr, err := f.svc.Read(ctx, "fr")
	require.NoError(t, err)
	require.Equal(t, "What is X?", fr[0].Question)
	require.Equal(t, "X is Y.", fr[0].Answer)

	hi, err := f.svc.Read(ctx, "hi")
	require.NoError(t, err)
	require.Equal(t, "[hi] What is X?", hi[0].Question)
}

func TestUnknownOrMissingLangProjectsCanonical(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, "Q1", "A1")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "Q2", "A2")
	require.NoError(t, err)

	for _, tag := range []string{"", "xx", "EN", "de"} {
		views, err := f.svc.Read(ctx, tag)
		require.NoError(t, err)
		require.Len(t, views, 2)
		require.Equal(t, "Q1", views[0].Question)
		require.Equal(t, "A2", views[1].Answer)
	}
}

func TestRepeatedReadsHitStoreOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, "Q", "A")
	require.NoError(t, err)

	first, err := f.svc.Read(ctx, "es")
	require.NoError(t, err)
	second, err := f.svc.Read(ctx, "es")
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	require.Equal(t, string(a), string(b))
	require.EqualValues(t, 1, atomic.LoadInt32(&f.repo.lists))
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	f := newFixture(t, WithTTL(time.Minute))
	ctx := context.Background()
	_, err := f.svc.Read(ctx, "en")
	require.NoError(t, err)

	f.m.FastForward(2 * time.Minute)
	_, err = f.svc.Read(ctx, "en")
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&f.repo.lists))
}

func TestInvalidationAfterEveryMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.primeAll(t)
	rec, err := f.svc.Create(ctx, "Q", "A")
	require.NoError(t, err)
	f.requireNoneCached(t)

	f.primeAll(t)
	q := "Q2"
	_, err = f.svc.Update(ctx, rec.ID, UpdateInput{Question: &q})
	require.NoError(t, err)
	f.requireNoneCached(t)

	f.primeAll(t)
	require.NoError(t, f.svc.Delete(ctx, rec.ID))
	f.requireNoneCached(t)
}

func TestReadAfterUpdateSeesNewText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, "Old?", "Old.")
	require.NoError(t, err)
	_, err = f.svc.Read(ctx, "ja")
	require.NoError(t, err)

	q := "New?"
	_, err = f.svc.Update(ctx, rec.ID, UpdateInput{Question: &q})
	require.NoError(t, err)

	ja, err := f.svc.Read(ctx, "ja")
	require.NoError(t, err)
	require.Equal(t, "[ja] New?", ja[0].Question)
	require.Equal(t, "[ja] Old.", ja[0].Answer)
}

func TestUpdateQuestionOnlyRetranslatesQuestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, "What is X?", "X is Y.")
	require.NoError(t, err)
	f.tr.Reset()

	q := "What is Z?"
	updated, err := f.svc.Update(ctx, rec.ID, UpdateInput{Question: &q})
	require.NoError(t, err)

	calls := f.tr.Calls()
	require.Len(t, calls, len(faq.SupportedLanguages()))
	for _, c := range calls {
		require.Equal(t, "What is Z?", c.Text)
	}
	for _, l := range faq.SupportedLanguages() {
		tr := updated.TranslationFor(l)
		require.Equal(t, "["+string(l)+"] What is Z?", tr.Question)
		require.Equal(t, "["+string(l)+"] X is Y.", tr.Answer)
	}
}

func TestUpdateWithUnchangedValuesTranslatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, "Q", "A")
	require.NoError(t, err)
	f.tr.Reset()

	q, a := "Q", "A"
	_, err = f.svc.Update(ctx, rec.ID, UpdateInput{Question: &q, Answer: &a})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, rec.ID, UpdateInput{})
	require.NoError(t, err)
	require.Empty(t, f.tr.Calls())
}

func TestUpdateTranslationFailureKeepsPriorValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, "Old?", "Old.")
	require.NoError(t, err)

	f.tr.FailFor(faq.LangAR, errors.New("timeout"))
	a := "New."
	updated, err := f.svc.Update(ctx, rec.ID, UpdateInput{Answer: &a})
	require.NoError(t, err)
	require.Equal(t, "[ar] Old.", updated.TranslationFor(faq.LangAR).Answer)
	require.Equal(t, "[bn] New.", updated.TranslationFor(faq.LangBN).Answer)

	stored, err := f.svc.Record(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, "New.", stored.Answer)
	require.Equal(t, "[ar] Old.", stored.TranslationFor(faq.LangAR).Answer)
}

func TestUpdateValidationAndNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, "Q", "A")
	require.NoError(t, err)

	blank := "  "
	_, err = f.svc.Update(ctx, rec.ID, UpdateInput{Question: &blank})
	require.ErrorIs(t, err, faq.ErrValidation)

	q := "Q2"
	_, err = f.svc.Update(ctx, "000000000000000000000000", UpdateInput{Question: &q})
	require.ErrorIs(t, err, faq.ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "", "A")
	require.ErrorIs(t, err, faq.ErrValidation)
	_, err = f.svc.Create(ctx, "Q", "   ")
	require.ErrorIs(t, err, faq.ErrValidation)

	views, err := f.svc.Read(ctx, "en")
	require.NoError(t, err)
	require.Empty(t, views)
	require.Empty(t, f.tr.Calls())
}

func TestCreateRemovesRecordWhenTranslationWriteFails(t *testing.T) {
	f := newFixture(t)
	f.repo.failUpdate = errors.New("write conflict")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "Q", "A")
	require.ErrorIs(t, err, faq.ErrStorage)

	f.repo.failUpdate = nil
	views, err := f.svc.Read(ctx, "en")
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestDeleteThenReadExcludesRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep, err := f.svc.Create(ctx, "Keep", "A")
	require.NoError(t, err)
	drop, err := f.svc.Create(ctx, "Drop", "B")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, drop.ID))
	for _, l := range faq.AllLanguages() {
		views, err := f.svc.Read(ctx, string(l))
		require.NoError(t, err)
		require.Len(t, views, 1)
		require.Equal(t, keep.ID, views[0].ID)
	}

	_, err = f.svc.Get(ctx, drop.ID, "en")
	require.ErrorIs(t, err, faq.ErrNotFound)
}

func TestDeleteUnknownIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Delete(context.Background(), "000000000000000000000000")
	require.ErrorIs(t, err, faq.ErrNotFound)
}

func TestGetProjectsSingleRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, "Q", "A")
	require.NoError(t, err)

	v, err := f.svc.Get(ctx, rec.ID, "te")
	require.NoError(t, err)
	require.Equal(t, "[te] Q", v.Question)
	v, err = f.svc.Get(ctx, rec.ID, "nope")
	require.NoError(t, err)
	require.Equal(t, "Q", v.Question)
}

func TestCacheDownReadsAndWritesStillSucceed(t *testing.T) {
	repo := &countingRepo{MemoryRepo: repository.NewMemoryRepo()}
	svc := New(repo, downCache{}, translate.NewMockTranslator())
	ctx := context.Background()
	before := testutil.ToFloat64(metrics.CacheRequests.WithLabelValues("error"))

	rec, err := svc.Create(ctx, "Q", "A")
	require.NoError(t, err)

	views, err := svc.Read(ctx, "mr")
	require.NoError(t, err)
	require.Equal(t, "[mr] Q", views[0].Question)
	_, err = svc.Read(ctx, "mr")
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&repo.lists))
	require.Equal(t, before+2, testutil.ToFloat64(metrics.CacheRequests.WithLabelValues("error")))

	require.NoError(t, svc.Delete(ctx, rec.ID))
}

func TestUndecodableCacheEntryIsAMiss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, "Q", "A")
	require.NoError(t, err)
	require.NoError(t, f.m.Set("faqs:en", "not json"))

	views, err := f.svc.Read(ctx, "en")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.EqualValues(t, 1, atomic.LoadInt32(&f.repo.lists))
}

func TestReadEmptyStoreReturnsEmptyList(t *testing.T) {
	f := newFixture(t)
	views, err := f.svc.Read(context.Background(), "fr")
	require.NoError(t, err)
	require.NotNil(t, views)
	require.Empty(t, views)

	cached, err := f.svc.Read(context.Background(), "fr")
	require.NoError(t, err)
	require.NotNil(t, cached)
	b, _ := json.Marshal(cached)
	require.Equal(t, "[]", string(b))
}

func TestReadStorageFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.failList = errors.New("no reachable servers")
	_, err := f.svc.Read(context.Background(), "en")
	require.ErrorIs(t, err, faq.ErrStorage)
}

func TestNamespaceOption(t *testing.T) {
	f := newFixture(t, WithNamespace("help"))
	_, err := f.svc.Read(context.Background(), "bn")
	require.NoError(t, err)
	require.True(t, f.m.Exists("help:bn"))
	require.Len(t, f.svc.Keys(), 10)
	require.Equal(t, "help:en", f.svc.Keys()[0])
}

// blockingTranslator waits for its context to end.
type blockingTranslator struct{}

func (blockingTranslator) Translate(ctx context.Context, _ string, _ faq.Lang) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestCallTimeoutTreatsSlowProviderAsFailure(t *testing.T) {
	repo := repository.NewMemoryRepo()
	svc := New(repo, cache.NewMemoryCache(cache.DefaultMemoryConfig()), blockingTranslator{},
		WithCallTimeout(20*time.Millisecond), WithParallelTranslation(true))

	start := time.Now()
	rec, err := svc.Create(context.Background(), "Q", "A")
	require.NoError(t, err)
	require.Empty(t, rec.Translations)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestParallelTranslationMatchesSequential(t *testing.T) {
	seq := newFixture(t)
	par := newFixture(t, WithParallelTranslation(true))
	ctx := context.Background()

	a, err := seq.svc.Create(ctx, "Q", "A")
	require.NoError(t, err)
	b, err := par.svc.Create(ctx, "Q", "A")
	require.NoError(t, err)
	require.Equal(t, a.Translations, b.Translations)
	require.Len(t, par.tr.Calls(), 2*len(faq.SupportedLanguages()))
}

func TestParallelTranslationFailureIsPerLanguage(t *testing.T) {
	f := newFixture(t, WithParallelTranslation(true))
	f.tr.FailFor(faq.LangFR, &translate.ProviderError{Message: "quota exceeded"})

	rec, err := f.svc.Create(context.Background(), "Q", "A")
	require.NoError(t, err)
	require.Equal(t, faq.Translation{}, rec.TranslationFor(faq.LangFR))
	for _, l := range faq.SupportedLanguages() {
		if l == faq.LangFR {
			continue
		}
		tr := rec.TranslationFor(l)
		require.Equal(t, "["+string(l)+"] Q", tr.Question, "question in %s", l)
		require.Equal(t, "["+string(l)+"] A", tr.Answer, "answer in %s", l)
	}

	stored, err := f.svc.Record(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.Translations, stored.Translations)
}

func TestAnswersUseAnswerTranslator(t *testing.T) {
	text := translate.NewMockTranslator()
	answers := translate.NewMockTranslator()
	svc := New(repository.NewMemoryRepo(), cache.NewMemoryCache(cache.DefaultMemoryConfig()), text,
		WithAnswerTranslator(translate.NewMarkup(answers)))

	rec, err := svc.Create(context.Background(), "Is 1 < 2 & 3 > 2?", "<p>Yes</p>")
	require.NoError(t, err)

	fr := rec.TranslationFor(faq.LangFR)
	require.Equal(t, "[fr] Is 1 < 2 & 3 > 2?", fr.Question)
	require.Equal(t, "<p>[fr] Yes</p>", fr.Answer)

	for _, c := range text.Calls() {
		require.Equal(t, "Is 1 < 2 & 3 > 2?", c.Text)
	}
	for _, c := range answers.Calls() {
		require.Equal(t, "Yes", c.Text)
	}
	require.Len(t, text.Calls(), len(faq.SupportedLanguages()))
	require.Len(t, answers.Calls(), len(faq.SupportedLanguages()))
}
