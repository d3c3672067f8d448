package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(b)) != size {
		return errors.New("size mismatch")
	}
	m.objects[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memStore) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "http://minio.local/faqs/" + key + "?sig=x", nil
}

type fakeReader struct {
	gotLang string
	views   []faq.View
	err     error
}

func (f *fakeReader) Read(_ context.Context, lang string) ([]faq.View, error) {
	f.gotLang = lang
	return f.views, f.err
}

func TestExportWritesSnapshot(t *testing.T) {
	store := newMemStore()
	reader := &fakeReader{views: []faq.View{{ID: "1", Question: "Qu'est-ce que X ?", Answer: "X est Y."}}}
	e := New(reader, store, "", 0)
	e.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) }

	res, err := e.Export(context.Background(), "FR")
	require.NoError(t, err)
	require.Equal(t, "fr", reader.gotLang)
	require.Equal(t, "exports/fr/20260301T123000Z.json", res.Key)
	require.Equal(t, 1, res.Count)
	require.True(t, strings.HasPrefix(res.URL, "http://minio.local/faqs/exports/fr/"))
	require.Equal(t, "application/json", store.types[res.Key])

	var snap Snapshot
	require.NoError(t, json.Unmarshal(store.objects[res.Key], &snap))
	require.Equal(t, faq.LangFR, snap.Lang)
	require.Equal(t, "X est Y.", snap.FAQs[0].Answer)
}

func TestExportUnknownLangUsesCanonical(t *testing.T) {
	reader := &fakeReader{}
	res, err := New(reader, newMemStore(), "snap", time.Minute).Export(context.Background(), "xx")
	require.NoError(t, err)
	require.Equal(t, "en", reader.gotLang)
	require.Equal(t, faq.LangEN, res.Lang)
	require.True(t, strings.HasPrefix(res.Key, "snap/en/"))
}

func TestExportPropagatesErrors(t *testing.T) {
	_, err := New(&fakeReader{err: faq.ErrStorage}, newMemStore(), "", 0).Export(context.Background(), "en")
	require.ErrorIs(t, err, faq.ErrStorage)

	store := newMemStore()
	store.putErr = errors.New("bucket gone")
	_, err = New(&fakeReader{}, store, "", 0).Export(context.Background(), "en")
	require.ErrorContains(t, err, "upload snapshot")
}

func TestMinIOStorePresignsOffline(t *testing.T) {
	mc, err := newMinIOClient(MinIOConfig{Endpoint: "localhost:9000", AccessKey: "minio", SecretKey: "minio123", Bucket: "faqs", Region: "us-east-1"})
	require.NoError(t, err)
	s := &MinIOStore{client: mc, bucket: "faqs"}

	u, err := s.PresignedURL(context.Background(), "exports/en/x.json", time.Minute)
	require.NoError(t, err)
	require.Contains(t, u, "localhost:9000/faqs/exports/en/x.json")
	require.Contains(t, u, "X-Amz-Signature=")
}

func TestNewMinIOStoreRequiresEndpoint(t *testing.T) {
	_, err := NewMinIOStore(context.Background(), MinIOConfig{})
	require.Error(t, err)
}
