// Package export writes per-language FAQ snapshots to object storage.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
)

// ObjectStore is the blob store a snapshot is written to.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Reader yields the projection being exported.
type Reader interface {
	Read(ctx context.Context, lang string) ([]faq.View, error)
}

// Snapshot is the document stored for one export.
type Snapshot struct {
	Lang        faq.Lang   `json:"lang"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Count       int        `json:"count"`
	FAQs        []faq.View `json:"faqs"`
}

// Result describes a completed export.
type Result struct {
	Key   string   `json:"key"`
	URL   string   `json:"url"`
	Lang  faq.Lang `json:"lang"`
	Count int      `json:"count"`
}

type Exporter struct {
	reader    Reader
	store     ObjectStore
	prefix    string
	urlExpiry time.Duration
	now       func() time.Time
}

func New(reader Reader, store ObjectStore, prefix string, urlExpiry time.Duration) *Exporter {
	if prefix == "" {
		prefix = "exports"
	}
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	return &Exporter{reader: reader, store: store, prefix: prefix, urlExpiry: urlExpiry, now: time.Now}
}

// Export snapshots the projection for lang and returns a presigned link.
// Unknown tags export the canonical projection.
func (e *Exporter) Export(ctx context.Context, lang string) (*Result, error) {
	l, _ := faq.ParseLang(lang)
	views, err := e.reader.Read(ctx, string(l))
	if err != nil {
		return nil, err
	}
	snap := Snapshot{Lang: l, GeneratedAt: e.now().UTC(), Count: len(views), FAQs: views}
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.json", e.prefix, l, snap.GeneratedAt.Format("20060102T150405Z"))
	if err := e.store.Put(ctx, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}
	url, err := e.store.PresignedURL(ctx, key, e.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign snapshot: %w", err)
	}
	return &Result{Key: key, URL: url, Lang: l, Count: len(views)}, nil
}
