// Package gallery serves the public showcase listing.
//
// Stored PDF URLs are snapshots that expire; every listing mints fresh signed
// URLs from the document keys.
package gallery

import (
	"context"
	"iter"
	"log"
	"time"

	"github.com/tanya-writes/showcase-portal/internal/api"
	"github.com/tanya-writes/showcase-portal/internal/ddb"
	"github.com/tanya-writes/showcase-portal/internal/models"

	"golang.org/x/sync/errgroup"
)

// signConcurrency bounds the signing requests in flight per listing.
const signConcurrency = 8

// Catalog lists published records, newest first.
type Catalog interface {
	ListPublished(ctx context.Context, limit int) iter.Seq2[models.Showcase, error]
}

// Signer mints read URLs for private documents.
type Signer interface {
	SignedReadURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// Service builds showcase responses.
type Service struct {
	catalog Catalog
	signer  Signer
	bucket  string
	ttl     time.Duration
	now     func() time.Time
}

// NewService returns a listing service signing documents in bucket for ttl.
func NewService(catalog Catalog, signer Signer, bucket string, ttl time.Duration) *Service {
	return &Service{catalog: catalog, signer: signer, bucket: bucket, ttl: ttl, now: time.Now}
}

// Showcase lists every published item. When the catalog cannot be read the
// response is an empty collection flagged as fallback. Items whose document
// cannot be signed are left out.
func (s *Service) Showcase(ctx context.Context) api.ShowcaseResponse {
	resp := api.ShowcaseResponse{
		Collections: []api.ShowcaseItem{},
		LastUpdated: ddb.FormatISO(s.now()),
	}

	var recs []models.Showcase
	for rec, err := range s.catalog.ListPublished(ctx, 0) {
		if err != nil {
			log.Printf("gallery: list: %v", err)
			resp.Fallback = true
			return resp
		}
		recs = append(recs, rec)
	}

	urls := make([]string, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(signConcurrency)
	for i, rec := range recs {
		g.Go(func() error {
			u, err := s.signer.SignedReadURL(gctx, s.bucket, rec.DocumentKey, s.ttl)
			if err != nil {
				log.Printf("gallery: sign %s (%s): %v", rec.ID, rec.DocumentKey, err)
				return nil
			}
			urls[i] = u
			return nil
		})
	}
	_ = g.Wait()

	for i, rec := range recs {
		if urls[i] == "" {
			continue
		}
		resp.Collections = append(resp.Collections, api.ShowcaseItem{
			ID:           rec.ID,
			Title:        rec.Title,
			Author:       rec.Author,
			Description:  rec.Description,
			PDFURL:       urls[i],
			ThumbnailURL: rec.ThumbnailURL,
			Status:       string(rec.Status),
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
		})
	}
	resp.TotalItems = len(resp.Collections)
	return resp
}
