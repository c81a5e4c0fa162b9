// Package main streams showcase PDFs from the private bucket.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/tanya-writes/showcase-portal/internal/awsutil"
	"github.com/tanya-writes/showcase-portal/internal/config"
	"github.com/tanya-writes/showcase-portal/internal/httpx"
	"github.com/tanya-writes/showcase-portal/internal/s3io"
	"github.com/tanya-writes/showcase-portal/internal/validate"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// maxInlineBytes keeps the base64 body under the 6 MB Lambda response limit.
// Larger documents are redirected to a signed URL.
const maxInlineBytes = 4 << 20

// objects is the subset of s3io.Store used here.
type objects interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, s3io.ObjectInfo, error)
	SignedReadURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// App holds the configuration and the object store.
type App struct {
	env   config.Env
	store objects
}

func main() {
	env := config.MustLoad()
	cfg, endpoint, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal(err)
	}
	app := &App{env: env, store: s3io.NewStore(cfg, endpoint, env)}
	lambda.Start(app.handler)
}

// handler serves GET /api/pdfs/{filename}.
func (a *App) handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	name, err := url.PathUnescape(req.PathParameters["filename"])
	if err != nil || validate.PDFFilename(name) != nil {
		return httpx.Text(http.StatusBadRequest, "Invalid file name")
	}

	body, info, err := a.store.Open(ctx, a.env.PDFBucket, name)
	if err != nil {
		if errors.Is(err, s3io.ErrNotFound) {
			return httpx.Text(http.StatusNotFound, "PDF not found")
		}
		log.Printf("pdfs: open %s: %v", name, err)
		return httpx.Text(http.StatusInternalServerError, "Error serving PDF")
	}
	defer body.Close()

	if info.Size > maxInlineBytes {
		return a.redirect(ctx, name)
	}
	raw, err := io.ReadAll(io.LimitReader(body, maxInlineBytes+1))
	if err != nil {
		log.Printf("pdfs: read %s: %v", name, err)
		return httpx.Text(http.StatusInternalServerError, "Error serving PDF")
	}
	if len(raw) > maxInlineBytes {
		return a.redirect(ctx, name)
	}

	return httpx.Binary(http.StatusOK, s3io.ContentTypePDF, raw, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", name),
		"Cache-Control":       "public, max-age=31536000, immutable",
	})
}

// redirect sends large documents to a short-lived signed URL.
func (a *App) redirect(ctx context.Context, name string) (events.APIGatewayV2HTTPResponse, error) {
	u, err := a.store.SignedReadURL(ctx, a.env.PDFBucket, name, 15*time.Minute)
	if err != nil {
		log.Printf("pdfs: sign %s: %v", name, err)
		return httpx.Text(http.StatusInternalServerError, "Error serving PDF")
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusFound,
		Headers:    map[string]string{"Location": u, "Cache-Control": "no-store"},
	}, nil
}
