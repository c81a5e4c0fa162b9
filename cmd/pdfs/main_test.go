package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tanya-writes/showcase-portal/internal/config"
	"github.com/tanya-writes/showcase-portal/internal/s3io"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects map[string]string
	// size overrides the reported object size.
	size int64
}

func (f fakeObjects) Open(_ context.Context, bucket, key string) (io.ReadCloser, s3io.ObjectInfo, error) {
	body, ok := f.objects[key]
	if !ok {
		return nil, s3io.ObjectInfo{}, fmt.Errorf("%w: %w: %s/%s", s3io.ErrStorageRead, s3io.ErrNotFound, bucket, key)
	}
	size := int64(len(body))
	if f.size > 0 {
		size = f.size
	}
	return io.NopCloser(strings.NewReader(body)), s3io.ObjectInfo{ContentType: s3io.ContentTypePDF, Size: size}, nil
}

func (f fakeObjects) SignedReadURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://" + bucket + "/" + key + "?sig", nil
}

func request(name string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{PathParameters: map[string]string{"filename": name}}
}

func newApp(objs fakeObjects) *App {
	return &App{env: config.Env{PDFBucket: "pdfs"}, store: objs}
}

func TestServePDF(t *testing.T) {
	app := newApp(fakeObjects{objects: map[string]string{"Navedh poem portfolio.pdf": "%PDF-1.4 poems"}})

	res, err := app.handler(context.Background(), request("Navedh%20poem%20portfolio.pdf"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/pdf", res.Headers["Content-Type"])
	assert.Equal(t, `inline; filename="Navedh poem portfolio.pdf"`, res.Headers["Content-Disposition"])
	assert.Contains(t, res.Headers["Cache-Control"], "immutable")

	raw, err := base64.StdEncoding.DecodeString(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 poems", string(raw))
}

func TestServePDFErrors(t *testing.T) {
	app := newApp(fakeObjects{objects: map[string]string{}})

	res, err := app.handler(context.Background(), request("missing.pdf"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	for _, bad := range []string{"../secret.pdf", "notes.txt", "", "%zz"} {
		res, err := app.handler(context.Background(), request(bad))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, bad)
	}
}

func TestLargePDFRedirects(t *testing.T) {
	app := newApp(fakeObjects{objects: map[string]string{"big.pdf": "%PDF-"}, size: 10 << 20})

	res, err := app.handler(context.Background(), request("big.pdf"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "https://pdfs/big.pdf?sig", res.Headers["Location"])
}
