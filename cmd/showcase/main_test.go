package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/tanya-writes/showcase-portal/internal/api"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLister api.ShowcaseResponse

func (s staticLister) Showcase(context.Context) api.ShowcaseResponse { return api.ShowcaseResponse(s) }

func TestHandler(t *testing.T) {
	app := &App{gallery: staticLister{
		Collections: []api.ShowcaseItem{{ID: "01J", Title: "Ocean Dreams", PDFURL: "https://signed"}},
		LastUpdated: "2024-08-01T00:00:00.000Z",
		TotalItems:  1,
	}}
	res, err := app.handler(context.Background(), events.APIGatewayV2HTTPRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{
		"collections": [{"id": "01J", "title": "Ocean Dreams", "author": "", "description": "", "pdfUrl": "https://signed",
			"thumbnailUrl": "", "status": "", "createdAt": "", "updatedAt": ""}],
		"lastUpdated": "2024-08-01T00:00:00.000Z",
		"totalItems": 1
	}`, res.Body)
}

func TestHandlerFallback(t *testing.T) {
	app := &App{gallery: staticLister{Collections: []api.ShowcaseItem{}, Fallback: true}}
	res, err := app.handler(context.Background(), events.APIGatewayV2HTTPRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"collections": [], "lastUpdated": "", "totalItems": 0, "fallback": true}`, res.Body)
}
