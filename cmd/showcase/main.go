// Package main serves the published showcase items to the website.
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/tanya-writes/showcase-portal/internal/api"
	"github.com/tanya-writes/showcase-portal/internal/awsutil"
	"github.com/tanya-writes/showcase-portal/internal/config"
	"github.com/tanya-writes/showcase-portal/internal/ddb"
	"github.com/tanya-writes/showcase-portal/internal/gallery"
	"github.com/tanya-writes/showcase-portal/internal/httpx"
	"github.com/tanya-writes/showcase-portal/internal/s3io"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// lister builds the showcase response.
type lister interface {
	Showcase(ctx context.Context) api.ShowcaseResponse
}

// App holds the listing service.
type App struct {
	gallery lister
}

func main() {
	env := config.MustLoad()
	cfg, endpoint, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal(err)
	}
	repo := &ddb.Repo{DB: dynamodb.NewFromConfig(cfg), Table: env.ShowcaseTable, Index: env.ShowcaseIndex}
	store := s3io.NewStore(cfg, endpoint, env)

	app := &App{gallery: gallery.NewService(repo, store, env.PDFBucket, env.SignedURLTTL)}
	lambda.Start(app.handler)
}

// handler lists the published items. Catalog failures are reported in the
// body as a fallback listing, never as an error status.
func (a *App) handler(ctx context.Context, _ events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp := a.gallery.Showcase(ctx)
	if resp.Fallback {
		log.Printf("showcase: serving fallback listing")
	}
	return httpx.JSON(http.StatusOK, resp)
}
