// Package main receives Telegram webhook updates and runs the showcase intake bot.
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/tanya-writes/showcase-portal/internal/authz"
	"github.com/tanya-writes/showcase-portal/internal/awsutil"
	"github.com/tanya-writes/showcase-portal/internal/bot"
	"github.com/tanya-writes/showcase-portal/internal/config"
	"github.com/tanya-writes/showcase-portal/internal/ddb"
	"github.com/tanya-writes/showcase-portal/internal/httpx"
	"github.com/tanya-writes/showcase-portal/internal/intake"
	"github.com/tanya-writes/showcase-portal/internal/s3io"
	"github.com/tanya-writes/showcase-portal/internal/telegram"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// handlerFunc processes one inbound message.
type handlerFunc func(ctx context.Context, m bot.Message)

// App holds the webhook secret and the dispatcher. Sessions live in the
// dispatcher's engine and survive only as long as the warm container.
type App struct {
	secret string
	handle handlerFunc
}

func main() {
	env := config.MustLoadBot()
	ctx := context.Background()

	cfg, endpoint, err := awsutil.Load(ctx, env.Region)
	if err != nil {
		log.Fatal(err)
	}
	token, err := awsutil.ResolveToken(ctx, cfg, env.Token, env.TokenSecret)
	if err != nil {
		log.Fatal(err)
	}
	seed, err := authz.ParseSeed(env.AuthorizedUsers)
	if err != nil {
		log.Fatal(err)
	}
	tg, err := telegram.New(token)
	if err != nil {
		log.Fatal(err)
	}
	tg.MaxDownloadBytes = env.MaxDocumentBytes

	store := s3io.NewStore(cfg, endpoint, env.Env)
	repo := &ddb.Repo{DB: dynamodb.NewFromConfig(cfg), Table: env.ShowcaseTable, Index: env.ShowcaseIndex}
	engine := intake.NewEngine(intake.NewStore(), store, repo, tg, intake.Config{
		PrivateBucket:        env.PDFBucket,
		PublicBucket:         env.ThumbnailBucket,
		SignedURLTTL:         env.SignedURLTTL,
		PlaceholderThumbnail: env.PlaceholderThumb,
		MaxDocumentBytes:     env.MaxDocumentBytes,
	})
	d := bot.NewDispatcher(authz.NewRegistry(seed), engine, repo, tg, bot.Info{
		PDFBucket:       env.PDFBucket,
		ThumbnailBucket: env.ThumbnailBucket,
		Version:         env.Version,
	})

	log.Printf("bot: ready with %d authorized users", len(seed))
	app := &App{secret: env.WebhookSecret, handle: d.Handle}
	lambda.Start(app.handler)
}

// handler verifies the webhook secret and dispatches the update. Telegram
// redelivers on non-2xx responses, so anything past the secret check is
// acknowledged with 200.
func (a *App) handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if !authz.WebhookSecretOK(req.Headers, a.secret) {
		log.Printf("bot: rejected webhook call from %s", httpx.ClientIP(req))
		return httpx.Error(http.StatusUnauthorized, "invalid secret token")
	}

	body, err := httpx.Body(req)
	if err != nil {
		log.Printf("bot: decode body: %v", err)
		return httpx.Text(http.StatusOK, "OK")
	}
	update, err := telegram.ParseUpdate(body)
	if err != nil {
		log.Printf("bot: %v", err)
		return httpx.Text(http.StatusOK, "OK")
	}
	msg, err := telegram.ToMessage(update)
	if err != nil {
		return httpx.Text(http.StatusOK, "OK")
	}

	a.handle(ctx, msg)
	return httpx.Text(http.StatusOK, "OK")
}
