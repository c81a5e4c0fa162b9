// Package main reports the health of the catalog table and the buckets.
package main

import (
	"context"
	"log"

	"github.com/tanya-writes/showcase-portal/internal/awsutil"
	"github.com/tanya-writes/showcase-portal/internal/config"
	"github.com/tanya-writes/showcase-portal/internal/ddb"
	"github.com/tanya-writes/showcase-portal/internal/health"
	"github.com/tanya-writes/showcase-portal/internal/httpx"
	"github.com/tanya-writes/showcase-portal/internal/s3io"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// App holds the checker.
type App struct {
	checker *health.Checker
}

func main() {
	env := config.MustLoad()
	cfg, endpoint, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal(err)
	}
	app := &App{checker: &health.Checker{
		Database:    &ddb.Repo{DB: dynamodb.NewFromConfig(cfg), Table: env.ShowcaseTable},
		Storage:     s3io.NewStore(cfg, endpoint, env),
		Version:     env.Version,
		Environment: env.Environment,
	}}
	lambda.Start(app.handler)
}

// handler serves GET /api/health: 200 when healthy, 503 when degraded.
func (a *App) handler(ctx context.Context, _ events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, status := a.checker.Check(ctx)
	return httpx.JSON(status, resp)
}
