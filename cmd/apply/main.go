// Package main accepts enrolment applications from the website.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/tanya-writes/showcase-portal/internal/api"
	"github.com/tanya-writes/showcase-portal/internal/applications"
	"github.com/tanya-writes/showcase-portal/internal/awsutil"
	"github.com/tanya-writes/showcase-portal/internal/captcha"
	"github.com/tanya-writes/showcase-portal/internal/config"
	"github.com/tanya-writes/showcase-portal/internal/ddb"
	"github.com/tanya-writes/showcase-portal/internal/httpx"
	"github.com/tanya-writes/showcase-portal/internal/telegram"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// submitter stores an application and returns its id.
type submitter interface {
	Submit(ctx context.Context, req api.ApplicationRequest, clientIP string) (string, error)
}

// App holds the application service.
type App struct {
	svc submitter
}

func main() {
	env := config.MustLoadApply()
	ctx := context.Background()
	cfg, _, err := awsutil.Load(ctx, env.Region)
	if err != nil {
		log.Fatal(err)
	}
	repo := &ddb.Repo{DB: dynamodb.NewFromConfig(cfg), Table: env.ApplicationsTable}

	// Notifications are optional; a missing or bad token only disables them.
	var notifier applications.Notifier
	if token, err := awsutil.ResolveToken(ctx, cfg, env.Token, env.TokenSecret); err != nil {
		log.Printf("apply: notifications disabled: %v", err)
	} else if tg, err := telegram.New(token); err != nil {
		log.Printf("apply: notifications disabled: %v", err)
	} else {
		notifier = tg
	}

	svc := applications.NewService(repo, captcha.New(env.RecaptchaSecret, env.MinCaptchaScore), notifier, env.AdminChatID)
	app := &App{svc: svc}
	lambda.Start(app.handler)
}

// handler serves POST /api/submit-application.
func (a *App) handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := httpx.Body(req)
	if err != nil {
		return httpx.JSON(http.StatusBadRequest, api.ApplicationResponse{Message: "invalid body"})
	}
	var form api.ApplicationRequest
	if err := json.Unmarshal(body, &form); err != nil {
		return httpx.JSON(http.StatusBadRequest, api.ApplicationResponse{Message: "invalid json"})
	}

	id, err := a.svc.Submit(ctx, form, httpx.ClientIP(req))
	if err != nil {
		status, msg := applications.Status(err)
		if status >= http.StatusInternalServerError {
			log.Printf("apply: submit: %v", err)
		}
		return httpx.JSON(status, api.ApplicationResponse{Message: msg})
	}

	log.Printf("apply: stored application %s", id)
	return httpx.JSON(http.StatusOK, api.ApplicationResponse{
		Success:       true,
		Message:       "Application submitted successfully! Tanya will contact you soon.",
		ApplicationID: id,
	})
}
