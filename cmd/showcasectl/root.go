package main

import (
	"context"
	"time"

	"github.com/tanya-writes/showcase-portal/internal/awsutil"
	"github.com/tanya-writes/showcase-portal/internal/config"
	"github.com/tanya-writes/showcase-portal/internal/ddb"
	"github.com/tanya-writes/showcase-portal/internal/s3io"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Setting keys. Each is also a persistent flag and a SHOWCASE_ variable.
const (
	keyRegion          = "region"
	keyPDFBucket       = "pdf-bucket"
	keyThumbnailBucket = "thumbnail-bucket"
	keyTable           = "table"
	keyIndex           = "index"
	keyToken           = "token"
	keyTokenSecret     = "token-secret"
	keyWebhookSecret   = "webhook-secret"
)

// settings resolves flags over environment over defaults.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "showcasectl",
	Short: "Operate the showcase portal backend",
	Long: `showcasectl inspects the published showcase catalog, mints signed
links to private documents and manages the Telegram webhook of the intake bot.

Settings come from flags, then SHOWCASE_* variables, then the variables the
functions themselves read (PDF_BUCKET, SHOWCASE_TABLE, TELEGRAM_BOT_TOKEN...).`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String(keyRegion, "us-east-1", "AWS region")
	pf.String(keyPDFBucket, config.DefaultPDFBucket, "private document bucket")
	pf.String(keyThumbnailBucket, config.DefaultThumbnailBucket, "public thumbnail bucket")
	pf.String(keyTable, config.DefaultShowcaseTable, "showcase table")
	pf.String(keyIndex, config.DefaultShowcaseIndex, "status/created_at index of the showcase table")
	pf.String(keyToken, "", "Telegram bot token")
	pf.String(keyTokenSecret, "", "Secrets Manager name holding the bot token")
	pf.String(keyWebhookSecret, "", "secret token Telegram sends with webhook calls")

	bind := func(key string, envs ...string) {
		_ = settings.BindPFlag(key, pf.Lookup(key))
		_ = settings.BindEnv(append([]string{key}, envs...)...)
	}
	bind(keyRegion, "SHOWCASE_REGION", "AWS_REGION")
	bind(keyPDFBucket, "SHOWCASE_PDF_BUCKET", "PDF_BUCKET")
	bind(keyThumbnailBucket, "SHOWCASE_THUMBNAIL_BUCKET", "THUMBNAIL_BUCKET")
	bind(keyTable, "SHOWCASE_TABLE")
	bind(keyIndex, "SHOWCASE_INDEX")
	bind(keyToken, "SHOWCASE_TOKEN", "TELEGRAM_BOT_TOKEN")
	bind(keyTokenSecret, "SHOWCASE_TOKEN_SECRET", "TELEGRAM_BOT_TOKEN_SECRET")
	bind(keyWebhookSecret, "SHOWCASE_WEBHOOK_SECRET", "TELEGRAM_WEBHOOK_SECRET")

	rootCmd.AddCommand(listCmd, signCmd, webhookCmd)
}

// currentEnv returns the resolved settings in the shape the lambdas use.
func currentEnv() config.Env {
	return config.Env{
		Region:          settings.GetString(keyRegion),
		PDFBucket:       settings.GetString(keyPDFBucket),
		ThumbnailBucket: settings.GetString(keyThumbnailBucket),
		ShowcaseTable:   settings.GetString(keyTable),
		ShowcaseIndex:   settings.GetString(keyIndex),
		SignedURLTTL:    24 * time.Hour,
	}
}

func openRepo(ctx context.Context, env config.Env) (*ddb.Repo, error) {
	cfg, _, err := awsutil.Load(ctx, env.Region)
	if err != nil {
		return nil, err
	}
	return &ddb.Repo{DB: dynamodb.NewFromConfig(cfg), Table: env.ShowcaseTable, Index: env.ShowcaseIndex}, nil
}

func openStore(ctx context.Context, env config.Env) (*s3io.Store, error) {
	cfg, endpoint, err := awsutil.Load(ctx, env.Region)
	if err != nil {
		return nil, err
	}
	return s3io.NewStore(cfg, endpoint, env), nil
}
