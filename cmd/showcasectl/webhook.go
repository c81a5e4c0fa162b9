package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tanya-writes/showcase-portal/internal/awsutil"
	"github.com/tanya-writes/showcase-portal/internal/telegram"

	"github.com/spf13/cobra"
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage the Telegram webhook of the intake bot",
}

var webhookSetCmd = &cobra.Command{
	Use:   "set <url>",
	Short: "Point the bot at the webhook function URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := url.Parse(args[0])
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("webhook url must be an absolute https URL, got %q", args[0])
		}
		tg, err := botClient(cmd.Context())
		if err != nil {
			return err
		}
		secret := settings.GetString(keyWebhookSecret)
		if err := tg.SetWebhook(u.String(), secret); err != nil {
			return err
		}
		if secret == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: no webhook secret set; the function will accept unsigned calls")
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "webhook set to", u)
		return err
	},
}

var webhookDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the webhook registration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tg, err := botClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := tg.DeleteWebhook(); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "webhook deleted")
		return err
	},
}

func init() {
	webhookCmd.AddCommand(webhookSetCmd, webhookDeleteCmd)
}

func botClient(ctx context.Context) (*telegram.Client, error) {
	cfg, _, err := awsutil.Load(ctx, settings.GetString(keyRegion))
	if err != nil {
		return nil, err
	}
	token, err := awsutil.ResolveToken(ctx, cfg, settings.GetString(keyToken), settings.GetString(keyTokenSecret))
	if err != nil {
		return nil, err
	}
	return telegram.New(token)
}
