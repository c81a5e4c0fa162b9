package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var signTTL time.Duration

var signCmd = &cobra.Command{
	Use:   "sign <document-key>",
	Short: "Print a fresh signed URL for a private document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := currentEnv()
		store, err := openStore(cmd.Context(), env)
		if err != nil {
			return err
		}
		u, err := store.SignedReadURL(cmd.Context(), env.PDFBucket, args[0], signTTL)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
		return err
	},
}

func init() {
	signCmd.Flags().DurationVar(&signTTL, "ttl", 24*time.Hour, "lifetime of the URL")
}
