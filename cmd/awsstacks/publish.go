package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/balaaddepalli/awsstacks/internal/appconfig"
	"github.com/balaaddepalli/awsstacks/internal/assets"
)

func newPublishCmd(root *rootOptions) *cobra.Command {
	var (
		bucket  string
		profile string
		region  string
		keyFile string
		retries int
	)

	cmd := &cobra.Command{
		Use:   "publish <bootstrap-binary>",
		Short: "Upload the Lambda code bundle to the asset bucket",
		Long: `Publish zips a compiled bootstrap binary and uploads it to the asset
bucket under its content hash. An object that already exists is not
uploaded again. The key is printed on stdout and can be passed to the
stack as the CodeS3Key parameter.

Examples:
    GOOS=linux GOARCH=arm64 go build -tags lambda.norpc -o bootstrap ./cmd/hello-lambda
    awsstacks publish bootstrap --profile workload
    awsstacks publish bootstrap --key-file .code-key`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(root.configPath)
			if err != nil {
				return err
			}
			if bucket == "" {
				bucket = cfg.AssetBucket()
			}
			if region == "" {
				region = cfg.Region
			}

			asset, err := assets.Bundle(args[0])
			if err != nil {
				return err
			}

			client, err := assets.NewS3Client(cmd.Context(), profile, region)
			if err != nil {
				return err
			}

			log := zerolog.New(zerolog.ConsoleWriter{
				Out:        cmd.ErrOrStderr(),
				TimeFormat: time.Kitchen,
			}).With().Timestamp().Logger()

			p := &assets.Publisher{
				Client:  client,
				Bucket:  bucket,
				Retries: retries,
				Logger:  log,
			}
			key, err := p.Publish(cmd.Context(), asset)
			if err != nil {
				return err
			}

			if keyFile != "" {
				if err := os.WriteFile(keyFile, []byte(key+"\n"), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", keyFile, err)
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Asset bucket (default: the bootstrap bucket of the workload account)")
	cmd.Flags().StringVar(&profile, "profile", "", "AWS shared config profile")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default: from config)")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "Also write the object key to this file")
	cmd.Flags().IntVar(&retries, "retries", 3, "Upload attempts")

	return cmd
}
