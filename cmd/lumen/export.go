package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/lumen/internal/demo"
	"github.com/vango-dev/lumen/pkg/ssr"
)

func exportCmd(g *globals) *cobra.Command {
	var bucket, prefix, endpoint string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every page and upload it to S3",
		Long: `Render every demo page and upload it to an S3 bucket.

Bucket, prefix and region default to the export section of lumen.yaml.
Credentials are read from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

Examples:
  lumen export --bucket my-site --prefix v1
  lumen export --endpoint http://localhost:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup()
			if err != nil {
				return err
			}
			defer e.close()

			ec := e.cfg.Export
			if bucket != "" {
				ec.Bucket = bucket
			}
			if prefix != "" {
				ec.Prefix = prefix
			}
			if endpoint != "" {
				ec.Endpoint = endpoint
			}

			client := ssr.NewS3Client(ec.Region, ec.Endpoint)
			exporter, err := ssr.NewExporter(client, ssr.ExportOptions{
				Bucket:     ec.Bucket,
				Prefix:     ec.Prefix,
				Logger:     e.logger.Logger,
				RenderOpts: []ssr.Option{ssr.WithLogger(e.logger.Logger)},
			})
			if err != nil {
				return err
			}

			keys, err := exporter.Export(cmd.Context(), demo.Routes())
			for _, k := range keys {
				info("s3://%s/%s", ec.Bucket, k)
			}
			if err != nil {
				return err
			}
			success("Exported %d pages", len(keys))
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination bucket")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")

	return cmd
}
