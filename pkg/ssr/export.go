package ssr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	lerrors "github.com/vango-dev/lumen/internal/errors"
	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/backend/dom"
)

// ObjectPutter is the part of the S3 client the exporter uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ExportOptions configures an Exporter.
type ExportOptions struct {
	Bucket       string
	Prefix       string
	CacheControl string
	Page         Page
	NewBackend   func() backend.Backend
	RenderOpts   []Option
	Logger       *slog.Logger
}

// Exporter renders routes to static pages and uploads them to a bucket.
type Exporter struct {
	client ObjectPutter
	opts   ExportOptions
}

// NewExporter creates an exporter. The bucket is required.
func NewExporter(client ObjectPutter, opts ExportOptions) (*Exporter, error) {
	if opts.Bucket == "" {
		return nil, lerrors.New("L005").WithDetail("bucket is empty")
	}
	if opts.NewBackend == nil {
		opts.NewBackend = func() backend.Backend { return dom.New() }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CacheControl == "" {
		opts.CacheControl = "public, max-age=300"
	}
	return &Exporter{client: client, opts: opts}, nil
}

// NewS3Client builds a client for region using credentials from the
// standard AWS environment variables. A non-empty endpoint selects an
// S3-compatible service and path-style addressing.
func NewS3Client(region, endpoint string) *s3.Client {
	o := s3.Options{
		Region:      region,
		Credentials: aws.CredentialsProviderFunc(envCredentials),
	}
	if endpoint != "" {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}
	return s3.New(o)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

// ObjectKey returns the key a route path is exported to: "/" becomes
// "index.html" and "/docs/intro" becomes "docs/intro/index.html", under
// prefix.
func ObjectKey(prefix, routePath string) string {
	p := strings.Trim(routePath, "/")
	return path.Join(strings.Trim(prefix, "/"), p, "index.html")
}

// Export renders and uploads every route, stopping at the first failure.
// It returns the keys written.
func (e *Exporter) Export(ctx context.Context, routes []Route) ([]string, error) {
	keys := make([]string, 0, len(routes))
	for _, route := range routes {
		body, err := RenderToString(ctx, route.backend(e.opts.NewBackend), route.Component, e.opts.RenderOpts...)
		if err != nil {
			return keys, fmt.Errorf("render %s: %w", route.Path, err)
		}
		page := e.opts.Page
		if route.Title != "" {
			page.Title = route.Title
		}
		var buf bytes.Buffer
		if err := WritePage(&buf, page, body); err != nil {
			return keys, fmt.Errorf("render %s: %w", route.Path, err)
		}

		key := ObjectKey(e.opts.Prefix, route.Path)
		_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(e.opts.Bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(buf.Bytes()),
			ContentType:  aws.String("text/html; charset=utf-8"),
			CacheControl: aws.String(e.opts.CacheControl),
		})
		if err != nil {
			return keys, fmt.Errorf("s3 upload %s: %w", key, err)
		}
		e.opts.Logger.Info("exported", "path", route.Path, "bucket", e.opts.Bucket, "key", key, "bytes", buf.Len())
		keys = append(keys, key)
	}
	return keys, nil
}
