// Package assets packages the Lambda bootstrap binary and publishes it to the
// bootstrap asset bucket of the workload account.
//
// The object key is the hex SHA-256 of the zip followed by ".zip". A key that
// already exists in the bucket is not uploaded again.
package assets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
)

// EntryName is the file name the provided.al2023 runtime executes.
const EntryName = "bootstrap"

// epoch is the modification time of every zip entry.
var epoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// ErrEmptyBinary is returned when the binary to bundle has no content.
var ErrEmptyBinary = errors.New("empty binary")

// Asset is a zipped deployment artifact.
type Asset struct {
	Data []byte
	Hash string // hex SHA-256 of Data
}

// Key returns the S3 object key of the asset.
func (a *Asset) Key() string {
	return a.Hash + ".zip"
}

// Bundle zips the binary at path as an executable "bootstrap" entry.
func Bundle(path string) (*Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening binary: %w", err)
	}
	defer f.Close()

	return BundleReader(f)
}

// BundleReader zips the binary read from r.
func BundleReader(r io.Reader) (*Asset, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	header := &zip.FileHeader{
		Name:     EntryName,
		Method:   zip.Deflate,
		Modified: epoch,
	}
	header.SetMode(0o755)

	w, err := zw.CreateHeader(header)
	if err != nil {
		return nil, fmt.Errorf("creating zip entry: %w", err)
	}
	n, err := io.Copy(w, r)
	if err != nil {
		return nil, fmt.Errorf("writing zip entry: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyBinary
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip: %w", err)
	}

	sum := sha256.Sum256(buf.Bytes())
	return &Asset{
		Data: buf.Bytes(),
		Hash: hex.EncodeToString(sum[:]),
	}, nil
}

// ObjectAPI is the part of the S3 client the publisher uses.
type ObjectAPI interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client loads the shared AWS config for profile and region. Empty
// values fall back to the SDK defaults.
func NewS3Client(ctx context.Context, profile, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Publisher uploads assets to one bucket.
type Publisher struct {
	Client ObjectAPI
	Bucket string

	// Retries is the number of upload attempts. Zero means 3.
	Retries int
	// Timeout bounds each attempt. Zero means 30s.
	Timeout time.Duration

	Logger zerolog.Logger
}

// Publish uploads a unless an object with its key already exists and
// returns the key.
func (p *Publisher) Publish(ctx context.Context, a *Asset) (string, error) {
	key := a.Key()
	log := p.Logger.With().Str("bucket", p.Bucket).Str("key", key).Logger()

	if _, err := p.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.Bucket),
		Key:    aws.String(key),
	}); err == nil {
		log.Info().Msg("asset already published")
		return key, nil
	}

	retries := p.Retries
	if retries <= 0 {
		retries = 3
	}

	var lastErr error
	backoff := 200 * time.Millisecond
	for attempt := 1; attempt <= retries; attempt++ {
		err := p.put(ctx, key, a.Data)
		if err == nil {
			log.Info().Int("size", len(a.Data)).Int("attempt", attempt).Msg("asset published")
			return key, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("upload failed")

		if attempt == retries {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
			if backoff > 2*time.Second {
				backoff = 2 * time.Second
			}
		}
	}

	return "", fmt.Errorf("publishing %s to %s: %w", key, p.Bucket, lastErr)
}

func (p *Publisher) put(ctx context.Context, key string, body []byte) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := p.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/zip"),
	})
	return err
}
