// Package archive stores the raw uploaded spreadsheet files. Imports are
// destructive in the sense that the normalized records discard layout
// quirks; keeping the original file in object storage makes bad imports
// diagnosable after the fact.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver stores one uploaded source file and returns its storage key.
type Archiver interface {
	Archive(ctx context.Context, orgID, filename string, data []byte) (string, error)
}

// S3Archiver writes source files to an S3 bucket under
// imports/{org}/{timestamp}-{filename}.
type S3Archiver struct {
	client *s3.Client
	bucket string
}

// NewS3Archiver builds an archiver against the given bucket. An optional
// shared-config profile selects credentials outside of production.
func NewS3Archiver(ctx context.Context, bucket, region, profile string) (*S3Archiver, error) {
	var cfg aws.Config
	var err error
	if profile != "" {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3Archiver{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (a *S3Archiver) Archive(ctx context.Context, orgID, filename string, data []byte) (string, error) {
	key := fmt.Sprintf("imports/%s/%s-%s",
		orgID, time.Now().UTC().Format("20060102T150405Z"), path.Base(filename))

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", key, err)
	}
	return key, nil
}

// Nop is the archiver used when archival is disabled in config.
type Nop struct{}

func (Nop) Archive(context.Context, string, string, []byte) (string, error) { return "", nil }
