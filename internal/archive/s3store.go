// Package archive provides optional S3 retention for completed sync run
// reports, beyond the bounded Redis history window. Archival is
// best-effort: failures are reported to the caller for logging but never
// affect the sync itself.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/history"
)

// S3API is the subset of the S3 client the archive uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store writes run reports to an S3 bucket, one JSON object per run.
type S3Store struct {
	client S3API
	bucket string
}

// NewS3Store creates an S3-backed run archive using the default AWS
// credential chain.
func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for run archive: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// NewS3StoreWithClient wraps an existing S3 client (useful for testing).
func NewS3StoreWithClient(client S3API, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// objectKey keys run reports by id alone so they stay addressable after
// the Redis history window expires. Bucket lifecycle rules handle
// retention by object age.
func objectKey(runID string) string {
	return fmt.Sprintf("sync-runs/%s.json", runID)
}

// Store archives one completed run.
func (a *S3Store) Store(ctx context.Context, run history.Run) error {
	body, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshaling run %s: %w", run.ID, err)
	}

	key := objectKey(run.ID)
	contentType := "application/json"
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("S3 PutObject %s/%s: %w", a.bucket, key, err)
	}
	return nil
}

// Load retrieves an archived run by id. A missing object is a miss, not
// a failure: returns (nil, nil).
func (a *S3Store) Load(ctx context.Context, runID string) (*history.Run, error) {
	key := objectKey(runID)

	resp, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("S3 GetObject %s/%s: %w", a.bucket, key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading archived run: %w", err)
	}

	var run history.Run
	if err := json.Unmarshal(body, &run); err != nil {
		return nil, fmt.Errorf("unmarshaling archived run: %w", err)
	}
	return &run, nil
}

// isNotFound reports whether an S3 error indicates a missing object.
// The SDK surfaces NoSuchKey/NotFound as typed API errors but the string
// check keeps us independent of which wrapper layer produced it.
func isNotFound(err error) bool {
	msg := err.Error()
	for _, keyword := range []string{"NoSuchKey", "NotFound", "status code: 404"} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}
