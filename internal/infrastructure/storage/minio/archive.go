// Package minio archives evaluation reports as JSON objects, one object per
// report, keyed by date and report ID.
package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/CaseLens/internal/config"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/pkg/errors"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

// objectAPI abstracts the minio client for testing.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
}

// Archive stores evaluation reports in object storage.
type Archive struct {
	client objectAPI
	bucket string
	logger logging.Logger
}

// NewArchive connects to MinIO and ensures the archive bucket exists.
func NewArchive(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Archive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "create minio client")
	}

	a := &Archive{client: client, bucket: cfg.Bucket, logger: log.Named("report_archive")}
	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("connected to MinIO",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
	)
	return a, nil
}

// newArchiveWithAPI wires a custom object API, used in tests.
func newArchiveWithAPI(api objectAPI, bucket string, log logging.Logger) *Archive {
	return &Archive{client: api, bucket: bucket, logger: log}
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "check bucket")
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "create bucket")
	}
	return nil
}

// objectKey partitions reports by day for lifecycle rules and browsing.
func objectKey(rep *report.AggregateReport) string {
	return fmt.Sprintf("reports/%s/%s.json", rep.Timestamp.UTC().Format("2006/01/02"), rep.ID)
}

// Store uploads the report as a JSON object and returns its key.
func (a *Archive) Store(ctx context.Context, rep *report.AggregateReport) (string, error) {
	if rep.ID == "" {
		return "", errors.New(errors.CodeInvalidInput, "report ID is empty")
	}

	doc, err := json.Marshal(rep)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "marshal report")
	}

	key := objectKey(rep)
	_, err = a.client.PutObject(ctx, a.bucket, key,
		bytes.NewReader(doc), int64(len(doc)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		a.logger.Error("archive report", logging.String("key", key), logging.Err(err))
		return "", errors.Wrap(err, errors.CodeStorageError, "put report object")
	}

	a.logger.Debug("archived report", logging.String("key", key))
	return key, nil
}

// Fetch downloads and decodes an archived report by its object key.
func (a *Archive) Fetch(ctx context.Context, key string) (*report.AggregateReport, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "get report object")
	}
	defer obj.Close()

	doc, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "read report object")
	}

	var rep report.AggregateReport
	if err := json.Unmarshal(doc, &rep); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "unmarshal archived report")
	}
	return &rep, nil
}

// Remove deletes an archived report.
func (a *Archive) Remove(ctx context.Context, key string) error {
	if err := a.client.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "remove report object")
	}
	return nil
}
