package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/logging"
	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// MinIOStore archives reports in an S3-compatible bucket. Object keys are
// "<id>.json"; lifecycle policies on the bucket replace the disk store's TTL
// sweep.
type MinIOStore struct {
	client *minio.Client
	bucket string
	logger logging.Logger
}

// NewMinIOStore connects to the object store and ensures the bucket exists.
func NewMinIOStore(ctx context.Context, cfg config.MinIOConfig, logger logging.Logger) (*MinIOStore, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "connect to object store")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "check report bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeStorage, "create report bucket")
		}
	}

	return &MinIOStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.Named("storage.minio"),
	}, nil
}

func objectKey(id string) string { return id + ".json" }

func (s *MinIOStore) Save(ctx context.Context, result *analysis.Result) error {
	if result == nil || !validID(result.ID) {
		return apperrors.New(apperrors.CodeInvalidParam, "invalid report id")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "encode report")
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectKey(result.ID),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "store report")
	}
	return nil
}

func (s *MinIOStore) Load(ctx context.Context, id string) (*analysis.Result, error) {
	if !validID(id) {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "invalid report id")
	}

	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "fetch report")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "report %s not found", id)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "fetch report")
	}

	var result analysis.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "decode report")
	}
	return &result, nil
}

func (s *MinIOStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.New(apperrors.CodeInvalidParam, "invalid report id")
	}
	err := s.client.RemoveObject(ctx, s.bucket, objectKey(id), minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return apperrors.Wrap(err, apperrors.CodeStorage, "delete report")
	}
	return nil
}

// Close is a no-op; the underlying client needs no shutdown.
func (s *MinIOStore) Close() error { return nil }
