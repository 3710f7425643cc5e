// Package artifact archives finished conversation transcripts to
// object storage.
package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"adpilot/internal/chat"
)

// ErrNotFound reports a missing archived session.
var ErrNotFound = errors.New("artifact: session archive not found")

// S3Config holds object-store connection settings.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Archive writes session documents to an S3-compatible bucket.
type Archive struct {
	client   *minio.Client
	bucket   string
	region   string
	initOnce sync.Once
	initErr  error
}

func NewArchive(cfg S3Config) (*Archive, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("artifact: s3 endpoint is required")
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("artifact: s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("artifact: s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "artifact: init s3 client")
	}
	return &Archive{client: client, bucket: bucket, region: region}, nil
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	a.initOnce.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucket)
		if err != nil {
			a.initErr = err
			return
		}
		if exists {
			return
		}
		a.initErr = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region})
	})
	return a.initErr
}

// Store uploads the session document under sessions/<id>.json.
func (a *Archive) Store(ctx context.Context, sess *chat.Session) error {
	if sess == nil || strings.TrimSpace(sess.ID) == "" {
		return errors.New("artifact: session id is required")
	}
	if err := a.ensureBucket(ctx); err != nil {
		return errors.Wrap(err, "artifact: ensure bucket")
	}
	doc, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return errors.Wrap(err, "artifact: encode session")
	}
	_, err = a.client.PutObject(ctx, a.bucket, objectKey(sess.ID), bytes.NewReader(doc), int64(len(doc)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return errors.Wrap(err, "artifact: put object")
}

// Fetch retrieves an archived session document.
func (a *Archive) Fetch(ctx context.Context, sessionID string) (*chat.Session, error) {
	if err := a.ensureBucket(ctx); err != nil {
		return nil, errors.Wrap(err, "artifact: ensure bucket")
	}
	obj, err := a.client.GetObject(ctx, a.bucket, objectKey(sessionID), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var sess chat.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(err, "artifact: decode session")
	}
	return &sess, nil
}

func objectKey(sessionID string) string {
	return "sessions/" + strings.TrimSpace(sessionID) + ".json"
}
