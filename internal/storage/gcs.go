package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gcs "google.golang.org/api/storage/v1"
	"invoicegen/internal/logger"
)

const pdfContentType = "application/pdf"

// GCSStore uploads documents to a Cloud Storage bucket, optionally below a
// folder prefix.
type GCSStore struct {
	service *gcs.Service
	bucket  string
	folder  string
	log     zerolog.Logger
}

var _ Store = (*GCSStore)(nil)

// NewGCSStore creates a store for bucket. Credentials follow the usual order:
// explicit opts, then GOOGLE_CREDENTIALS (inline JSON), then
// GOOGLE_APPLICATION_CREDENTIALS, then application default credentials.
func NewGCSStore(ctx context.Context, bucket, folder string, opts ...option.ClientOption) (*GCSStore, error) {
	const op = "NewGCSStore"

	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("%s: bucket is required", op)
	}

	log := logger.WithComponent("gcs-store")

	if len(opts) == 0 {
		if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
			log.Debug().Msg("Using credentials from GOOGLE_CREDENTIALS environment variable")
			opts = append(opts, option.WithCredentialsJSON([]byte(credsJSON)))
		} else if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
			log.Debug().Str("file", credsFile).Msg("Using credentials file")
			opts = append(opts, option.WithCredentialsFile(credsFile))
		}
		opts = append(opts, option.WithScopes(gcs.DevstorageReadWriteScope))
	}

	service, err := gcs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create storage service: %w", op, err)
	}

	return &GCSStore{
		service: service,
		bucket:  bucket,
		folder:  strings.Trim(folder, "/"),
		log:     log,
	}, nil
}

// Put uploads data as <folder>/<name> and returns its gs:// URL.
func (s *GCSStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	const op = "GCSStore.Put"

	if err := checkName(name); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	objectName := name
	if s.folder != "" {
		objectName = path.Join(s.folder, name)
	}

	obj := &gcs.Object{
		Name:        objectName,
		ContentType: pdfContentType,
	}
	stored, err := s.service.Objects.Insert(s.bucket, obj).
		Media(bytes.NewReader(data), googleapi.ContentType(pdfContentType)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%s: upload %s to bucket %s: %w", op, objectName, s.bucket, err)
	}

	location := fmt.Sprintf("gs://%s/%s", s.bucket, stored.Name)
	s.log.Info().
		Str("location", location).
		Int("bytes", len(data)).
		Msg("Invoice document uploaded")

	return location, nil
}
