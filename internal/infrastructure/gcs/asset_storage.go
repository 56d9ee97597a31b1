package gcs

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/vidhub/vidhub-api/internal/application"
)

const publicURLPrefix = "https://storage.googleapis.com/"

// NewClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// AssetStorage stores user images in a GCS bucket under the given folder and
// serves them from the bucket's public URL.
type AssetStorage struct {
	Client *storage.Client
	Bucket string
	Folder string
}

func NewAssetStorage(client *storage.Client, bucket, folder string) *AssetStorage {
	return &AssetStorage{Client: client, Bucket: bucket, Folder: folder}
}

func (s *AssetStorage) Upload(ctx context.Context, r io.Reader, filename, contentType string) (*application.Asset, error) {
	object := s.objectPath(filename)

	wc := s.Client.Bucket(s.Bucket).Object(object).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return nil, err
	}
	if err := wc.Close(); err != nil {
		return nil, err
	}

	return &application.Asset{
		URL:      publicURLPrefix + s.Bucket + "/" + object,
		PublicID: object,
	}, nil
}

// Delete removes the object behind a previously returned public URL. URLs
// that do not belong to this bucket are ignored.
func (s *AssetStorage) Delete(ctx context.Context, url string) error {
	object, ok := s.objectFromURL(url)
	if !ok {
		return nil
	}
	err := s.Client.Bucket(s.Bucket).Object(object).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}

func (s *AssetStorage) objectPath(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	if s.Folder == "" {
		return name
	}
	return path.Join(s.Folder, name)
}

func (s *AssetStorage) objectFromURL(url string) (string, bool) {
	prefix := publicURLPrefix + s.Bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	object := strings.TrimPrefix(url, prefix)
	if object == "" {
		return "", false
	}
	return object, true
}
