package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"credmatrix_backend/internal/config"
	"credmatrix_backend/internal/logger"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("storage: object not found")

// Storage is the blob store for credential files. The path returned by
// upload is the identifier used for deletion.
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	GetURL(ctx context.Context, path string) (string, error)
	GetSignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

// Config holds storage configuration
type Config struct {
	Type       string // local, cloudflare_r2
	BasePath   string // local only
	BaseURL    string
	Bucket     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	PublicRead bool
}

func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	}
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "cloudflare_r2", "r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// StoredFile describes an uploaded object.
type StoredFile struct {
	Path string
	URL  string
	Hash string // hex SHA-256 of the content
	Size int64
}

// Upload streams reader into s under a fresh path in dir while computing the
// SHA-256 of the content.
func Upload(ctx context.Context, s Storage, dir, filename string, reader io.Reader, contentType string) (*StoredFile, error) {
	objectPath := ObjectPath(dir, filename)

	hasher := sha256.New()
	counter := &countingWriter{}
	tee := io.TeeReader(reader, io.MultiWriter(hasher, counter))

	if err := s.Save(ctx, objectPath, tee, contentType); err != nil {
		return nil, err
	}

	url, err := s.GetURL(ctx, objectPath)
	if err != nil {
		SafeDelete(ctx, s, objectPath)
		return nil, err
	}

	return &StoredFile{
		Path: objectPath,
		URL:  url,
		Hash: hex.EncodeToString(hasher.Sum(nil)),
		Size: counter.n,
	}, nil
}

// HashReader returns the hex SHA-256 of everything read from r.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SafeDelete removes path and only logs a failure.
func SafeDelete(ctx context.Context, s Storage, objectPath string) {
	if objectPath == "" {
		return
	}
	if err := s.Delete(ctx, objectPath); err != nil {
		logger.CtxWithError(ctx, "failed to delete stored file", err, "path", objectPath)
	}
}

// ObjectPath builds dir/yyyy/mm/<uuid><ext>.
func ObjectPath(dir, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	now := time.Now().UTC()
	return path.Join(cleanDir(dir), now.Format("2006"), now.Format("01"), uuid.NewString()+ext)
}

func cleanDir(dir string) string {
	dir = path.Clean("/" + strings.ReplaceAll(dir, "\\", "/"))
	return strings.TrimPrefix(dir, "/")
}

type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}
