// Package filestore caches downloaded runtime tables on disk, keyed by the
// sha256 of their content.
package filestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

var (
	ErrNotScheduled = errors.New("file has not been scheduled for download")
	ErrBadKey       = errors.New("file key is not a sha256 hex digest")
	ErrIntegrity    = errors.New("downloaded file does not match its sha256")
)

// DownloadFunc stores the content behind url at path.
type DownloadFunc func(ctx context.Context, url string, path string) error

type entry struct {
	url  string
	once sync.Once
	done chan struct{}
	err  error
}

type FileStore struct {
	fileDirectory string
	tmpDirectory  string
	download      DownloadFunc

	awaitedKeyQueue chan string
	scheduledFiles  chan string
	entries         *xsync.MapOf[string, *entry]
}

// New creates the store directories. Downloads only happen once Start runs.
func New(fileDirectory string, tmpDirectory string, download DownloadFunc) (*FileStore, error) {
	for _, dir := range []string{fileDirectory, tmpDirectory} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create file store directory: %w", err)
		}
	}
	return &FileStore{
		fileDirectory:   fileDirectory,
		tmpDirectory:    tmpDirectory,
		download:        download,
		awaitedKeyQueue: make(chan string, 1000),
		scheduledFiles:  make(chan string, 10000),
		entries:         xsync.NewMapOf[string, *entry](),
	}, nil
}

// Schedule queues a download unless the key is already scheduled or cached.
func (fs *FileStore) Schedule(key string, url string) error {
	if b, err := hex.DecodeString(key); err != nil || len(b) != sha256.Size {
		return fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	e, loaded := fs.entries.LoadOrStore(key, &entry{url: url, done: make(chan struct{})})
	if loaded {
		return nil
	}
	if _, err := os.Stat(fs.path(key)); err == nil {
		e.once.Do(func() { close(e.done) })
		return nil
	}
	fs.scheduledFiles <- key
	return nil
}

// Await waits for a scheduled file, moving it to the front of the queue, and
// returns its content.
func (fs *FileStore) Await(ctx context.Context, key string) ([]byte, error) {
	e, ok := fs.entries.Load(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotScheduled, key)
	}
	select {
	case fs.awaitedKeyQueue <- key:
	default:
	}
	select {
	case <-e.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if e.err != nil {
		return nil, e.err
	}
	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", key, err)
	}
	return data, nil
}

// Start downloads scheduled files in the background until ctx is done,
// serving awaited files first.
func (fs *FileStore) Start(ctx context.Context) {
	for {
		var key string
		select {
		case key = <-fs.awaitedKeyQueue:
		default:
			select {
			case key = <-fs.awaitedKeyQueue:
			case key = <-fs.scheduledFiles:
			case <-ctx.Done():
				return
			}
		}
		e, ok := fs.entries.Load(key)
		if !ok {
			continue
		}
		e.once.Do(func() {
			e.err = fs.fetch(ctx, key, e.url)
			if e.err != nil {
				slog.Error("failed to download file", "key", key, "url", e.url, "error", e.err)
			}
			close(e.done)
		})
	}
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.fileDirectory, key)
}

func (fs *FileStore) fetch(ctx context.Context, key string, url string) error {
	tmpPath := filepath.Join(fs.tmpDirectory, key)
	if err := fs.download(ctx, url, tmpPath); err != nil {
		return fmt.Errorf("failed to download file %s: %w", key, err)
	}
	sum, err := digest(tmpPath)
	if err != nil {
		return err
	}
	if sum != key {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: expected %s, got %s", ErrIntegrity, key, sum)
	}
	if err := os.Rename(tmpPath, fs.path(key)); err != nil {
		return fmt.Errorf("failed to move file %s to file store: %w", key, err)
	}
	slog.Debug("stored file", "key", key, "url", url)
	return nil
}

func digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
