// Package s3downl downloads runtime tables from S3 or plain HTTP(S) URLs,
// decompressing zstd payloads on the way.
package s3downl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
)

// Getter is the part of *s3.Client used for downloads.
type Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Downloader struct {
	s3Client Getter
	http     *http.Client
}

// New loads the default AWS configuration for region.
func New(ctx context.Context, region string) (*Downloader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewWithClients(s3.NewFromConfig(cfg), http.DefaultClient), nil
}

func NewWithClients(s3Client Getter, httpClient *http.Client) *Downloader {
	return &Downloader{s3Client: s3Client, http: httpClient}
}

// Download stores the object behind rawUrl at path. s3://bucket/key and
// virtual-hosted https://bucket.s3.region.amazonaws.com/key URLs go through
// the S3 API, other http(s) URLs through a plain GET.
func (d *Downloader) Download(ctx context.Context, rawUrl string, path string) error {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return fmt.Errorf("failed to parse url %s: %w", rawUrl, err)
	}

	var (
		body        io.ReadCloser
		contentType string
	)
	if bucket, key, ok := s3Location(u); ok {
		slog.Info("downloading file from s3", "url", rawUrl)
		obj, err := d.s3Client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("failed to download file %s from s3: %w (bucket: %s, key: %s)", rawUrl, err, bucket, key)
		}
		body, contentType = obj.Body, aws.ToString(obj.ContentType)
	} else {
		if u.Scheme != "https" && u.Scheme != "http" {
			return fmt.Errorf("unsupported url scheme: %s", u.Scheme)
		}
		slog.Info("downloading file", "url", rawUrl)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawUrl, nil)
		if err != nil {
			return err
		}
		resp, err := d.http.Do(req)
		if err != nil {
			return fmt.Errorf("failed to download file %s: %w", rawUrl, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("failed to download file %s: %s", rawUrl, resp.Status)
		}
		body, contentType = resp.Body, resp.Header.Get("Content-Type")
	}
	defer body.Close()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer out.Close()

	var src io.Reader = body
	if contentType == "application/zstd" || filepath.Ext(u.Path) == ".zst" {
		dec, err := zstd.NewReader(body)
		if err != nil {
			return fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		src = dec
	}
	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

func s3Location(u *url.URL) (bucket string, key string, ok bool) {
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme == "s3" {
		return u.Host, key, u.Host != "" && key != ""
	}
	if u.Scheme != "https" {
		return "", "", false
	}
	// bucket.s3.region.amazonaws.com
	hostParts := strings.Split(u.Host, ".")
	if len(hostParts) < 4 || hostParts[1] != "s3" || !strings.HasSuffix(u.Host, ".amazonaws.com") {
		return "", "", false
	}
	return hostParts[0], key, key != ""
}
