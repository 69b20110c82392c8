package s3downl_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/portfolio/internal/s3downl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bucket struct {
	objects map[string][]byte
	gets    []string
}

func (b *bucket) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	name := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	b.gets = append(b.gets, name)
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b.objects[name]))}, nil
}

var _ s3downl.Getter = (*s3.Client)(nil)

func compress(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

func TestDownloadFromS3(t *testing.T) {
	b := &bucket{objects: map[string][]byte{
		"runs/sc2023.csv.zst": compress(t, "hash,kissat\nh1,1\n"),
		"runs/meta.csv":       []byte("hash,family\nh1,crypto\n"),
	}}
	d := s3downl.NewWithClients(b, http.DefaultClient)
	dir := t.TempDir()

	path := filepath.Join(dir, "a")
	require.NoError(t, d.Download(context.Background(), "https://runs.s3.eu-central-1.amazonaws.com/sc2023.csv.zst", path))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hash,kissat\nh1,1\n", string(got))

	path = filepath.Join(dir, "b")
	require.NoError(t, d.Download(context.Background(), "s3://runs/meta.csv", path))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hash,family\nh1,crypto\n", string(got))

	assert.Equal(t, []string{"runs/sc2023.csv.zst", "runs/meta.csv"}, b.gets)
}

func TestDownloadOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/table.csv":
			w.Write([]byte("hash,kissat\n"))
		case "/table.bin":
			w.Header().Set("Content-Type", "application/zstd")
			w.Write(compress(t, "hash,cadical\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d := s3downl.NewWithClients(&bucket{}, srv.Client())
	path := filepath.Join(t.TempDir(), "x")

	require.NoError(t, d.Download(context.Background(), srv.URL+"/table.csv", path))
	got, _ := os.ReadFile(path)
	assert.Equal(t, "hash,kissat\n", string(got))

	require.NoError(t, d.Download(context.Background(), srv.URL+"/table.bin", path))
	got, _ = os.ReadFile(path)
	assert.Equal(t, "hash,cadical\n", string(got))

	require.Error(t, d.Download(context.Background(), srv.URL+"/missing", path))
	require.Error(t, d.Download(context.Background(), "ftp://example.com/x", path))
}
