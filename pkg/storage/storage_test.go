package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

// smallest valid PNG header; enough for content sniffing
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestNewObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	single, err := NewObjectKey(now, 0, 1)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^billboards/1700000000123-[0-9a-z]{13}\.jpg$`), single)

	multi, err := NewObjectKey(now, 2, 3)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^billboards/1700000000123-[0-9a-z]{13}-2\.jpg$`), multi)

	other, err := NewObjectKey(now, 0, 1)
	require.NoError(t, err)
	assert.NotEqual(t, single, other)
}

func TestLocalStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "billboards/a.jpg", bytes.NewReader([]byte("payload"))))

	onDisk, err := os.ReadFile(filepath.Join(root, "billboards", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(onDisk))

	rc, err := store.Open(ctx, "billboards/a.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, store.Delete(ctx, "billboards/a.jpg"))
	_, err = store.Open(ctx, "billboards/a.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "billboards/a.jpg"), ErrObjectNotFound)
}

func TestLocalStoreCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")
	store, err := NewLocalStore(root)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = NewLocalStore("")
	assert.Error(t, err)
}

func TestBucketStoreRejectsEscapingKeys(t *testing.T) {
	store := NewBucketStore(memblob.OpenBucket(nil))
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	for _, key := range []string{"", "/etc/passwd", "../secret", "billboards/../../x", "a\\b", "billboards//x.jpg"} {
		assert.ErrorIs(t, store.Put(ctx, key, strings.NewReader("x")), ErrInvalidKey, "key %q", key)
		_, err := store.Open(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
		assert.ErrorIs(t, store.Delete(ctx, key), ErrInvalidKey, "key %q", key)
	}
}

func TestBucketStoreOverwrite(t *testing.T) {
	store := NewBucketStore(memblob.OpenBucket(nil))
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "billboards/b.jpg", strings.NewReader("first")))
	require.NoError(t, store.Put(ctx, "billboards/b.jpg", strings.NewReader("second")))

	rc, err := store.Open(ctx, "billboards/b.jpg")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestURLSigner(t *testing.T) {
	signer := NewURLSigner("secret", "http://localhost:8080/", time.Minute)

	url, err := signer.URL("billboards/a.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/api/images/billboards/a.jpg?token="))

	token, err := signer.Token("billboards/a.jpg")
	require.NoError(t, err)
	assert.NoError(t, signer.Verify("billboards/a.jpg", token))
	assert.ErrorIs(t, signer.Verify("billboards/b.jpg", token), ErrInvalidSignature)

	other := NewURLSigner("different", "http://localhost:8080", time.Minute)
	assert.ErrorIs(t, other.Verify("billboards/a.jpg", token), ErrInvalidSignature)

	empty, err := signer.URL("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestURLSignerExpiry(t *testing.T) {
	signer := NewURLSigner("secret", "http://localhost", time.Minute)
	issued := time.Now().Add(-time.Hour)
	signer.now = func() time.Time { return issued }

	token, err := signer.Token("billboards/a.jpg")
	require.NoError(t, err)

	signer.now = time.Now
	assert.ErrorIs(t, signer.Verify("billboards/a.jpg", token), ErrInvalidSignature)
}

func TestReadImage(t *testing.T) {
	data, mime, err := ReadImage(bytes.NewReader(pngHeader), 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngHeader, data)

	_, _, err = ReadImage(strings.NewReader("just some text"), 1024)
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, _, err = ReadImage(bytes.NewReader(pngHeader), 4)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

const svgPayload = `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(document.domain)</script></svg>`

func TestReadImageRasterOnly(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		mime    string
		wantErr error
	}{
		{"png", pngHeader, "image/png", nil},
		{"jpeg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), "image/jpeg", nil},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), "image/gif", nil},
		{"svg", []byte(svgPayload), "image/svg+xml", ErrNotAnImage},
		{"html", []byte("<html><body>hi</body></html>"), "", ErrNotAnImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mime, err := ReadImage(bytes.NewReader(tt.payload), 1024)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if tt.mime != "" {
				assert.Equal(t, tt.mime, mime)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType(pngHeader))
	assert.Equal(t, "application/octet-stream", ContentType([]byte(svgPayload)))
	assert.Equal(t, "application/octet-stream", ContentType([]byte("plain text")))
}
