// Package media stores uploaded images and hands back their public URLs.
//
// Two backends exist: Local writes under a directory served by the app,
// S3 writes to a bucket (or any S3-compatible endpoint) fronted by a public
// base URL. Keys are slash-separated paths such as "avatars/<id>.jpg".
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
)

var (
	ErrEmptyUpload = errors.New("upload is empty")
	ErrNotImage    = errors.New("upload is not an image")
	ErrBadKey      = errors.New("invalid storage key")
)

// Store is an object store with public URLs.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

// Key prefixes
const (
	AvatarPrefix = "avatars"
	IssuePrefix  = "issue-images"
)

// ImageKey builds "<prefix>/<id>.jpg".
func ImageKey(prefix, id string) string {
	return prefix + "/" + id + ".jpg"
}

// Upload stores an image under key and returns its public URL. The body
// must be a non-empty image; its type is sniffed rather than trusted from
// the client. The returned URL carries a version parameter because keys
// are reused when an avatar is replaced.
func Upload(ctx context.Context, st Store, key string, body io.Reader, size int64) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	if size == 0 {
		return "", ErrEmptyUpload
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return "", ErrEmptyUpload
	}
	head = head[:n]
	ctype := http.DetectContentType(head)
	if !strings.HasPrefix(ctype, "image/") {
		return "", ErrNotImage
	}

	if err := st.Put(ctx, key, io.MultiReader(bytes.NewReader(head), body), size, ctype); err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return versioned(st.PublicURL(key), time.Now()), nil
}

func versioned(u string, at time.Time) string {
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sv=%d", u, sep, at.Unix())
}

func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrBadKey
	}
	if path.Clean(key) != key || strings.HasPrefix(key, "../") || key == ".." {
		return ErrBadKey
	}
	return nil
}
