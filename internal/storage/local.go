package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Local signs PUT URLs against its own HTTP endpoint: the signature is an
// HMAC over key, content type and expiry, so the upload handler can verify
// without state. Development stand-in for the S3 driver.
type Local struct {
	BaseDir   string
	PublicURL string // e.g. http://localhost:8080/uploads
	secret    []byte
}

func NewLocal(baseDir, publicURL, secret string) *Local {
	return &Local{
		BaseDir:   baseDir,
		PublicURL: strings.TrimRight(publicURL, "/"),
		secret:    []byte(secret),
	}
}

func (l *Local) sign(key, contentType string, exp int64) string {
	mac := hmac.New(sha256.New, l.secret)
	fmt.Fprintf(mac, "%s\n%s\n%d", key, contentType, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

func (l *Local) SignPut(ctx context.Context, in SignInput) (string, error) {
	_ = ctx
	exp := time.Now().Add(in.TTL).Unix()
	q := url.Values{}
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", l.sign(in.Key, in.ContentType, exp))
	return l.PublicURL + "/" + in.Key + "?" + q.Encode(), nil
}

// VerifyPut checks an incoming upload's query parameters in constant time.
// The upload's Content-Type header must match what was signed, same as an
// S3 presigned PUT.
func (l *Local) VerifyPut(key, contentType, expStr, sig string) bool {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return false
	}
	if time.Now().Unix() > exp {
		return false
	}
	want := l.sign(key, contentType, exp)
	return hmac.Equal([]byte(sig), []byte(want))
}

// PutAt stores verified upload bytes under the signed key. Keys are slash
// separated ("previews/...", "prints/..."); path escapes are rejected.
func (l *Local) PutAt(key string, data []byte) error {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	dst := filepath.Join(l.BaseDir, clean)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

// Open returns the stored bytes for a key.
func (l *Local) Open(key string) ([]byte, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid storage key %q", key)
	}
	return os.ReadFile(filepath.Join(l.BaseDir, clean))
}

func (l *Local) Delete(ctx context.Context, key string) error {
	_ = ctx
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return os.Remove(filepath.Join(l.BaseDir, clean))
}

// List walks the stored keys with their modification times, oldest data for
// the janitor to prune.
func (l *Local) List() (map[string]time.Time, error) {
	out := map[string]time.Time{}
	err := filepath.Walk(l.BaseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.BaseDir, path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = info.ModTime()
		return nil
	})
	return out, err
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }
