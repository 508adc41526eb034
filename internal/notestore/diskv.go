package notestore

import (
	"context"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/peterbourgon/diskv/v3"
)

// Diskv is a KV that keeps one file per key under a base directory.
type Diskv struct {
	d *diskv.Diskv
}

var _ KV = (*Diskv)(nil)

// OpenDiskv creates a diskv-backed store rooted at basePath.
func OpenDiskv(basePath string) (*Diskv, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      1024 * 1024, // 1MB
	})}, nil
}

// Keys are arbitrary strings (entity ids may hold "/" or "."), so file names
// are their base64url encoding.
func keyToPath(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: base64.RawURLEncoding.EncodeToString([]byte(key)),
	}
}

func pathToKey(pk *diskv.PathKey) string {
	b, err := base64.RawURLEncoding.DecodeString(pk.FileName)
	if err != nil {
		return pk.FileName
	}
	return string(b)
}

// Get implements KV.
func (s *Diskv) Get(_ context.Context, key string) (string, bool, error) {
	val, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(val), true, nil
}

// Set implements KV.
func (s *Diskv) Set(_ context.Context, key, value string) error {
	return s.d.Write(key, []byte(value))
}

// Keys returns every stored key in lexical order.
func (s *Diskv) Keys(ctx context.Context) ([]string, error) {
	var out []string
	for k := range s.d.Keys(ctx.Done()) {
		out = append(out, k)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slices.Sort(out)
	return out, nil
}

// Close implements KV. diskv holds no open handles.
func (s *Diskv) Close() error {
	return nil
}
