package notestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Backends.
const (
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
)

// Open expands path ("~" is resolved to the home directory) and opens the
// named backend. For sqlite path is the database file, for diskv a directory.
func Open(backend, path string) (*Adapter, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("notestore: expand %s: %w", path, err)
	}

	var kv KV
	switch backend {
	case BackendSQLite, "":
		if dir := filepath.Dir(expanded); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("notestore: mkdir: %w", err)
			}
		}
		kv, err = OpenSQLite(expanded)
	case BackendDiskv:
		kv, err = OpenDiskv(expanded)
	default:
		return nil, fmt.Errorf("notestore: unknown backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return New(kv), nil
}
