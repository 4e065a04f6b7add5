package store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const (
	blobSuffix = ".json"
	tempDir    = ".tmp"
)

// Disk is a StateStore backed by diskv, one file per namespace.
type Disk struct {
	d        *diskv.Diskv
	basePath string
}

// NewDisk opens (and creates if needed) a disk store rooted at basePath.
func NewDisk(basePath string) (*Disk, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDir),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
	}), basePath: basePath}, nil
}

// Get implements StateStore. Reads always go to disk so writes made by other
// processes are seen.
func (p *Disk) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	rc, err := p.d.ReadStream(key, true)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer rc.Close()
	val, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements StateStore.
func (p *Disk) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return p.d.Write(key, value)
}

// Keys lists every namespace currently stored.
func (p *Disk) Keys(ctx context.Context) []string {
	var keys []string
	for key := range p.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	return keys
}

func keyToPathTransform(s string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: s + blobSuffix,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.TrimSuffix(pathKey.FileName, blobSuffix)
}
