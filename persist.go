package relax

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/relax/blobstore"
	"github.com/hupe1980/relax/layout"
	"github.com/hupe1980/relax/snapshot"
)

const (
	layoutsDir     = "layouts"
	currentBlob    = "CURRENT"
	snapshotSuffix = ".rlx"
)

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func layoutDir(name string) string {
	return path.Join(layoutsDir, name)
}

// Save writes l as a new snapshot of name and points name's CURRENT blob at
// it. Snapshot keys are time-ordered UUIDs, so Versions lists them oldest
// first. It returns the snapshot key.
func (e *Engine) Save(ctx context.Context, name string, l *layout.Layout) (string, error) {
	start := time.Now()
	key, size, err := e.save(ctx, name, l)
	e.opts.metrics.RecordSave(size, time.Since(start), err)
	e.opts.logger.LogSave(ctx, name, key, size, err)
	return key, err
}

func (e *Engine) save(ctx context.Context, name string, l *layout.Layout) (string, int, error) {
	if e.opts.store == nil {
		return "", 0, ErrNoStore
	}
	if err := checkName(name); err != nil {
		return "", 0, err
	}
	if l == nil {
		return "", 0, fmt.Errorf("%w: nil layout", ErrInvalidLayout)
	}
	if err := l.Validate(); err != nil {
		return "", 0, err
	}

	data, err := snapshot.Encode(l,
		snapshot.WithCodec(e.opts.codec),
		snapshot.WithCompression(e.opts.compression),
	)
	if err != nil {
		return "", 0, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", 0, err
	}
	key := path.Join(layoutDir(name), id.String()+snapshotSuffix)

	if err := e.opts.store.Put(ctx, key, data); err != nil {
		return "", 0, fmt.Errorf("put snapshot: %w", err)
	}
	if err := e.opts.store.Put(ctx, path.Join(layoutDir(name), currentBlob), []byte(key)); err != nil {
		return key, len(data), fmt.Errorf("update current: %w", err)
	}
	return key, len(data), nil
}

// Load reads the snapshot name's CURRENT blob points at.
func (e *Engine) Load(ctx context.Context, name string) (*layout.Layout, error) {
	if e.opts.store == nil {
		return nil, ErrNoStore
	}
	if err := checkName(name); err != nil {
		return nil, err
	}

	ptr, err := blobstore.ReadAll(ctx, e.opts.store, path.Join(layoutDir(name), currentBlob))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			err = fmt.Errorf("%w: layout %q", ErrNotFound, name)
		}
		e.opts.metrics.RecordLoad(0, 0, err)
		e.opts.logger.LogLoad(ctx, name, "", err)
		return nil, err
	}

	key := strings.TrimSpace(string(ptr))
	return e.load(ctx, name, key)
}

// LoadVersion reads one snapshot by the key Save or Versions returned.
func (e *Engine) LoadVersion(ctx context.Context, key string) (*layout.Layout, error) {
	if e.opts.store == nil {
		return nil, ErrNoStore
	}
	return e.load(ctx, path.Base(path.Dir(key)), key)
}

func (e *Engine) load(ctx context.Context, name, key string) (*layout.Layout, error) {
	start := time.Now()

	data, err := blobstore.ReadAll(ctx, e.opts.store, key)
	var l *layout.Layout
	if err == nil {
		l, err = snapshot.Decode(data)
	}
	if err == nil {
		err = l.Validate()
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	if err != nil && errors.Is(err, blobstore.ErrNotFound) {
		err = fmt.Errorf("%w: snapshot %q", ErrNotFound, key)
	}

	e.opts.metrics.RecordLoad(len(data), time.Since(start), err)
	e.opts.logger.LogLoad(ctx, name, key, err)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Versions lists the snapshot keys of name, oldest first.
func (e *Engine) Versions(ctx context.Context, name string) ([]string, error) {
	if e.opts.store == nil {
		return nil, ErrNoStore
	}
	if err := checkName(name); err != nil {
		return nil, err
	}

	names, err := e.opts.store.List(ctx, layoutDir(name)+"/")
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, n := range names {
		if strings.HasSuffix(n, snapshotSuffix) {
			keys = append(keys, n)
		}
	}
	return keys, nil
}
