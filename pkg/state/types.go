package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-scorecard/layering"
)

var ErrNotFound = errors.New("state: snapshot not found")

var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one persisted widget settings snapshot.
type Ref struct {
	WidgetID string
	// Location overrides the derived key, e.g. a file path.
	Location string
}

// Meta is storage-owned metadata used for concurrency control.
type Meta struct {
	ETag      string            `json:"etag,omitempty"`
	UpdatedAt time.Time         `json:"updated_at,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one snapshot for a single reference.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// Resolver orchestrates loads and guarded saves against a Store.
type Resolver[T any] struct {
	Store Store[T]
	// Validate, when set, runs on the mutated snapshot before it is saved.
	Validate func(T) error
}

type Mutator[T any] func(*T) error

// Identifier returns the canonical storage key for r.
func (r Ref) Identifier() (string, error) {
	if location := strings.TrimSpace(r.Location); location != "" {
		return location, nil
	}
	id := strings.TrimSpace(r.WidgetID)
	if id == "" {
		return "", fmt.Errorf("state: ref needs a widget id or location")
	}
	return "widgets/" + id, nil
}

// Resolve loads the snapshot for ref laid over defaults. A missing snapshot
// resolves to a copy of defaults with ok false.
func (r Resolver[T]) Resolve(ctx context.Context, ref Ref, defaults T) (T, Meta, bool, error) {
	var zero T
	if r.Store == nil {
		return zero, Meta{}, false, fmt.Errorf("state: store is required")
	}
	snapshot, meta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return zero, Meta{}, false, fmt.Errorf("state: load %s: %w", describe(ref), err)
	}
	if !ok {
		return layering.Clone(defaults), Meta{}, false, nil
	}
	return layering.MergeLayers(snapshot, defaults), meta, true, nil
}

// Mutate loads one snapshot, applies fn, validates, then saves. A non-empty
// meta.ETag must match the stored snapshot's ETag.
func (r Resolver[T]) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator[T]) (T, Meta, error) {
	var zero T
	if r.Store == nil {
		return zero, Meta{}, fmt.Errorf("state: store is required")
	}
	if fn == nil {
		return zero, Meta{}, fmt.Errorf("state: mutator is required")
	}

	snapshot, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return zero, Meta{}, fmt.Errorf("state: load %s: %w", describe(ref), err)
	}
	if !ok {
		snapshot = zero
		loadedMeta = Meta{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return zero, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	if err := fn(&snapshot); err != nil {
		return zero, loadedMeta, err
	}

	if r.Validate != nil {
		if err := r.Validate(snapshot); err != nil {
			return zero, loadedMeta, err
		}
	}

	savedMeta, err := r.Store.Save(ctx, ref, snapshot, mergeMeta(loadedMeta, meta))
	if err != nil {
		return zero, loadedMeta, fmt.Errorf("state: save %s: %w", describe(ref), err)
	}
	return snapshot, savedMeta, nil
}

func describe(ref Ref) string {
	key, err := ref.Identifier()
	if err != nil {
		return "<invalid ref>"
	}
	return fmt.Sprintf("%q", key)
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
