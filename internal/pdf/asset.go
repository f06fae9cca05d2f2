package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"signapi/internal/storage"
)

// ErrAssetMissing reports a stamp image that could not be fetched or decoded.
// It is soft: the compositing engine skips the placement instead of failing
// the whole document.
var ErrAssetMissing = errors.New("asset missing")

// ImageKind is the declared encoding of a stamp image.
type ImageKind string

const (
	ImagePNG  ImageKind = "png"
	ImageJPEG ImageKind = "jpeg"
)

// KindForKey derives the image kind from the object key's extension.
// Anything that is not .png decodes as JPEG; this fallback for unrecognized
// extensions matches the historical upload behavior.
func KindForKey(key string) ImageKind {
	if strings.EqualFold(path.Ext(key), ".png") {
		return ImagePNG
	}
	return ImageJPEG
}

// Asset is a stamp image resolved into renderable form. Width and Height are
// the pixel dimensions of the source image, before any display scaling.
type Asset struct {
	Kind   ImageKind
	Bytes  []byte
	Width  int
	Height int
}

// Resolver fetches stamp assets from object storage and caches them by key,
// so a stamp referenced by many placements is fetched and decoded once.
// A resolver belongs to a single generation call; the cache never outlives
// one Composite invocation.
type Resolver struct {
	store storage.Storage
	cache map[string]*Asset
}

// NewResolver creates a resolver over the given object store.
func NewResolver(store storage.Storage) *Resolver {
	return &Resolver{store: store, cache: make(map[string]*Asset)}
}

// Resolve returns the asset stored under key. Fetch and decode failures are
// both reported as ErrAssetMissing; a stamp whose bytes do not match its
// extension cannot be embedded and is treated the same as an absent one.
func (r *Resolver) Resolve(ctx context.Context, key string) (*Asset, error) {
	if a, ok := r.cache[key]; ok {
		return a, nil
	}

	rc, _, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetMissing, key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetMissing, key, err)
	}

	kind := KindForKey(key)
	cfg, err := decodeConfig(kind, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetMissing, key, err)
	}

	a := &Asset{Kind: kind, Bytes: data, Width: cfg.Width, Height: cfg.Height}
	r.cache[key] = a
	return a, nil
}

func decodeConfig(kind ImageKind, data []byte) (image.Config, error) {
	if kind == ImagePNG {
		return png.DecodeConfig(bytes.NewReader(data))
	}
	return jpeg.DecodeConfig(bytes.NewReader(data))
}
