package media

import (
	"bytes"
	"context"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shopkite/catalog/internal/domain"
	"github.com/shopkite/catalog/internal/storage"
)

// VariantSpec names one rendition and its target width. Width 0 means the
// source is re-encoded at its original size.
type VariantSpec struct {
	Name  string
	Width int
}

// DefaultVariants is the fixed rendition set produced for every upload.
var DefaultVariants = []VariantSpec{
	{Name: "thumbnail", Width: 200},
	{Name: "medium", Width: 600},
	{Name: "original", Width: 0},
}

// Generator turns raw image bytes into the fixed variant set and uploads
// each rendition to the object store. Keys are derived from the identifier
// only, so repeated uploads for one identifier overwrite in place.
type Generator struct {
	objects storage.ObjectStore
	specs   []VariantSpec
	quality int
}

func NewGenerator(objects storage.ObjectStore) *Generator {
	return &Generator{objects: objects, specs: DefaultVariants, quality: 85}
}

// Generate returns the variant-name → public-URL mapping. The result is
// all-or-nothing: if any upload fails, variants already uploaded in this
// call are rolled back (best effort) and no mapping is returned.
func (g *Generator) Generate(ctx context.Context, raw []byte, identifier string) (domain.ImageVariants, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(domain.ErrImageDecode, "empty image payload")
	}
	src, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(domain.ErrImageDecode, "%v", err)
	}

	urls := make(domain.ImageVariants, len(g.specs))
	var uploaded []string
	for _, spec := range g.specs {
		img := src
		if spec.Width > 0 && src.Bounds().Dx() > spec.Width {
			img = imaging.Resize(src, spec.Width, 0, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(g.quality)); err != nil {
			g.rollback(ctx, uploaded)
			return nil, errors.Wrapf(domain.ErrImageDecode, "encode %s: %v", spec.Name, err)
		}

		key := VariantKey(identifier, spec.Name)
		url, err := g.objects.Put(ctx, key, "image/jpeg", buf.Bytes())
		if err != nil {
			g.rollback(ctx, uploaded)
			return nil, errors.Wrapf(domain.ErrUploadFailed, "variant %s: %v", spec.Name, err)
		}
		uploaded = append(uploaded, key)
		urls[spec.Name] = url
	}
	return urls, nil
}

func (g *Generator) rollback(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := g.objects.Delete(ctx, key); err != nil {
			zap.L().Warn("variant rollback failed, object orphaned",
				zap.String("key", key), zap.Error(err))
		}
	}
}

// VariantKey is the stable object key for one rendition of an identifier.
func VariantKey(identifier, variant string) string {
	return identifier + "/" + variant + ".jpg"
}
