package adminapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shopkite/catalog/internal/domain"
)

func (s *Server) listBanners(c echo.Context) error {
	rows := []domain.Banner{}
	if err := s.store.ListRecords(c.Request().Context(), s.table(domain.Banners), &rows); err != nil {
		return failErr(c, "banners", err)
	}
	return ok(c, echo.Map{"banners": rows})
}

func (s *Server) createBanner(c echo.Context) error {
	ctx := c.Request().Context()
	form, err := formValues(c)
	if err != nil {
		return failErr(c, "banner", err)
	}

	raw, hasImage, err := imageFile(c)
	if err != nil {
		return failErr(c, "banner", err)
	}
	if !hasImage {
		return failErr(c, "banner", errors.Wrap(domain.ErrBadInput, "image file is required"))
	}

	id := uuid.NewString()
	variants, err := s.media.Generate(ctx, raw, id)
	if err != nil {
		return failErr(c, "banner", err)
	}

	name, _ := formString(form, "name", "title")
	category, _ := formString(form, "category")

	b := domain.Banner{
		ID:        id,
		Category:  category,
		Name:      name,
		Image:     variants,
		IsActive:  true,
		CreatedAt: domain.NowMillis(),
	}

	if err := s.store.SaveRecord(ctx, s.table(domain.Banners), domain.Banners.CacheKey(id), b); err != nil {
		return failErr(c, "banner", err)
	}
	zap.L().Info("banner created", zap.String("id", id), zap.String("name", b.Name))
	return ok(c, b)
}

func (s *Server) updateBanner(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var b domain.Banner
	if err := s.store.GetRecord(ctx, s.table(domain.Banners), domain.Banners.CacheKey(id), id, &b); err != nil {
		return failErr(c, "banner", err)
	}

	form, err := formValues(c)
	if err != nil {
		return failErr(c, "banner", err)
	}

	if v, present := formString(form, "category"); present {
		b.Category = v
	}
	if v, present := formString(form, "title", "name"); present {
		b.Name = v
	}
	if v, present, err := formBool(form, "isActive"); err != nil {
		return failErr(c, "banner", err)
	} else if present {
		b.IsActive = v
	}

	raw, hasImage, err := imageFile(c)
	if err != nil {
		return failErr(c, "banner", err)
	}
	if hasImage {
		variants, err := s.media.Generate(ctx, raw, id)
		if err != nil {
			return failErr(c, "banner", err)
		}
		b.Image = variants
	}

	b.ID = id
	b.UpdatedAt = domain.NowMillis()

	if err := s.store.SaveRecord(ctx, s.table(domain.Banners), domain.Banners.CacheKey(id), b); err != nil {
		return failErr(c, "banner", err)
	}
	return ok(c, b)
}

func (s *Server) deleteBanner(c echo.Context) error {
	id := c.Param("id")
	err := s.store.DeleteRecord(c.Request().Context(), s.table(domain.Banners), domain.Banners.CacheKey(id), id)
	if err != nil {
		return failErr(c, "banner", err)
	}
	zap.L().Info("banner deleted", zap.String("id", id))
	return c.NoContent(204)
}
