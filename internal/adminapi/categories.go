package adminapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shopkite/catalog/internal/domain"
)

func (s *Server) listCategories(c echo.Context) error {
	rows := []domain.Category{}
	if err := s.store.ListRecords(c.Request().Context(), s.table(domain.Categories), &rows); err != nil {
		return failErr(c, "categories", err)
	}
	return ok(c, echo.Map{"categories": rows})
}

func (s *Server) createCategory(c echo.Context) error {
	ctx := c.Request().Context()
	form, err := formValues(c)
	if err != nil {
		return failErr(c, "category", err)
	}

	raw, hasImage, err := imageFile(c)
	if err != nil {
		return failErr(c, "category", err)
	}
	if !hasImage {
		return failErr(c, "category", errors.Wrap(domain.ErrBadInput, "image file is required"))
	}

	priority, _, err := formIntPtr(form, "priority")
	if err != nil {
		return failErr(c, "category", err)
	}

	id := uuid.NewString()
	variants, err := s.media.Generate(ctx, raw, id)
	if err != nil {
		return failErr(c, "category", err)
	}

	name, _ := formString(form, "name")
	description, _ := formString(form, "description")

	cat := domain.Category{
		ID:          id,
		Name:        name,
		Description: description,
		Priority:    priority,
		Image:       variants,
		IsActive:    true,
		CreatedAt:   domain.NowMillis(),
	}

	if err := s.store.SaveRecord(ctx, s.table(domain.Categories), domain.Categories.CacheKey(id), cat); err != nil {
		return failErr(c, "category", err)
	}
	zap.L().Info("category created", zap.String("id", id), zap.String("name", cat.Name))
	return ok(c, cat)
}

func (s *Server) updateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var cat domain.Category
	if err := s.store.GetRecord(ctx, s.table(domain.Categories), domain.Categories.CacheKey(id), id, &cat); err != nil {
		return failErr(c, "category", err)
	}

	form, err := formValues(c)
	if err != nil {
		return failErr(c, "category", err)
	}

	if v, present := formString(form, "name"); present {
		cat.Name = v
	}
	if v, present := formString(form, "description"); present {
		cat.Description = v
	}
	if v, present, err := formIntPtr(form, "priority"); err != nil {
		return failErr(c, "category", err)
	} else if present {
		cat.Priority = v
	}
	if v, present, err := formBool(form, "isActive"); err != nil {
		return failErr(c, "category", err)
	} else if present {
		cat.IsActive = v
	}

	raw, hasImage, err := imageFile(c)
	if err != nil {
		return failErr(c, "category", err)
	}
	if hasImage {
		variants, err := s.media.Generate(ctx, raw, id)
		if err != nil {
			return failErr(c, "category", err)
		}
		cat.Image = variants
	}

	cat.ID = id
	cat.UpdatedAt = domain.NowMillis()

	if err := s.store.SaveRecord(ctx, s.table(domain.Categories), domain.Categories.CacheKey(id), cat); err != nil {
		return failErr(c, "category", err)
	}
	return ok(c, cat)
}

func (s *Server) deleteCategory(c echo.Context) error {
	id := c.Param("id")
	err := s.store.DeleteRecord(c.Request().Context(), s.table(domain.Categories), domain.Categories.CacheKey(id), id)
	if err != nil {
		return failErr(c, "category", err)
	}
	zap.L().Info("category deleted", zap.String("id", id))
	return c.NoContent(204)
}
