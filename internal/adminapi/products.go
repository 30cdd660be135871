package adminapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shopkite/catalog/internal/domain"
)

func (s *Server) listProducts(c echo.Context) error {
	rows := []domain.Product{}
	if err := s.store.ListRecords(c.Request().Context(), s.table(domain.Products), &rows); err != nil {
		return failErr(c, "products", err)
	}
	return ok(c, echo.Map{"products": rows})
}

func (s *Server) createProduct(c echo.Context) error {
	ctx := c.Request().Context()
	form, err := formValues(c)
	if err != nil {
		return failErr(c, "product", err)
	}

	raw, hasImage, err := imageFile(c)
	if err != nil {
		return failErr(c, "product", err)
	}
	if !hasImage {
		return failErr(c, "product", errors.Wrap(domain.ErrBadInput, "image file is required"))
	}

	newPrice, err := requireFloat(form, "newPrice", "new_price")
	if err != nil {
		return failErr(c, "product", err)
	}
	oldPrice, _, err := formFloatPtr(form, "oldPrice", "old_price")
	if err != nil {
		return failErr(c, "product", err)
	}
	quantity, err := requireInt(form, "quantity")
	if err != nil {
		return failErr(c, "product", err)
	}

	id := uuid.NewString()
	variants, err := s.media.Generate(ctx, raw, id)
	if err != nil {
		return failErr(c, "product", err)
	}

	name, _ := formString(form, "name")
	category, _ := formString(form, "category")
	desc, _ := formString(form, "desc")
	season, _ := formString(form, "season")
	ptype, _ := formString(form, "type")

	p := domain.Product{
		ID:        id,
		Category:  category,
		Desc:      desc,
		Name:      name,
		NewPrice:  newPrice,
		OldPrice:  oldPrice,
		Quantity:  quantity,
		Season:    season,
		Type:      ptype,
		Image:     variants,
		CreatedAt: domain.NowMillis(),
	}

	if err := s.store.SaveRecord(ctx, s.table(domain.Products), domain.Products.CacheKey(id), p); err != nil {
		return failErr(c, "product", err)
	}
	zap.L().Info("product created", zap.String("id", id), zap.String("name", p.Name))
	return ok(c, p)
}

func (s *Server) updateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var p domain.Product
	if err := s.store.GetRecord(ctx, s.table(domain.Products), domain.Products.CacheKey(id), id, &p); err != nil {
		return failErr(c, "product", err)
	}

	form, err := formValues(c)
	if err != nil {
		return failErr(c, "product", err)
	}

	if v, present := formString(form, "category"); present {
		p.Category = v
	}
	if v, present := formString(form, "desc"); present {
		p.Desc = v
	}
	if v, present := formString(form, "name"); present {
		p.Name = v
	}
	if v, present := formString(form, "season"); present {
		p.Season = v
	}
	if v, present := formString(form, "type"); present {
		p.Type = v
	}
	if v, present, err := formFloat(form, "new_price", "newPrice"); err != nil {
		return failErr(c, "product", err)
	} else if present {
		p.NewPrice = v
	}
	if v, present, err := formFloatPtr(form, "old_price", "oldPrice"); err != nil {
		return failErr(c, "product", err)
	} else if present {
		p.OldPrice = v
	}
	if v, present, err := formInt(form, "quantity"); err != nil {
		return failErr(c, "product", err)
	} else if present {
		p.Quantity = v
	}

	// a new upload replaces every variant in place; without one the stored
	// mapping rides along untouched
	raw, hasImage, err := imageFile(c)
	if err != nil {
		return failErr(c, "product", err)
	}
	if hasImage {
		variants, err := s.media.Generate(ctx, raw, id)
		if err != nil {
			return failErr(c, "product", err)
		}
		p.Image = variants
	}

	p.ID = id
	p.UpdatedAt = domain.NowMillis()

	if err := s.store.SaveRecord(ctx, s.table(domain.Products), domain.Products.CacheKey(id), p); err != nil {
		return failErr(c, "product", err)
	}
	return ok(c, p)
}

func (s *Server) deleteProduct(c echo.Context) error {
	id := c.Param("id")
	err := s.store.DeleteRecord(c.Request().Context(), s.table(domain.Products), domain.Products.CacheKey(id), id)
	if err != nil {
		return failErr(c, "product", err)
	}
	zap.L().Info("product deleted", zap.String("id", id))
	return c.NoContent(204)
}
