package adminapi

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shopkite/catalog/config"
	"github.com/shopkite/catalog/internal/domain"
	"github.com/shopkite/catalog/internal/webserver"
)

// RecordStore is the write-through adapter surface the handlers need.
type RecordStore interface {
	SaveRecord(ctx context.Context, table, cacheKey string, record interface{}) error
	DeleteRecord(ctx context.Context, table, cacheKey, id string) error
	GetRecord(ctx context.Context, table, cacheKey, id string, out interface{}) error
	ListRecords(ctx context.Context, table string, out interface{}) error
}

// VariantGenerator produces the image variant-URL mapping for an upload.
type VariantGenerator interface {
	Generate(ctx context.Context, raw []byte, identifier string) (domain.ImageVariants, error)
}

// Pinger reports reachability of one backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the injected storage context for all resource handlers.
type Server struct {
	store   RecordStore
	media   VariantGenerator
	dynamo  config.DynamoConfig
	pingers map[string]Pinger
}

func NewServer(store RecordStore, media VariantGenerator, dynamo config.DynamoConfig) *Server {
	return &Server{
		store:   store,
		media:   media,
		dynamo:  dynamo,
		pingers: map[string]Pinger{},
	}
}

// AddHealthCheck registers a named store pinger for the health endpoint.
func (s *Server) AddHealthCheck(name string, p Pinger) {
	s.pingers[name] = p
}

// RegisterRoutes attaches every resource endpoint to the web server.
func (s *Server) RegisterRoutes(ws *webserver.WebServer) {
	ws.ApiGET("/products", s.listProducts)
	ws.ApiPOST("/products", s.createProduct)
	ws.ApiPUT("/products/:id", s.updateProduct)
	ws.ApiDELETE("/products/:id", s.deleteProduct)

	ws.ApiGET("/banners", s.listBanners)
	ws.ApiPOST("/banners", s.createBanner)
	ws.ApiPUT("/banners/:id", s.updateBanner)
	ws.ApiDELETE("/banners/:id", s.deleteBanner)

	ws.ApiGET("/categories", s.listCategories)
	ws.ApiPOST("/categories", s.createCategory)
	ws.ApiPUT("/categories/:id", s.updateCategory)
	ws.ApiDELETE("/categories/:id", s.deleteCategory)

	ws.ApiGET("/health", s.health)
}

func (s *Server) table(r domain.Resource) string {
	return s.dynamo.Table(r.Name)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

// failErr maps a storage or media failure onto the HTTP surface.
func failErr(c echo.Context, resource string, err error) error {
	switch {
	case errors.Is(err, domain.ErrBadInput):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, domain.ErrImageDecode):
		return fail(c, http.StatusBadRequest, "INVALID_IMAGE", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", resource+" not found")
	default:
		zap.L().Error("request failed",
			zap.String("resource", resource),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err))
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to process "+resource)
	}
}

// imageFile reads the optional multipart "image" field. The second return
// reports whether a file was supplied at all.
func imageFile(c echo.Context) ([]byte, bool, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(domain.ErrBadInput, "image field: %v", err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, false, errors.Wrapf(domain.ErrBadInput, "open image: %v", err)
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, false, errors.Wrapf(domain.ErrBadInput, "read image: %v", err)
	}
	return raw, true, nil
}

func (s *Server) health(c echo.Context) error {
	ctx := c.Request().Context()
	status := http.StatusOK
	checks := map[string]string{}
	for name, p := range s.pingers {
		if err := p.Ping(ctx); err != nil {
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			zap.L().Warn("health check failed", zap.String("store", name), zap.Error(err))
		} else {
			checks[name] = "up"
		}
	}
	return c.JSON(status, map[string]interface{}{
		"status": http.StatusText(status),
		"stores": checks,
	})
}
