package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shopkite/catalog/config"
	"github.com/shopkite/catalog/internal/domain"
)

// stubStore is an in-memory RecordStore with injectable failures.
type stubStore struct {
	records   map[string]map[string][]byte
	saveCalls int
	saveErr   error
}

func newStubStore() *stubStore {
	return &stubStore{records: map[string]map[string][]byte{}}
}

func (s *stubStore) seed(t *testing.T, table, id string, record interface{}) {
	t.Helper()
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("seed marshal: %v", err)
	}
	if s.records[table] == nil {
		s.records[table] = map[string][]byte{}
	}
	s.records[table][id] = data
}

func (s *stubStore) SaveRecord(_ context.Context, table, _ string, record interface{}) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	var row map[string]interface{}
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	id, _ := row["id"].(string)
	if s.records[table] == nil {
		s.records[table] = map[string][]byte{}
	}
	s.records[table][id] = data
	return nil
}

func (s *stubStore) DeleteRecord(_ context.Context, table, _, id string) error {
	delete(s.records[table], id)
	return nil
}

func (s *stubStore) GetRecord(_ context.Context, table, _, id string, out interface{}) error {
	data, ok := s.records[table][id]
	if !ok {
		return domain.ErrNotFound
	}
	return json.Unmarshal(data, out)
}

func (s *stubStore) ListRecords(_ context.Context, table string, out interface{}) error {
	rows := make([]json.RawMessage, 0, len(s.records[table]))
	for _, data := range s.records[table] {
		rows = append(rows, data)
	}
	all, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(all, out)
}

// stubMedia returns canned variants keyed off the identifier.
type stubMedia struct {
	err         error
	identifiers []string
}

func (m *stubMedia) Generate(_ context.Context, _ []byte, identifier string) (domain.ImageVariants, error) {
	m.identifiers = append(m.identifiers, identifier)
	if m.err != nil {
		return nil, m.err
	}
	return domain.ImageVariants{
		"thumbnail": "https://cdn.example.com/" + identifier + "/thumbnail.jpg",
		"medium":    "https://cdn.example.com/" + identifier + "/medium.jpg",
		"original":  "https://cdn.example.com/" + identifier + "/original.jpg",
	}, nil
}

func testServer(store RecordStore, media VariantGenerator) *Server {
	return NewServer(store, media, config.DynamoConfig{Tables: map[string]string{
		"products":   "products",
		"banners":    "banners",
		"categories": "category",
	}})
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", "upload.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(image); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestCreateProductCoercesFormFields(t *testing.T) {
	store := newStubStore()
	srv := testServer(store, &stubMedia{})
	e := echo.New()

	req := multipartRequest(t, http.MethodPost, "/products", map[string]string{
		"name":     "Shirt",
		"newPrice": "500",
		"oldPrice": "",
		"quantity": "3",
		"season":   "summer",
		"type":     "casual",
	}, []byte("raw-image-bytes"))
	rec := httptest.NewRecorder()

	if err := srv.createProduct(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["new_price"] != 500.0 {
		t.Fatalf("new_price = %v", body["new_price"])
	}
	if v, present := body["old_price"]; !present || v != nil {
		t.Fatalf("old_price = %v (present=%v), want null", v, present)
	}
	if body["quantity"] != 3.0 {
		t.Fatalf("quantity = %v", body["quantity"])
	}
	image, _ := body["image"].(map[string]interface{})
	if len(image) != 3 {
		t.Fatalf("image = %v, want 3 variant urls", body["image"])
	}
	if _, ok := body["createdAt"].(float64); !ok {
		t.Fatalf("createdAt = %v, want a number", body["createdAt"])
	}
	if store.saveCalls != 1 {
		t.Fatalf("saveCalls = %d", store.saveCalls)
	}
}

func TestCreateProductRequiresImage(t *testing.T) {
	store := newStubStore()
	srv := testServer(store, &stubMedia{})
	e := echo.New()

	req := multipartRequest(t, http.MethodPost, "/products", map[string]string{
		"name": "Shirt", "newPrice": "500", "quantity": "3",
	}, nil)
	rec := httptest.NewRecorder()

	if err := srv.createProduct(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if store.saveCalls != 0 {
		t.Fatalf("record persisted despite missing image")
	}
}

func TestCreateProductBadNumberFailsBeforeWrite(t *testing.T) {
	store := newStubStore()
	media := &stubMedia{}
	srv := testServer(store, media)
	e := echo.New()

	req := multipartRequest(t, http.MethodPost, "/products", map[string]string{
		"name": "Shirt", "newPrice": "abc", "quantity": "3",
	}, []byte("raw"))
	rec := httptest.NewRecorder()

	if err := srv.createProduct(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if store.saveCalls != 0 || len(media.identifiers) != 0 {
		t.Fatalf("writes attempted after failed coercion")
	}
}

func TestCreateProductUploadFailureDoesNotPersist(t *testing.T) {
	store := newStubStore()
	srv := testServer(store, &stubMedia{err: domain.ErrUploadFailed})
	e := echo.New()

	req := multipartRequest(t, http.MethodPost, "/products", map[string]string{
		"name": "Shirt", "newPrice": "500", "quantity": "3",
	}, []byte("raw"))
	rec := httptest.NewRecorder()

	if err := srv.createProduct(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if store.saveCalls != 0 {
		t.Fatalf("record persisted despite failed variant upload")
	}
}

func TestUpdateProductPreservesImageWithoutUpload(t *testing.T) {
	store := newStubStore()
	media := &stubMedia{}
	srv := testServer(store, media)
	e := echo.New()

	existing := domain.Product{
		ID:       "p1",
		Name:     "Shirt",
		NewPrice: 500,
		Quantity: 3,
		Season:   "summer",
		Type:     "casual",
		Image: domain.ImageVariants{
			"thumbnail": "https://cdn.example.com/p1/thumbnail.jpg",
			"medium":    "https://cdn.example.com/p1/medium.jpg",
			"original":  "https://cdn.example.com/p1/original.jpg",
		},
		CreatedAt: 1700000000000,
	}
	store.seed(t, "products", "p1", existing)

	req := multipartRequest(t, http.MethodPut, "/products/p1", map[string]string{
		"quantity": "5",
	}, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := srv.updateProduct(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["quantity"] != 5.0 {
		t.Fatalf("quantity = %v, want 5", body["quantity"])
	}
	image, _ := body["image"].(map[string]interface{})
	if len(image) != 3 || image["thumbnail"] != existing.Image["thumbnail"] {
		t.Fatalf("image not preserved: %v", body["image"])
	}
	if body["createdAt"] != 1700000000000.0 {
		t.Fatalf("createdAt changed: %v", body["createdAt"])
	}
	if _, ok := body["updatedAt"].(float64); !ok {
		t.Fatalf("updatedAt = %v, want a number", body["updatedAt"])
	}
	if len(media.identifiers) != 0 {
		t.Fatalf("variant generation invoked without an upload")
	}

	var saved domain.Product
	if err := store.GetRecord(context.Background(), "products", "", "p1", &saved); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if saved.Quantity != 5 || len(saved.Image) != 3 {
		t.Fatalf("persisted record mismatch: %+v", saved)
	}
}

func TestUpdateProductBadQuantityDoesNotWrite(t *testing.T) {
	store := newStubStore()
	srv := testServer(store, &stubMedia{})
	e := echo.New()

	store.seed(t, "products", "p1", domain.Product{ID: "p1", Quantity: 3})

	req := multipartRequest(t, http.MethodPut, "/products/p1", map[string]string{
		"quantity": "five",
	}, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := srv.updateProduct(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if store.saveCalls != 0 {
		t.Fatalf("partial write after failed coercion")
	}
}

func TestUpdateProductUnknownIdIs404(t *testing.T) {
	srv := testServer(newStubStore(), &stubMedia{})
	e := echo.New()

	req := multipartRequest(t, http.MethodPut, "/products/nope", map[string]string{"quantity": "5"}, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	if err := srv.updateProduct(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCreateBannerDefaultsActive(t *testing.T) {
	store := newStubStore()
	srv := testServer(store, &stubMedia{})
	e := echo.New()

	req := multipartRequest(t, http.MethodPost, "/banners", map[string]string{
		"name": "summer sale",
	}, []byte("raw"))
	rec := httptest.NewRecorder()

	if err := srv.createBanner(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["isActive"] != true {
		t.Fatalf("isActive = %v, want true", body["isActive"])
	}
	if body["name"] != "summer sale" {
		t.Fatalf("name = %v", body["name"])
	}
}

func TestDeleteBannerThenListExcludesIt(t *testing.T) {
	store := newStubStore()
	srv := testServer(store, &stubMedia{})
	e := echo.New()

	store.seed(t, "banners", "b1", domain.Banner{ID: "b1", Name: "gone"})
	store.seed(t, "banners", "b2", domain.Banner{ID: "b2", Name: "stays"})

	req := httptest.NewRequest(http.MethodDelete, "/banners/b1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("b1")
	if err := srv.deleteBanner(c); err != nil {
		t.Fatalf("delete handler: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("delete body not empty: %q", rec.Body.String())
	}

	listReq := httptest.NewRequest(http.MethodGet, "/banners", nil)
	listRec := httptest.NewRecorder()
	if err := srv.listBanners(e.NewContext(listReq, listRec)); err != nil {
		t.Fatalf("list handler: %v", err)
	}
	body := decodeBody(t, listRec)
	banners, _ := body["banners"].([]interface{})
	if len(banners) != 1 {
		t.Fatalf("banners = %v, want only b2", body["banners"])
	}
	first, _ := banners[0].(map[string]interface{})
	if first["id"] != "b2" {
		t.Fatalf("deleted banner still listed: %v", banners)
	}
}

func TestListProductsEmptyIsArray(t *testing.T) {
	srv := testServer(newStubStore(), &stubMedia{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	if err := srv.listProducts(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	body := decodeBody(t, rec)
	products, ok := body["products"].([]interface{})
	if !ok || len(products) != 0 {
		t.Fatalf("products = %v, want empty array", body["products"])
	}
}

func TestUpdateCategoryPriorityAndStatus(t *testing.T) {
	store := newStubStore()
	srv := testServer(store, &stubMedia{})
	e := echo.New()

	store.seed(t, "category", "c1", domain.Category{ID: "c1", Name: "shoes", IsActive: true, CreatedAt: 1700000000000})

	req := multipartRequest(t, http.MethodPut, "/categories/c1", map[string]string{
		"priority": "7",
		"isActive": "false",
	}, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := srv.updateCategory(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	body := decodeBody(t, rec)
	if body["priority"] != 7.0 {
		t.Fatalf("priority = %v, want 7", body["priority"])
	}
	if body["isActive"] != false {
		t.Fatalf("isActive = %v, want false", body["isActive"])
	}
	if body["name"] != "shoes" {
		t.Fatalf("name not preserved: %v", body["name"])
	}
}

func TestFailErrMapsUnknownToServerError(t *testing.T) {
	store := newStubStore()
	store.saveErr = errors.New("dynamo exploded")
	srv := testServer(store, &stubMedia{})
	e := echo.New()

	req := multipartRequest(t, http.MethodPost, "/banners", map[string]string{"name": "x"}, []byte("raw"))
	rec := httptest.NewRecorder()
	if err := srv.createBanner(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["code"] != "STORAGE_ERROR" {
		t.Fatalf("code = %v", body["code"])
	}
}
