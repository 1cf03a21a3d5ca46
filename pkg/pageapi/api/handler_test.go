package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binweave/pageapi/pkg/pageapi"
	"github.com/binweave/pageapi/pkg/pageapi/auth"
	"github.com/binweave/pageapi/pkg/pageapi/storage/memory"
)

// setupHandlerTest creates a Handler over an in-memory store.
func setupHandlerTest(t *testing.T, config Config) (*Handler, pageapi.Service) {
	t.Helper()
	service, err := pageapi.New(pageapi.WithStore(memory.New()))
	require.NoError(t, err)
	handler := NewHandler(service, auth.New("s3cret"), config)
	return handler, service
}

func postJSON(t *testing.T, h *Handler, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func gifDataURI() string {
	gif := []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff")
	return "data:image/gif;base64," + base64.StdEncoding.EncodeToString(gif)
}

func TestCreateArticle_Success(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{AllowImageUpload: true})

	w := postJSON(t, h, "/create-article", map[string]any{
		"folder": "blog", "filename": "a.md", "content": "Hello", "title": "Hi",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestCreateArticle_MissingTitle(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{})

	w := postJSON(t, h, "/create-article", map[string]any{
		"folder": "blog", "content": "no title",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing folder or title", decodeBody(t, w)["error"])
}

func TestCreateArticle_Conflict(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{})

	body := map[string]any{"folder": "blog", "filename": "a.md", "content": "x", "title": "T"}
	w := postJSON(t, h, "/create-article", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, h, "/create-article", body, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "article file already exists", decodeBody(t, w)["error"])
}

func TestCreateArticle_MalformedJSON(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/create-article", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateArticle_TraversalRejected(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{})

	w := postJSON(t, h, "/create-article", map[string]any{
		"folder": "../../etc", "filename": "passwd", "content": "x", "title": "T",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateArticle_Success(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{})

	w := postJSON(t, h, "/create-article", map[string]any{
		"folder": "blog", "filename": "a.md", "content": "Hello", "title": "Hi",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, h, "/update-article", map[string]any{
		"folder": "blog", "filename": "a.md", "title": "New",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])
}

func TestUpdateArticle_NotFound(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{})

	w := postJSON(t, h, "/update-article", map[string]any{
		"folder": "blog", "filename": "missing.md", "title": "New",
	}, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "article file does not exist", decodeBody(t, w)["error"])
}

func TestUpdateArticle_NoFields(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{})

	w := postJSON(t, h, "/update-article", map[string]any{"folder": "blog"}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no content or title provided to update", decodeBody(t, w)["error"])
}

func TestUploadImage_Success(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{AllowImageUpload: true})

	w := postJSON(t, h, "/upload-image", map[string]any{
		"folder": "blog", "image": gifDataURI(), "filename": "pic.gif",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "/pages/blog/pic.gif", body["url"])
}

func TestUploadImage_Disabled(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{AllowImageUpload: false})

	w := postJSON(t, h, "/upload-image", map[string]any{
		"folder": "blog", "image": gifDataURI(), "filename": "pic.gif",
	}, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "image upload is disabled", decodeBody(t, w)["error"])
}

func TestUploadImage_UnsupportedType(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{AllowImageUpload: true})

	pdf := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 not an image"))
	w := postJSON(t, h, "/upload-image", map[string]any{
		"folder": "blog", "image": pdf, "filename": "doc.png",
	}, nil)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestUploadImage_Conflict(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{AllowImageUpload: true})

	body := map[string]any{"folder": "blog", "image": gifDataURI(), "filename": "pic.gif"}
	w := postJSON(t, h, "/upload-image", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, h, "/upload-image", body, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuth_RequiredWithoutCredentials(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{RequireAuth: true})

	w := postJSON(t, h, "/create-article", map[string]any{
		"folder": "blog", "content": "x", "title": "T",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authentication required", decodeBody(t, w)["error"])
}

func TestAuth_BearerToken(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{RequireAuth: true})

	w := postJSON(t, h, "/create-article", map[string]any{
		"folder": "blog", "filename": "a.md", "content": "x", "title": "T",
	}, map[string]string{"Authorization": "Bearer s3cret"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_WrongBearerToken(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{RequireAuth: true})

	w := postJSON(t, h, "/create-article", map[string]any{
		"folder": "blog", "content": "x", "title": "T",
	}, map[string]string{"Authorization": "Bearer wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_SessionFlag(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{RequireAuth: true})

	payload, err := json.Marshal(map[string]any{
		"folder": "blog", "filename": "a.md", "content": "x", "title": "T",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/create-article", bytes.NewReader(payload))
	req = req.WithContext(auth.WithSession(req.Context(), true))
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_DisabledAllowsAnonymous(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{RequireAuth: false})

	w := postJSON(t, h, "/create-article", map[string]any{
		"folder": "blog", "filename": "a.md", "content": "x", "title": "T",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := setupHandlerTest(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/create-article", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
