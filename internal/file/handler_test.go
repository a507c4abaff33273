package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Post("/upload-url", h.CreateUploadURL)
	r.Post("/confirm-upload", h.ConfirmUpload)
	r.Get("/files", h.ListFiles)
	r.Delete("/files/{id}", h.DeleteFile)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCreateUploadURLMissingFilename(t *testing.T) {
	svc, _, _, issuer := newTestService()
	router := newTestRouter(svc)

	rr := doJSON(t, router, http.MethodPost, "/upload-url", map[string]any{"userId": "u1"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"filename required"}`, rr.Body.String())
	assert.Equal(t, 0, issuer.callCount())
}

func TestCreateUploadURLInvalidBody(t *testing.T) {
	svc, _, _, _ := newTestService()
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/upload-url", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateUploadURLSuccess(t *testing.T) {
	svc, _, _, _ := newTestService()
	router := newTestRouter(svc)

	rr := doJSON(t, router, http.MethodPost, "/upload-url", map[string]any{
		"filename":    "a.txt",
		"contentType": "text/plain",
		"size":        100,
		"userId":      "u1",
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var out struct {
		UploadID int64             `json:"uploadId"`
		Key      string            `json:"key"`
		URL      string            `json:"url"`
		Fields   map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.NotZero(t, out.UploadID)
	assert.Contains(t, out.Key, "uploads/u1/")
	assert.NotEmpty(t, out.URL)
	assert.Equal(t, out.Key, out.Fields["key"])
}

func TestCreateUploadURLBackendFailure(t *testing.T) {
	svc, _, _, issuer := newTestService()
	issuer.err = fmt.Errorf("presign refused")
	router := newTestRouter(svc)

	rr := doJSON(t, router, http.MethodPost, "/upload-url", map[string]any{"filename": "a.txt"})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"server error"}`, rr.Body.String())
}

func TestConfirmUploadFlow(t *testing.T) {
	svc, repo, _, _ := newTestService()
	router := newTestRouter(svc)

	intent, err := svc.BeginUpload(context.Background(), "u1", "a.txt", nil, 0)
	require.NoError(t, err)

	rr := doJSON(t, router, http.MethodPost, "/confirm-upload", map[string]any{
		"uploadId": intent.FileID,
		"size":     100,
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	assert.Equal(t, int64(100), repo.records[intent.FileID].Size)
}

func TestConfirmUploadMissingID(t *testing.T) {
	svc, _, _, _ := newTestService()
	router := newTestRouter(svc)

	rr := doJSON(t, router, http.MethodPost, "/confirm-upload", map[string]any{"size": 100})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"uploadId required"}`, rr.Body.String())
}

func TestConfirmUploadUnknownUpload(t *testing.T) {
	svc, _, _, _ := newTestService()
	router := newTestRouter(svc)

	rr := doJSON(t, router, http.MethodPost, "/confirm-upload", map[string]any{"uploadId": 9999})

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"file not found"}`, rr.Body.String())
}

func TestListFilesWireFormat(t *testing.T) {
	svc, repo, _, _ := newTestService()
	router := newTestRouter(svc)

	created := time.Now()
	repo.nextID = 1
	repo.records[1] = &Record{
		ID: 1, UserID: "u1", Name: "a.txt", Key: "uploads/u1/1_x_a.txt", Size: 5, CreatedAt: created,
	}

	rr := doJSON(t, router, http.MethodGet, "/files", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 1)
	for _, field := range []string{"id", "user_id", "name", "key", "size", "created_at"} {
		assert.Contains(t, out[0], field)
	}
}

func TestListFilesEmptyIsArray(t *testing.T) {
	svc, _, _, _ := newTestService()
	router := newTestRouter(svc)

	rr := doJSON(t, router, http.MethodGet, "/files", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListFilesCap(t *testing.T) {
	svc, repo, _, _ := newTestService()
	router := newTestRouter(svc)

	base := time.Now()
	for i := 0; i < 500; i++ {
		repo.nextID++
		repo.records[repo.nextID] = &Record{
			ID: repo.nextID, UserID: "u1", Name: "f", Key: fmt.Sprintf("k%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
	}

	rr := doJSON(t, router, http.MethodGet, "/files", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var out []Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out, 200)
}

func TestDeleteFileIdempotent(t *testing.T) {
	svc, _, _, _ := newTestService()
	router := newTestRouter(svc)

	intent, err := svc.BeginUpload(context.Background(), "u1", "a.txt", nil, 0)
	require.NoError(t, err)

	path := fmt.Sprintf("/files/%d", intent.FileID)
	for i := 0; i < 2; i++ {
		rr := doJSON(t, router, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	}

	rr := doJSON(t, router, http.MethodGet, "/files", nil)
	var out []Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Empty(t, out)
}

func TestDeleteFileInvalidID(t *testing.T) {
	svc, _, _, _ := newTestService()
	router := newTestRouter(svc)

	rr := doJSON(t, router, http.MethodDelete, "/files/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"invalid file id"}`, rr.Body.String())
}
