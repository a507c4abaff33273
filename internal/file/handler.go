package file

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/megamax/service/internal/response"
)

// Handler holds HTTP handlers for upload coordination endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new file Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type uploadURLRequest struct {
	Filename    string  `json:"filename"    example:"report.pdf"`
	ContentType *string `json:"contentType,omitempty" example:"application/pdf"`
	Size        int64   `json:"size,omitempty"        example:"102400"`
	UserID      string  `json:"userId,omitempty"      example:"user-42"`
}

type uploadURLResponse struct {
	UploadID int64             `json:"uploadId" example:"17"`
	Key      string            `json:"key"      example:"uploads/user-42/1730000000000_9f86d081_report.pdf"`
	URL      string            `json:"url"      example:"https://storage.example.com/uploads"`
	Fields   map[string]string `json:"fields"`
}

type confirmUploadRequest struct {
	UploadID int64 `json:"uploadId" example:"17"`
	Size     int64 `json:"size,omitempty" example:"102400"`
}

// CreateUploadURL godoc
//
//	@Summary		Request an upload grant
//	@Description	Registers an upload intent and returns a presigned POST the client uses to write the file straight to object storage. The metadata row is created immediately with the declared size; call confirm-upload once the transfer finishes.
//	@Tags			files
//	@Accept			json
//	@Produce		json
//	@Param			request	body		uploadURLRequest	true	"Upload intent"
//	@Success		200		{object}	uploadURLResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/upload-url [post]
func (h *Handler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	intent, err := h.svc.BeginUpload(r.Context(), req.UserID, req.Filename, req.ContentType, req.Size)
	if err != nil {
		if errors.Is(err, ErrFilenameRequired) {
			response.BadRequest(w, "filename required")
			return
		}
		log.Printf("upload-url error: %v", err)
		response.ServerError(w)
		return
	}

	response.JSON(w, http.StatusOK, uploadURLResponse{
		UploadID: intent.FileID,
		Key:      intent.Key,
		URL:      intent.Grant.URL,
		Fields:   intent.Grant.Fields,
	})
}

// ConfirmUpload godoc
//
//	@Summary		Confirm a finished upload
//	@Description	Reconciles the client-reported byte count into the metadata row. Idempotent; the reported size is trusted as-is.
//	@Tags			files
//	@Accept			json
//	@Produce		json
//	@Param			request	body		confirmUploadRequest	true	"Completion report"
//	@Success		200		{object}	map[string]bool
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/confirm-upload [post]
func (h *Handler) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	var req confirmUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.UploadID == 0 {
		response.BadRequest(w, "uploadId required")
		return
	}

	if err := h.svc.ConfirmUpload(r.Context(), req.UploadID, req.Size); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "file not found")
			return
		}
		log.Printf("confirm-upload error: %v", err)
		response.ServerError(w)
		return
	}

	response.OK(w)
}

// ListFiles godoc
//
//	@Summary		List file metadata
//	@Description	Returns the newest records first, capped at 200. Unconfirmed uploads appear with their declared (possibly zero) size.
//	@Tags			files
//	@Produce		json
//	@Success		200	{array}		Record
//	@Failure		500	{object}	map[string]string
//	@Router			/files [get]
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		log.Printf("files list error: %v", err)
		response.ServerError(w)
		return
	}
	response.JSON(w, http.StatusOK, records)
}

// DeleteFile godoc
//
//	@Summary		Delete file metadata
//	@Description	Removes the metadata row only; the stored object is left untouched. Deleting an unknown id still succeeds.
//	@Tags			files
//	@Produce		json
//	@Param			id	path		int	true	"File id"
//	@Success		200	{object}	map[string]bool
//	@Failure		400	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Router			/files/{id} [delete]
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid file id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		log.Printf("delete file error: %v", err)
		response.ServerError(w)
		return
	}

	response.OK(w)
}
