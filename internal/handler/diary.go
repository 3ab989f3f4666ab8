// Package handler contains the HTTP handlers of the diary API.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the request (path params, query string, JSON or multipart body)
//  2. Call the service
//  3. Write the response envelope (see response.go)
//
// Handlers hold no business rules. Text length, image type and pagination
// bounds are all enforced by the service and the packages below it.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/mini-diary/internal/apperror"
	"github.com/sakif/mini-diary/internal/blob"
	"github.com/sakif/mini-diary/internal/query"
	"github.com/sakif/mini-diary/internal/service"
)

const (
	// maxJSONBody bounds JSON and url-encoded bodies.
	maxJSONBody = 64 << 10
	// maxMultipartBody leaves room for the text field and multipart framing
	// around a maximum-size image.
	maxMultipartBody = blob.MaxImageSize + 1<<20
	// multipartMemory is how much of a multipart body is kept in memory
	// before spilling to temporary files.
	multipartMemory = 1 << 20
)

// DiaryHandler serves /api/diaries.
type DiaryHandler struct {
	svc    *service.DiaryService
	logger *slog.Logger
	loc    *time.Location // location that startDate/endDate days are read in
}

// NewDiaryHandler creates a DiaryHandler. A nil loc means time.Local.
func NewDiaryHandler(svc *service.DiaryService, logger *slog.Logger, loc *time.Location) *DiaryHandler {
	if loc == nil {
		loc = time.Local
	}
	return &DiaryHandler{svc: svc, logger: logger, loc: loc}
}

// HandleList returns one page of diaries, newest first.
//
// HTTP: GET /api/diaries?page=1&limit=10&search=カフェ&startDate=2025-09-24&endDate=2025-09-28
func (h *DiaryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	params, err := query.ParseValues(r.URL.Query(), h.loc)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.svc.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Success:    true,
		Data:       res.Items,
		Pagination: res.Pagination,
	})
}

// HandleGetByID returns a single diary.
//
// HTTP: GET /api/diaries/{id}
func (h *DiaryHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	diary, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: diary})
}

// HandleCreate stores a new diary.
//
// HTTP: POST /api/diaries
//
// Two body formats are accepted:
//   - multipart/form-data with a "text" field and an optional "image" file
//   - application/json {"text": "..."} (no image)
func (h *DiaryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var (
		text  string
		image *blob.Upload
	)

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeError(w, bodyError(err, "image"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		text = r.FormValue("text")

		file, header, err := r.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			writeError(w, apperror.ValidationFailed("image", "image could not be read"))
			return
		default:
			defer file.Close()
			image = &blob.Upload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			}
		}
	} else {
		var err error
		if text, err = readText(w, r); err != nil {
			writeError(w, err)
			return
		}
	}

	diary, err := h.svc.Create(r.Context(), text, image)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, DataResponse{
		Success: true,
		Data:    diary,
		Message: "diary created",
	})
}

// HandleUpdate replaces a diary's text.
//
// HTTP: PUT /api/diaries/{id}
// REQUEST BODY: {"text": "..."} or a form with a "text" field
func (h *DiaryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	text, err := readText(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	diary, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DataResponse{
		Success: true,
		Data:    diary,
		Message: "diary updated",
	})
}

// HandleDelete removes a diary and its image.
//
// HTTP: DELETE /api/diaries/{id}
func (h *DiaryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "diary deleted"})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readText extracts "text" from a JSON, url-encoded or multipart body.
func readText(w http.ResponseWriter, r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return "", bodyError(err, "body")
		}
		defer r.MultipartForm.RemoveAll()
		return r.FormValue("text"), nil

	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			return "", bodyError(err, "body")
		}
		return r.PostFormValue("text"), nil

	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", bodyError(err, "body")
		}
		return body.Text, nil
	}
}

// bodyError turns a body parsing failure into a validation error. An
// oversized body is reported against field.
func bodyError(err error, field string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.ValidationFailed(field,
			fmt.Sprintf("request body must be at most %d KB", tooLarge.Limit>>10))
	}
	if errors.Is(err, io.EOF) {
		return apperror.ValidationFailed("body", "request body is empty")
	}
	return apperror.ValidationFailed("body", "request body is malformed")
}
