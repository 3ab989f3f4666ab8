package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/mini-diary/internal/apperror"
	"github.com/sakif/mini-diary/internal/richtext"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PreviewRequest asks the server to render text the way the editor would
// before saving it.
type PreviewRequest struct {
	Text       string              `json:"text" validate:"max=4000"`
	Decoration richtext.Decoration `json:"decoration"`
	Markdown   bool                `json:"markdown"`
	Shortcodes bool                `json:"shortcodes"`
}

// previewLimits bounds the free-form style values, which end up inside a
// style attribute.
type previewLimits struct {
	Color    string `validate:"omitempty,max=32,excludesall=<>\"';"`
	FontSize string `validate:"omitempty,max=16,excludesall=<>\"';"`
}

// Preview is the rendered text and everything the editor shows about it.
type Preview struct {
	Text           string         `json:"text"`
	Stats          richtext.Stats `json:"stats"`
	MaxLength      int            `json:"maxLength"`
	Valid          bool           `json:"valid"`
	DecoratedValid bool           `json:"decoratedValid"`
}

// TextHandler exposes the text model to the editor.
type TextHandler struct{}

func NewTextHandler() *TextHandler {
	return &TextHandler{}
}

// HandlePreview renders text without storing anything.
//
// HTTP: POST /api/text/preview
// REQUEST BODY: {"text": "**hi** :smile:", "markdown": true, "shortcodes": true, "decoration": {"bold": true}}
//
// Transform order: shortcodes, then markdown, then decoration. Valid applies
// the same rule the create endpoint enforces (raw length, markup included);
// DecoratedValid counts only visible characters.
func (h *TextHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, bodyError(err, "body"))
		return
	}
	if err := validatePreview(req); err != nil {
		writeError(w, err)
		return
	}

	text := req.Text
	if req.Shortcodes {
		text = richtext.ExpandShortcodes(text)
	}
	if req.Markdown {
		text = richtext.ParseMarkdown(text)
	}
	text = richtext.Apply(text, req.Decoration)

	writeJSON(w, http.StatusOK, DataResponse{
		Success: true,
		Data: Preview{
			Text:           text,
			Stats:          richtext.Analyze(text),
			MaxLength:      richtext.MaxLength,
			Valid:          richtext.IsValid(text),
			DecoratedValid: richtext.IsDecoratedValid(text, richtext.MaxLength),
		},
	})
}

// HandleShortcodes returns the :shortcode: table for the emoji picker.
//
// HTTP: GET /api/text/shortcodes
func (h *TextHandler) HandleShortcodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: richtext.Shortcodes()})
}

func validatePreview(req PreviewRequest) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err, "")
	}
	limits := previewLimits{Color: req.Decoration.Color, FontSize: req.Decoration.FontSize}
	if err := validate.Struct(limits); err != nil {
		return formatValidationError(err, "decoration.")
	}
	return nil
}

// formatValidationError reports the first failing field as an
// apperror.ValidationFailed. prefix is prepended to the field name.
func formatValidationError(err error, prefix string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.ValidationFailed("body", "request body is invalid")
	}

	e := verrs[0]
	field := prefix + lowerFirst(e.Field())

	var msg string
	switch e.Tag() {
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "excludesall":
		msg = fmt.Sprintf("%s contains characters that are not allowed", field)
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return apperror.ValidationFailed(field, msg)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
