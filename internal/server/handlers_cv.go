package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mycv/cvgen/internal/generator"
	"github.com/mycv/cvgen/internal/server/middleware"
	"github.com/mycv/cvgen/internal/styles"
	"github.com/mycv/cvgen/internal/types"
)

// maxRequestBody bounds the generation request body.
const maxRequestBody = 1 << 20

var validate = newValidator()

var errTrailingData = errors.New("unexpected data after JSON value")

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// inclusionDTO is one entry of an inclusion list. IncludeDescription defaults to true.
type inclusionDTO struct {
	ID                 int64 `json:"id" validate:"gt=0"`
	IncludeDescription *bool `json:"includeDescription"`
}

// generateRequestDTO is the body of POST /api/cv/generate.
// An absent or null list keeps every entry of that category; an empty list keeps none.
type generateRequestDTO struct {
	IncludedWorkExperience []inclusionDTO    `json:"includedWorkExperience" validate:"dive"`
	IncludedEducation      []inclusionDTO    `json:"includedEducation" validate:"dive"`
	IncludedProjects       []inclusionDTO    `json:"includedProjects" validate:"dive"`
	IncludedSkills         []inclusionDTO    `json:"includedSkills" validate:"dive"`
	TemplateOptions        map[string]string `json:"templateOptions"`
}

func (d inclusionDTO) spec() types.InclusionSpec {
	include := true
	if d.IncludeDescription != nil {
		include = *d.IncludeDescription
	}
	return types.InclusionSpec{ID: types.ItemID(d.ID), IncludeDescription: include}
}

func inclusion(list []inclusionDTO) types.Inclusion {
	if list == nil {
		return types.Unfiltered()
	}
	specs := make([]types.InclusionSpec, 0, len(list))
	for _, d := range list {
		specs = append(specs, d.spec())
	}
	return types.Filtered(specs...)
}

// handleGenerate compiles a CV for the authenticated owner and streams it as an attachment.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ownerID, err := middleware.OwnerID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	style := r.URL.Query().Get("style")
	if style == "" {
		s.errorResponse(w, r, &generator.RequestError{
			Message: "style is required",
			Fields:  []generator.FieldError{{Field: "style", Message: "required"}},
		})
		return
	}

	dto, err := decodeGenerateRequest(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	doc, err := s.generator.Generate(r.Context(), types.GenerationRequest{
		OwnerID:         ownerID,
		StyleKey:        style,
		Locale:          s.acceptLanguage(r),
		WorkExperience:  inclusion(dto.IncludedWorkExperience),
		Education:       inclusion(dto.IncludedEducation),
		Projects:        inclusion(dto.IncludedProjects),
		Skills:          inclusion(dto.IncludedSkills),
		TemplateOptions: dto.TemplateOptions,
	})
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", doc.MediaType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	h.Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Content); err != nil {
		s.logger.Warn("failed to write document", "owner_id", ownerID.String(), "error", err)
	}
}

// decodeGenerateRequest reads and validates the body. An empty body selects everything.
// Anything after the first JSON value is rejected.
func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (*generateRequestDTO, error) {
	var dto generateRequestDTO
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	err := dec.Decode(&dto)
	if errors.Is(err, io.EOF) {
		return &dto, nil
	}
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errTrailingData
		}
	}
	if err != nil {
		return nil, &generator.RequestError{
			Message: "malformed request body",
			Fields:  []generator.FieldError{{Field: "body", Message: "malformed JSON", MessageKey: "cv.malformedBody"}},
			Cause:   err,
		}
	}

	if err := validate.Struct(dto); err != nil {
		return nil, bodyValidationError(err)
	}
	return &dto, nil
}

func bodyValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &generator.RequestError{Message: "invalid request body", Cause: err}
	}
	fields := make([]generator.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		fields = append(fields, generator.FieldError{Field: field, Message: fmt.Sprintf("failed %q validation", fe.ActualTag())})
	}
	return &generator.RequestError{Message: "invalid request body", Fields: fields, Cause: err}
}

type optionResponse struct {
	Key     string            `json:"key"`
	Name    string            `json:"name"`
	Type    styles.OptionType `json:"type"`
	Default string            `json:"default"`
}

type styleResponse struct {
	Key         string           `json:"key"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Options     []optionResponse `json:"options"`
}

// handleListStyles returns the style catalog in the language of Accept-Language.
func (s *Server) handleListStyles(w http.ResponseWriter, r *http.Request) {
	tag := s.localizer.Match(r.Header.Get("Accept-Language"))

	catalog := s.generator.Styles().Styles()
	out := make([]styleResponse, 0, len(catalog))
	for _, st := range catalog {
		options := make([]optionResponse, 0, len(st.Options))
		for _, o := range st.Options {
			options = append(options, optionResponse{
				Key:     o.Key,
				Name:    s.localizer.Translate(tag, o.NameKey),
				Type:    o.Type,
				Default: o.Default,
			})
		}
		out = append(out, styleResponse{
			Key:         st.Key,
			Name:        s.localizer.Translate(tag, st.NameKey),
			Description: s.localizer.Translate(tag, st.DescriptionKey),
			Options:     options,
		})
	}

	w.Header().Set("Content-Language", tag.String())
	s.jsonResponse(w, http.StatusOK, out)
}
