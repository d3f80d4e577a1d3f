package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mycv/cvgen/internal/aggregation"
	"github.com/mycv/cvgen/internal/compiler"
	"github.com/mycv/cvgen/internal/rendering"
	"github.com/mycv/cvgen/internal/selection"
	"github.com/mycv/cvgen/internal/styles"
	"github.com/mycv/cvgen/internal/types"
	"golang.org/x/text/language"
)

// ProfileSource loads the profile of an owner.
// It returns types.ErrProfileNotFound or types.ErrProfileIncomplete for the respective cases.
type ProfileSource interface {
	LoadProfile(ctx context.Context, ownerID uuid.UUID) (*types.ProfileSnapshot, error)
}

// PictureSource fetches the profile picture of an owner.
// It returns types.ErrPictureNotFound when there is none and types.ErrPictureAccessDenied
// when the profile does not belong to ownerID.
type PictureSource interface {
	FetchPicture(ctx context.Context, ownerID uuid.UUID, profile *types.ProfileSnapshot) ([]byte, error)
}

// DocumentCompiler compiles source inside workDir into output and returns the output bytes.
type DocumentCompiler interface {
	Compile(ctx context.Context, workDir, source, output string) ([]byte, error)
}

// Translator resolves locales and localized labels.
type Translator interface {
	aggregation.Translator
	Resolve(tag language.Tag) language.Tag
}

// Deps are the collaborators of a Generator. Pictures may be nil.
type Deps struct {
	Styles     *styles.Registry
	Profiles   ProfileSource
	Pictures   PictureSource
	Workspace  *rendering.Workspace
	Compiler   DocumentCompiler
	Translator Translator
	// WorkRoot is the parent of the per-call working directories; empty uses os.TempDir().
	WorkRoot string
	Logger   *slog.Logger
}

// Generator turns generation requests into compiled CVs.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	deps   Deps
	logger *slog.Logger
}

// New creates a Generator.
func New(deps Deps) *Generator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{deps: deps, logger: logger.With("component", "generator")}
}

// Styles returns the style catalog the generator validates against.
func (g *Generator) Styles() *styles.Registry {
	return g.deps.Styles
}

// Generate runs the pipeline for req. Every error it returns implements SafeError.
func (g *Generator) Generate(ctx context.Context, req types.GenerationRequest) (doc *types.CompiledDocument, err error) {
	start := time.Now()
	logger := g.logger.With("owner_id", req.OwnerID.String(), "style", req.StyleKey)

	defer func() {
		if err != nil {
			logger.Warn("cv generation failed", "error", err, "duration", time.Since(start))
			return
		}
		logger.Info("cv generated", "bytes", len(doc.Content), "duration", time.Since(start))
	}()

	style, ok := g.deps.Styles.Lookup(req.StyleKey)
	if !ok {
		return nil, &RequestError{
			Message: fmt.Sprintf("unknown style %q", req.StyleKey),
			Fields:  []FieldError{{Field: "style", Message: "unknown style", MessageKey: "cv.styleNotFound"}},
			key:     "cv.styleNotFound",
		}
	}

	options, err := styles.Validate(style, req.TemplateOptions)
	if err != nil {
		return nil, optionsError(err)
	}

	profile, err := g.loadProfile(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	picture, err := g.fetchPicture(ctx, req.OwnerID, profile)
	if err != nil {
		return nil, err
	}

	selected := selection.Apply(profile, req)
	if selected.Empty() && req.FullyFiltered() {
		return nil, &RequestError{
			Message: "no CV entries selected",
			Fields:  []FieldError{{Field: "content", Message: "no CV entries selected", MessageKey: "cv.noCvEntries"}},
			key:     "cv.noCvEntries",
		}
	}

	locale := g.resolveLocale(req.Locale, profile.Account)
	input := aggregation.Input{
		Locale:          locale,
		Profile:         profile,
		Selected:        selected,
		TemplateOptions: options,
	}
	if picture != nil {
		input.Picture = picture.Name
	}
	model := aggregation.Aggregate(g.deps.Translator, input)

	content, err := g.compile(ctx, logger, req.OwnerID, style, model, picture)
	if err != nil {
		return nil, err
	}

	return &types.CompiledDocument{
		Content:   content,
		FileName:  OutputFileName(req.OwnerID, style),
		MediaType: style.MediaType(),
	}, nil
}

// OutputFileName is the deterministic name of the compiled document.
func OutputFileName(ownerID uuid.UUID, style styles.Style) string {
	return fmt.Sprintf("cv_%s.%s", ownerID, style.OutputExtension())
}

// compile owns the working directory: it is removed on every path out of this function.
func (g *Generator) compile(
	ctx context.Context,
	logger *slog.Logger,
	ownerID uuid.UUID,
	style styles.Style,
	model *types.DocumentModel,
	picture *rendering.PictureFile,
) (content []byte, err error) {
	dir, err := os.MkdirTemp(g.deps.WorkRoot, fmt.Sprintf("cv_%s-*", ownerID))
	if err != nil {
		return nil, &ResourceError{Op: "create working directory", Cause: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Error("failed to remove working directory", "dir", dir, "error", rmErr)
			if err == nil {
				content, err = nil, &ResourceError{Op: "remove working directory", Cause: rmErr}
			}
		}
	}()

	source, err := g.deps.Workspace.Prepare(dir, style, model, picture)
	if err != nil {
		return nil, &ResourceError{Op: "prepare working directory", Cause: err}
	}

	content, err = g.deps.Compiler.Compile(ctx, dir, source, OutputFileName(ownerID, style))
	if err != nil {
		return nil, compileError(err)
	}
	return content, nil
}

func (g *Generator) loadProfile(ctx context.Context, ownerID uuid.UUID) (*types.ProfileSnapshot, error) {
	profile, err := g.deps.Profiles.LoadProfile(ctx, ownerID)
	switch {
	case errors.Is(err, types.ErrProfileNotFound):
		return nil, &ProfileError{Reason: ProfileNotFound, Cause: err}
	case errors.Is(err, types.ErrProfileIncomplete):
		return nil, &ProfileError{Reason: ProfileIncomplete, Cause: err}
	case err != nil:
		return nil, &ResourceError{Op: "load profile", Cause: err}
	case profile == nil:
		return nil, &ProfileError{Reason: ProfileNotFound}
	}

	if profile.Account == nil {
		return nil, &ProfileError{Reason: ProfileIncomplete, Fields: []string{"account"}}
	}
	if err := profile.Account.Validate(); err != nil {
		return nil, &ProfileError{Reason: ProfileIncomplete, Fields: missingFields(err), Cause: types.ErrProfileIncomplete}
	}
	return profile, nil
}

func (g *Generator) fetchPicture(ctx context.Context, ownerID uuid.UUID, profile *types.ProfileSnapshot) (*rendering.PictureFile, error) {
	if g.deps.Pictures == nil {
		return nil, nil
	}

	data, err := g.deps.Pictures.FetchPicture(ctx, ownerID, profile)
	switch {
	case errors.Is(err, types.ErrPictureNotFound):
		return nil, nil
	case errors.Is(err, types.ErrPictureAccessDenied):
		return nil, &ProfileError{Reason: ProfileAccessDenied, Cause: err}
	case err != nil:
		return nil, &ResourceError{Op: "fetch picture", Cause: err}
	}

	detected := mimetype.Detect(data)
	switch {
	case detected.Is("image/png"):
		return &rendering.PictureFile{Name: "profile.png", Data: data}, nil
	case detected.Is("image/jpeg"):
		return &rendering.PictureFile{Name: "profile.jpg", Data: data}, nil
	default:
		return nil, &ResourceError{Op: "fetch picture", Cause: fmt.Errorf("unsupported picture type %s", detected.String())}
	}
}

// resolveLocale prefers the request locale, then the account language, then the catalog default.
func (g *Generator) resolveLocale(requested language.Tag, account *types.AccountDetails) language.Tag {
	tag := requested
	if tag == language.Und && account != nil && account.Language != "" {
		if parsed, err := language.Parse(account.Language); err == nil {
			tag = parsed
		}
	}
	if tag == language.Und {
		tag = language.English
	}
	return g.deps.Translator.Resolve(tag)
}

func optionsError(err error) error {
	var validationErr *styles.ValidationError
	if !errors.As(err, &validationErr) {
		return &RequestError{Message: "invalid template options", Cause: err, key: "cv.templateOptions.invalid"}
	}

	fields := make([]FieldError, 0, len(validationErr.Errors))
	for _, fe := range validationErr.Errors {
		fields = append(fields, FieldError{
			Field:      fe.Field,
			Message:    fe.Message,
			MessageKey: "cv.templateOptions." + string(fe.Problem),
		})
	}
	return &RequestError{
		Message: "invalid template options",
		Fields:  fields,
		Cause:   err,
		key:     "cv.templateOptions.invalid",
	}
}

func compileError(err error) error {
	var compileErr *compiler.CompilationError
	var timeoutErr *compiler.TimeoutError
	switch {
	case errors.As(err, &timeoutErr):
		return &TimeoutError{Cause: err}
	case errors.As(err, &compileErr):
		return &CompilationError{Cause: err}
	default:
		return &ResourceError{Op: "compile document", Cause: err}
	}
}

func missingFields(err error) []string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}
	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fe.Field())
	}
	return fields
}
