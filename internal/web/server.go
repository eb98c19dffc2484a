// Package web serves the studio page and its JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mhpenta/imagestudio"
	"github.com/mhpenta/imagestudio/internal/log"
)

// Server exposes one Session over HTTP. Uploads are limited to the
// session's MaxImageBytes per image.
type Server struct {
	session *imagestudio.Session
	logger  *slog.Logger

	// parent of background generations; cancelled on shutdown
	baseCtx context.Context
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the base logger for request logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithBaseContext sets the context background generations run under.
func WithBaseContext(ctx context.Context) Option {
	return func(s *Server) {
		s.baseCtx = ctx
	}
}

// New returns a Server for session.
func New(session *imagestudio.Session, opts ...Option) *Server {
	s := &Server{
		session: session,
		logger:  slog.Default(),
		baseCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler for the studio.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(
		RequestID,
		middleware.RealIP,
		Logger(s.logger),
		middleware.Recoverer,
	)

	r.Get("/healthz", s.health)

	r.Get("/", s.page)
	r.Post("/select", s.selectTask)
	r.Post("/generate", s.generate)
	r.Post("/images/{slot}/clear", s.clearImage)
	r.Post("/edit-current", s.editCurrent)
	r.Post("/new", s.newImage)
	r.Get("/download", s.download)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate", s.apiGenerate)
		r.Get("/outcome", s.apiOutcome)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// backgroundContext detaches a generation from the request while keeping
// the request's logger, which the studio logs through.
func (s *Server) backgroundContext(r *http.Request) context.Context {
	return log.NewContext(s.baseCtx, log.FromContextOrDiscard(r.Context()))
}

// parseForm reads a multipart or urlencoded body within the upload limit.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	maxBytes := s.session.MaxImageBytes()

	// Two images plus the text fields.
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxBytes+(1<<20))

	err := r.ParseMultipartForm(maxBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("reading form: %w", err)
	}
	return nil
}

// formImage reads the uploaded file in field, if any.
func (s *Server) formImage(r *http.Request, field string) (*imagestudio.InputImage, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s image: %w", field, err)
	}
	return readUpload(file, header, s.session.MaxImageBytes())
}

func readUpload(file multipart.File, header *multipart.FileHeader, maxBytes int64) (*imagestudio.InputImage, error) {
	img, err := imagestudio.ReadImage(file, header.Header.Get("Content-Type"), header.Filename, maxBytes)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// applyImages stores any uploaded images in their slots.
func (s *Server) applyImages(r *http.Request) error {
	for _, slot := range []imagestudio.Slot{imagestudio.SlotPrimary, imagestudio.SlotSecondary} {
		img, err := s.formImage(r, string(slot))
		if err != nil {
			return err
		}
		if img == nil {
			continue
		}
		if err := s.session.SetImage(slot, *img); err != nil {
			return err
		}
	}
	return nil
}

// applySelection applies the prompt and whichever mode or variant was sent.
func (s *Server) applySelection(r *http.Request) error {
	if _, ok := r.Form["prompt"]; ok {
		s.session.SetPrompt(r.FormValue("prompt"))
	}

	if v := r.FormValue("mode"); v != "" {
		mode, err := imagestudio.ParseMode(v)
		if err != nil {
			return err
		}
		s.session.SetMode(mode)
	}
	if v := r.FormValue("create_variant"); v != "" {
		variant, err := imagestudio.ParseCreateVariant(v)
		if err != nil {
			return err
		}
		s.session.SetCreateVariant(variant)
	}
	if v := r.FormValue("edit_variant"); v != "" {
		variant, err := imagestudio.ParseEditVariant(v)
		if err != nil {
			return err
		}
		s.session.SetEditVariant(variant)
	}
	return nil
}
