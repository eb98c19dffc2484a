package web

import (
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/mhpenta/imagestudio"
	"github.com/mhpenta/imagestudio/internal/log"
)

//go:embed templates/index.html
var indexTmpl string

var pageTemplate = template.Must(template.New("index").Parse(indexTmpl))

type variantCard struct {
	Value  string
	Label  string
	Icon   string
	Active bool
}

type pageData struct {
	Prompt   string
	EditMode bool
	Busy     bool

	CreateVariants []variantCard
	EditVariants   []variantCard

	ShowCreateVariants bool
	ShowEditVariants   bool
	ShowSingleUpload   bool
	ShowDualUpload     bool

	Primary   template.URL
	Secondary template.URL

	State  imagestudio.State
	Result template.URL
	Error  string
	Notice string
}

func newPageData(view imagestudio.View, notice string) pageData {
	in := view.Intent
	req := view.Requirements

	data := pageData{
		Prompt:   in.Prompt,
		EditMode: in.Mode == imagestudio.ModeEdit,
		Busy:     view.Busy(),
		CreateVariants: lo.Map(imagestudio.CreateVariants(), func(v imagestudio.CreateVariant, _ int) variantCard {
			return variantCard{Value: string(v), Label: v.Label(), Icon: v.Icon(), Active: v == in.CreateVariant}
		}),
		EditVariants: lo.Map(imagestudio.EditVariants(), func(v imagestudio.EditVariant, _ int) variantCard {
			return variantCard{Value: string(v), Label: v.Label(), Icon: v.Icon(), Active: v == in.EditVariant}
		}),
		ShowCreateVariants: req.Shows(imagestudio.SectionCreateVariants),
		ShowEditVariants:   req.Shows(imagestudio.SectionEditVariants),
		ShowSingleUpload:   req.Shows(imagestudio.SectionSingleUpload),
		ShowDualUpload:     req.Shows(imagestudio.SectionDualUpload),
		State:              view.Outcome.State,
		Notice:             notice,
	}

	// html/template rewrites data: URLs unless typed as template.URL.
	if in.Primary != nil {
		data.Primary = template.URL(in.Primary.DataURI())
	}
	if in.Secondary != nil {
		data.Secondary = template.URL(in.Secondary.DataURI())
	}
	switch view.Outcome.State {
	case imagestudio.StateSucceeded:
		data.Result = template.URL(view.Outcome.ImageDataURI)
	case imagestudio.StateFailed:
		data.Error = view.Outcome.Message
	}
	return data
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "")
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, notice string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := pageTemplate.Execute(w, newPageData(s.session.View(), notice)); err != nil {
		log.FromContextOrDiscard(r.Context()).Error("rendering page", "error", err.Error())
	}
}

func (s *Server) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// fail re-renders the page with notice and the status matching err.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.render(w, r, statusFor(err), err.Error())
}

func (s *Server) selectTask(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.applyImages(r); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.applySelection(r); err != nil {
		s.fail(w, r, err)
		return
	}
	s.redirectHome(w, r)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.applyImages(r); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.applySelection(r); err != nil {
		s.fail(w, r, err)
		return
	}

	if _, err := s.session.Start(s.backgroundContext(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.redirectHome(w, r)
}

func (s *Server) clearImage(w http.ResponseWriter, r *http.Request) {
	slot, err := imagestudio.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.session.ClearImage(slot); err != nil {
		s.fail(w, r, err)
		return
	}
	s.redirectHome(w, r)
}

func (s *Server) editCurrent(w http.ResponseWriter, r *http.Request) {
	if err := s.session.EditCurrentImage(); err != nil {
		s.fail(w, r, err)
		return
	}
	s.redirectHome(w, r)
}

func (s *Server) newImage(w http.ResponseWriter, r *http.Request) {
	if err := s.session.NewImage(); err != nil {
		s.fail(w, r, err)
		return
	}
	s.redirectHome(w, r)
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	name, data, mimeType, err := s.session.Download()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, imagestudio.ErrRequestInFlight):
		return http.StatusConflict
	case errors.Is(err, imagestudio.ErrNoResult):
		return http.StatusNotFound
	case errors.Is(err, imagestudio.ErrUnknownSlot):
		return http.StatusNotFound
	case errors.As(err, &maxBytesErr), errors.Is(err, imagestudio.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, imagestudio.ErrInvalidMIMEType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}
