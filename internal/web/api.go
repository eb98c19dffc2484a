package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mhpenta/imagestudio"
)

type outcomeResponse struct {
	State   imagestudio.State `json:"state"`
	Image   string            `json:"image,omitempty"`
	Message string            `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newOutcomeResponse(o imagestudio.Outcome) outcomeResponse {
	return outcomeResponse{State: o.State, Image: o.ImageDataURI, Message: o.Message}
}

// apiGenerate applies the submitted intent to the session and waits for the
// model. Mode is applied before images so that the upload survives the mode
// switch.
func (s *Server) apiGenerate(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	if err := s.applySelection(r); err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	if err := s.applyImages(r); err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	outcome, err := s.session.Generate(r.Context())
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, outcomeStatus(outcome), newOutcomeResponse(outcome))
}

func (s *Server) apiOutcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newOutcomeResponse(s.session.View().Outcome))
}

// outcomeStatus is 422 for intents that failed validation and 502 for
// failed model calls.
func outcomeStatus(o imagestudio.Outcome) int {
	if o.State != imagestudio.StateFailed {
		return http.StatusOK
	}
	for _, target := range []error{
		imagestudio.ErrMissingCreatePrompt,
		imagestudio.ErrMissingEditPrompt,
		imagestudio.ErrNeedOneImage,
		imagestudio.ErrNeedTwoImages,
	} {
		if errors.Is(o.Err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
