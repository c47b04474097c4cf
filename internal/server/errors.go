package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/patentfig/pkg/diagram"
	perrors "github.com/matzehuels/patentfig/pkg/errors"
	"github.com/matzehuels/patentfig/pkg/render"
	"github.com/matzehuels/patentfig/pkg/store"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    perrors.Code `json:"code"`
	Message string       `json:"message"`
	Field   string       `json:"field,omitempty"`
}

// statusFor maps an error to an HTTP status and code. Input that cannot be
// decoded is a 400; input that decodes but does not describe a valid
// diagram is a 422.
func statusFor(err error) (int, perrors.Code) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, perrors.ErrCodeDiagramNotFound
	case errors.Is(err, render.ErrConverterMissing):
		return http.StatusNotImplemented, perrors.ErrCodeUnsupported
	}

	code := perrors.GetCode(err)
	switch code {
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidSpec, perrors.ErrCodeInvalidStep,
		perrors.ErrCodeInvalidFormat, perrors.ErrCodeInvalidStyle, perrors.ErrCodeInvalidKind,
		perrors.ErrCodeInvalidName:
		return http.StatusBadRequest, code
	case perrors.ErrCodeUnknownBlock, perrors.ErrCodeSlotCount, perrors.ErrCodeChainBreak:
		return http.StatusUnprocessableEntity, code
	case perrors.ErrCodeNotFound, perrors.ErrCodeDiagramNotFound:
		return http.StatusNotFound, code
	case "":
		return http.StatusInternalServerError, perrors.ErrCodeInternal
	default:
		return http.StatusInternalServerError, code
	}
}

// messageFor returns the message of the first coded error in the chain, dropping the
// stage prefixes added while the error travelled up the pipeline.
func messageFor(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if pe, ok := e.(*perrors.Error); ok {
			return pe.Message
		}
		if _, ok := e.(perrors.Coder); ok {
			return e.Error()
		}
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	} else {
		s.logger.Warn("request failed", "status", status, "error", err)
	}
	msg := messageFor(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: msg,
		Field:   diagram.Field(err),
	}})
}
