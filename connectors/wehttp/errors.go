package wehttp

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/weegigs/wee-counter-go/auth"
	"github.com/weegigs/wee-counter-go/we"
)

// ErrorResponse is the body of a rejected command.
type ErrorResponse struct {
	Code    uint32 `json:"code,omitempty"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	status, response := describe(err)

	w.Header().Set("Content-Type", we.JsonEncoding)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

func describe(err error) (int, ErrorResponse) {
	var rejection we.Rejection
	if errors.As(err, &rejection) {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Code:    rejection.Code(),
			Name:    rejection.Name(),
			Message: rejection.Error(),
		}
	}

	var notFound we.CommandNotFoundError
	var invalid we.InvalidCommandError
	switch {
	case errors.Is(err, ErrMissingSignature), errors.Is(err, ErrStaleSignature), errors.Is(err, ErrReplayedSignature),
		errors.Is(err, auth.ErrInvalidSignature), errors.Is(err, we.ErrMissingSigner):
		return http.StatusUnauthorized, ErrorResponse{Name: "Unauthenticated", Message: err.Error()}
	case errors.Is(err, we.ErrAccountNotInitialized):
		return http.StatusNotFound, ErrorResponse{Name: "AccountNotInitialized", Message: err.Error()}
	case errors.Is(err, we.ErrAccountInUse):
		return http.StatusConflict, ErrorResponse{Name: "AccountInUse", Message: err.Error()}
	case errors.Is(err, we.RevisionConflict):
		return http.StatusConflict, ErrorResponse{Name: "RevisionConflict", Message: err.Error()}
	case errors.Is(err, we.ErrInsufficientSpace):
		return http.StatusBadRequest, ErrorResponse{Name: "InsufficientSpace", Message: err.Error()}
	case errors.As(err, &notFound):
		return http.StatusBadRequest, ErrorResponse{Name: "CommandNotFound", Message: err.Error()}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, ErrorResponse{Name: "InvalidCommand", Message: err.Error()}
	}

	return http.StatusInternalServerError, ErrorResponse{Name: "InternalError", Message: "failed to execute command"}
}
