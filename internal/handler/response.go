package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"dealer-admin-console/internal/model"
	"dealer-admin-console/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
		body.Fields = apiErr.Fields
	} else if errors.Is(err, model.ErrUnknownEntity) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Unknown entity"
	} else if errors.Is(err, model.ErrUnknownLookup) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Unknown lookup"
	} else if errors.Is(err, model.ErrRecordNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Record not found"
	} else if errors.Is(err, model.ErrAlreadyDeleted) {
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "Record already deleted"
	} else if errors.Is(err, model.ErrNoPendingDelete) {
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "No delete awaiting confirmation"
	} else if errors.Is(err, model.ErrSessionRequired) {
		status = http.StatusUnauthorized
		body.Code = "SESSION_REQUIRED"
		body.Message = "Sign in to use the console"
	} else if errors.Is(err, model.ErrSessionExpired) {
		status = http.StatusUnauthorized
		body.Code = "SESSION_EXPIRED"
		body.Message = "Your session has expired, sign in again"
	} else if errors.Is(err, model.ErrBackendRejected) {
		status = http.StatusBadGateway
		body.Code = "BACKEND_REJECTED"
		body.Message = "The server did not accept the request"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// decodeBody decodes a JSON request body into target, mapping malformed
// payloads onto ErrInvalidInput.
func decodeBody(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return model.ErrInvalidInput
	}
	return nil
}
