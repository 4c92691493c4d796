package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/taskboard-dev/taskboard/shared/errors"
	"github.com/taskboard-dev/taskboard/shared/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteErrorAndStatusCode answers with the status of err's kind and its user facing message.
// Untyped errors become a 500 and never leak their text.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	kind := errors.KindOf(err)
	status := errors.StatusCode(kind)
	if kind == errors.KindUnknown || kind == errors.KindTransient {
		logger.Log.Error("request failed", "kind", kind.String(), "error", err)
	}
	http.Error(w, errors.Message(err), status)
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request body failed validation", "error", err)
		return errors.Validation("Required fields missing or invalid")
	}
	return nil
}

func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("request body is not json", "error", err)
		return errors.Validation("Body is invalid json")
	}
	return nil
}
