package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/penshort/tracelog/internal/model"
)

// decodeError is a rejected request body and the status it maps to.
type decodeError struct {
	status int
	msg    string
}

func (e *decodeError) Error() string {
	return e.msg
}

// createUserBody mirrors model.CreateUser with a pointer so a missing field
// can be told apart from an empty one.
type createUserBody struct {
	Name *string `json:"name"`
}

// decodeCreateUser reads a model.CreateUser from r.
//
//	wrong or missing Content-Type        -> 415
//	body too large                       -> 413
//	empty or syntactically invalid JSON  -> 400
//	valid JSON of the wrong shape        -> 422
func decodeCreateUser(r *http.Request) (model.CreateUser, error) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		return model.CreateUser{}, &decodeError{
			status: http.StatusUnsupportedMediaType,
			msg:    "Expected request with `Content-Type: application/json`",
		}
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return model.CreateUser{}, &decodeError{
				status: http.StatusRequestEntityTooLarge,
				msg:    fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit),
			}
		}
		return model.CreateUser{}, &decodeError{
			status: http.StatusBadRequest,
			msg:    fmt.Sprintf("Failed to read the request body: %v", err),
		}
	}

	var body createUserBody
	if err := json.Unmarshal(raw, &body); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return model.CreateUser{}, &decodeError{
				status: http.StatusUnprocessableEntity,
				msg:    fmt.Sprintf("Failed to deserialize the JSON body into the target type: %v", err),
			}
		}
		return model.CreateUser{}, &decodeError{
			status: http.StatusBadRequest,
			msg:    fmt.Sprintf("Failed to parse the request body as JSON: %v", err),
		}
	}

	if body.Name == nil {
		return model.CreateUser{}, &decodeError{
			status: http.StatusUnprocessableEntity,
			msg:    "Failed to deserialize the JSON body into the target type: missing string field `name`",
		}
	}

	return model.CreateUser{Name: *body.Name}, nil
}

func isJSONContentType(header string) bool {
	if header == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
