package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
	"github.com/matzehuels/albumstack/pkg/store"
)

// maxBodyBytes bounds request bodies. Block lists for one page are small.
const maxBodyBytes = 4 << 20

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Index   *int        `json:"index,omitempty"`
	Field   string      `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeDocument sends doc with its revision as ETag.
func writeDocument(w http.ResponseWriter, status int, doc *document.Document) {
	w.Header().Set("ETag", etag(doc.Revision))
	writeJSON(w, status, doc.Record())
}

// writeError maps coded errors to HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	body := errorBody{Error: errorDetail{Code: code, Message: apperr.UserMessage(err)}}
	if v, ok := apperr.AsValidation(err); ok {
		if v.Index >= 0 {
			idx := v.Index
			body.Error.Index = &idx
		}
		body.Error.Field = v.Field
		body.Error.Message = v.Message
	}
	writeJSON(w, statusFor(code, r.Header.Get("If-Match") != ""), body)
}

// statusFor returns the HTTP status for an error code. A revision conflict
// is a failed precondition when the client sent If-Match.
func statusFor(code apperr.Code, conditional bool) int {
	switch code {
	case apperr.ErrCodeStructural, apperr.ErrCodeRange, apperr.ErrCodeReference:
		return http.StatusUnprocessableEntity
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case apperr.ErrCodeNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeConflict:
		if conditional {
			return http.StatusPreconditionFailed
		}
		return http.StatusConflict
	case apperr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func etag(rev int64) string {
	return `"` + strconv.FormatInt(rev, 10) + `"`
}

// expectedRevision reads If-Match. Absent or "*" skips the revision check.
func expectedRevision(r *http.Request) (int64, error) {
	v := strings.TrimSpace(r.Header.Get("If-Match"))
	if v == "" || v == "*" {
		return store.AnyRevision, nil
	}
	v = strings.TrimPrefix(v, "W/")
	rev, err := strconv.ParseInt(strings.Trim(v, `"`), 10, 64)
	if err != nil || rev < 0 {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "If-Match must be a document revision, got %q", v)
	}
	return rev, nil
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

// decodeBody decodes a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	data, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		if apperr.GetCode(err) != "" {
			return err
		}
		return apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

// intParam parses a numeric path or query value.
func intParam(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
	}
	return n, nil
}

// floatQuery parses an optional numeric query parameter.
func floatQuery(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "%s must be a number, got %q", name, v)
	}
	return f, nil
}

func boolQuery(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}
