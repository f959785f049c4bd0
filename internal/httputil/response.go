package httputil

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	gojson "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// Encode serializes v as msgpack when accept asks for it, as JSON otherwise.
// Field names follow the json struct tags in both cases.
func Encode(accept string, v interface{}) ([]byte, string, error) {
	if strings.Contains(accept, ContentTypeMsgpack) {
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(v); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), ContentTypeMsgpack, nil
	}
	b, err := gojson.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return b, ContentTypeJSON, nil
}

// WriteResponse encodes v in the format requested by r and writes it with
// status. Encoding failures are reported and answered with a 500.
func WriteResponse(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	ctx := r.Context()

	s := sentry.StartSpan(ctx, "response.encode")
	b, contentType, err := Encode(r.Header.Get("Accept"), v)
	s.Finish()
	if err != nil {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
		}
		log.Err(err).Str("path", r.URL.Path).Msg("can't encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
