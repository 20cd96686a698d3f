package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/relay/core/handler"
)

// JSON creates an application/json response with 200 OK status.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with custom status code.
// A zero status means 200, or 204 when v is nil.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if status == 0 {
			if v == nil {
				status = http.StatusNoContent
			} else {
				status = http.StatusOK
			}
		}
		w.WriteHeader(status)

		switch status {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}

		return json.NewEncoder(w).Encode(v)
	}
}

// JSONArray writes already-encoded JSON values as one array, in order.
// Each element must be valid JSON; elements are not re-encoded.
func JSONArray(items []json.RawMessage) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		size := 2 + len(items)
		for _, item := range items {
			size += len(item)
		}
		buf := make([]byte, 0, size)
		buf = append(buf, '[')
		for i, item := range items {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, item...)
		}
		buf = append(buf, ']')

		_, err := w.Write(buf)
		return err
	}
}
