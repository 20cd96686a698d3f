package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/core/response"
)

func TestString(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	err := response.String("OK")(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "OK", w.Body.String())
}

func TestStatus(t *testing.T) {
	t.Parallel()

	t.Run("explicit", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, response.Status(http.StatusAccepted)(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("zero_means_ok", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, response.Status(0)(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes_value", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, response.JSON(map[string]int{"x": 1})(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"x":1}`, w.Body.String())
	})

	t.Run("nil_with_zero_status_is_no_content", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, response.JSONWithStatus(nil, 0)(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestJSONArray(t *testing.T) {
	t.Parallel()

	t.Run("joins_raw_items_in_order", func(t *testing.T) {
		t.Parallel()

		items := []json.RawMessage{
			json.RawMessage(`{"id":{"key":"a","version":1},"data":null}`),
			json.RawMessage(`{"id":{"key":"b","version":3},"data":[1,2]}`),
		}

		w := httptest.NewRecorder()
		require.NoError(t, response.JSONArray(items)(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t,
			`[{"id":{"key":"a","version":1},"data":null},{"id":{"key":"b","version":3},"data":[1,2]}]`,
			w.Body.String())
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, response.JSONArray(nil)(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, "[]", w.Body.String())
	})
}
