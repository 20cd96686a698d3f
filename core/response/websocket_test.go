package response_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/core/response"
)

func TestWebSocketStream(t *testing.T) {
	t.Parallel()

	events := make(chan string, 2)
	events <- "first"
	events <- "second"
	close(events)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = response.WebSocketStream(events, func(s string) ([]byte, error) {
			return []byte(strings.ToUpper(s)), nil
		}, response.WithWSAllowAnyOrigin())(w, r)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))

	typ, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, typ)
	assert.Equal(t, "FIRST", string(msg))

	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "SECOND", string(msg))

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestWebSocket_UpgradeFailureIsReported(t *testing.T) {
	t.Parallel()

	var reported error
	w := httptest.NewRecorder()
	err := response.WebSocket(nil, response.WithWSErrorHandler(func(_ context.Context, err error) {
		reported = err
	}))(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, err)
	assert.Error(t, reported)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebSocketStream_OriginCheck(t *testing.T) {
	t.Parallel()

	events := make(chan string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = response.WebSocketStream(events, func(s string) ([]byte, error) {
			return []byte(s), nil
		}, response.WithWSOriginCheck(func(r *http.Request) bool {
			return r.Header.Get("Origin") == "https://allowed.example"
		}), response.WithWSPingInterval(time.Second))(w, r)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("rejected", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://other.example"}})
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		require.NotNil(t, resp)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("accepted", func(t *testing.T) {
		conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://allowed.example"}})
		require.NoError(t, err)
		defer conn.Close()
		assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	})
}
