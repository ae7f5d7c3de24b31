package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) ServerMsg {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg ServerMsg
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHubPushesSessionChanges(t *testing.T) {
	srv, sess := newTestServer(t, 10, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	conn := dialWS(t, ts.URL)

	msg := readMsg(t, conn)
	require.Equal(t, MessageSession, msg.Type)
	require.NotNil(t, msg.Session)
	assert.EqualValues(t, 0, msg.Session.Version)

	require.Eventually(t, func() bool { return srv.Hub().ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_, err := sess.AddPlay()
	require.NoError(t, err)

	msg = readMsg(t, conn)
	require.NotNil(t, msg.Session)
	assert.EqualValues(t, 1, msg.Session.Version)
	assert.Len(t, msg.Session.Plays, 1)
}

func TestHubPingAndSync(t *testing.T) {
	srv, _ := newTestServer(t, 10, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	conn := dialWS(t, ts.URL)
	readMsg(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: MessagePing}))
	assert.Equal(t, MessagePong, readMsg(t, conn).Type)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: MessageSync}))
	msg := readMsg(t, conn)
	assert.Equal(t, MessageSession, msg.Type)
	assert.NotNil(t, msg.Session)
}

func TestHubClose(t *testing.T) {
	srv, _ := newTestServer(t, 10, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	conn := dialWS(t, ts.URL)
	readMsg(t, conn)

	srv.Hub().Close()
	assert.Equal(t, 0, srv.Hub().ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "%v", err)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}
