package server

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/handosc/internal/detector"
	"github.com/ayusman/handosc/internal/store"
)

func TestAPI_SessionWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Sessions().Create(&store.Session{ID: "abc", OSCTarget: "host:8000"}))
	require.NoError(t, s.Events().Record(&store.PresenceEvent{SessionID: "abc", Kind: store.EventAppeared, Frame: 1}))
	require.NoError(t, s.Sessions().Finish("abc", store.StopReasonError, 7))

	srv := New(Config{Store: s, Controller: &fakeController{}})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. List sessions
	resp, err := client.Get(ts.URL + "/api/sessions")
	require.NoError(t, err)
	var listed struct {
		Sessions []struct {
			ID         string `json:"id"`
			StopReason string `json:"stop_reason"`
		} `json:"sessions"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	require.Len(t, listed.Sessions, 1)
	assert.Equal(t, "abc", listed.Sessions[0].ID)
	assert.Equal(t, "error", listed.Sessions[0].StopReason)

	// 2. Events of the session
	resp, err = client.Get(ts.URL + "/api/sessions/abc/events")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// 3. Delete it
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/abc", nil)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// 4. Gone
	resp, err = client.Get(ts.URL + "/api/sessions/abc")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPointsHandler_Broadcast(t *testing.T) {
	points := NewPointsHandler(nil)
	ts := httptest.NewServer(New(Config{Points: points}))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/points"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return points.Clients() == 1 }, time.Second, 5*time.Millisecond)

	frame := make([]detector.Point, detector.NumJoints)
	for i := range frame {
		frame[i] = detector.Point{X: float32(i), Y: float32(2 * i)}
	}

	var msg pointsMessage

	points.Show(frame)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Len(t, msg.Points, detector.NumJoints)
	assert.True(t, msg.HandVisible)
	assert.Equal(t, float32(20), msg.Points[20].X)
	assert.Equal(t, float32(40), msg.Points[20].Y)

	points.Show(nil)
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Empty(t, msg.Points)
	assert.False(t, msg.HandVisible)
}

func TestPointsHandler_NoClients(t *testing.T) {
	points := NewPointsHandler(nil)

	// Must not block or panic without clients
	points.Show(make([]detector.Point, detector.NumJoints))
	assert.Equal(t, 0, points.Clients())
}

func TestStreamHandler_ServesPublishedFrames(t *testing.T) {
	stream := NewStreamHandler(nil)
	ts := httptest.NewServer(New(Config{Stream: stream}))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "multipart/x-mixed-replace; boundary=frame", resp.Header.Get("Content-Type"))
	require.Eventually(t, func() bool { return stream.Clients() == 1 }, time.Second, 5*time.Millisecond)

	jpeg := []byte("\xff\xd8preview-jpeg\xff\xd9")
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				stream.publishJPEG(jpeg)
			}
		}
	}()

	reader := multipart.NewReader(resp.Body, "frame")
	part, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", part.Header.Get("Content-Type"))

	buf := make([]byte, len(jpeg))
	_, err = io.ReadFull(part, buf)
	require.NoError(t, err)
	assert.Equal(t, jpeg, buf)
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	stream := NewStreamHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
	rec := httptest.NewRecorder()
	stream.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStreamHandler_PublishWithoutClients(t *testing.T) {
	stream := NewStreamHandler(nil)

	// Nothing is encoded while nobody watches
	stream.Publish(nil)
	assert.Nil(t, stream.frame)
}
