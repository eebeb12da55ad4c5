package pit

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookmosh/internal/httpx"
	"bookmosh/internal/realtime"
	"bookmosh/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(httpx.ContextWithUser(r.Context(), userID))
}

func TestHTTPHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo, realtime.NewHub()))

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *Pit) error {
		assert.Equal(t, "user-1", p.CreatedBy)
		p.ID = "pit-1"
		return nil
	})

	w := httptest.NewRecorder()
	r := asUser(httptest.NewRequest(http.MethodPost, "/v1/pits",
		strings.NewReader(`{"book_key":"9780441013593","name":"Arrakis readers"}`)), "user-1")
	handler.Create(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"pit-1"`)
}

func TestHTTPHandler_Join(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo, realtime.NewHub()))

	t.Run("joined", func(t *testing.T) {
		repo.EXPECT().AddMember(gomock.Any(), "pit-1", "user-2").Return(nil)
		w := httptest.NewRecorder()
		r := asUser(httptest.NewRequest(http.MethodPost, "/v1/pits/pit-1/join", nil), "user-2")
		r.SetPathValue("id", "pit-1")
		handler.Join(w, r)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("missing pit", func(t *testing.T) {
		repo.EXPECT().AddMember(gomock.Any(), "nope", "user-2").Return(ErrNotFound)
		w := httptest.NewRecorder()
		r := asUser(httptest.NewRequest(http.MethodPost, "/v1/pits/nope/join", nil), "user-2")
		r.SetPathValue("id", "nope")
		handler.Join(w, r)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_MalformedPitID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo, realtime.NewHub()))

	repo.EXPECT().IsMember(gomock.Any(), "not-a-uuid", "user-1").Return(false, ErrNotFound)

	w := httptest.NewRecorder()
	r := asUser(httptest.NewRequest(http.MethodGet, "/v1/pits/not-a-uuid/messages", nil), "user-1")
	r.SetPathValue("id", "not-a-uuid")
	handler.Messages(w, r)

	rec := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", rec.ErrorCode())
}

func TestHTTPHandler_Post(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo, realtime.NewHub()))

	t.Run("not member", func(t *testing.T) {
		repo.EXPECT().IsMember(gomock.Any(), "pit-1", "user-9").Return(false, nil)
		w := httptest.NewRecorder()
		r := asUser(httptest.NewRequest(http.MethodPost, "/v1/pits/pit-1/messages", strings.NewReader(`{"body":"hi"}`)), "user-9")
		r.SetPathValue("id", "pit-1")
		handler.Post(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("blank body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := asUser(httptest.NewRequest(http.MethodPost, "/v1/pits/pit-1/messages", strings.NewReader(`{"body":"<p> </p>"}`)), "user-1")
		r.SetPathValue("id", "pit-1")
		handler.Post(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_MESSAGE")
	})
}

func TestHTTPHandler_Messages(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo, realtime.NewHub()))

	t.Run("bad cursor", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := asUser(httptest.NewRequest(http.MethodGet, "/v1/pits/pit-1/messages?before=yesterday", nil), "user-1")
		r.SetPathValue("id", "pit-1")
		handler.Messages(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("next cursor", func(t *testing.T) {
		at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
		repo.EXPECT().IsMember(gomock.Any(), "pit-1", "user-1").Return(true, nil)
		repo.EXPECT().ListMessages(gomock.Any(), "pit-1", gomock.Any(), 5).Return([]Message{{ID: "m1", CreatedAt: at}}, nil)

		w := httptest.NewRecorder()
		r := asUser(httptest.NewRequest(http.MethodGet, "/v1/pits/pit-1/messages?limit=5", nil), "user-1")
		r.SetPathValue("id", "pit-1")
		handler.Messages(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"next_before":"2026-05-01T10:00:00Z"`)
	})
}

func TestHTTPHandler_Stream(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	hub := realtime.NewHub()
	svc := NewService(repo, hub)
	handler := NewHTTPHandler(svc)

	repo.EXPECT().IsMember(gomock.Any(), "pit-1", gomock.Any()).Return(true, nil).AnyTimes()
	repo.EXPECT().InsertMessage(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *Message) error {
		m.ID = "msg-1"
		return nil
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/pits/{id}/stream", handler.Stream)
	srv := httptest.NewServer(httpx.AuthMiddleware("stream-secret")(mux))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/pits/pit-1/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testutil.GenerateTestToken("stream-secret", "user-2", time.Hour))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, 1, hub.Subscribers(Topic("pit-1")))

	_, err = svc.Post(context.Background(), "pit-1", "user-1", "hello stream")
	require.NoError(t, err)

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: message.created\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"body":"hello stream"`)

	cancel()
	assert.Eventually(t, func() bool { return hub.Subscribers(Topic("pit-1")) == 0 }, 2*time.Second, 10*time.Millisecond)
}
