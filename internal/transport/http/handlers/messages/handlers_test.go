package messageshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workdesk/internal/domain/messages"
)

type fakeStore struct {
	rows []messages.Message
	err  error
}

func (f *fakeStore) Insert(_ context.Context, msg messages.Message) (messages.Message, error) {
	msg.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, msg)
	return msg, nil
}

func (f *fakeStore) ListAll(context.Context) ([]messages.Message, error) {
	return f.rows, f.err
}

func serve(store *fakeStore) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandler(messages.NewService(store)).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/messages", nil))
	return rec
}

func TestHistoryReturnsRecordedMessages(t *testing.T) {
	store := &fakeStore{}
	svc := messages.NewService(store)
	before := time.Now().UTC()
	_, err := svc.Record(context.Background(), messages.Draft{Username: "ada", Content: "hi", Department: "Sales"})
	require.NoError(t, err)

	rec := serve(store)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []messages.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "hi", out[0].Content)
	assert.Nil(t, out[0].RecipientEmail)
	assert.False(t, out[0].Timestamp.Before(before))
}

func TestHistoryStoreError(t *testing.T) {
	rec := serve(&fakeStore{err: errors.New("down")})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
