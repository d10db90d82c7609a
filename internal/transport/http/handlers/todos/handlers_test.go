package todoshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workdesk/internal/domain/todos"
)

type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]todos.Todo
	clock  time.Time
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: map[int64]todos.Todo{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memoryStore) ListByUser(_ context.Context, userID int64) ([]todos.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []todos.Todo{}
	for _, t := range m.rows {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memoryStore) Create(_ context.Context, in todos.NewTodo) (todos.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return todos.Todo{}, m.err
	}
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	t := todos.Todo{ID: m.nextID, UserID: in.UserID, Title: in.Title, Description: in.Description, CreatedAt: m.clock}
	m.rows[t.ID] = t
	return t, nil
}

func (m *memoryStore) SetCompleted(_ context.Context, id int64, completed bool) (todos.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return todos.Todo{}, todos.ErrTodoNotFound
	}
	t.IsCompleted = completed
	m.rows[id] = t
	return t, nil
}

func (m *memoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.rows, id)
	return nil
}

func newRouter(store *memoryStore) http.Handler {
	r := chi.NewRouter()
	NewHandler(todos.NewService(store)).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTodo(t *testing.T, rec *httptest.ResponseRecorder) todos.Todo {
	t.Helper()
	var out todos.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateAndListNewestFirst(t *testing.T) {
	h := newRouter(newMemoryStore())

	first := do(t, h, http.MethodPost, "/api/todos", `{"user_id":1,"title":"first","description":"a"}`)
	require.Equal(t, http.StatusCreated, first.Code)
	created := decodeTodo(t, first)
	assert.Equal(t, "first", created.Title)
	assert.False(t, created.IsCompleted)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/todos", `{"user_id":1,"title":"second"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/todos", `{"user_id":2,"title":"other"}`).Code)

	rec := do(t, h, http.MethodGet, "/api/todos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []todos.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, "first", list[1].Title)
}

func TestListEmptyIsArray(t *testing.T) {
	rec := do(t, newRouter(newMemoryStore()), http.MethodGet, "/api/todos/9", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateValidation(t *testing.T) {
	h := newRouter(newMemoryStore())
	for _, body := range []string{
		`{"user_id":1,"title":"   "}`,
		`{"title":"no owner"}`,
		`{"user_id":1`,
	} {
		assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/todos", body).Code, body)
	}
}

func TestToggleIsIdempotent(t *testing.T) {
	h := newRouter(newMemoryStore())
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/todos", `{"user_id":1,"title":"x"}`).Code)

	a := do(t, h, http.MethodPut, "/api/todos/1", `{"is_completed":true}`)
	b := do(t, h, http.MethodPut, "/api/todos/1", `{"is_completed":true}`)
	require.Equal(t, http.StatusOK, a.Code)
	require.Equal(t, http.StatusOK, b.Code)
	assert.Equal(t, decodeTodo(t, a), decodeTodo(t, b))
	assert.True(t, decodeTodo(t, b).IsCompleted)
}

func TestUpdateErrors(t *testing.T) {
	h := newRouter(newMemoryStore())
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPut, "/api/todos/99", `{"is_completed":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/todos/99", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/todos/abc", `{"is_completed":true}`).Code)
}

func TestDeleteTwiceReturnsNoContent(t *testing.T) {
	h := newRouter(newMemoryStore())
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/todos", `{"user_id":1,"title":"x"}`).Code)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/todos/1", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/todos/1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodDelete, "/api/todos/x", "").Code)
}

func TestStoreErrorsAreNotLeaked(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("pq: relation does not exist")
	h := newRouter(store)

	rec := do(t, h, http.MethodDelete, "/api/todos/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")

	rec = do(t, h, http.MethodGet, "/api/todos/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
