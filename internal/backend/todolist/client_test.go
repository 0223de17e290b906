package todolist_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tdl/internal/api"
	"tdl/internal/backend/todolist"
	"tdl/internal/config"
	"tdl/internal/service"
	"tdl/internal/session"
)

// fakeAPI is a minimal but complete stand-in for the todo server:
// cookie session, CSRF checks on mutations, per-user tasks.
type fakeAPI struct {
	mu     sync.Mutex
	tasks  map[int]service.Task
	nextID int
	user   service.User
	srv    *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		tasks:  make(map[int]service.Task),
		nextID: 1,
		user:   service.User{ID: 7, Username: "alice", Email: "alice@example.com", Role: "User"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" || body["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "User failed login"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: api.SessionCookie, Value: "jwt", Path: "/", HttpOnly: true})
		http.SetCookie(w, &http.Cookie{Name: api.CSRFCookie, Value: "csrf", Path: "/"})
		json.NewEncoder(w).Encode(map[string]any{"msg": "User logged in successfully.", "user_id": 7})
	})
	mux.HandleFunc("GET /logout", f.authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"msg": "User logged out successfully."})
	}))
	mux.HandleFunc("GET /tasks/user/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := make([]service.Task, 0, len(f.tasks))
		for id := 1; id < f.nextID; id++ {
			if task, ok := f.tasks[id]; ok {
				out = append(out, task)
			}
		}
		json.NewEncoder(w).Encode(out)
	}))
	mux.HandleFunc("POST /tasks", f.authed(f.csrf(func(w http.ResponseWriter, r *http.Request) {
		var draft service.TaskDraft
		json.NewDecoder(r.Body).Decode(&draft)
		f.mu.Lock()
		defer f.mu.Unlock()
		task := service.Task{ID: f.nextID, Title: draft.Title, Description: draft.Description, DueDate: draft.DueDate}
		f.nextID++
		f.tasks[task.ID] = task
		json.NewEncoder(w).Encode(task)
	})))
	mux.HandleFunc("PATCH /tasks/{id}", f.authed(f.csrf(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		var patch service.TaskPatch
		json.NewDecoder(r.Body).Decode(&patch)
		f.mu.Lock()
		defer f.mu.Unlock()
		task := f.tasks[id]
		if patch.Done != nil {
			task.Done = *patch.Done
		}
		if patch.Title != nil {
			task.Title = *patch.Title
		}
		f.tasks[id] = task
		json.NewEncoder(w).Encode(task)
	})))
	mux.HandleFunc("DELETE /tasks/{id}", f.authed(f.csrf(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		f.mu.Lock()
		delete(f.tasks, id)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]string{})
	})))
	mux.HandleFunc("GET /users/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.user)
	}))
	mux.HandleFunc("PATCH /users/{id}", f.authed(f.csrf(func(w http.ResponseWriter, r *http.Request) {
		var patch service.UserPatch
		json.NewDecoder(r.Body).Decode(&patch)
		f.mu.Lock()
		defer f.mu.Unlock()
		if patch.Username != nil {
			f.user.Username = *patch.Username
		}
		if patch.Email != nil {
			f.user.Email = *patch.Email
		}
		json.NewEncoder(w).Encode(f.user)
	})))
	mux.HandleFunc("DELETE /users/{id}", f.authed(f.csrf(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})))

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie(api.SessionCookie); err != nil || ck.Value != "jwt" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "Missing cookie"})
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) csrf(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(api.CSRFHeader) != "csrf" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "Missing CSRF token"})
			return
		}
		next(w, r)
	}
}

func newClient(t *testing.T, f *fakeAPI, dir string) *todolist.Client {
	t.Helper()
	cfg := &config.Config{Dir: dir, APIURL: f.srv.URL}
	require.NoError(t, cfg.EnsureDir())
	client, err := todolist.New(context.Background(), cfg, log.New(os.Stderr))
	require.NoError(t, err)
	return client
}

func TestClient_FullSession(t *testing.T) {
	f := newFakeAPI(t)
	client := newClient(t, f, t.TempDir())
	ctx := context.Background()

	_, ok := client.UserID()
	require.False(t, ok)

	userID, err := client.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, 7, userID)

	tasks, err := client.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	created, err := client.CreateTask(ctx, service.TaskDraft{Title: "buy milk"})
	require.NoError(t, err)

	require.NoError(t, client.ToggleTask(ctx, created.ID))
	tasks, err = client.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Done)

	require.NoError(t, client.DeleteTask(ctx, created.ID))
	tasks, err = client.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	require.NoError(t, client.Logout(ctx))
	_, ok = client.UserID()
	assert.False(t, ok)
}

func TestClient_SessionSurvivesRestart(t *testing.T) {
	f := newFakeAPI(t)
	dir := t.TempDir()

	client := newClient(t, f, dir)
	_, err := client.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	// A new process picks the credentials up from the session file and
	// can call authenticated endpoints directly.
	restarted := newClient(t, f, dir)
	userID, ok := restarted.UserID()
	require.True(t, ok)
	assert.Equal(t, 7, userID)

	_, err = restarted.CreateTask(context.Background(), service.TaskDraft{Title: "after restart"})
	require.NoError(t, err, "persisted CSRF token must be replayed on mutations")
}

func TestClient_ExpiredSessionClearsCredentials(t *testing.T) {
	f := newFakeAPI(t)
	dir := t.TempDir()

	client := newClient(t, f, dir)
	_, err := client.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	// Corrupt the session out from under the client.
	cfg := &config.Config{Dir: dir}
	store := session.NewStore(cfg.SessionPath())
	require.NoError(t, store.Set(session.Credentials{UserID: 7, SessionToken: "stale", CSRFToken: "csrf"}))

	stale := newClient(t, f, dir)
	_, err = stale.ListTasks(context.Background())
	require.ErrorIs(t, err, api.ErrSessionExpired)

	_, ok := stale.UserID()
	assert.False(t, ok, "the expiry signal wipes the persisted session")
}

func TestClient_ListRequiresLogin(t *testing.T) {
	f := newFakeAPI(t)
	client := newClient(t, f, t.TempDir())

	_, err := client.ListTasks(context.Background())
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}

func TestClient_UserOperations(t *testing.T) {
	f := newFakeAPI(t)
	client := newClient(t, f, t.TempDir())
	ctx := context.Background()

	_, err := client.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	user, err := client.GetUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	email := "new@example.com"
	user, err = client.UpdateUser(ctx, 7, service.UserPatch{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)

	require.NoError(t, client.DeleteUser(ctx, 7))
	_, ok := client.UserID()
	assert.False(t, ok, "deleting the own account ends the session")
}
