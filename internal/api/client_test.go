package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tdl/internal/api"
)

// staticCreds is a CredentialSource with fixed values.
type staticCreds struct {
	session string
	csrf    string
}

func (c staticCreds) SessionToken() (string, bool) { return c.session, c.session != "" }
func (c staticCreds) CSRFToken() (string, bool)    { return c.csrf, c.csrf != "" }

func TestDo_CSRFHeaderOnMutatingMethods(t *testing.T) {
	var gotCSRF []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCSRF = append(gotCSRF, r.Header.Get(api.CSRFHeader))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL, staticCreds{session: "sess", csrf: "tok123"})
	require.NoError(t, err)

	require.NoError(t, client.Do(context.Background(), http.MethodPost, "/tasks", map[string]string{}, nil))
	require.NoError(t, client.Do(context.Background(), http.MethodPatch, "/tasks/1", map[string]string{}, nil))
	require.NoError(t, client.Do(context.Background(), http.MethodDelete, "/tasks/1", nil, nil))
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/tasks/user/1", nil, nil))

	require.Len(t, gotCSRF, 4)
	assert.Equal(t, "tok123", gotCSRF[0])
	assert.Equal(t, "tok123", gotCSRF[1])
	assert.Equal(t, "tok123", gotCSRF[2])
	assert.Empty(t, gotCSRF[3], "read-only request must not carry the CSRF header")
}

func TestDo_NoCSRFTokenIsNotFabricated(t *testing.T) {
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawHeader = len(r.Header.Values(api.CSRFHeader)) > 0
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL, staticCreds{session: "sess"})
	require.NoError(t, err)

	// Still sent; the server decides whether to reject.
	require.NoError(t, client.Do(context.Background(), http.MethodPost, "/tasks", map[string]string{}, nil))
	assert.False(t, sawHeader)
}

func TestDo_SessionCookieFromCredentials(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie(api.SessionCookie); err == nil {
			gotCookie = ck.Value
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL, staticCreds{session: "persisted-session"})
	require.NoError(t, err)

	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/tasks/user/1", nil, nil))
	assert.Equal(t, "persisted-session", gotCookie)
}

func TestDo_UnauthorizedSignalsSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"Token has expired"}`))
	}))
	defer srv.Close()

	var signaled int
	client, err := api.New(srv.URL, staticCreds{session: "stale"},
		api.WithSessionExpiredFunc(func() { signaled++ }))
	require.NoError(t, err)

	err = client.Do(context.Background(), http.MethodGet, "/tasks/user/1", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrSessionExpired)
	assert.Equal(t, 1, signaled)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Token has expired", apiErr.Message)
}

func TestDo_ServerErrorCarriesStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Incorrect datetime format. Expected DD-MM-YYYY HH:MM"}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL, staticCreds{})
	require.NoError(t, err)

	err = client.Do(context.Background(), http.MethodPost, "/tasks", map[string]string{}, nil)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Incorrect datetime format. Expected DD-MM-YYYY HH:MM", apiErr.Message)
	assert.NotErrorIs(t, err, api.ErrSessionExpired,
		"a validation failure must stay distinguishable from an auth failure")
}

func TestDo_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client, err := api.New(srv.URL, staticCreds{})
	require.NoError(t, err)

	err = client.Do(context.Background(), http.MethodGet, "/tasks/user/1", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrTransport)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
	assert.Equal(t, "transport failure", apiErr.Message)
}

func TestDo_DecodesResponseAndSetsRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-Id") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"id":42,"title":"buy milk"}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL, staticCreds{})
	require.NoError(t, err)

	var out struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/tasks/42", nil, &out))
	assert.Equal(t, 42, out.ID)
	assert.Equal(t, "buy milk", out.Title)
}

func TestBearerCookies_CapturesServerSetCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: api.SessionCookie, Value: "fresh-session", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: api.CSRFCookie, Value: "fresh-csrf", Path: "/"})
		w.Write([]byte(`{"msg":"User logged in successfully.","user_id":7}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL, staticCreds{})
	require.NoError(t, err)

	require.NoError(t, client.Do(context.Background(), http.MethodPost, "/login", map[string]string{}, nil))

	session, csrf := client.BearerCookies()
	assert.Equal(t, "fresh-session", session)
	assert.Equal(t, "fresh-csrf", csrf)
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	_, err := api.New("not-a-url", staticCreds{})
	require.Error(t, err)
}
