package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api/schemas"
	"api/utils"
)

func newAuthAPIServer(t *testing.T, user AuthUser) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-valido" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(user)
	}))
	t.Cleanup(server.Close)
	t.Setenv(utils.AUTH_API_URL, server.URL)
}

func TestAuthWithoutToken(t *testing.T) {
	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler não deveria ser chamado sem token")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/deals", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthWithInvalidToken(t *testing.T) {
	newAuthAPIServer(t, AuthUser{})

	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler não deveria ser chamado com token inválido")
	}))

	request := httptest.NewRequest("GET", "/api/deals", nil)
	request.Header.Set("Authorization", "Bearer token-errado")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthInjectsUserIntoContext(t *testing.T) {
	newAuthAPIServer(t, AuthUser{
		ID:             "user-1",
		Name:           "Ana Souza",
		Email:          "ana@imob.com.br",
		OrganizationID: "org-1",
		Role:           schemas.ROLE_ADMIN,
	})

	var gotUser AuthUser
	var gotOK bool
	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotOK = GetAuthUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest("GET", "/api/deals", nil)
	request.Header.Set("Authorization", "Bearer token-valido")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, gotOK)
	assert.Equal(t, "user-1", gotUser.ID)
	assert.Equal(t, "org-1", gotUser.OrganizationID)
	assert.Equal(t, schemas.ROLE_ADMIN, gotUser.Role)
}

func TestAuthRejectsUserWithoutOrganization(t *testing.T) {
	newAuthAPIServer(t, AuthUser{ID: "user-1", Role: schemas.ROLE_USER})

	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler não deveria ser chamado sem organization_id")
	}))

	request := httptest.NewRequest("GET", "/api/deals", nil)
	request.Header.Set("Authorization", "Bearer token-valido")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestSuperadminForbidsRegularUser(t *testing.T) {
	newAuthAPIServer(t, AuthUser{
		ID:             "user-1",
		OrganizationID: "org-1",
		Role:           schemas.ROLE_ADMIN,
	})

	handler := Superadmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler não deveria ser chamado sem role superadmin")
	}))

	request := httptest.NewRequest("GET", "/api/superadmin/organizations", nil)
	request.Header.Set("Authorization", "Bearer token-valido")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestSuperadminAllowsSuperadmin(t *testing.T) {
	newAuthAPIServer(t, AuthUser{
		ID:             "user-1",
		OrganizationID: "org-1",
		Role:           schemas.ROLE_SUPERADMIN,
	})

	handler := Superadmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest("GET", "/api/superadmin/organizations", nil)
	request.Header.Set("Authorization", "Bearer token-valido")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}
