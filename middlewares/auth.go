package middlewares

import (
	"api/schemas"
	"api/utils"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

type contextKey string

const UserContextKey = contextKey("auth_user")

// AuthUser é o que a API de autenticação devolve para um token válido.
// O core trata o par {organization_id, role} como dado.
type AuthUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
}

// Auth valida o bearer token contra a API de autenticação externa e injeta o
// usuário no contexto da requisição.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			utils.SendResponse(w, http.StatusUnauthorized, "Token não informado", nil, 0)
			return
		}

		authURL := os.Getenv(utils.AUTH_API_URL)
		if authURL == "" {
			authURL = "http://localhost:8000"
		}
		userURL := fmt.Sprintf("%s/api/me", authURL)

		req, err := http.NewRequest("GET", userURL, nil)
		if err != nil {
			utils.SendResponse(w, http.StatusInternalServerError, "Erro ao criar requisição de autenticação", nil, 0)
			return
		}
		req.Header.Set("Authorization", token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			utils.SendResponse(w, http.StatusBadGateway, "Erro ao conectar na API de autenticação", nil, 0)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			utils.SendResponse(w, http.StatusUnauthorized, "Token inválido ou usuário não autenticado", nil, 0)
			return
		}

		user := AuthUser{}
		err = json.NewDecoder(resp.Body).Decode(&user)
		if err != nil || user.ID == "" || user.OrganizationID == "" || user.Role == "" {
			utils.SendResponse(w, http.StatusUnauthorized, "Usuário inválido retornado pela autenticação", nil, 0)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Superadmin exige role superadmin. Token válido sem a role devolve 403,
// nunca 404.
func Superadmin(next http.Handler) http.Handler {
	return Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetAuthUser(r)
		if !ok || user.Role != schemas.ROLE_SUPERADMIN {
			utils.SendResponse(w, http.StatusForbidden, "Acesso restrito ao superadmin", nil, 0)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func GetAuthUser(r *http.Request) (AuthUser, bool) {
	user, ok := r.Context().Value(UserContextKey).(AuthUser)
	return user, ok
}
