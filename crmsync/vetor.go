package crmsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"api/schemas"
	"api/utils"
)

const (
	VETOR_DEFAULT_API_URL = "https://api.vetorimob.com.br/v1"
	VETOR_HTTP_TIMEOUT    = 30 * time.Second
)

// VetorAdapter fala com a API REST do CRM Vetor. Toda listagem leva o
// company_id da imobiliária (quando configurado) para o filtro acontecer do
// lado do servidor, e updated_since quando a janela de lookback é positiva.
type VetorAdapter struct {
	baseURL string
	apiKey  string
	company string
	client  *http.Client
}

func NewVetorAdapter(config schemas.VetorConfig) *VetorAdapter {
	baseURL := config.ApiURL
	if baseURL == "" {
		baseURL = os.Getenv(utils.VETOR_API_URL)
	}
	if baseURL == "" {
		baseURL = VETOR_DEFAULT_API_URL
	}

	return &VetorAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  config.ApiKey,
		company: config.CompanyID,
		client:  &http.Client{Timeout: VETOR_HTTP_TIMEOUT},
	}
}

func (a *VetorAdapter) FetchUsers(ctx context.Context, lookbackMinutes int) ([]ExternalUser, error) {
	users := []ExternalUser{}
	if err := a.fetchList(ctx, "/users", lookbackMinutes, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (a *VetorAdapter) FetchClients(ctx context.Context, lookbackMinutes int) ([]ExternalClient, error) {
	clients := []ExternalClient{}
	if err := a.fetchList(ctx, "/clients", lookbackMinutes, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (a *VetorAdapter) FetchDeals(ctx context.Context, lookbackMinutes int) ([]ExternalDeal, error) {
	deals := []ExternalDeal{}
	if err := a.fetchList(ctx, "/deals", lookbackMinutes, &deals); err != nil {
		return nil, err
	}
	return deals, nil
}

func (a *VetorAdapter) FetchProperties(ctx context.Context, lookbackMinutes int) ([]ExternalProperty, error) {
	properties := []ExternalProperty{}
	if err := a.fetchList(ctx, "/properties", lookbackMinutes, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (a *VetorAdapter) FetchNotes(ctx context.Context, lookbackMinutes int) ([]ExternalNote, error) {
	notes := []ExternalNote{}
	if err := a.fetchList(ctx, "/notes", lookbackMinutes, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// FetchConversations: o Vetor não tem dados de conversa.
func (a *VetorAdapter) FetchConversations(ctx context.Context, lookbackMinutes int) ([]ExternalConversation, error) {
	return []ExternalConversation{}, nil
}

// UpdateDeal empurra campos parciais de volta para o Vetor (via única de
// escrita no CRM).
func (a *VetorAdapter) UpdateDeal(ctx context.Context, externalID string, fields DealUpdate) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("serializando campos do negócio: %w", err)
	}

	endpoint := fmt.Sprintf("%s/deals/%s", a.baseURL, url.PathEscape(externalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("criando requisição para o Vetor: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	a.setHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("atualizando negócio %s no Vetor: %w", externalID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("Vetor devolveu %d ao atualizar negócio %s: %s", resp.StatusCode, externalID, string(raw))
	}

	return nil
}

// TestConnection nunca devolve erro: qualquer falha vira false.
func (a *VetorAdapter) TestConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/ping", nil)
	if err != nil {
		return false
	}
	a.setHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (a *VetorAdapter) fetchList(ctx context.Context, path string, lookbackMinutes int, out any) error {
	endpoint, err := url.Parse(a.baseURL + path)
	if err != nil {
		return fmt.Errorf("montando URL do Vetor: %w", err)
	}

	query := endpoint.Query()
	if a.company != "" {
		query.Set("company_id", a.company)
	}
	if lookbackMinutes > 0 {
		since := time.Now().Add(-time.Duration(lookbackMinutes) * time.Minute)
		query.Set("updated_since", since.UTC().Format(time.RFC3339))
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("criando requisição para o Vetor: %w", err)
	}
	a.setHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("buscando %s no Vetor: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("Vetor devolveu %d em %s: %s", resp.StatusCode, path, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decodificando resposta de %s do Vetor: %w", path, err)
	}

	return nil
}

func (a *VetorAdapter) setHeaders(req *http.Request) {
	req.Header.Set("X-Vetor-Api-Key", a.apiKey)
	req.Header.Set("Accept", "application/json")
}
