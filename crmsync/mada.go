package crmsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"api/schemas"
)

const MADA_HTTP_TIMEOUT = 30 * time.Second

// MadaAdapter consulta o data store da plataforma de análise de conversas:
// resumos e sentimento por conversa, com um vínculo opcional ao negócio do
// CRM. Só a coleção de conversas existe nessa fonte; os demais Fetch devolvem
// vazio.
type MadaAdapter struct {
	storeURL string
	storeKey string
	client   *http.Client
}

func NewMadaAdapter(config schemas.MadaConfig) *MadaAdapter {
	return &MadaAdapter{
		storeURL: strings.TrimRight(config.StoreURL, "/"),
		storeKey: config.StoreKey,
		client:   &http.Client{Timeout: MADA_HTTP_TIMEOUT},
	}
}

func (a *MadaAdapter) FetchUsers(ctx context.Context, lookbackMinutes int) ([]ExternalUser, error) {
	return []ExternalUser{}, nil
}

func (a *MadaAdapter) FetchClients(ctx context.Context, lookbackMinutes int) ([]ExternalClient, error) {
	return []ExternalClient{}, nil
}

func (a *MadaAdapter) FetchDeals(ctx context.Context, lookbackMinutes int) ([]ExternalDeal, error) {
	return []ExternalDeal{}, nil
}

func (a *MadaAdapter) FetchProperties(ctx context.Context, lookbackMinutes int) ([]ExternalProperty, error) {
	return []ExternalProperty{}, nil
}

func (a *MadaAdapter) FetchNotes(ctx context.Context, lookbackMinutes int) ([]ExternalNote, error) {
	return []ExternalNote{}, nil
}

func (a *MadaAdapter) FetchConversations(ctx context.Context, lookbackMinutes int) ([]ExternalConversation, error) {
	endpoint, err := url.Parse(a.storeURL + "/conversations")
	if err != nil {
		return nil, fmt.Errorf("montando URL do data store: %w", err)
	}

	query := endpoint.Query()
	if lookbackMinutes > 0 {
		since := time.Now().Add(-time.Duration(lookbackMinutes) * time.Minute)
		query.Set("updated_since", since.UTC().Format(time.RFC3339))
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("criando requisição para o data store: %w", err)
	}
	req.Header.Set("apikey", a.storeKey)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("buscando conversas no data store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("data store devolveu %d: %s", resp.StatusCode, string(raw))
	}

	conversations := []ExternalConversation{}
	if err := json.NewDecoder(resp.Body).Decode(&conversations); err != nil {
		return nil, fmt.Errorf("decodificando conversas: %w", err)
	}

	return conversations, nil
}

// UpdateDeal: a fonte de conversas é somente leitura.
func (a *MadaAdapter) UpdateDeal(ctx context.Context, externalID string, fields DealUpdate) error {
	return fmt.Errorf("o data store de conversas não aceita escrita de negócios")
}

func (a *MadaAdapter) TestConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.storeURL+"/health", nil)
	if err != nil {
		return false
	}
	req.Header.Set("apikey", a.storeKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
