// Package crmsync implementa a camada de sincronização com as fontes
// externas: o CRM Vetor e o data store de análise de conversas (Mada).
// Cada passada busca os registros alterados dentro da janela de lookback e
// reconcilia com as coleções locais, sempre escopada por organização.
package crmsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"api/schemas"
)

// ErrCredentialsNotConfigured indica que a organização não tem credenciais
// para a fonte pedida. Passadas agendadas pulam a organização; o trigger
// manual devolve 400 sem criar SyncLog.
var ErrCredentialsNotConfigured = errors.New("credenciais do CRM não configuradas")

// Registros crus no formato da fonte externa. Campos numéricos e de data
// opcionais usam ponteiro: nil significa "sem atualização" e preserva o valor
// local durante o merge.
type ExternalUser struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	Disabled  bool      `json:"disabled"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ExternalClient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ExternalDeal struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	ClientID         string     `json:"client_id"`
	PropertyID       string     `json:"property_id"`
	BrokerEmail      string     `json:"broker_email"`
	Stage            string     `json:"stage"`
	PotentialValue   *float64   `json:"potential_value"`
	CommissionValue  *float64   `json:"commission_value"`
	ExclusivityUntil *time.Time `json:"exclusivity_until"`
	LeadOrigin       string     `json:"lead_origin"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ExternalProperty struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ExternalNote struct {
	ID        string    `json:"id"`
	DealID    string    `json:"deal_id"`
	Content   string    `json:"content"`
	Priority  string    `json:"priority"`
	DueDate   string    `json:"due_date"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ExternalConversation struct {
	ID             string    `json:"id"`
	DealExternalID string    `json:"deal_external_id"`
	Summary        string    `json:"summary"`
	Sentiment      string    `json:"sentiment"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DealUpdate são os campos parciais empurrados de volta para o CRM.
type DealUpdate map[string]any

// CrmAdapter expõe as operações tipadas de uma fonte externa. Todo Fetch
// aceita a janela de lookback em minutos; zero devolve a coleção inteira
// (backfill da primeira execução). Fontes que não têm um tipo de registro
// devolvem slice vazio, nunca erro.
type CrmAdapter interface {
	FetchUsers(ctx context.Context, lookbackMinutes int) ([]ExternalUser, error)
	FetchClients(ctx context.Context, lookbackMinutes int) ([]ExternalClient, error)
	FetchDeals(ctx context.Context, lookbackMinutes int) ([]ExternalDeal, error)
	FetchProperties(ctx context.Context, lookbackMinutes int) ([]ExternalProperty, error)
	FetchNotes(ctx context.Context, lookbackMinutes int) ([]ExternalNote, error)
	FetchConversations(ctx context.Context, lookbackMinutes int) ([]ExternalConversation, error)
	UpdateDeal(ctx context.Context, externalID string, fields DealUpdate) error
	TestConnection(ctx context.Context) bool
}

// NewAdapter seleciona o adapter concreto pela fonte, validando as
// credenciais tipadas da organização.
func NewAdapter(org schemas.Organization, source string) (CrmAdapter, error) {
	switch source {
	case schemas.CRM_TYPE_VETOR:
		if org.CrmConfig.Vetor == nil || org.CrmConfig.Vetor.ApiKey == "" {
			return nil, ErrCredentialsNotConfigured
		}
		return NewVetorAdapter(*org.CrmConfig.Vetor), nil
	case schemas.CRM_TYPE_MADA:
		if org.CrmConfig.Mada == nil || org.CrmConfig.Mada.StoreURL == "" || org.CrmConfig.Mada.StoreKey == "" {
			return nil, ErrCredentialsNotConfigured
		}
		return NewMadaAdapter(*org.CrmConfig.Mada), nil
	}
	return nil, fmt.Errorf("fonte de sincronização desconhecida: %q", source)
}
