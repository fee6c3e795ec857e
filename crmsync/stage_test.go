package crmsync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"api/schemas"
)

func TestMapStage(t *testing.T) {
	tests := []struct {
		name  string
		stage string
		want  string
	}{
		{"vazio vira new", "", schemas.DEAL_STATUS_NEW},
		{"desconhecido vira new", "foo", schemas.DEAL_STATUS_NEW},
		{"novo lead", "Novo Lead", schemas.DEAL_STATUS_NEW},
		{"perdido", "Perdido", schemas.DEAL_STATUS_LOST},
		{"negocio perdido", "Negócio perdido pelo corretor", schemas.DEAL_STATUS_LOST},
		{"cancelado", "CANCELADO", schemas.DEAL_STATUS_LOST},
		{"fechado", "Fechado", schemas.DEAL_STATUS_CLOSED},
		{"ganho", "Negócio ganho", schemas.DEAL_STATUS_CLOSED},
		{"won em ingles", "Won", schemas.DEAL_STATUS_CLOSED},
		{"proposta", "Proposta enviada", schemas.DEAL_STATUS_PROPOSAL},
		{"negociacao sem acento", "Em negociacao", schemas.DEAL_STATUS_PROPOSAL},
		{"negociacao com acento", "Em negociação", schemas.DEAL_STATUS_PROPOSAL},
		{"visita", "Visita agendada", schemas.DEAL_STATUS_NEGOTIATION},
		{"apresentacao", "Apresentação do imóvel", schemas.DEAL_STATUS_NEGOTIATION},
		{"qualificacao sem acento", "qualificacao", schemas.DEAL_STATUS_QUALIFIED},
		{"qualificado", "Lead Qualificado", schemas.DEAL_STATUS_QUALIFIED},
		{"espacos nas pontas", "  perdido  ", schemas.DEAL_STATUS_LOST},
		{"perdido ganha de proposta", "Proposta perdida", schemas.DEAL_STATUS_LOST},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapStage(tt.stage))
		})
	}
}

func TestIsBrokerActive(t *testing.T) {
	tests := []struct {
		name     string
		disabled bool
		status   string
		want     bool
	}{
		{"ativo", false, "active", true},
		{"desabilitado", true, "active", false},
		{"status inativo", false, "inactive", false},
		{"desabilitado e inativo", true, "inactive", false},
		{"status vazio", false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBrokerActive(tt.disabled, tt.status))
		})
	}
}

func TestIsValidSentiment(t *testing.T) {
	assert.True(t, IsValidSentiment(schemas.SENTIMENT_POSITIVE))
	assert.True(t, IsValidSentiment(schemas.SENTIMENT_NEUTRAL))
	assert.True(t, IsValidSentiment(schemas.SENTIMENT_NEGATIVE))
	assert.False(t, IsValidSentiment(""))
	assert.False(t, IsValidSentiment("feliz"))
}
