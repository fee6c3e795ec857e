package crmsync

import (
	"strings"

	"api/schemas"
)

// Palavras-chave por status, na ordem de prioridade da checagem. O corpus é o
// texto livre de estágio que o Vetor devolve, então cobre as grafias com e
// sem acento mais os equivalentes em inglês.
var stageKeywords = []struct {
	status   string
	keywords []string
}{
	{schemas.DEAL_STATUS_LOST, []string{"perdido", "perdida", "perda", "descartado", "lost", "cancelado", "cancelada"}},
	{schemas.DEAL_STATUS_CLOSED, []string{"fechado", "fechada", "ganho", "ganha", "vendido", "vendida", "concluido", "concluído", "closed", "won"}},
	{schemas.DEAL_STATUS_PROPOSAL, []string{"proposta", "negociacao", "negociação", "proposal", "negotiation", "contraproposta"}},
	{schemas.DEAL_STATUS_NEGOTIATION, []string{"visita", "visit", "apresentacao", "apresentação"}},
	{schemas.DEAL_STATUS_QUALIFIED, []string{"qualificacao", "qualificação", "qualificado", "qualificada", "qualification", "qualified"}},
}

// MapStage converte o estágio de texto livre do CRM para o status local.
// Substring case-insensitive, em ordem de prioridade; vazio ou não
// reconhecido vira "new".
func MapStage(stage string) string {
	normalized := strings.ToLower(strings.TrimSpace(stage))
	if normalized == "" {
		return schemas.DEAL_STATUS_NEW
	}

	for _, group := range stageKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(normalized, keyword) {
				return group.status
			}
		}
	}

	return schemas.DEAL_STATUS_NEW
}

// IsBrokerActive deriva o flag local: os dois campos externos precisam
// concordar para o corretor contar como ativo.
func IsBrokerActive(disabled bool, status string) bool {
	return !disabled && status == "active"
}

// IsValidSentiment aceita apenas o enum conhecido da plataforma de análise.
func IsValidSentiment(sentiment string) bool {
	switch sentiment {
	case schemas.SENTIMENT_POSITIVE, schemas.SENTIMENT_NEUTRAL, schemas.SENTIMENT_NEGATIVE:
		return true
	}
	return false
}
