package deals

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"api/schemas"
	"api/utils"
)

const (
	DEFAULT_PAGE_LIMIT = 20
	MAX_PAGE_LIMIT     = 100
)

// NormalizePagination aplica os defaults e limites da listagem. Valores
// inválidos caem no default em vez de virar erro.
func NormalizePagination(pageStr, limitStr string) (page int, limit int) {
	page = 1
	if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
		page = parsed
	}

	limit = DEFAULT_PAGE_LIMIT
	if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
		limit = parsed
	}
	if limit > MAX_PAGE_LIMIT {
		limit = MAX_PAGE_LIMIT
	}

	return page, limit
}

// BuildListFilter monta o filtro da listagem, sempre começando pelo escopo da
// organização. A busca textual cobre título e os campos do cliente.
func BuildListFilter(orgID bson.ObjectID, query url.Values) bson.D {
	filter := bson.D{{Key: "organization_id", Value: orgID}}

	if status := strings.TrimSpace(query.Get("status")); status != "" {
		filter = append(filter, bson.E{Key: "status", Value: status})
	}
	if sentiment := strings.TrimSpace(query.Get("sentiment")); sentiment != "" {
		filter = append(filter, bson.E{Key: "sentiment", Value: sentiment})
	}
	if brokerID := strings.TrimSpace(query.Get("broker_id")); brokerID != "" {
		if id, err := bson.ObjectIDFromHex(brokerID); err == nil {
			filter = append(filter, bson.E{Key: "broker_id", Value: id})
		}
	}
	if search := strings.TrimSpace(query.Get("search")); search != "" {
		regex := bson.Regex{Pattern: utils.EscapeRegex(search), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: regex}},
			bson.D{{Key: "client_name", Value: regex}},
			bson.D{{Key: "client_email", Value: regex}},
			bson.D{{Key: "client_phone", Value: regex}},
		}})
	}

	return filter
}

func IsValidStatus(status string) bool {
	switch status {
	case schemas.DEAL_STATUS_NEW, schemas.DEAL_STATUS_QUALIFIED, schemas.DEAL_STATUS_NEGOTIATION,
		schemas.DEAL_STATUS_PROPOSAL, schemas.DEAL_STATUS_CLOSED, schemas.DEAL_STATUS_LOST:
		return true
	}
	return false
}

func IsValidSentiment(sentiment string) bool {
	switch sentiment {
	case schemas.SENTIMENT_POSITIVE, schemas.SENTIMENT_NEUTRAL, schemas.SENTIMENT_NEGATIVE:
		return true
	}
	return false
}
