package deals

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"api/schemas"
)

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name      string
		pageStr   string
		limitStr  string
		wantPage  int
		wantLimit int
	}{
		{"vazio usa defaults", "", "", 1, DEFAULT_PAGE_LIMIT},
		{"valores informados", "3", "50", 3, 50},
		{"pagina invalida vira 1", "abc", "50", 1, 50},
		{"pagina zero vira 1", "0", "50", 1, 50},
		{"pagina negativa vira 1", "-2", "50", 1, 50},
		{"limite invalido usa default", "2", "xyz", 2, DEFAULT_PAGE_LIMIT},
		{"limite acima do teto é cortado", "1", "500", 1, MAX_PAGE_LIMIT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := NormalizePagination(tt.pageStr, tt.limitStr)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestBuildListFilterAlwaysScopesOrganization(t *testing.T) {
	orgID := bson.NewObjectID()

	filter := BuildListFilter(orgID, url.Values{})
	require.Len(t, filter, 1)
	assert.Equal(t, "organization_id", filter[0].Key)
	assert.Equal(t, orgID, filter[0].Value)
}

func TestBuildListFilterWithQueryParams(t *testing.T) {
	orgID := bson.NewObjectID()
	brokerID := bson.NewObjectID()

	query := url.Values{}
	query.Set("status", schemas.DEAL_STATUS_PROPOSAL)
	query.Set("sentiment", schemas.SENTIMENT_NEGATIVE)
	query.Set("broker_id", brokerID.Hex())

	filter := BuildListFilter(orgID, query)
	require.Len(t, filter, 4)

	byKey := map[string]any{}
	for _, entry := range filter {
		byKey[entry.Key] = entry.Value
	}
	assert.Equal(t, schemas.DEAL_STATUS_PROPOSAL, byKey["status"])
	assert.Equal(t, schemas.SENTIMENT_NEGATIVE, byKey["sentiment"])
	assert.Equal(t, brokerID, byKey["broker_id"])
}

func TestBuildListFilterIgnoresInvalidBrokerID(t *testing.T) {
	query := url.Values{}
	query.Set("broker_id", "nao-é-objectid")

	filter := BuildListFilter(bson.NewObjectID(), query)
	assert.Len(t, filter, 1)
}

func TestBuildListFilterSearchEscapesRegex(t *testing.T) {
	query := url.Values{}
	query.Set("search", "Torre (Bloco A)")

	filter := BuildListFilter(bson.NewObjectID(), query)
	require.Len(t, filter, 2)
	assert.Equal(t, "$or", filter[1].Key)

	clauses, ok := filter[1].Value.(bson.A)
	require.True(t, ok)
	require.Len(t, clauses, 4)

	titleClause, ok := clauses[0].(bson.D)
	require.True(t, ok)
	regex, ok := titleClause[0].Value.(bson.Regex)
	require.True(t, ok)
	assert.Equal(t, `Torre \(Bloco A\)`, regex.Pattern)
	assert.Equal(t, "i", regex.Options)
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(schemas.DEAL_STATUS_NEW))
	assert.True(t, IsValidStatus(schemas.DEAL_STATUS_LOST))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("aberto"))
}
