package brokers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBuildBrokersFilterAlwaysScopesOrganization(t *testing.T) {
	orgID := bson.NewObjectID()

	filter := buildBrokersFilter(orgID, url.Values{})
	require.Len(t, filter, 1)
	assert.Equal(t, "organization_id", filter[0].Key)
	assert.Equal(t, orgID, filter[0].Value)
}

func TestBuildBrokersFilterActiveFlag(t *testing.T) {
	query := url.Values{}
	query.Set("active", "true")
	filter := buildBrokersFilter(bson.NewObjectID(), query)
	require.Len(t, filter, 2)
	assert.Equal(t, true, filter[1].Value)

	query.Set("active", "false")
	filter = buildBrokersFilter(bson.NewObjectID(), query)
	require.Len(t, filter, 2)
	assert.Equal(t, false, filter[1].Value)
}

func TestBuildBrokersFilterSearchEscapesRegex(t *testing.T) {
	query := url.Values{}
	query.Set("search", "Souza (imóveis)")

	filter := buildBrokersFilter(bson.NewObjectID(), query)
	require.Len(t, filter, 2)
	assert.Equal(t, "$or", filter[1].Key)

	clauses, ok := filter[1].Value.(bson.A)
	require.True(t, ok)
	require.Len(t, clauses, 2)

	nameClause, ok := clauses[0].(bson.D)
	require.True(t, ok)
	regex, ok := nameClause[0].Value.(bson.Regex)
	require.True(t, ok)
	assert.Equal(t, `Souza \(imóveis\)`, regex.Pattern)
	assert.Equal(t, "i", regex.Options)
}
