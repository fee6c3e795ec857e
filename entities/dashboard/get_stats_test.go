package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"api/schemas"
)

func TestFirstConversationTimes(t *testing.T) {
	dealA := bson.NewObjectID()
	dealB := bson.NewObjectID()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	entries := []schemas.ActivityLog{
		{DealID: dealA, Type: schemas.ACTIVITY_TYPE_CONVERSATION, CreatedAt: base},
		{DealID: dealA, Type: schemas.ACTIVITY_TYPE_CONVERSATION, CreatedAt: base.Add(2 * time.Hour)},
		{DealID: dealB, Type: schemas.ACTIVITY_TYPE_CONVERSATION, CreatedAt: base.Add(time.Hour)},
	}

	first := firstConversationTimes(entries)
	assert.Len(t, first, 2)
	assert.Equal(t, base, first[dealA])
	assert.Equal(t, base.Add(time.Hour), first[dealB])
}

func TestAverageMinutesToFirstConversation(t *testing.T) {
	dealA := bson.NewObjectID()
	dealB := bson.NewObjectID()
	dealC := bson.NewObjectID()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	deals := []schemas.Deal{
		{ID: dealA, CreatedAt: base},                    // primeira conversa 30 min depois
		{ID: dealB, CreatedAt: base},                    // primeira conversa 90 min depois
		{ID: dealC, CreatedAt: base.Add(2 * time.Hour)}, // conversa anterior à criação, ignorada
	}
	first := map[bson.ObjectID]time.Time{
		dealA: base.Add(30 * time.Minute),
		dealB: base.Add(90 * time.Minute),
		dealC: base,
	}

	assert.Equal(t, 60.0, averageMinutesToFirstConversation(deals, first))
}

func TestAverageMinutesToFirstConversationEmpty(t *testing.T) {
	assert.Equal(t, 0.0, averageMinutesToFirstConversation(nil, nil))

	// Negócio sem conversa não conta.
	deals := []schemas.Deal{{ID: bson.NewObjectID(), CreatedAt: time.Now()}}
	assert.Equal(t, 0.0, averageMinutesToFirstConversation(deals, map[bson.ObjectID]time.Time{}))
}
