package crmsync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"api/schemas"
)

func TestSyncUsersCreatesAndUpdates(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store)
	orgID := bson.NewObjectID()
	ctx := context.Background()

	users := []ExternalUser{
		{ID: "u-1", FirstName: "Ana", LastName: "Souza", Email: "ana@imob.com.br", Status: "active"},
		{ID: "u-2", FirstName: "Bruno", LastName: "Lima", Email: "bruno@imob.com.br", Status: "active", Disabled: true},
	}

	processed, errs := reconciler.SyncUsers(ctx, orgID, users)
	require.Empty(t, errs)
	assert.Equal(t, 2, processed)
	require.Len(t, store.brokersForOrg(orgID), 2)

	ana, err := store.FindBrokerByExternalID(ctx, orgID, "u-1")
	require.NoError(t, err)
	require.NotNil(t, ana)
	assert.Equal(t, "Ana Souza", ana.Name)
	assert.True(t, ana.IsActive)

	bruno, err := store.FindBrokerByExternalID(ctx, orgID, "u-2")
	require.NoError(t, err)
	require.NotNil(t, bruno)
	assert.False(t, bruno.IsActive)

	// Segunda passada com o mesmo payload não duplica e atualiza no lugar.
	users[0].LastName = "Souza Pereira"
	processed, errs = reconciler.SyncUsers(ctx, orgID, users)
	require.Empty(t, errs)
	assert.Equal(t, 2, processed)
	assert.Len(t, store.brokersForOrg(orgID), 2)

	ana, err = store.FindBrokerByExternalID(ctx, orgID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza Pereira", ana.Name)
}

func TestSyncUsersKeepsLocalFieldsWhenExternalIsEmpty(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store)
	orgID := bson.NewObjectID()
	ctx := context.Background()

	_, errs := reconciler.SyncUsers(ctx, orgID, []ExternalUser{
		{ID: "u-1", FirstName: "Ana", LastName: "Souza", Email: "ana@imob.com.br", Phone: "11 99999-0000", Status: "active"},
	})
	require.Empty(t, errs)

	// A fonte deixou de mandar telefone; o valor local sobrevive ao merge.
	_, errs = reconciler.SyncUsers(ctx, orgID, []ExternalUser{
		{ID: "u-1", FirstName: "Ana", LastName: "Souza", Email: "ana@imob.com.br", Status: "active"},
	})
	require.Empty(t, errs)

	ana, err := store.FindBrokerByExternalID(ctx, orgID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "11 99999-0000", ana.Phone)
}

func TestSyncDealsCreatesWithLookupEnrichment(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store)
	orgID := bson.NewObjectID()
	ctx := context.Background()

	_, errs := reconciler.SyncUsers(ctx, orgID, []ExternalUser{
		{ID: "u-1", FirstName: "Ana", LastName: "Souza", Email: "ana@imob.com.br", Status: "active"},
	})
	require.Empty(t, errs)

	value := 450000.0
	deals := []ExternalDeal{
		{
			ID:             "d-1",
			ClientID:       "c-1",
			PropertyID:     "p-1",
			BrokerEmail:    "ana@imob.com.br",
			Stage:          "Proposta enviada",
			PotentialValue: &value,
			UpdatedAt:      time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		},
	}
	clients := map[string]ExternalClient{
		"c-1": {ID: "c-1", Name: "Carlos Mota", Phone: "11 98888-0000", Email: "carlos@gmail.com"},
	}
	properties := map[string]ExternalProperty{
		"p-1": {ID: "p-1", Title: "Apartamento 2 dorm - Vila Mariana"},
	}

	processed, errs := reconciler.SyncDeals(ctx, orgID, deals, clients, properties)
	require.Empty(t, errs)
	assert.Equal(t, 1, processed)

	deal, err := store.FindDealByExternalID(ctx, orgID, "d-1")
	require.NoError(t, err)
	require.NotNil(t, deal)
	assert.Equal(t, "Apartamento 2 dorm - Vila Mariana", deal.Title)
	assert.Equal(t, "Carlos Mota", deal.ClientName)
	assert.Equal(t, schemas.DEAL_STATUS_PROPOSAL, deal.Status)
	assert.Equal(t, 450000.0, deal.PotentialValue)
	require.NotNil(t, deal.BrokerID)
	assert.Equal(t, deals[0].UpdatedAt, deal.LastActivityAt)

	ana, _ := store.FindBrokerByEmail(ctx, orgID, "ana@imob.com.br")
	assert.Equal(t, ana.ID, *deal.BrokerID)
}

func TestSyncDealsIsIdempotent(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store)
	orgID := bson.NewObjectID()
	ctx := context.Background()

	deals := []ExternalDeal{
		{ID: "d-1", Title: "Casa Alphaville", Stage: "Visita agendada"},
	}

	for i := 0; i < 3; i++ {
		processed, errs := reconciler.SyncDeals(ctx, orgID, deals, nil, nil)
		require.Empty(t, errs)
		assert.Equal(t, 1, processed)
	}

	assert.Len(t, store.dealsForOrg(orgID), 1)

	// O marcador de sincronização é gravado só na criação do negócio.
	assert.Len(t, store.activityLogsOfType(schemas.ACTIVITY_TYPE_SYNC), 1)
}

func TestSyncDealsMatchesLegacyByTitle(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store)
	orgID := bson.NewObjectID()
	ctx := context.Background()

	require.NoError(t, store.InsertDeal(ctx, &schemas.Deal{
		OrganizationID: orgID,
		Title:          "Casa Alphaville",
		Status:         schemas.DEAL_STATUS_NEW,
	}))

	processed, errs := reconciler.SyncDeals(ctx, orgID, []ExternalDeal{
		{Title: "Casa Alphaville", Stage: "Perdido"},
	}, nil, nil)
	require.Empty(t, errs)
	assert.Equal(t, 1, processed)

	require.Len(t, store.dealsForOrg(orgID), 1)
	assert.Equal(t, schemas.DEAL_STATUS_LOST, store.dealsForOrg(orgID)[0].Status)
}

func TestSyncDealsPartialFailureDoesNotAbortBatch(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store)
	orgID := bson.NewObjectID()
	ctx := context.Background()

	deals := []ExternalDeal{
		{ID: "d-1", Title: "Negócio A"},
		{ID: "d-2", Title: "Negócio B", BrokerEmail: "ninguem@imob.com.br"},
		{ID: "d-3", Title: "Negócio C"},
	}

	processed, errs := reconciler.SyncDeals(ctx, orgID, deals, nil, nil)
	assert.Equal(t, 2, processed)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "ninguem@imob.com.br")

	assert.Len(t, store.dealsForOrg(orgID), 2)
}

func TestSyncDealsIsolatesTenants(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store)
	orgA := bson.NewObjectID()
	orgB := bson.NewObjectID()
	ctx := context.Background()

	// Mesmo id externo em duas organizações vira dois registros distintos.
	_, errs := reconciler.SyncDeals(ctx, orgA, []ExternalDeal{{ID: "d-1", Title: "Sala comercial"}}, nil, nil)
	require.Empty(t, errs)
	_, errs = reconciler.SyncDeals(ctx, orgB, []ExternalDeal{{ID: "d-1", Title: "Cobertura"}}, nil, nil)
	require.Empty(t, errs)

	require.Len(t, store.dealsForOrg(orgA), 1)
	require.Len(t, store.dealsForOrg(orgB), 1)
	assert.Equal(t, "Sala comercial", store.dealsForOrg(orgA)[0].Title)
	assert.Equal(t, "Cobertura", store.dealsForOrg(orgB)[0].Title)
}

func TestSyncNotesDeduplicatesAndSkipsArchived(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store)
	orgID := bson.NewObjectID()
	ctx := context.Background()

	_, errs := reconciler.SyncDeals(ctx, orgID, []ExternalDeal{{ID: "d-1", Title: "Casa Alphaville"}}, nil, nil)
	require.Empty(t, errs)

	notes := []ExternalNote{
		{ID: "n-1", DealID: "d-1", Content: "Cliente pediu retorno na sexta", Priority: "high", DueDate: "2026-09-04"},
		{ID: "n-2", DealID: "d-1", Content: "Nota antiga", Archived: true},
		{ID: "n-3", DealID: "d-404", Content: "Negócio que não existe"},
	}

	processed, errs := reconciler.SyncNotes(ctx, orgID, notes)
	assert.Equal(t, 1, processed)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "d-404")

	noteLogs := store.activityLogsOfType(schemas.ACTIVITY_TYPE_NOTE)
	require.Len(t, noteLogs, 1)
	assert.Equal(t, "high", noteLogs[0].Metadata["priority"])
	assert.Equal(t, "2026-09-04", noteLogs[0].Metadata["due_date"])

	// Segunda passada com a mesma nota não duplica a atividade.
	processed, _ = reconciler.SyncNotes(ctx, orgID, notes[:1])
	assert.Equal(t, 1, processed)
	assert.Len(t, store.activityLogsOfType(schemas.ACTIVITY_TYPE_NOTE), 1)
}

func TestSyncConversationsAppliesSummaryAndSentiment(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store)
	orgID := bson.NewObjectID()
	ctx := context.Background()

	_, errs := reconciler.SyncDeals(ctx, orgID, []ExternalDeal{{ID: "d-1", Title: "Casa Alphaville"}}, nil, nil)
	require.Empty(t, errs)

	conversations := []ExternalConversation{
		{
			ID:             "conv-1",
			DealExternalID: "d-1",
			Summary:        "Cliente demonstrou interesse em fechar este mês",
			Sentiment:      schemas.SENTIMENT_POSITIVE,
			UpdatedAt:      time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC),
		},
		// Sem vínculo com negócio: pulada sem contar nem errar.
		{ID: "conv-2", Summary: "Conversa solta"},
	}

	processed, errs := reconciler.SyncConversations(ctx, orgID, conversations)
	require.Empty(t, errs)
	assert.Equal(t, 1, processed)

	deal, err := store.FindDealByExternalID(ctx, orgID, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "Cliente demonstrou interesse em fechar este mês", deal.SmartSummary)
	assert.Equal(t, schemas.SENTIMENT_POSITIVE, deal.Sentiment)
	assert.Equal(t, conversations[0].UpdatedAt, deal.LastActivityAt)

	require.Len(t, store.activityLogsOfType(schemas.ACTIVITY_TYPE_CONVERSATION), 1)

	// Reprocessar a mesma conversa atualiza o negócio mas não duplica a
	// atividade.
	processed, errs = reconciler.SyncConversations(ctx, orgID, conversations[:1])
	require.Empty(t, errs)
	assert.Equal(t, 1, processed)
	assert.Len(t, store.activityLogsOfType(schemas.ACTIVITY_TYPE_CONVERSATION), 1)
}

func TestSyncConversationsIgnoresInvalidSentiment(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store)
	orgID := bson.NewObjectID()
	ctx := context.Background()

	_, errs := reconciler.SyncDeals(ctx, orgID, []ExternalDeal{{ID: "d-1", Title: "Casa Alphaville"}}, nil, nil)
	require.Empty(t, errs)

	deal, _ := store.FindDealByExternalID(ctx, orgID, "d-1")
	deal.Sentiment = schemas.SENTIMENT_NEUTRAL
	require.NoError(t, store.UpdateDeal(ctx, deal))

	_, errs = reconciler.SyncConversations(ctx, orgID, []ExternalConversation{
		{ID: "conv-1", DealExternalID: "d-1", Sentiment: "animado"},
	})
	require.Empty(t, errs)

	deal, _ = store.FindDealByExternalID(ctx, orgID, "d-1")
	assert.Equal(t, schemas.SENTIMENT_NEUTRAL, deal.Sentiment)
}
