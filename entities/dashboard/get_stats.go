package dashboard

import (
	"api/database"
	"api/middlewares"
	"api/schemas"
	"api/utils"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type DashboardStats struct {
	RiskDeals           int     `json:"riskDeals"`
	ActiveConversations int     `json:"activeConversations"`
	AvgResponseTime     float64 `json:"avgResponseTime"`
	NewSummaries        int     `json:"newSummaries"`
}

// GetStats calcula os KPIs do tenant. O resultado fica em cache no Redis por
// organização; a conclusão de uma sincronização invalida a chave.
func GetStats(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.GetAuthUser(r)
	if !ok {
		utils.SendResponse(w, http.StatusUnauthorized, "Usuário não autenticado", nil, 0)
		return
	}

	orgID, err := bson.ObjectIDFromHex(user.OrganizationID)
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Organização inválida", nil, 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), database.MONGO_TIMEOUT)
	defer cancel()

	if cached, ok := statsFromCache(ctx, user.OrganizationID); ok {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cached)
		return
	}

	mongoURI := os.Getenv(utils.MONGODB_URI)
	opts := options.Client().ApplyURI(mongoURI)
	mongoClient, err := mongo.Connect(opts)
	if err != nil {
		utils.SendResponse(w, http.StatusBadGateway, "", nil, utils.CANNOT_CONNECT_TO_MONGODB)
		return
	}
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(database.GetDB())

	stats, err := computeStats(ctx, db, orgID)
	if err != nil {
		log.Printf("[Dashboard] Erro ao calcular stats da organização %s: %v", user.OrganizationID, err)
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_COMPUTE_DASHBOARD_STATS)
		return
	}

	statsToCache(ctx, user.OrganizationID, stats)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func computeStats(ctx context.Context, db *mongo.Database, orgID bson.ObjectID) (*DashboardStats, error) {
	deals := db.Collection(database.COLLECTION_DEALS)
	activityLogs := db.Collection(database.COLLECTION_ACTIVITY_LOGS)

	now := time.Now()
	stats := &DashboardStats{}

	riskDeals, err := deals.CountDocuments(ctx, bson.D{
		{Key: "organization_id", Value: orgID},
		{Key: "sentiment", Value: schemas.SENTIMENT_NEGATIVE},
		{Key: "status", Value: bson.D{{Key: "$nin", Value: bson.A{schemas.DEAL_STATUS_CLOSED, schemas.DEAL_STATUS_LOST}}}},
	})
	if err != nil {
		return nil, err
	}
	stats.RiskDeals = int(riskDeals)

	conversationDeals := activityLogs.Distinct(ctx, "deal_id", bson.D{
		{Key: "organization_id", Value: orgID},
		{Key: "type", Value: schemas.ACTIVITY_TYPE_CONVERSATION},
		{Key: "created_at", Value: bson.D{{Key: "$gte", Value: now.Add(-7 * 24 * time.Hour)}}},
	})
	if err := conversationDeals.Err(); err != nil {
		return nil, err
	}
	rawIDs := []any{}
	if err := conversationDeals.Decode(&rawIDs); err != nil {
		return nil, err
	}
	stats.ActiveConversations = len(rawIDs)

	newSummaries, err := activityLogs.CountDocuments(ctx, bson.D{
		{Key: "organization_id", Value: orgID},
		{Key: "type", Value: schemas.ACTIVITY_TYPE_CONVERSATION},
		{Key: "created_at", Value: bson.D{{Key: "$gte", Value: now.Add(-24 * time.Hour)}}},
	})
	if err != nil {
		return nil, err
	}
	stats.NewSummaries = int(newSummaries)

	avg, err := averageResponseMinutes(ctx, db, orgID, now.Add(-30*24*time.Hour))
	if err != nil {
		return nil, err
	}
	stats.AvgResponseTime = avg

	return stats, nil
}

// averageResponseMinutes mede, em minutos, o tempo médio entre a criação do
// negócio e a primeira conversa registrada nele, nos últimos 30 dias.
func averageResponseMinutes(ctx context.Context, db *mongo.Database, orgID bson.ObjectID, since time.Time) (float64, error) {
	activityLogs := db.Collection(database.COLLECTION_ACTIVITY_LOGS)

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := activityLogs.Find(ctx, bson.D{
		{Key: "organization_id", Value: orgID},
		{Key: "type", Value: schemas.ACTIVITY_TYPE_CONVERSATION},
		{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}},
	}, findOpts)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	entries := []schemas.ActivityLog{}
	if err := cursor.All(ctx, &entries); err != nil {
		return 0, err
	}

	firstConversation := firstConversationTimes(entries)
	if len(firstConversation) == 0 {
		return 0, nil
	}

	dealIDs := make(bson.A, 0, len(firstConversation))
	for dealID := range firstConversation {
		dealIDs = append(dealIDs, dealID)
	}

	dealsCursor, err := db.Collection(database.COLLECTION_DEALS).Find(ctx, bson.D{
		{Key: "organization_id", Value: orgID},
		{Key: "_id", Value: bson.D{{Key: "$in", Value: dealIDs}}},
	})
	if err != nil {
		return 0, err
	}
	defer dealsCursor.Close(ctx)

	deals := []schemas.Deal{}
	if err := dealsCursor.All(ctx, &deals); err != nil {
		return 0, err
	}

	return averageMinutesToFirstConversation(deals, firstConversation), nil
}

// firstConversationTimes pega, por negócio, o timestamp da conversa mais
// antiga. As entradas chegam ordenadas por created_at ascendente.
func firstConversationTimes(entries []schemas.ActivityLog) map[bson.ObjectID]time.Time {
	first := map[bson.ObjectID]time.Time{}
	for _, entry := range entries {
		if _, seen := first[entry.DealID]; !seen {
			first[entry.DealID] = entry.CreatedAt
		}
	}
	return first
}

// averageMinutesToFirstConversation ignora pares inconsistentes (primeira
// conversa anterior à criação do negócio).
func averageMinutesToFirstConversation(deals []schemas.Deal, firstConversation map[bson.ObjectID]time.Time) float64 {
	totalMinutes := 0.0
	counted := 0
	for _, deal := range deals {
		first, ok := firstConversation[deal.ID]
		if !ok || first.Before(deal.CreatedAt) {
			continue
		}
		totalMinutes += first.Sub(deal.CreatedAt).Minutes()
		counted++
	}
	if counted == 0 {
		return 0
	}

	return totalMinutes / float64(counted)
}
