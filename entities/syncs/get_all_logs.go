package syncs

import (
	"api/database"
	"api/middlewares"
	"api/schemas"
	"api/utils"
	"context"
	"encoding/json"
	"net/http"
	"os"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const SYNC_LOGS_PAGE_SIZE = 50

type SyncLogsResponse struct {
	Logs []schemas.SyncLog `json:"logs"`
}

// GetAllLogs devolve a trilha de auditoria do tenant: os 50 registros mais
// recentes.
func GetAllLogs(w http.ResponseWriter, r *http.Request) {
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

	mongoURI := os.Getenv(utils.MONGODB_URI)
	opts := options.Client().ApplyURI(mongoURI)
	mongoClient, err := mongo.Connect(opts)
	if err != nil {
		utils.SendResponse(w, http.StatusBadGateway, "", nil, utils.CANNOT_CONNECT_TO_MONGODB)
		return
	}
	defer mongoClient.Disconnect(ctx)

	collection := mongoClient.Database(database.GetDB()).Collection(database.COLLECTION_SYNC_LOGS)

	findOpts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(SYNC_LOGS_PAGE_SIZE)

	cursor, err := collection.Find(ctx, bson.D{{Key: "organization_id", Value: orgID}}, findOpts)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_SYNC_LOGS_IN_MONGODB)
		return
	}
	defer cursor.Close(ctx)

	logs := []schemas.SyncLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_SYNC_LOGS_IN_MONGODB)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SyncLogsResponse{Logs: logs})
}
