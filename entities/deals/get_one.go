package deals

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

type DealDetailResponse struct {
	schemas.Deal
	ActivityLogs []schemas.ActivityLog `json:"activity_logs"`
}

func GetOne(w http.ResponseWriter, r *http.Request) {
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

	dealID, err := bson.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Id de negócio inválido", nil, 0)
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

	db := mongoClient.Database(database.GetDB())

	deal := schemas.Deal{}
	filter := bson.D{{Key: "_id", Value: dealID}, {Key: "organization_id", Value: orgID}}
	err = db.Collection(database.COLLECTION_DEALS).FindOne(ctx, filter).Decode(&deal)
	if err == mongo.ErrNoDocuments {
		utils.SendResponse(w, http.StatusNotFound, "Negócio não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_DEAL_IN_MONGODB)
		return
	}

	logsOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.Collection(database.COLLECTION_ACTIVITY_LOGS).Find(ctx, bson.D{
		{Key: "organization_id", Value: orgID},
		{Key: "deal_id", Value: dealID},
	}, logsOpts)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_ACTIVITY_LOGS_IN_MONGODB)
		return
	}
	defer cursor.Close(ctx)

	activityLogs := []schemas.ActivityLog{}
	if err := cursor.All(ctx, &activityLogs); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_ACTIVITY_LOGS_IN_MONGODB)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DealDetailResponse{Deal: deal, ActivityLogs: activityLogs})
}
