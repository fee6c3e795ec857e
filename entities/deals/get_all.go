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

type DealsListResponse struct {
	Deals []schemas.Deal `json:"deals"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// GetAll lista os negócios do tenant, paginados em ordem de criação para as
// páginas concatenarem sem lacuna nem sobreposição.
func GetAll(w http.ResponseWriter, r *http.Request) {
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

	page, limit := NormalizePagination(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	filter := BuildListFilter(orgID, r.URL.Query())

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

	collection := mongoClient.Database(database.GetDB()).Collection(database.COLLECTION_DEALS)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_DEALS_IN_MONGODB)
		return
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, findOpts)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_DEALS_IN_MONGODB)
		return
	}
	defer cursor.Close(ctx)

	deals := []schemas.Deal{}
	if err := cursor.All(ctx, &deals); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_DEALS_IN_MONGODB)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DealsListResponse{
		Deals: deals,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
