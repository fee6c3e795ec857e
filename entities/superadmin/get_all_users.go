package superadmin

import (
	"api/database"
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

type UsersListResponse struct {
	Users []schemas.User `json:"users"`
}

// GetAllUsers lista usuários de todos os tenants; ?organization_id restringe
// a um só.
func GetAllUsers(w http.ResponseWriter, r *http.Request) {
	filter := bson.D{}
	if rawOrgID := r.URL.Query().Get("organization_id"); rawOrgID != "" {
		orgID, err := bson.ObjectIDFromHex(rawOrgID)
		if err != nil {
			utils.SendResponse(w, http.StatusBadRequest, "Id de organização inválido", nil, 0)
			return
		}
		filter = append(filter, bson.E{Key: "organization_id", Value: orgID})
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

	collection := mongoClient.Database(database.GetDB()).Collection(database.COLLECTION_USERS)

	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_USERS_IN_MONGODB)
		return
	}
	defer cursor.Close(ctx)

	users := []schemas.User{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_USERS_IN_MONGODB)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UsersListResponse{Users: users})
}
