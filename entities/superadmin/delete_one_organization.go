package superadmin

import (
	"api/database"
	"api/utils"
	"context"
	"net/http"
	"os"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func DeleteOneOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := bson.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Id de organização inválido", nil, 0)
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

	collection := mongoClient.Database(database.GetDB()).Collection(database.COLLECTION_ORGANIZATIONS)

	result, err := collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: orgID}})
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_DELETE_ORGANIZATION_IN_MONGODB)
		return
	}
	if result.DeletedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, "Organização não encontrada", nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Organização removida", nil, 0)
}
