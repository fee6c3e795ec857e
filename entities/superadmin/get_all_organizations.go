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

type OrganizationsListResponse struct {
	Organizations []schemas.Organization `json:"organizations"`
}

// GetAllOrganizations lista todas as organizações, sem as credenciais de
// CRM: elas só entram no sistema por escrita, nunca saem em listagem.
func GetAllOrganizations(w http.ResponseWriter, r *http.Request) {
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

	cursor, err := collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_ORGANIZATIONS_IN_MONGODB)
		return
	}
	defer cursor.Close(ctx)

	orgs := []schemas.Organization{}
	if err := cursor.All(ctx, &orgs); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_ORGANIZATIONS_IN_MONGODB)
		return
	}

	public := make([]schemas.Organization, 0, len(orgs))
	for _, org := range orgs {
		public = append(public, org.PublicView())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(OrganizationsListResponse{Organizations: public})
}
