package brokers

import (
	"api/database"
	"api/middlewares"
	"api/schemas"
	"api/utils"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type BrokersListResponse struct {
	Brokers []schemas.Broker `json:"brokers"`
}

func buildBrokersFilter(orgID bson.ObjectID, query url.Values) bson.D {
	filter := bson.D{{Key: "organization_id", Value: orgID}}

	if active := strings.TrimSpace(query.Get("active")); active != "" {
		filter = append(filter, bson.E{Key: "is_active", Value: active == "true"})
	}
	if search := strings.TrimSpace(query.Get("search")); search != "" {
		regex := bson.Regex{Pattern: utils.EscapeRegex(search), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: regex}},
			bson.D{{Key: "email", Value: regex}},
		}})
	}

	return filter
}

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

	filter := buildBrokersFilter(orgID, r.URL.Query())

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

	collection := mongoClient.Database(database.GetDB()).Collection(database.COLLECTION_BROKERS)

	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := collection.Find(ctx, filter, findOpts)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_BROKERS_IN_MONGODB)
		return
	}
	defer cursor.Close(ctx)

	brokers := []schemas.Broker{}
	if err := cursor.All(ctx, &brokers); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_BROKERS_IN_MONGODB)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BrokersListResponse{Brokers: brokers})
}
