package brokers

import (
	"api/database"
	"api/middlewares"
	"api/schemas"
	"api/utils"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UpdateBrokerRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	IsActive  *bool   `json:"is_active"`
}

func UpdateOne(w http.ResponseWriter, r *http.Request) {
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

	brokerID, err := bson.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Id de corretor inválido", nil, 0)
		return
	}

	body := UpdateBrokerRequest{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Corpo da requisição inválido", nil, 0)
		return
	}

	updateDoc := bson.D{}
	if body.FirstName != nil {
		updateDoc = append(updateDoc, bson.E{Key: "first_name", Value: *body.FirstName})
	}
	if body.LastName != nil {
		updateDoc = append(updateDoc, bson.E{Key: "last_name", Value: *body.LastName})
	}
	if body.Name != nil {
		updateDoc = append(updateDoc, bson.E{Key: "name", Value: *body.Name})
	}
	if body.Email != nil {
		updateDoc = append(updateDoc, bson.E{Key: "email", Value: *body.Email})
	}
	if body.Phone != nil {
		updateDoc = append(updateDoc, bson.E{Key: "phone", Value: *body.Phone})
	}
	if body.IsActive != nil {
		updateDoc = append(updateDoc, bson.E{Key: "is_active", Value: *body.IsActive})
	}

	if len(updateDoc) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Nenhum campo para atualizar foi fornecido"})
		return
	}

	// Se first/last mudou e o nome composto não veio, recompõe.
	if body.Name == nil && (body.FirstName != nil || body.LastName != nil) {
		first := ""
		last := ""
		if body.FirstName != nil {
			first = *body.FirstName
		}
		if body.LastName != nil {
			last = *body.LastName
		}
		if composed := schemas.FullName(first, last); composed != "" {
			updateDoc = append(updateDoc, bson.E{Key: "name", Value: composed})
		}
	}

	updateDoc = append(updateDoc, bson.E{Key: "updated_at", Value: time.Now()})

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

	filter := bson.D{{Key: "_id", Value: brokerID}, {Key: "organization_id", Value: orgID}}

	result, err := collection.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: updateDoc}})
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_UPDATE_BROKER_IN_MONGODB)
		return
	}
	if result.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, "Corretor não encontrado", nil, 0)
		return
	}

	broker := schemas.Broker{}
	if err := collection.FindOne(ctx, filter).Decode(&broker); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_BROKERS_IN_MONGODB)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BrokerResponse{Message: "Corretor atualizado", Broker: broker})
}
