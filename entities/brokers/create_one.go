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

type CreateBrokerRequest struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type BrokerResponse struct {
	Message string         `json:"message"`
	Broker  schemas.Broker `json:"broker"`
}

// CreateOne cadastra um corretor manual (sem vínculo com o CRM). Aceita o
// nome composto ou first/last separados.
func CreateOne(w http.ResponseWriter, r *http.Request) {
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

	body := CreateBrokerRequest{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Corpo da requisição inválido", nil, 0)
		return
	}

	name := body.Name
	if name == "" {
		name = schemas.FullName(body.FirstName, body.LastName)
	}
	if name == "" || body.Email == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Nome e email são obrigatórios"})
		return
	}

	now := time.Now()
	broker := schemas.Broker{
		OrganizationID: orgID,
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		Name:           name,
		Email:          body.Email,
		Phone:          body.Phone,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
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

	collection := mongoClient.Database(database.GetDB()).Collection(database.COLLECTION_BROKERS)

	result, err := collection.InsertOne(ctx, broker)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_INSERT_BROKER_TO_MONGODB)
		return
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		broker.ID = id
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(BrokerResponse{Message: "Corretor criado", Broker: broker})
}
