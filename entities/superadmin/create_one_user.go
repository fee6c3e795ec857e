package superadmin

import (
	"api/database"
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

type UserResponse struct {
	Message string       `json:"message"`
	User    schemas.User `json:"user"`
}

func isValidRole(role string) bool {
	switch role {
	case schemas.ROLE_USER, schemas.ROLE_ADMIN, schemas.ROLE_SUPERADMIN:
		return true
	}
	return false
}

func CreateOneUser(w http.ResponseWriter, r *http.Request) {
	user := schemas.User{}
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Corpo da requisição inválido", nil, 0)
		return
	}

	if user.Name == "" || user.Email == "" || user.OrganizationID.IsZero() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Nome, email e organização são obrigatórios"})
		return
	}
	if user.Role == "" {
		user.Role = schemas.ROLE_USER
	}
	if !isValidRole(user.Role) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Role inválida"})
		return
	}

	user.ID = bson.ObjectID{}
	user.Active = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

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

	result, err := collection.InsertOne(ctx, user)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_INSERT_USER_TO_MONGODB)
		return
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = id
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(UserResponse{Message: "Usuário criado", User: user})
}
