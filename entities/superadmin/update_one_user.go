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

type UpdateUserRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Role           *string `json:"role"`
	Active         *bool   `json:"active"`
	OrganizationID *string `json:"organization_id"`
}

func UpdateOneUser(w http.ResponseWriter, r *http.Request) {
	userID, err := bson.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Id de usuário inválido", nil, 0)
		return
	}

	body := UpdateUserRequest{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Corpo da requisição inválido", nil, 0)
		return
	}

	updateDoc := bson.D{}
	if body.Name != nil && *body.Name != "" {
		updateDoc = append(updateDoc, bson.E{Key: "name", Value: *body.Name})
	}
	if body.Email != nil && *body.Email != "" {
		updateDoc = append(updateDoc, bson.E{Key: "email", Value: *body.Email})
	}
	if body.Role != nil {
		if !isValidRole(*body.Role) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Role inválida"})
			return
		}
		updateDoc = append(updateDoc, bson.E{Key: "role", Value: *body.Role})
	}
	if body.Active != nil {
		updateDoc = append(updateDoc, bson.E{Key: "active", Value: *body.Active})
	}
	if body.OrganizationID != nil {
		orgID, err := bson.ObjectIDFromHex(*body.OrganizationID)
		if err != nil {
			utils.SendResponse(w, http.StatusBadRequest, "Id de organização inválido", nil, 0)
			return
		}
		updateDoc = append(updateDoc, bson.E{Key: "organization_id", Value: orgID})
	}

	if len(updateDoc) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Nenhum campo para atualizar foi fornecido"})
		return
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

	collection := mongoClient.Database(database.GetDB()).Collection(database.COLLECTION_USERS)

	filter := bson.D{{Key: "_id", Value: userID}}
	result, err := collection.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: updateDoc}})
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_UPDATE_USER_IN_MONGODB)
		return
	}
	if result.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, "Usuário não encontrado", nil, 0)
		return
	}

	user := schemas.User{}
	if err := collection.FindOne(ctx, filter).Decode(&user); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_USERS_IN_MONGODB)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UserResponse{Message: "Usuário atualizado", User: user})
}
