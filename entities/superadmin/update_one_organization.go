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

type UpdateOrganizationRequest struct {
	Name      *string            `json:"name"`
	CrmType   *string            `json:"crm_type"`
	CrmConfig *schemas.CrmConfig `json:"crm_config"`
}

func UpdateOneOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := bson.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Id de organização inválido", nil, 0)
		return
	}

	body := UpdateOrganizationRequest{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Corpo da requisição inválido", nil, 0)
		return
	}

	updateDoc := bson.D{}
	if body.Name != nil && *body.Name != "" {
		updateDoc = append(updateDoc, bson.E{Key: "name", Value: *body.Name})
	}
	if body.CrmType != nil {
		if !isValidCrmType(*body.CrmType) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Tipo de CRM inválido"})
			return
		}
		updateDoc = append(updateDoc, bson.E{Key: "crm_type", Value: *body.CrmType})
	}
	if body.CrmConfig != nil {
		updateDoc = append(updateDoc, bson.E{Key: "crm_config", Value: *body.CrmConfig})
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

	collection := mongoClient.Database(database.GetDB()).Collection(database.COLLECTION_ORGANIZATIONS)

	filter := bson.D{{Key: "_id", Value: orgID}}
	result, err := collection.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: updateDoc}})
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_UPDATE_ORGANIZATION_IN_MONGODB)
		return
	}
	if result.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, "Organização não encontrada", nil, 0)
		return
	}

	org := schemas.Organization{}
	if err := collection.FindOne(ctx, filter).Decode(&org); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_ORGANIZATIONS_IN_MONGODB)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(OrganizationResponse{Message: "Organização atualizada", Organization: org.PublicView()})
}
