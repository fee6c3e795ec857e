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

type OrganizationResponse struct {
	Message      string               `json:"message"`
	Organization schemas.Organization `json:"organization"`
}

func isValidCrmType(crmType string) bool {
	switch crmType {
	case schemas.CRM_TYPE_NONE, schemas.CRM_TYPE_VETOR, schemas.CRM_TYPE_MADA:
		return true
	}
	return false
}

// CreateOneOrganization cadastra um tenant. As credenciais de crm_config são
// aceitas aqui e nunca devolvidas em listagens.
func CreateOneOrganization(w http.ResponseWriter, r *http.Request) {
	org := schemas.Organization{}
	if err := json.NewDecoder(r.Body).Decode(&org); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Corpo da requisição inválido", nil, 0)
		return
	}

	if org.Name == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Nome da organização é obrigatório"})
		return
	}
	if org.CrmType == "" {
		org.CrmType = schemas.CRM_TYPE_NONE
	}
	if !isValidCrmType(org.CrmType) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Tipo de CRM inválido"})
		return
	}

	org.ID = bson.ObjectID{}
	org.CreatedAt = time.Now()
	org.UpdatedAt = time.Now()

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

	result, err := collection.InsertOne(ctx, org)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_INSERT_ORGANIZATION_TO_MONGODB)
		return
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		org.ID = id
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(OrganizationResponse{Message: "Organização criada", Organization: org.PublicView()})
}
