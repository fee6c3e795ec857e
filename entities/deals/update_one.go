package deals

import (
	"api/crmsync"
	"api/database"
	"api/middlewares"
	"api/schemas"
	"api/utils"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UpdateDealRequest struct {
	Status         *string  `json:"status"`
	Sentiment      *string  `json:"sentiment"`
	SmartSummary   *string  `json:"smart_summary"`
	Notes          *string  `json:"notes"`
	PotentialValue *float64 `json:"potential_value"`
	BrokerID       *string  `json:"broker_id"`
}

type UpdateDealResponse struct {
	Message string       `json:"message"`
	Deal    schemas.Deal `json:"deal"`
}

// UpdateOne aplica campos parciais no negócio. Mudança de status gera um
// ActivityLog e é empurrada para o CRM quando o negócio tem id externo.
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

	dealID, err := bson.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Id de negócio inválido", nil, 0)
		return
	}

	body := UpdateDealRequest{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Corpo da requisição inválido", nil, 0)
		return
	}

	if body.Status != nil && !IsValidStatus(*body.Status) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Status de negócio inválido"})
		return
	}
	if body.Sentiment != nil && *body.Sentiment != "" && !IsValidSentiment(*body.Sentiment) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Sentimento inválido"})
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

	db := mongoClient.Database(database.GetDB())
	collection := db.Collection(database.COLLECTION_DEALS)

	filter := bson.D{{Key: "_id", Value: dealID}, {Key: "organization_id", Value: orgID}}

	deal := schemas.Deal{}
	err = collection.FindOne(ctx, filter).Decode(&deal)
	if err == mongo.ErrNoDocuments {
		utils.SendResponse(w, http.StatusNotFound, "Negócio não encontrado", nil, 0)
		return
	}
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_DEAL_IN_MONGODB)
		return
	}

	updateDoc := bson.D{}
	statusChanged := false

	if body.Status != nil && *body.Status != deal.Status {
		updateDoc = append(updateDoc, bson.E{Key: "status", Value: *body.Status})
		statusChanged = true
	}
	if body.Sentiment != nil {
		updateDoc = append(updateDoc, bson.E{Key: "sentiment", Value: *body.Sentiment})
	}
	if body.SmartSummary != nil {
		updateDoc = append(updateDoc, bson.E{Key: "smart_summary", Value: *body.SmartSummary})
	}
	if body.Notes != nil {
		updateDoc = append(updateDoc, bson.E{Key: "notes", Value: *body.Notes})
	}
	if body.PotentialValue != nil {
		updateDoc = append(updateDoc, bson.E{Key: "potential_value", Value: *body.PotentialValue})
	}
	if body.BrokerID != nil {
		if *body.BrokerID == "" {
			updateDoc = append(updateDoc, bson.E{Key: "broker_id", Value: nil})
		} else {
			brokerID, err := bson.ObjectIDFromHex(*body.BrokerID)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Id de corretor inválido"})
				return
			}
			updateDoc = append(updateDoc, bson.E{Key: "broker_id", Value: brokerID})
		}
	}

	if len(updateDoc) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Nenhum campo para atualizar foi fornecido"})
		return
	}

	now := time.Now()
	updateDoc = append(updateDoc, bson.E{Key: "updated_at", Value: now})
	updateDoc = append(updateDoc, bson.E{Key: "last_activity_at", Value: now})

	_, err = collection.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: updateDoc}})
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_UPDATE_DEAL_IN_MONGODB)
		return
	}

	if statusChanged {
		registerStatusChange(ctx, db, deal, *body.Status)
		pushStatusToCrm(ctx, db, deal, *body.Status)
	}

	updated := schemas.Deal{}
	if err := collection.FindOne(ctx, filter).Decode(&updated); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_DEAL_IN_MONGODB)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UpdateDealResponse{Message: "Negócio atualizado", Deal: updated})
}

func registerStatusChange(ctx context.Context, db *mongo.Database, deal schemas.Deal, newStatus string) {
	entry := schemas.ActivityLog{
		OrganizationID: deal.OrganizationID,
		DealID:         deal.ID,
		Type:           schemas.ACTIVITY_TYPE_STATUS_CHANGE,
		Content:        "Status alterado de " + deal.Status + " para " + newStatus,
		Metadata:       map[string]string{"from": deal.Status, "to": newStatus},
		CreatedAt:      time.Now(),
	}

	if _, err := db.Collection(database.COLLECTION_ACTIVITY_LOGS).InsertOne(ctx, entry); err != nil {
		log.Printf("[Deals] Erro ao registrar mudança de status do negócio %s: %v", deal.ID.Hex(), err)
	}
}

// pushStatusToCrm empurra o novo status para o CRM quando dá: falha aqui não
// derruba a atualização local.
func pushStatusToCrm(ctx context.Context, db *mongo.Database, deal schemas.Deal, newStatus string) {
	if deal.CrmExternalID == "" {
		return
	}

	org := schemas.Organization{}
	err := db.Collection(database.COLLECTION_ORGANIZATIONS).
		FindOne(ctx, bson.D{{Key: "_id", Value: deal.OrganizationID}}).Decode(&org)
	if err != nil || org.CrmType != schemas.CRM_TYPE_VETOR {
		return
	}

	adapter, err := crmsync.NewAdapter(org, schemas.CRM_TYPE_VETOR)
	if err != nil {
		return
	}

	if err := adapter.UpdateDeal(ctx, deal.CrmExternalID, crmsync.DealUpdate{"status": newStatus}); err != nil {
		log.Printf("[Deals] Erro ao propagar status do negócio %s para o CRM: %v", deal.ID.Hex(), err)
	}
}
