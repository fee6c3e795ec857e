package syncs

import (
	"api/crmsync"
	"api/database"
	"api/entities/dashboard"
	"api/middlewares"
	"api/schemas"
	"api/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const SOURCE_BOTH = "both"

type CreateSyncRequest struct {
	Source  string `json:"source"`
	Minutes int    `json:"minutes"`
}

type CreateSyncResponse struct {
	Status           string   `json:"status"`
	RecordsProcessed int      `json:"recordsProcessed"`
	Message          string   `json:"message"`
	SyncLogIds       []string `json:"syncLogIds"`
}

// CreateOne é o trigger manual: roda a passada na hora, só para a
// organização do chamador, e bloqueia até terminar. Sem minutos explícitos a
// janela vira backfill do histórico inteiro.
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

	body := CreateSyncRequest{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Corpo da requisição inválido", nil, 0)
		return
	}

	sources := []string{}
	switch body.Source {
	case schemas.CRM_TYPE_VETOR:
		sources = append(sources, schemas.CRM_TYPE_VETOR)
	case schemas.CRM_TYPE_MADA:
		sources = append(sources, schemas.CRM_TYPE_MADA)
	case SOURCE_BOTH:
		sources = append(sources, schemas.CRM_TYPE_VETOR, schemas.CRM_TYPE_MADA)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "Fonte de sincronização desconhecida"})
		return
	}

	ctx := r.Context()

	mongoURI := os.Getenv(utils.MONGODB_URI)
	opts := options.Client().ApplyURI(mongoURI)
	mongoClient, err := mongo.Connect(opts)
	if err != nil {
		utils.SendResponse(w, http.StatusBadGateway, "", nil, utils.CANNOT_CONNECT_TO_MONGODB)
		return
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), database.MONGO_TIMEOUT)
		defer cancel()
		mongoClient.Disconnect(disconnectCtx)
	}()

	org := schemas.Organization{}
	err = mongoClient.Database(database.GetDB()).Collection(database.COLLECTION_ORGANIZATIONS).
		FindOne(ctx, bson.D{{Key: "_id", Value: orgID}}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		utils.SendResponse(w, http.StatusNotFound, "Organização não encontrada", nil, 0)
		return
	}
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_FIND_ORGANIZATIONS_IN_MONGODB)
		return
	}

	// Checagem de credenciais antes de abrir qualquer SyncLog. Com "both",
	// basta uma das fontes estar configurada.
	configured := []string{}
	for _, source := range sources {
		if _, err := crmsync.NewAdapter(org, source); err == nil {
			configured = append(configured, source)
		} else if body.Source != SOURCE_BOTH {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(schemas.ApiResponse{
				Error:   "credentials_not_configured",
				Message: fmt.Sprintf("Credenciais não configuradas para a fonte %s", source),
			})
			return
		}
	}
	if len(configured) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{
			Error:   "credentials_not_configured",
			Message: "Nenhuma fonte de sincronização configurada para a organização",
		})
		return
	}

	store := crmsync.NewMongoStore(mongoClient)
	orchestrator := crmsync.NewOrchestrator(store)
	orchestrator.OnPassCompleted = func(org schemas.Organization, source string, result crmsync.PassResult) {
		dashboard.InvalidateStatsCache(ctx, org.ID.Hex())
		dashboard.BroadcastSyncCompleted(org.ID.Hex(), source, result.RecordsProcessed)
	}

	lookback := crmsync.LookbackMinutes(body.Minutes, 0)

	totalRecords := 0
	syncLogIds := []string{}
	for _, source := range configured {
		result, err := orchestrator.RunPass(ctx, org, source, lookback)
		if !result.SyncLogID.IsZero() {
			syncLogIds = append(syncLogIds, result.SyncLogID.Hex())
		}
		totalRecords += result.RecordsProcessed

		if errors.Is(err, crmsync.ErrCredentialsNotConfigured) {
			continue
		}
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(CreateSyncResponse{
				Status:           schemas.SYNC_STATUS_ERROR,
				RecordsProcessed: totalRecords,
				Message:          fmt.Sprintf("Sincronização %s falhou: %v", source, err),
				SyncLogIds:       syncLogIds,
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CreateSyncResponse{
		Status:           schemas.SYNC_STATUS_SUCCESS,
		RecordsProcessed: totalRecords,
		Message:          "Sincronização concluída",
		SyncLogIds:       syncLogIds,
	})
}
