package superadmin

import (
	"api/database"
	"api/schemas"
	"api/utils"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type legacyDeal struct {
	ID          int64
	Titulo      string
	ClienteNome sql.NullString
	ClienteFone sql.NullString
	Valor       sql.NullFloat64
	Origem      sql.NullString
	CreatedAt   time.Time
}

type LegacyImportResponse struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// ImportLegacyDeals lê os negócios do sistema antigo (MySQL) e semeia a
// coleção de deals da organização, guardando old_id como proveniência.
// Registros já importados são pulados pelo old_id.
func ImportLegacyDeals(w http.ResponseWriter, r *http.Request) {
	orgID, err := bson.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Id de organização inválido", nil, 0)
		return
	}

	mysqlURI := os.Getenv(utils.MYSQL_URI)
	if mysqlURI == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(schemas.ApiResponse{Error: "validation_error", Message: "MYSQL_URI não configurada para importação legada"})
		return
	}

	legacyDeals, err := fetchLegacyDeals(mysqlURI)
	if err != nil {
		utils.SendResponse(w, http.StatusBadGateway, "", nil, utils.CANNOT_CONNECT_TO_MYSQL)
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

	collection := mongoClient.Database(database.GetDB()).Collection(database.COLLECTION_DEALS)

	imported := 0
	skipped := 0
	now := time.Now()

	for _, legacy := range legacyDeals {
		count, err := collection.CountDocuments(ctx, bson.D{
			{Key: "organization_id", Value: orgID},
			{Key: "old_id", Value: legacy.ID},
		})
		if err != nil {
			utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_IMPORT_LEGACY_DEALS)
			return
		}
		if count > 0 {
			skipped++
			continue
		}

		deal := schemas.Deal{
			OrganizationID: orgID,
			OldID:          legacy.ID,
			Title:          legacy.Titulo,
			ClientName:     legacy.ClienteNome.String,
			ClientPhone:    legacy.ClienteFone.String,
			Status:         schemas.DEAL_STATUS_NEW,
			PotentialValue: legacy.Valor.Float64,
			LeadOrigin:     legacy.Origem.String,
			LastActivityAt: legacy.CreatedAt,
			CreatedAt:      legacy.CreatedAt,
			UpdatedAt:      now,
		}

		if _, err := collection.InsertOne(ctx, deal); err != nil {
			utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_IMPORT_LEGACY_DEALS)
			return
		}
		imported++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LegacyImportResponse{
		Message:  fmt.Sprintf("Importação legada concluída: %d importados, %d já existentes", imported, skipped),
		Imported: imported,
		Skipped:  skipped,
	})
}

func fetchLegacyDeals(mysqlURI string) ([]legacyDeal, error) {
	mysqlDB, err := sql.Open("mysql", mysqlURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	defer mysqlDB.Close()

	mysqlDB.SetConnMaxLifetime(database.MYSQL_CONN_MAX_LIFETIME)
	mysqlDB.SetMaxOpenConns(database.MYSQL_MAX_OPEN_CONNS)
	mysqlDB.SetMaxIdleConns(database.MYSQL_MAX_IDLE_CONNS)

	rows, err := mysqlDB.Query("SELECT id, titulo, cliente_nome, cliente_fone, valor, origem, created_at FROM negocios_legado")
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy deals from MySQL: %w", err)
	}
	defer rows.Close()

	deals := []legacyDeal{}
	for rows.Next() {
		deal := legacyDeal{}
		err := rows.Scan(
			&deal.ID,
			&deal.Titulo,
			&deal.ClienteNome,
			&deal.ClienteFone,
			&deal.Valor,
			&deal.Origem,
			&deal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legacy deal row: %w", err)
		}
		deals = append(deals, deal)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legacy deal rows: %w", err)
	}

	return deals, nil
}
