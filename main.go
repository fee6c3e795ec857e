package main

import (
	"api/crmsync"
	"api/database"
	"api/entities/brokers"
	"api/entities/dashboard"
	"api/entities/deals"
	"api/entities/superadmin"
	"api/entities/syncs"
	"api/middlewares"
	"api/schemas"
	"api/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func main() {
	utils.LoadEnvVariables()

	env := os.Getenv(utils.ENV)
	if env == utils.ENV_RELEASE {
		fmt.Printf("\033[1;31;47m[ATENÇÃO] Rodando em ambiente de PRODUÇÃO!\033[0m\n")
	} else {
		fmt.Printf("[INFO] Ambiente atual: %s\n", env)
	}

	scheduler := startScheduler()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	mux.Handle("GET /api/dashboard/stats", middlewares.Auth(http.HandlerFunc(dashboard.GetStats)))

	mux.Handle("GET /api/deals", middlewares.Auth(http.HandlerFunc(deals.GetAll)))
	mux.Handle("GET /api/deals/{id}", middlewares.Auth(http.HandlerFunc(deals.GetOne)))
	mux.Handle("PUT /api/deals/{id}", middlewares.Auth(http.HandlerFunc(deals.UpdateOne)))

	mux.Handle("GET /api/brokers", middlewares.Auth(http.HandlerFunc(brokers.GetAll)))
	mux.Handle("POST /api/brokers", middlewares.Auth(http.HandlerFunc(brokers.CreateOne)))
	mux.Handle("PUT /api/brokers/{id}", middlewares.Auth(http.HandlerFunc(brokers.UpdateOne)))

	mux.Handle("POST /api/sync", middlewares.Auth(http.HandlerFunc(syncs.CreateOne)))
	mux.Handle("GET /api/sync/logs", middlewares.Auth(http.HandlerFunc(syncs.GetAllLogs)))

	mux.Handle("GET /api/superadmin/organizations", middlewares.Superadmin(http.HandlerFunc(superadmin.GetAllOrganizations)))
	mux.Handle("POST /api/superadmin/organizations", middlewares.Superadmin(http.HandlerFunc(superadmin.CreateOneOrganization)))
	mux.Handle("PUT /api/superadmin/organizations/{id}", middlewares.Superadmin(http.HandlerFunc(superadmin.UpdateOneOrganization)))
	mux.Handle("DELETE /api/superadmin/organizations/{id}", middlewares.Superadmin(http.HandlerFunc(superadmin.DeleteOneOrganization)))
	mux.Handle("POST /api/superadmin/organizations/{id}/legacy-import", middlewares.Superadmin(http.HandlerFunc(superadmin.ImportLegacyDeals)))

	mux.Handle("GET /api/superadmin/users", middlewares.Superadmin(http.HandlerFunc(superadmin.GetAllUsers)))
	mux.Handle("POST /api/superadmin/users", middlewares.Superadmin(http.HandlerFunc(superadmin.CreateOneUser)))
	mux.Handle("PUT /api/superadmin/users/{id}", middlewares.Superadmin(http.HandlerFunc(superadmin.UpdateOneUser)))
	mux.Handle("DELETE /api/superadmin/users/{id}", middlewares.Superadmin(http.HandlerFunc(superadmin.DeleteOneUser)))

	mux.Handle("GET /api/ws/dashboard", middlewares.Auth(http.HandlerFunc(dashboard.DashboardWebSocketHandler)))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", os.Getenv(utils.PORT)),
		Handler: middlewares.Cors(mux),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		log.Println("[Server] Encerrando...")
		if scheduler != nil {
			scheduler.Stop()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	fmt.Printf("Servidor iniciado na porta %s às %s\n", os.Getenv(utils.PORT), time.Now().Format("2006-01-02 15:04:05"))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[Server] Erro: %v", err)
	}
}

// startScheduler conecta o client de longa duração usado só pela
// sincronização agendada; as rotas HTTP seguem com conexões próprias.
func startScheduler() *crmsync.Scheduler {
	ctx, cancel := context.WithTimeout(context.Background(), database.MONGO_TIMEOUT)
	defer cancel()

	mongoURI := os.Getenv(utils.MONGODB_URI)
	opts := options.Client().ApplyURI(mongoURI)
	mongoClient, err := mongo.Connect(opts)
	if err != nil {
		log.Printf("[Sync] Não foi possível conectar no MongoDB, scheduler desativado: %v", err)
		return nil
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Printf("[Sync] MongoDB não respondeu ao ping, scheduler desativado: %v", err)
		return nil
	}

	store := crmsync.NewMongoStore(mongoClient)
	orchestrator := crmsync.NewOrchestrator(store)
	orchestrator.OnPassCompleted = func(org schemas.Organization, source string, result crmsync.PassResult) {
		invalidateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		dashboard.InvalidateStatsCache(invalidateCtx, org.ID.Hex())
		dashboard.BroadcastSyncCompleted(org.ID.Hex(), source, result.RecordsProcessed)
	}

	scheduler := crmsync.NewScheduler(orchestrator, store)
	scheduler.Start()
	return scheduler
}
