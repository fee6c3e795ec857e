package crmsync

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"api/schemas"
)

// PASS_TIMEOUT limita uma passada inteira; estouro vira o caminho de erro
// normal do orquestrador.
const PASS_TIMEOUT = 5 * time.Minute

type PassResult struct {
	SyncLogID        bson.ObjectID
	RecordsProcessed int
}

// Orchestrator executa uma passada por (organização, fonte): abre exatamente
// um SyncLog, roda adapter + reconciler e fecha o mesmo SyncLog exatamente
// uma vez, como success ou error. Erros por registro não derrubam a passada;
// eles viram error_message numa linha de sucesso.
type Orchestrator struct {
	store      Store
	reconciler *Reconciler

	// newAdapter existe para os testes trocarem a fábrica; em produção é
	// NewAdapter.
	newAdapter func(org schemas.Organization, source string) (CrmAdapter, error)

	// OnPassCompleted é chamado após cada passada bem-sucedida (invalidação
	// de cache, broadcast para o dashboard). Opcional.
	OnPassCompleted func(org schemas.Organization, source string, result PassResult)
}

func NewOrchestrator(store Store) *Orchestrator {
	return &Orchestrator{
		store:      store,
		reconciler: NewReconciler(store),
		newAdapter: NewAdapter,
	}
}

// RunPass executa uma passada completa. Credencial ausente devolve
// ErrCredentialsNotConfigured antes de qualquer SyncLog ser criado.
func (o *Orchestrator) RunPass(ctx context.Context, org schemas.Organization, source string, lookbackMinutes int) (PassResult, error) {
	adapter, err := o.newAdapter(org, source)
	if err != nil {
		return PassResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, PASS_TIMEOUT)
	defer cancel()

	syncLog := &schemas.SyncLog{
		OrganizationID: org.ID,
		Source:         source,
		Status:         schemas.SYNC_STATUS_RUNNING,
		StartedAt:      time.Now(),
	}
	if err := o.store.CreateSyncLog(ctx, syncLog); err != nil {
		return PassResult{}, fmt.Errorf("abrindo sync log: %w", err)
	}

	processed, recordErrs, passErr := o.runSource(ctx, org, adapter, source, lookbackMinutes)

	result := PassResult{SyncLogID: syncLog.ID, RecordsProcessed: processed}

	if passErr != nil {
		if completeErr := o.store.CompleteSyncLog(ctx, syncLog.ID, schemas.SYNC_STATUS_ERROR, processed, passErr.Error()); completeErr != nil {
			log.Printf("[Sync] Erro ao fechar sync log %s: %v", syncLog.ID.Hex(), completeErr)
		}
		return result, passErr
	}

	// Sucesso = a passada não quebrou; erros por registro ainda aparecem na
	// linha.
	errorMessage := strings.Join(recordErrs, "; ")
	if err := o.store.CompleteSyncLog(ctx, syncLog.ID, schemas.SYNC_STATUS_SUCCESS, processed, errorMessage); err != nil {
		log.Printf("[Sync] Erro ao fechar sync log %s: %v", syncLog.ID.Hex(), err)
	}

	if o.OnPassCompleted != nil {
		o.OnPassCompleted(org, source, result)
	}

	return result, nil
}

// runSource busca e reconcilia na ordem fixa da passada: corretores antes de
// negócios (vínculo por email) e negócios antes de notas (vínculo por id
// externo).
func (o *Orchestrator) runSource(ctx context.Context, org schemas.Organization, adapter CrmAdapter, source string, lookbackMinutes int) (int, []string, error) {
	if source == schemas.CRM_TYPE_MADA {
		conversations, err := adapter.FetchConversations(ctx, lookbackMinutes)
		if err != nil {
			return 0, nil, fmt.Errorf("buscando conversas: %w", err)
		}
		processed, errs := o.reconciler.SyncConversations(ctx, org.ID, conversations)
		return processed, errs, nil
	}

	total := 0
	allErrs := []string{}

	users, err := adapter.FetchUsers(ctx, lookbackMinutes)
	if err != nil {
		return total, allErrs, fmt.Errorf("buscando usuários: %w", err)
	}
	processed, errs := o.reconciler.SyncUsers(ctx, org.ID, users)
	total += processed
	allErrs = append(allErrs, errs...)

	clients, err := adapter.FetchClients(ctx, lookbackMinutes)
	if err != nil {
		return total, allErrs, fmt.Errorf("buscando clientes: %w", err)
	}
	properties, err := adapter.FetchProperties(ctx, lookbackMinutes)
	if err != nil {
		return total, allErrs, fmt.Errorf("buscando imóveis: %w", err)
	}

	clientsByID := make(map[string]ExternalClient, len(clients))
	for _, client := range clients {
		clientsByID[client.ID] = client
	}
	propertiesByID := make(map[string]ExternalProperty, len(properties))
	for _, property := range properties {
		propertiesByID[property.ID] = property
	}

	deals, err := adapter.FetchDeals(ctx, lookbackMinutes)
	if err != nil {
		return total, allErrs, fmt.Errorf("buscando negócios: %w", err)
	}
	processed, errs = o.reconciler.SyncDeals(ctx, org.ID, deals, clientsByID, propertiesByID)
	total += processed
	allErrs = append(allErrs, errs...)

	notes, err := adapter.FetchNotes(ctx, lookbackMinutes)
	if err != nil {
		return total, allErrs, fmt.Errorf("buscando notas: %w", err)
	}
	processed, errs = o.reconciler.SyncNotes(ctx, org.ID, notes)
	total += processed
	allErrs = append(allErrs, errs...)

	return total, allErrs, nil
}

// RunScheduledTick roda a fonte para todas as organizações configuradas, em
// sequência. Organização sem credencial é pulada sem registrar sucesso nem
// erro, só uma linha de log.
func (o *Orchestrator) RunScheduledTick(ctx context.Context, source string, intervalMinutes int) {
	orgs, err := o.store.ListOrganizationsByCrmType(ctx, source)
	if err != nil {
		log.Printf("[Sync] Erro ao listar organizações (%s): %v", source, err)
		return
	}

	for _, org := range orgs {
		result, err := o.RunPass(ctx, org, source, intervalMinutes)
		if err == ErrCredentialsNotConfigured {
			log.Printf("[Sync] Organização %s sem credenciais para %s, pulando", org.ID.Hex(), source)
			continue
		}
		if err != nil {
			log.Printf("[Sync] Passada %s falhou para organização %s: %v", source, org.ID.Hex(), err)
			continue
		}
		log.Printf("[Sync] Passada %s concluída para organização %s: %d registros", source, org.ID.Hex(), result.RecordsProcessed)
	}
}
