package crmsync

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"api/schemas"
	"api/utils"
)

// Reconciler converte registros externos em upserts locais: acha-ou-cria a
// entidade correspondente e aplica merge last-write-wins por campo. Falha de
// um registro não derruba o lote; ela é acumulada e a passada segue.
type Reconciler struct {
	store Store
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// SyncUsers reconcilia corretores. A chave é o id externo dentro da
// organização; corretor nunca é apagado pela sincronização.
func (r *Reconciler) SyncUsers(ctx context.Context, orgID bson.ObjectID, users []ExternalUser) (int, []string) {
	processed := 0
	errs := []string{}

	for _, user := range users {
		if user.ID == "" {
			errs = append(errs, "usuário sem id externo ignorado")
			continue
		}

		if err := r.upsertBroker(ctx, orgID, user); err != nil {
			log.Printf("[Sync] Erro ao reconciliar corretor %s: %v", user.ID, err)
			errs = append(errs, fmt.Sprintf("corretor %s: %v", user.ID, err))
			continue
		}
		processed++
	}

	return processed, errs
}

func (r *Reconciler) upsertBroker(ctx context.Context, orgID bson.ObjectID, user ExternalUser) error {
	broker, err := r.store.FindBrokerByExternalID(ctx, orgID, user.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	if broker == nil {
		broker = &schemas.Broker{
			OrganizationID: orgID,
			CrmExternalID:  user.ID,
			CreatedAt:      now,
		}
	}

	if user.FirstName != "" {
		broker.FirstName = user.FirstName
	}
	if user.LastName != "" {
		broker.LastName = user.LastName
	}
	if user.Email != "" {
		broker.Email = user.Email
	}
	if user.Phone != "" {
		broker.Phone = user.Phone
	}
	// O campo legado "name" é sempre recomposto, nunca preservado.
	broker.Name = schemas.FullName(broker.FirstName, broker.LastName)
	broker.IsActive = IsBrokerActive(user.Disabled, user.Status)
	broker.UpdatedAt = now

	if broker.ID.IsZero() {
		return r.store.InsertBroker(ctx, broker)
	}
	return r.store.UpdateBroker(ctx, broker)
}

// SyncDeals reconcilia negócios. Clientes e imóveis vêm como mapas de lookup
// da mesma passada; eles não viram entidades locais, só enriquecem o negócio.
func (r *Reconciler) SyncDeals(ctx context.Context, orgID bson.ObjectID, deals []ExternalDeal, clients map[string]ExternalClient, properties map[string]ExternalProperty) (int, []string) {
	processed := 0
	errs := []string{}

	for _, deal := range deals {
		if deal.ID == "" && deal.Title == "" {
			errs = append(errs, "negócio sem id externo e sem título ignorado")
			continue
		}

		if err := r.upsertDeal(ctx, orgID, deal, clients, properties); err != nil {
			log.Printf("[Sync] Erro ao reconciliar negócio %q: %v", deal.ID, err)
			errs = append(errs, fmt.Sprintf("negócio %s: %v", dealLabel(deal), err))
			continue
		}
		processed++
	}

	return processed, errs
}

func dealLabel(deal ExternalDeal) string {
	if deal.ID != "" {
		return deal.ID
	}
	return deal.Title
}

func (r *Reconciler) upsertDeal(ctx context.Context, orgID bson.ObjectID, external ExternalDeal, clients map[string]ExternalClient, properties map[string]ExternalProperty) error {
	title := external.Title
	if property, ok := properties[external.PropertyID]; ok && property.Title != "" {
		title = property.Title
	}

	deal, err := r.matchDeal(ctx, orgID, external, title)
	if err != nil {
		return err
	}

	now := time.Now()
	if deal == nil {
		deal = &schemas.Deal{
			OrganizationID: orgID,
			CrmExternalID:  external.ID,
			Status:         schemas.DEAL_STATUS_NEW,
			CreatedAt:      now,
		}
	}

	if title != "" {
		deal.Title = title
	}

	if client, ok := clients[external.ClientID]; ok {
		if client.Name != "" {
			deal.ClientName = client.Name
		}
		if client.Phone != "" {
			deal.ClientPhone = client.Phone
		}
		if client.Email != "" {
			deal.ClientEmail = client.Email
		}
	}

	if external.Stage != "" {
		deal.Stage = external.Stage
		deal.Status = MapStage(external.Stage)
	}
	if external.PotentialValue != nil {
		deal.PotentialValue = *external.PotentialValue
	}
	if external.CommissionValue != nil {
		deal.CommissionValue = *external.CommissionValue
	}
	if external.ExclusivityUntil != nil {
		deal.ExclusivityUntil = external.ExclusivityUntil
	}
	if external.LeadOrigin != "" {
		deal.LeadOrigin = external.LeadOrigin
	}
	if !external.UpdatedAt.IsZero() {
		deal.LastActivityAt = external.UpdatedAt
	} else if deal.LastActivityAt.IsZero() {
		deal.LastActivityAt = now
	}

	if external.BrokerEmail != "" {
		broker, err := r.store.FindBrokerByEmail(ctx, orgID, external.BrokerEmail)
		if err != nil {
			return err
		}
		if broker == nil {
			return fmt.Errorf("corretor com email %s não encontrado", external.BrokerEmail)
		}
		deal.BrokerID = &broker.ID
	}

	deal.UpdatedAt = now

	if deal.ID.IsZero() {
		if err := r.store.InsertDeal(ctx, deal); err != nil {
			return err
		}
		r.recordSyncMarker(ctx, orgID, deal)
		return nil
	}
	return r.store.UpdateDeal(ctx, deal)
}

// recordSyncMarker deixa na timeline do negócio o momento em que ele entrou
// pela sincronização. Falha aqui não desfaz o negócio já criado.
func (r *Reconciler) recordSyncMarker(ctx context.Context, orgID bson.ObjectID, deal *schemas.Deal) {
	err := r.store.InsertActivityLog(ctx, &schemas.ActivityLog{
		OrganizationID: orgID,
		DealID:         deal.ID,
		Type:           schemas.ACTIVITY_TYPE_SYNC,
		Content:        "Negócio importado pela sincronização",
		CreatedAt:      time.Now(),
	})
	if err != nil {
		log.Printf("[Sync] Erro ao registrar marcador de sincronização do negócio %s: %v", deal.ID.Hex(), err)
	}
}

// matchDeal casa pelo id externo; negócios legados sem id caem no fallback
// por título dentro da organização. O fallback pode colidir (dois negócios
// com o mesmo título), então o uso fica registrado no log.
func (r *Reconciler) matchDeal(ctx context.Context, orgID bson.ObjectID, external ExternalDeal, title string) (*schemas.Deal, error) {
	if external.ID != "" {
		return r.store.FindDealByExternalID(ctx, orgID, external.ID)
	}

	deal, err := r.store.FindDealByTitle(ctx, orgID, title)
	if err != nil {
		return nil, err
	}
	if deal != nil {
		log.Printf("[Sync] Negócio sem id externo casado por título %q na organização %s", title, orgID.Hex())
	}
	return deal, nil
}

// SyncNotes transforma cada nota externa em um ActivityLog do tipo "note".
// Notas arquivadas são excluídas e o id externo deduplica entre passadas.
func (r *Reconciler) SyncNotes(ctx context.Context, orgID bson.ObjectID, notes []ExternalNote) (int, []string) {
	processed := 0
	errs := []string{}

	for _, note := range notes {
		if note.Archived {
			continue
		}
		if note.ID == "" || note.DealID == "" {
			errs = append(errs, "nota sem id externo ou sem negócio ignorada")
			continue
		}

		if err := r.ingestNote(ctx, orgID, note); err != nil {
			log.Printf("[Sync] Erro ao reconciliar nota %s: %v", note.ID, err)
			errs = append(errs, fmt.Sprintf("nota %s: %v", note.ID, err))
			continue
		}
		processed++
	}

	return processed, errs
}

func (r *Reconciler) ingestNote(ctx context.Context, orgID bson.ObjectID, note ExternalNote) error {
	deal, err := r.store.FindDealByExternalID(ctx, orgID, note.DealID)
	if err != nil {
		return err
	}
	if deal == nil {
		return fmt.Errorf("negócio %s da nota não encontrado", note.DealID)
	}

	existing, err := r.store.FindActivityLogByExternalID(ctx, orgID, deal.ID, note.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	metadata := map[string]string{"external_id": note.ID}
	if note.Priority != "" {
		metadata["priority"] = note.Priority
	}
	if utils.IsValidDate(note.DueDate) {
		metadata["due_date"] = note.DueDate
	}

	createdAt := note.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return r.store.InsertActivityLog(ctx, &schemas.ActivityLog{
		OrganizationID: orgID,
		DealID:         deal.ID,
		Type:           schemas.ACTIVITY_TYPE_NOTE,
		Content:        note.Content,
		Metadata:       metadata,
		CreatedAt:      createdAt,
	})
}

// SyncConversations aplica resumo e sentimento da plataforma de análise no
// negócio vinculado e registra a conversa como atividade, deduplicada pelo id
// externo. Conversas sem vínculo com negócio são puladas.
func (r *Reconciler) SyncConversations(ctx context.Context, orgID bson.ObjectID, conversations []ExternalConversation) (int, []string) {
	processed := 0
	errs := []string{}

	for _, conversation := range conversations {
		if conversation.DealExternalID == "" {
			continue
		}
		if conversation.ID == "" {
			errs = append(errs, "conversa sem id externo ignorada")
			continue
		}

		if err := r.applyConversation(ctx, orgID, conversation); err != nil {
			log.Printf("[Sync] Erro ao reconciliar conversa %s: %v", conversation.ID, err)
			errs = append(errs, fmt.Sprintf("conversa %s: %v", conversation.ID, err))
			continue
		}
		processed++
	}

	return processed, errs
}

func (r *Reconciler) applyConversation(ctx context.Context, orgID bson.ObjectID, conversation ExternalConversation) error {
	deal, err := r.store.FindDealByExternalID(ctx, orgID, conversation.DealExternalID)
	if err != nil {
		return err
	}
	if deal == nil {
		return fmt.Errorf("negócio %s da conversa não encontrado", conversation.DealExternalID)
	}

	if conversation.Summary != "" {
		deal.SmartSummary = conversation.Summary
	}
	if IsValidSentiment(conversation.Sentiment) {
		deal.Sentiment = conversation.Sentiment
	}
	if !conversation.UpdatedAt.IsZero() {
		deal.LastActivityAt = conversation.UpdatedAt
	}
	deal.UpdatedAt = time.Now()

	if err := r.store.UpdateDeal(ctx, deal); err != nil {
		return err
	}

	existing, err := r.store.FindActivityLogByExternalID(ctx, orgID, deal.ID, conversation.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	createdAt := conversation.UpdatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return r.store.InsertActivityLog(ctx, &schemas.ActivityLog{
		OrganizationID: orgID,
		DealID:         deal.ID,
		Type:           schemas.ACTIVITY_TYPE_CONVERSATION,
		Content:        conversation.Summary,
		Metadata:       map[string]string{"external_id": conversation.ID, "sentiment": conversation.Sentiment},
		CreatedAt:      createdAt,
	})
}
