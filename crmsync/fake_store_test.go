package crmsync

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"api/schemas"
)

// fakeStore é a implementação em memória usada nos testes do reconciler e do
// orquestrador.
type fakeStore struct {
	organizations []schemas.Organization
	brokers       []*schemas.Broker
	deals         []*schemas.Deal
	activityLogs  []*schemas.ActivityLog
	syncLogs      []*schemas.SyncLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) ListOrganizationsByCrmType(ctx context.Context, crmType string) ([]schemas.Organization, error) {
	matched := []schemas.Organization{}
	for _, org := range s.organizations {
		if org.CrmType == crmType {
			matched = append(matched, org)
		}
	}
	return matched, nil
}

func (s *fakeStore) FindBrokerByExternalID(ctx context.Context, orgID bson.ObjectID, externalID string) (*schemas.Broker, error) {
	for _, broker := range s.brokers {
		if broker.OrganizationID == orgID && broker.CrmExternalID == externalID {
			return broker, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindBrokerByEmail(ctx context.Context, orgID bson.ObjectID, email string) (*schemas.Broker, error) {
	for _, broker := range s.brokers {
		if broker.OrganizationID == orgID && broker.Email == email {
			return broker, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) InsertBroker(ctx context.Context, broker *schemas.Broker) error {
	broker.ID = bson.NewObjectID()
	s.brokers = append(s.brokers, broker)
	return nil
}

func (s *fakeStore) UpdateBroker(ctx context.Context, broker *schemas.Broker) error {
	for i, existing := range s.brokers {
		if existing.ID == broker.ID && existing.OrganizationID == broker.OrganizationID {
			s.brokers[i] = broker
			return nil
		}
	}
	return nil
}

func (s *fakeStore) FindDealByExternalID(ctx context.Context, orgID bson.ObjectID, externalID string) (*schemas.Deal, error) {
	for _, deal := range s.deals {
		if deal.OrganizationID == orgID && deal.CrmExternalID == externalID {
			return deal, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindDealByTitle(ctx context.Context, orgID bson.ObjectID, title string) (*schemas.Deal, error) {
	for _, deal := range s.deals {
		if deal.OrganizationID == orgID && deal.Title == title {
			return deal, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) InsertDeal(ctx context.Context, deal *schemas.Deal) error {
	deal.ID = bson.NewObjectID()
	s.deals = append(s.deals, deal)
	return nil
}

func (s *fakeStore) UpdateDeal(ctx context.Context, deal *schemas.Deal) error {
	for i, existing := range s.deals {
		if existing.ID == deal.ID && existing.OrganizationID == deal.OrganizationID {
			s.deals[i] = deal
			return nil
		}
	}
	return nil
}

func (s *fakeStore) FindActivityLogByExternalID(ctx context.Context, orgID bson.ObjectID, dealID bson.ObjectID, externalID string) (*schemas.ActivityLog, error) {
	for _, entry := range s.activityLogs {
		if entry.OrganizationID == orgID && entry.DealID == dealID && entry.Metadata["external_id"] == externalID {
			return entry, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) InsertActivityLog(ctx context.Context, entry *schemas.ActivityLog) error {
	entry.ID = bson.NewObjectID()
	s.activityLogs = append(s.activityLogs, entry)
	return nil
}

func (s *fakeStore) CreateSyncLog(ctx context.Context, entry *schemas.SyncLog) error {
	entry.ID = bson.NewObjectID()
	s.syncLogs = append(s.syncLogs, entry)
	return nil
}

func (s *fakeStore) CompleteSyncLog(ctx context.Context, id bson.ObjectID, status string, recordsProcessed int, errorMessage string) error {
	for _, entry := range s.syncLogs {
		if entry.ID == id {
			now := time.Now()
			entry.Status = status
			entry.RecordsProcessed = recordsProcessed
			entry.ErrorMessage = errorMessage
			entry.CompletedAt = &now
		}
	}
	return nil
}

func (s *fakeStore) MarkStaleRunningSyncLogs(ctx context.Context, olderThan time.Time) (int64, error) {
	marked := int64(0)
	for _, entry := range s.syncLogs {
		if entry.Status == schemas.SYNC_STATUS_RUNNING && entry.StartedAt.Before(olderThan) {
			now := time.Now()
			entry.Status = schemas.SYNC_STATUS_ERROR
			entry.ErrorMessage = "Sincronização interrompida (processo reiniciado)"
			entry.CompletedAt = &now
			marked++
		}
	}
	return marked, nil
}

func (s *fakeStore) brokersForOrg(orgID bson.ObjectID) []*schemas.Broker {
	matched := []*schemas.Broker{}
	for _, broker := range s.brokers {
		if broker.OrganizationID == orgID {
			matched = append(matched, broker)
		}
	}
	return matched
}

func (s *fakeStore) activityLogsOfType(activityType string) []*schemas.ActivityLog {
	matched := []*schemas.ActivityLog{}
	for _, entry := range s.activityLogs {
		if entry.Type == activityType {
			matched = append(matched, entry)
		}
	}
	return matched
}

func (s *fakeStore) dealsForOrg(orgID bson.ObjectID) []*schemas.Deal {
	matched := []*schemas.Deal{}
	for _, deal := range s.deals {
		if deal.OrganizationID == orgID {
			matched = append(matched, deal)
		}
	}
	return matched
}
