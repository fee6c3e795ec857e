package crmsync

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"api/schemas"
)

// Store é a persistência que o reconciler e o orquestrador enxergam. Toda
// operação é escopada pelo organization_id — é essa disciplina, e não lock de
// linha, que garante o isolamento entre tenants. Os Find* devolvem (nil, nil)
// quando o registro não existe.
type Store interface {
	ListOrganizationsByCrmType(ctx context.Context, crmType string) ([]schemas.Organization, error)

	FindBrokerByExternalID(ctx context.Context, orgID bson.ObjectID, externalID string) (*schemas.Broker, error)
	FindBrokerByEmail(ctx context.Context, orgID bson.ObjectID, email string) (*schemas.Broker, error)
	InsertBroker(ctx context.Context, broker *schemas.Broker) error
	UpdateBroker(ctx context.Context, broker *schemas.Broker) error

	FindDealByExternalID(ctx context.Context, orgID bson.ObjectID, externalID string) (*schemas.Deal, error)
	FindDealByTitle(ctx context.Context, orgID bson.ObjectID, title string) (*schemas.Deal, error)
	InsertDeal(ctx context.Context, deal *schemas.Deal) error
	UpdateDeal(ctx context.Context, deal *schemas.Deal) error

	FindActivityLogByExternalID(ctx context.Context, orgID bson.ObjectID, dealID bson.ObjectID, externalID string) (*schemas.ActivityLog, error)
	InsertActivityLog(ctx context.Context, entry *schemas.ActivityLog) error

	CreateSyncLog(ctx context.Context, entry *schemas.SyncLog) error
	CompleteSyncLog(ctx context.Context, id bson.ObjectID, status string, recordsProcessed int, errorMessage string) error
	MarkStaleRunningSyncLogs(ctx context.Context, olderThan time.Time) (int64, error)
}
