package crmsync

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"api/database"
	"api/schemas"
)

// MongoStore implementa Store sobre as coleções do Mongo.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(client *mongo.Client) *MongoStore {
	return &MongoStore{db: client.Database(database.GetDB())}
}

func (s *MongoStore) ListOrganizationsByCrmType(ctx context.Context, crmType string) ([]schemas.Organization, error) {
	collection := s.db.Collection(database.COLLECTION_ORGANIZATIONS)

	cursor, err := collection.Find(ctx, bson.D{{Key: "crm_type", Value: crmType}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orgs := []schemas.Organization{}
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (s *MongoStore) FindBrokerByExternalID(ctx context.Context, orgID bson.ObjectID, externalID string) (*schemas.Broker, error) {
	filter := bson.D{
		{Key: "organization_id", Value: orgID},
		{Key: "crm_external_id", Value: externalID},
	}
	return findOne[schemas.Broker](ctx, s.db.Collection(database.COLLECTION_BROKERS), filter)
}

func (s *MongoStore) FindBrokerByEmail(ctx context.Context, orgID bson.ObjectID, email string) (*schemas.Broker, error) {
	filter := bson.D{
		{Key: "organization_id", Value: orgID},
		{Key: "email", Value: email},
	}
	return findOne[schemas.Broker](ctx, s.db.Collection(database.COLLECTION_BROKERS), filter)
}

func (s *MongoStore) InsertBroker(ctx context.Context, broker *schemas.Broker) error {
	result, err := s.db.Collection(database.COLLECTION_BROKERS).InsertOne(ctx, broker)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		broker.ID = id
	}
	return nil
}

func (s *MongoStore) UpdateBroker(ctx context.Context, broker *schemas.Broker) error {
	filter := bson.D{
		{Key: "_id", Value: broker.ID},
		{Key: "organization_id", Value: broker.OrganizationID},
	}
	_, err := s.db.Collection(database.COLLECTION_BROKERS).ReplaceOne(ctx, filter, broker)
	return err
}

func (s *MongoStore) FindDealByExternalID(ctx context.Context, orgID bson.ObjectID, externalID string) (*schemas.Deal, error) {
	filter := bson.D{
		{Key: "organization_id", Value: orgID},
		{Key: "crm_external_id", Value: externalID},
	}
	return findOne[schemas.Deal](ctx, s.db.Collection(database.COLLECTION_DEALS), filter)
}

func (s *MongoStore) FindDealByTitle(ctx context.Context, orgID bson.ObjectID, title string) (*schemas.Deal, error) {
	filter := bson.D{
		{Key: "organization_id", Value: orgID},
		{Key: "title", Value: title},
	}
	return findOne[schemas.Deal](ctx, s.db.Collection(database.COLLECTION_DEALS), filter)
}

func (s *MongoStore) InsertDeal(ctx context.Context, deal *schemas.Deal) error {
	result, err := s.db.Collection(database.COLLECTION_DEALS).InsertOne(ctx, deal)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		deal.ID = id
	}
	return nil
}

func (s *MongoStore) UpdateDeal(ctx context.Context, deal *schemas.Deal) error {
	filter := bson.D{
		{Key: "_id", Value: deal.ID},
		{Key: "organization_id", Value: deal.OrganizationID},
	}
	_, err := s.db.Collection(database.COLLECTION_DEALS).ReplaceOne(ctx, filter, deal)
	return err
}

func (s *MongoStore) FindActivityLogByExternalID(ctx context.Context, orgID bson.ObjectID, dealID bson.ObjectID, externalID string) (*schemas.ActivityLog, error) {
	filter := bson.D{
		{Key: "organization_id", Value: orgID},
		{Key: "deal_id", Value: dealID},
		{Key: "metadata.external_id", Value: externalID},
	}
	return findOne[schemas.ActivityLog](ctx, s.db.Collection(database.COLLECTION_ACTIVITY_LOGS), filter)
}

func (s *MongoStore) InsertActivityLog(ctx context.Context, entry *schemas.ActivityLog) error {
	result, err := s.db.Collection(database.COLLECTION_ACTIVITY_LOGS).InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		entry.ID = id
	}
	return nil
}

func (s *MongoStore) CreateSyncLog(ctx context.Context, entry *schemas.SyncLog) error {
	result, err := s.db.Collection(database.COLLECTION_SYNC_LOGS).InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		entry.ID = id
	}
	return nil
}

func (s *MongoStore) CompleteSyncLog(ctx context.Context, id bson.ObjectID, status string, recordsProcessed int, errorMessage string) error {
	now := time.Now()
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: status},
		{Key: "records_processed", Value: recordsProcessed},
		{Key: "error_message", Value: errorMessage},
		{Key: "completed_at", Value: now},
	}}}

	_, err := s.db.Collection(database.COLLECTION_SYNC_LOGS).UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	return err
}

// MarkStaleRunningSyncLogs é a varredura de recuperação pós-crash: passadas
// deixadas em "running" além do limite viram "error".
func (s *MongoStore) MarkStaleRunningSyncLogs(ctx context.Context, olderThan time.Time) (int64, error) {
	filter := bson.D{
		{Key: "status", Value: schemas.SYNC_STATUS_RUNNING},
		{Key: "started_at", Value: bson.D{{Key: "$lt", Value: olderThan}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: schemas.SYNC_STATUS_ERROR},
		{Key: "error_message", Value: "Sincronização interrompida (processo reiniciado)"},
		{Key: "completed_at", Value: time.Now()},
	}}}

	result, err := s.db.Collection(database.COLLECTION_SYNC_LOGS).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func findOne[T any](ctx context.Context, collection *mongo.Collection, filter bson.D) (*T, error) {
	record := new(T)
	err := collection.FindOne(ctx, filter).Decode(record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}
