package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	SYNC_STATUS_RUNNING = "running"
	SYNC_STATUS_SUCCESS = "success"
	SYNC_STATUS_ERROR   = "error"
)

type SyncLog struct {
	ID               bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrganizationID   bson.ObjectID `json:"organization_id,omitempty" bson:"organization_id,omitempty"`
	Source           string        `json:"source" bson:"source"`
	Status           string        `json:"status" bson:"status"`
	RecordsProcessed int           `json:"records_processed" bson:"records_processed"`
	ErrorMessage     string        `json:"error_message,omitempty" bson:"error_message,omitempty"`
	StartedAt        time.Time     `json:"started_at" bson:"started_at"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}
