package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	ACTIVITY_TYPE_NOTE          = "note"
	ACTIVITY_TYPE_CONVERSATION  = "conversation"
	ACTIVITY_TYPE_STATUS_CHANGE = "status_change"
	ACTIVITY_TYPE_SYNC          = "sync"
)

// ActivityLog é um evento imutável ligado a um negócio. Metadata carrega
// campos livres da fonte externa; "external_id" é usado para deduplicação.
type ActivityLog struct {
	ID             bson.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	OrganizationID bson.ObjectID     `json:"organization_id,omitempty" bson:"organization_id,omitempty"`
	DealID         bson.ObjectID     `json:"deal_id,omitempty" bson:"deal_id,omitempty"`
	Type           string            `json:"type" bson:"type"`
	Content        string            `json:"content,omitempty" bson:"content,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
}
