package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	DEAL_STATUS_NEW         = "new"
	DEAL_STATUS_QUALIFIED   = "qualified"
	DEAL_STATUS_NEGOTIATION = "negotiation"
	DEAL_STATUS_PROPOSAL    = "proposal"
	DEAL_STATUS_CLOSED      = "closed"
	DEAL_STATUS_LOST        = "lost"

	SENTIMENT_POSITIVE = "positive"
	SENTIMENT_NEUTRAL  = "neutral"
	SENTIMENT_NEGATIVE = "negative"
)

type Deal struct {
	ID               bson.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	OrganizationID   bson.ObjectID  `json:"organization_id,omitempty" bson:"organization_id,omitempty"`
	BrokerID         *bson.ObjectID `json:"broker_id,omitempty" bson:"broker_id,omitempty"`
	CrmExternalID    string         `json:"crm_external_id,omitempty" bson:"crm_external_id,omitempty"`
	OldID            int64          `json:"old_id,omitempty" bson:"old_id,omitempty"`
	Title            string         `json:"title" bson:"title"`
	ClientName       string         `json:"client_name,omitempty" bson:"client_name,omitempty"`
	ClientPhone      string         `json:"client_phone,omitempty" bson:"client_phone,omitempty"`
	ClientEmail      string         `json:"client_email,omitempty" bson:"client_email,omitempty"`
	Stage            string         `json:"stage,omitempty" bson:"stage,omitempty"`
	Status           string         `json:"status" bson:"status"`
	Sentiment        string         `json:"sentiment,omitempty" bson:"sentiment,omitempty"`
	SmartSummary     string         `json:"smart_summary,omitempty" bson:"smart_summary,omitempty"`
	Notes            string         `json:"notes,omitempty" bson:"notes,omitempty"`
	PotentialValue   float64        `json:"potential_value,omitempty" bson:"potential_value,omitempty"`
	CommissionValue  float64        `json:"commission_value,omitempty" bson:"commission_value,omitempty"`
	ExclusivityUntil *time.Time     `json:"exclusivity_until,omitempty" bson:"exclusivity_until,omitempty"`
	LeadOrigin       string         `json:"lead_origin,omitempty" bson:"lead_origin,omitempty"`
	LastActivityAt   time.Time      `json:"last_activity_at" bson:"last_activity_at"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" bson:"updated_at"`
}
