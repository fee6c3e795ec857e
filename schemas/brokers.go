package schemas

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Broker struct {
	ID             bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrganizationID bson.ObjectID `json:"organization_id,omitempty" bson:"organization_id,omitempty"`
	CrmExternalID  string        `json:"crm_external_id,omitempty" bson:"crm_external_id,omitempty"`
	FirstName      string        `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName       string        `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Name           string        `json:"name" bson:"name"`
	Email          string        `json:"email,omitempty" bson:"email,omitempty"`
	Phone          string        `json:"phone,omitempty" bson:"phone,omitempty"`
	IsActive       bool          `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" bson:"updated_at"`
}

// FullName recompõe o campo legado "name" a partir de first/last name.
func FullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
