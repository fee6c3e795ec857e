package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	ROLE_SUPERADMIN = "superadmin"
)

type User struct {
	ID             bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrganizationID bson.ObjectID `json:"organization_id,omitempty" bson:"organization_id,omitempty"`
	Name           string        `json:"name" bson:"name"`
	Email          string        `json:"email" bson:"email"`
	Role           string        `json:"role" bson:"role"`
	Active         bool          `json:"active" bson:"active"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" bson:"updated_at"`
}
