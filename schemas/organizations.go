package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	CRM_TYPE_NONE  = "none"
	CRM_TYPE_VETOR = "vetor"
	CRM_TYPE_MADA  = "mada"
)

// VetorConfig são as credenciais do CRM Vetor de uma imobiliária.
// CompanyID é opcional (instalações multi-empresa do Vetor).
type VetorConfig struct {
	ApiKey    string `json:"api_key,omitempty" bson:"api_key,omitempty"`
	CompanyID string `json:"company_id,omitempty" bson:"company_id,omitempty"`
	ApiURL    string `json:"api_url,omitempty" bson:"api_url,omitempty"`
}

// MadaConfig aponta para o data store da plataforma de análise de conversas.
type MadaConfig struct {
	StoreURL string `json:"store_url,omitempty" bson:"store_url,omitempty"`
	StoreKey string `json:"store_key,omitempty" bson:"store_key,omitempty"`
}

// CrmConfig guarda as credenciais por fonte. Ponteiro nulo = fonte não
// configurada; a checagem de credencial vira um nil check.
type CrmConfig struct {
	Vetor *VetorConfig `json:"vetor,omitempty" bson:"vetor,omitempty"`
	Mada  *MadaConfig  `json:"mada,omitempty" bson:"mada,omitempty"`
}

type Organization struct {
	ID        bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string        `json:"name" bson:"name"`
	CrmType   string        `json:"crm_type" bson:"crm_type"`
	CrmConfig CrmConfig     `json:"crm_config,omitempty" bson:"crm_config,omitempty"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// PublicView devolve a organização sem as credenciais, para respostas de
// listagem do superadmin.
func (o Organization) PublicView() Organization {
	o.CrmConfig = CrmConfig{}
	return o
}
