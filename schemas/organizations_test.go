package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicViewStripsCredentials(t *testing.T) {
	org := Organization{
		Name:    "Imobiliária Horizonte",
		CrmType: CRM_TYPE_VETOR,
		CrmConfig: CrmConfig{
			Vetor: &VetorConfig{ApiKey: "segredo", CompanyID: "imob-42"},
			Mada:  &MadaConfig{StoreURL: "https://store.madaimob.com.br", StoreKey: "segredo"},
		},
	}

	public := org.PublicView()
	assert.Nil(t, public.CrmConfig.Vetor)
	assert.Nil(t, public.CrmConfig.Mada)
	assert.Equal(t, "Imobiliária Horizonte", public.Name)

	// O original não é alterado.
	assert.NotNil(t, org.CrmConfig.Vetor)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ana Souza", FullName("Ana", "Souza"))
	assert.Equal(t, "Ana", FullName("Ana", ""))
	assert.Equal(t, "Souza", FullName("", "Souza"))
	assert.Equal(t, "", FullName("", ""))
	assert.Equal(t, "Ana Souza", FullName("  Ana ", " Souza  "))
}
