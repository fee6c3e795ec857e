package crmsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookbackMinutes(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		scheduled int
		want      int
	}{
		{"agendada usa o intervalo do timer", 0, 60, 60},
		{"agendada ignora o valor do chamador", 120, 5, 5},
		{"manual usa o valor do chamador", 120, 0, 120},
		{"manual sem minutos faz backfill", 0, 0, ManualBackfillMinutes},
		{"minutos negativos caem no backfill", -1, 0, ManualBackfillMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LookbackMinutes(tt.requested, tt.scheduled))
		})
	}
}
