package crmsync

// Janela usada pelo trigger manual quando o chamador não informa minutos:
// dez anos, na prática "todo o histórico" (backfill).
const ManualBackfillMinutes = 10 * 365 * 24 * 60

// LookbackMinutes resolve a janela de uma passada. Passadas agendadas usam o
// próprio intervalo do timer; manuais usam o valor do chamador, ou o backfill
// completo quando ausente.
func LookbackMinutes(requested int, scheduledIntervalMinutes int) int {
	if scheduledIntervalMinutes > 0 {
		return scheduledIntervalMinutes
	}
	if requested > 0 {
		return requested
	}
	return ManualBackfillMinutes
}
