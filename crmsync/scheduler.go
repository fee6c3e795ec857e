package crmsync

import (
	"context"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"api/schemas"
	"api/utils"
)

const (
	DEFAULT_CRM_INTERVAL_MIN          = 60
	DEFAULT_CONVERSATION_INTERVAL_MIN = 5

	// Passadas "running" mais velhas que isso na subida do processo são
	// marcadas como erro (varredura pós-crash).
	STALE_RUNNING_TIMEOUT = 30 * time.Minute
)

// Scheduler é o dono dos dois timers de sincronização: o curto para dados de
// conversa e o longo para o CRM. Cada loop roda as passadas de um tick em
// sequência e só volta a dormir quando o tick termina, então um tick lento
// nunca se sobrepõe ao seguinte.
type Scheduler struct {
	orchestrator *Orchestrator
	store        Store

	crmInterval          time.Duration
	conversationInterval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(orchestrator *Orchestrator, store Store) *Scheduler {
	return &Scheduler{
		orchestrator:         orchestrator,
		store:                store,
		crmInterval:          intervalFromEnv(utils.SYNC_CRM_INTERVAL_MIN, DEFAULT_CRM_INTERVAL_MIN),
		conversationInterval: intervalFromEnv(utils.SYNC_CONVERSATION_INTERVAL_MIN, DEFAULT_CONVERSATION_INTERVAL_MIN),
	}
}

func intervalFromEnv(key string, defaultMinutes int) time.Duration {
	minutes := defaultMinutes
	if raw := os.Getenv(key); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Printf("[Sync] Valor inválido para %s (%q), usando %d min", key, raw, defaultMinutes)
		} else {
			minutes = parsed
		}
	}
	return time.Duration(minutes) * time.Minute
}

// Start faz a varredura de recuperação e dispara os dois loops.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	sweepCtx, sweepCancel := context.WithTimeout(ctx, time.Minute)
	recovered, err := s.store.MarkStaleRunningSyncLogs(sweepCtx, time.Now().Add(-STALE_RUNNING_TIMEOUT))
	sweepCancel()
	if err != nil {
		log.Printf("[Sync] Erro na varredura de sync logs órfãos: %v", err)
	} else if recovered > 0 {
		log.Printf("[Sync] %d sync logs órfãos marcados como erro", recovered)
	}

	s.wg.Add(2)
	go s.loop(ctx, schemas.CRM_TYPE_VETOR, s.crmInterval)
	go s.loop(ctx, schemas.CRM_TYPE_MADA, s.conversationInterval)

	log.Printf("[Sync] Scheduler iniciado: CRM a cada %v, conversas a cada %v", s.crmInterval, s.conversationInterval)
}

// Stop cancela os loops e espera o tick em andamento terminar.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, source string, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.orchestrator.RunScheduledTick(ctx, source, int(interval/time.Minute))
		}
	}
}
