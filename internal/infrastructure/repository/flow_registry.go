package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"wallet.com/internal/application/usecase"
	"wallet.com/internal/domain/entity"
	"wallet.com/internal/infrastructure/logger"
	"wallet.com/internal/infrastructure/metrics"
)

// OpenFunc opens a send flow that calls onClose when it closes
type OpenFunc func(onClose func()) (*usecase.SendFlow, error)

// registeredFlow is a flow and the session that opened it
type registeredFlow struct {
	flow      *usecase.SendFlow
	sessionID string
}

// FlowRegistry holds the open send flows. Closing a flow removes it; a flow that
// expires or is pushed out by newer ones is cancelled. A flow is only handed back
// to the session that opened it.
type FlowRegistry struct {
	flows  *expirable.LRU[string, registeredFlow]
	logger logger.Logger
}

// NewFlowRegistry creates a registry holding at most size flows for ttl each
func NewFlowRegistry(size int, ttl time.Duration, logger logger.Logger) *FlowRegistry {
	onEvict := func(id string, entry registeredFlow) {
		// Eviction runs under the cache lock and CancelTransaction calls back into Remove.
		go func() {
			if err := entry.flow.CancelTransaction(context.Background()); err == nil {
				logger.LogInfo(context.Background(), "Send flow expired", "flow_id", id)
			}
		}()
	}
	return &FlowRegistry{
		flows:  expirable.NewLRU[string, registeredFlow](size, onEvict, ttl),
		logger: logger,
	}
}

// Open creates a flow through open and registers it under a new id owned by sessionID
func (r *FlowRegistry) Open(ctx context.Context, sessionID string, open OpenFunc) (string, *usecase.SendFlow, error) {
	id := uuid.New().String()
	flow, err := open(func() {
		r.flows.Remove(id)
		metrics.OpenFlows.WithLabelValues().Dec()
		metrics.FlowEvents.WithLabelValues("closed").Inc()
		r.logger.LogInfo(context.Background(), "Send flow closed", "flow_id", id)
	})
	if err != nil {
		return "", nil, err
	}

	r.flows.Add(id, registeredFlow{flow: flow, sessionID: sessionID})
	metrics.OpenFlows.WithLabelValues().Inc()
	metrics.FlowEvents.WithLabelValues("opened").Inc()
	r.logger.LogInfo(ctx, "Send flow opened", "flow_id", id, "from", flow.From())

	return id, flow, nil
}

// Get returns an open flow of sessionID. Flows of other sessions are reported as not found.
func (r *FlowRegistry) Get(_ context.Context, sessionID, id string) (*usecase.SendFlow, error) {
	entry, ok := r.flows.Get(id)
	if !ok || entry.sessionID != sessionID {
		return nil, entity.ErrFlowNotFound
	}
	return entry.flow, nil
}

// Len returns the number of open flows
func (r *FlowRegistry) Len() int {
	return r.flows.Len()
}
