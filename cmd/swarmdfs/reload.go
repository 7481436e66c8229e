package main

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BaSui01/swarmdfs/playbook"
	"github.com/BaSui01/swarmdfs/swarm"
)

// swarmRunner holds the Swarm built from the current playbook and swaps it
// whole when the playbook is reloaded.
type swarmRunner struct {
	app *app

	mu       sync.RWMutex
	current  *swarm.Swarm
	playbook string
}

func (a *app) newSwarmRunner(pb *playbook.Playbook) (*swarmRunner, error) {
	s, err := a.newSwarm(pb)
	if err != nil {
		return nil, err
	}
	return &swarmRunner{app: a, current: s, playbook: pb.Name}, nil
}

// Run uses the Swarm current at call time; a reload does not affect a run in flight.
func (r *swarmRunner) Run(ctx context.Context, initialTask string) (*swarm.Trace, error) {
	r.mu.RLock()
	s := r.current
	r.mu.RUnlock()
	return s.Run(ctx, initialTask)
}

// Reload rebuilds the Swarm from pb, keeping the old one if that fails.
func (r *swarmRunner) Reload(pb *playbook.Playbook) {
	s, err := r.app.newSwarm(pb)
	if err != nil {
		r.app.logger.Warn("playbook reload rejected", zap.String("playbook", pb.Name), zap.Error(err))
		return
	}

	r.mu.Lock()
	r.current = s
	r.playbook = pb.Name
	r.mu.Unlock()

	r.app.logger.Info("swarm rebuilt from playbook",
		zap.String("playbook", pb.Name),
		zap.Int("workers", len(pb.Workers)))
}

// Playbook returns the name of the playbook in effect.
func (r *swarmRunner) Playbook() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.playbook
}
