package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Poller drives one scan loop: it runs the tick function once immediately on
// start and then on a fixed interval for the lifetime of the context. Ticks
// run inline in the poll goroutine, so a tick always completes before the
// next one may fire; overlap across replicated processes is made safe by the
// per-action claim transactions, not by the timer.
type Poller struct {
	name     string
	interval time.Duration
	tick     func(ctx context.Context)
	logger   *logrus.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.RWMutex
}

func NewPoller(name string, interval time.Duration, tick func(ctx context.Context), logger *logrus.Logger) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		tick:     tick,
		logger:   logger,
	}
}

// Start begins the background polling process
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("%s poller is already running", p.name)
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.running = true

	p.wg.Add(1)
	go p.pollLoop()

	p.logger.WithFields(logrus.Fields{
		"poller":   p.name,
		"interval": p.interval,
	}).Info("Poller started")

	return nil
}

// Stop gracefully stops the polling process
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.cancel()
	p.wg.Wait()
	p.running = false
	p.logger.WithField("poller", p.name).Info("Poller stopped")
}

// IsRunning returns whether the poller is currently active
func (p *Poller) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

func (p *Poller) pollLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.safeTick()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.safeTick()
		}
	}
}

// safeTick contains tick panics so one bad cycle cannot kill the loop.
func (p *Poller) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithFields(logrus.Fields{
				"poller": p.name,
				"panic":  r,
			}).Error("Poll tick panic recovered")
		}
	}()

	p.tick(p.ctx)
}
