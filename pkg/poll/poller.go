package poll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Func is invoked on every tick. Returning done stops the poller. A non-nil
// error is logged; it does not stop the loop unless done is also true.
type Func func(ctx context.Context) (done bool, err error)

// Poller drives a Func at a fixed cadence on a single goroutine. At most one
// invocation is in flight at any time.
type Poller struct {
	name     string
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New builds a poller with the given tick interval.
func New(name string, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{name: name, interval: interval, logger: logger}
}

// Start launches the poll loop. It fails if the poller is already running.
func (p *Poller) Start(ctx context.Context, fn Func) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return fmt.Errorf("poller %s already running", p.name)
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.run(ctx, fn, p.done)
	p.logger.Sugar().Infow("poller started", "poller", p.name, "interval", p.interval)
	return nil
}

// Stop cancels the loop and waits for the goroutine to exit. Safe to call
// when the poller is not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done
	p.logger.Sugar().Infow("poller stopped", "poller", p.name)
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) run(ctx context.Context, fn Func, done chan struct{}) {
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			finished, err := fn(ctx)
			if err != nil {
				p.logger.Sugar().Warnw("poll tick failed", "poller", p.name, "error", err)
			}
			if finished {
				return
			}
		}
	}
}
