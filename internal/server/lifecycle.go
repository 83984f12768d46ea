// Package server runs the simulator's long-lived components: it starts
// them together and stops them in reverse order on a signal, on the first
// failure, or once a job completes.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is a component run by a Lifecycle.
type Service interface {
	// Start blocks until the service finishes, ctx is cancelled, Stop is
	// called, or an error occurs.
	Start(ctx context.Context) error
	// Stop asks a running service to return from Start.
	Stop()
}

// FuncService adapts a start/stop function pair into a Service. A nil StopFn
// is a no-op.
type FuncService struct {
	StartFn func(ctx context.Context) error
	StopFn  func()
}

func (f *FuncService) Start(ctx context.Context) error { return f.StartFn(ctx) }

func (f *FuncService) Stop() {
	if f.StopFn != nil {
		f.StopFn()
	}
}

// errEnded marks a clean return from Start; any return ends the run.
var errEnded = errors.New("service ended")

type entry struct {
	name    string
	service Service
	job     bool
}

// Lifecycle starts registered services together and stops them in reverse
// registration order.
type Lifecycle struct {
	logger *zap.Logger

	mu      sync.Mutex
	entries []entry
}

// NewLifecycle creates a Lifecycle. A nil logger discards output.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lifecycle{logger: logger}
}

// Add registers a service that runs until shutdown.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) { l.register(name, svc, false) }

// AddJob registers a service whose clean return shuts everything down.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) AddJob(name string, svc Service) { l.register(name, svc, true) }

func (l *Lifecycle) register(name string, svc Service, job bool) {
	if name == "" || svc == nil {
		panic("server.Lifecycle.Add: name and service are required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry{name: name, service: svc, job: job})
}

// Run starts every service and blocks until SIGINT or SIGTERM, ctx
// cancellation, or the first service return. Every service is then stopped
// in reverse order.
//
// Postcondition: all services have returned from Start. The error is the
// first service failure; cancellation and clean returns yield nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	began := time.Now()
	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	l.mu.Lock()
	entries := append([]entry(nil), l.entries...)
	l.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		g.Go(func() error { return l.serve(gctx, e) })
	}
	l.logger.Info("services started", zap.Int("count", len(entries)))

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-gctx.Done()
		l.stopAll(entries)
	}()

	err := g.Wait()
	<-stopped
	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(began)))
	if errors.Is(err, errEnded) {
		return nil
	}
	return err
}

func (l *Lifecycle) serve(ctx context.Context, e entry) error {
	log := l.logger.With(zap.String("service", e.name))
	log.Info("service starting")
	began := time.Now()

	err := e.service.Start(ctx)
	shuttingDown := ctx.Err() != nil
	switch {
	case err != nil && !(shuttingDown && errors.Is(err, context.Canceled)):
		log.Error("service failed", zap.Error(err), zap.Duration("uptime", time.Since(began)))
		return fmt.Errorf("service %s: %w", e.name, err)
	case shuttingDown:
	case e.job:
		log.Info("job finished, shutting down", zap.Duration("elapsed", time.Since(began)))
	default:
		log.Warn("service returned early, shutting down")
	}
	return errEnded
}

func (l *Lifecycle) stopAll(entries []entry) {
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		began := time.Now()
		e.service.Stop()
		l.logger.Info("service stopped",
			zap.String("service", e.name),
			zap.Duration("elapsed", time.Since(began)),
		)
	}
}
