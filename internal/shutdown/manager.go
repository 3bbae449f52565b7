package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"storefront/internal/logger"
)

// DefaultTimeout bounds how long a single component may take to stop
const DefaultTimeout = 10 * time.Second

type Shutdownable interface {
	Shutdown()
}

// ShutdownFunc adapts a plain function to Shutdownable
type ShutdownFunc func()

func (f ShutdownFunc) Shutdown() {
	f()
}

type component struct {
	name string
	impl Shutdownable
}

// Manager stops registered components in reverse registration order
type Manager struct {
	components []component
	logger     logger.Logger
	timeout    time.Duration
	mu         sync.Mutex
	done       chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewManager(log logger.Logger, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		logger:  log,
		timeout: timeout,
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register adds a component. Components registered after Shutdown started
// are stopped immediately.
func (m *Manager) Register(name string, impl Shutdownable) {
	m.mu.Lock()
	select {
	case <-m.done:
		m.mu.Unlock()
		m.stop(component{name: name, impl: impl})
		return
	default:
	}
	m.components = append(m.components, component{name: name, impl: impl})
	m.mu.Unlock()
}

// Listen triggers Shutdown on SIGINT or SIGTERM, then calls onSignal
func (m *Manager) Listen(onSignal func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			m.logger.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
			if onSignal != nil {
				onSignal()
			}
		case <-m.done:
		}
	}()
}

// Shutdown runs once; later calls return immediately
func (m *Manager) Shutdown() {
	m.mu.Lock()
	select {
	case <-m.done:
		m.mu.Unlock()
		return
	default:
		close(m.done)
	}
	components := m.components
	m.components = nil
	m.mu.Unlock()

	m.logger.Info("ShutdownManager", "shutdown sequence initiated", map[string]interface{}{
		"components": len(components),
	})

	m.cancel()

	for i := len(components) - 1; i >= 0; i-- {
		m.stop(components[i])
	}

	m.logger.Info("ShutdownManager", "shutdown sequence completed", nil)
}

func (m *Manager) stop(c component) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				m.logger.Warning("ShutdownManager", "component panicked during shutdown", map[string]interface{}{
					"component": c.name,
					"panic":     r,
				})
			}
		}()
		c.impl.Shutdown()
	}()

	select {
	case <-done:
		m.logger.Debug("ShutdownManager", "component stopped", map[string]interface{}{
			"component": c.name,
		})
	case <-time.After(m.timeout):
		m.logger.Warning("ShutdownManager", "component shutdown timeout", map[string]interface{}{
			"component": c.name,
			"timeout":   m.timeout.String(),
		})
	}
}

// Context is cancelled when shutdown begins
func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}
