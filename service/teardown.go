package service

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Manager coordinates graceful shutdown. Registered teardown functions run
// after the termination signal arrives; Wait blocks until the wait group
// drains.
type Manager struct {
	termChan  chan os.Signal
	doneChan  chan struct{}
	waitGroup *sync.WaitGroup
	context   context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	teardowns []func()
}

var manager *Manager
var once sync.Once

// GetTeardownManager returns the singleton teardown manager
func GetTeardownManager() *Manager {
	once.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		manager = &Manager{
			termChan:  make(chan os.Signal, 1),
			doneChan:  make(chan struct{}),
			waitGroup: &sync.WaitGroup{},
			context:   ctx,
			cancel:    cancel,
		}
		signal.Notify(manager.termChan, syscall.SIGINT, syscall.SIGTERM)
	})
	return manager
}

// TeardownFunc registers a function to run during shutdown
func (m *Manager) TeardownFunc(f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardowns = append(m.teardowns, f)
}

// WaitGroup returns the wait group tracking in-flight work
func (m *Manager) WaitGroup() *sync.WaitGroup {
	return m.waitGroup
}

// Context returns the context cancelled on shutdown
func (m *Manager) Context() context.Context {
	return m.context
}

// Wait blocks until a termination signal arrives, then cancels the context,
// runs the registered teardown functions, and drains the wait group.
func (m *Manager) Wait() {
	<-m.termChan

	m.cancel()

	m.mu.Lock()
	teardowns := make([]func(), len(m.teardowns))
	copy(teardowns, m.teardowns)
	m.mu.Unlock()

	for _, f := range teardowns {
		f()
	}

	m.waitGroup.Wait()
	close(m.doneChan)
}
