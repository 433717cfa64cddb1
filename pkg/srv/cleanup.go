package srv

import "context"

// cleanupService implements Service interface.
type cleanupService struct {
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	// No-op for a cleanup-only service
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup != nil {
		return c.cleanup()
	}
	return nil
}

func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}

// taskService runs a one-shot background job on start.
type taskService struct {
	run func(ctx context.Context) error
}

func (t *taskService) Start(ctx context.Context) error {
	return t.run(ctx)
}

func (t *taskService) Shutdown(ctx context.Context) error {
	return nil
}

// NewTask wraps fn as a Service. A non-nil error from fn is fatal, so jobs that
// may fail harmlessly should log and return nil.
func NewTask(fn func(ctx context.Context) error) Service {
	return &taskService{run: fn}
}
