package transport

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/pharmaintel/internal/logging"
)

// Notifier surfaces a user-facing message (the console prints it; tests
// record it).
type Notifier interface {
	Notify(ctx context.Context, message string)
}

type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Notify(ctx context.Context, message string) { f(ctx, message) }

// FaultHook observes every interpreted fault.
type FaultHook func(ctx context.Context, f *Fault)

// Interpreter is the global failure interceptor.
type Interpreter struct {
	notifier Notifier
	logger   logging.Logger

	mu    sync.RWMutex
	hooks []FaultHook
}

// NewInterpreter builds an Interpreter. A nil notifier drops messages.
func NewInterpreter(notifier Notifier, logger logging.Logger) *Interpreter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Interpreter{notifier: notifier, logger: logger}
}

// OnFault registers a hook run after notification for every fault.
func (i *Interpreter) OnFault(h FaultHook) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.hooks = append(i.hooks, h)
}

// Interpret logs f, notifies its message, runs the hooks and returns f.
func (i *Interpreter) Interpret(ctx context.Context, f *Fault) error {
	i.logger.Warn(ctx, "request failed",
		"kind", string(f.Kind),
		"status", f.Status,
		"method", f.Method,
		"url", f.URL,
		"detail", f.Detail,
	)

	if i.notifier != nil {
		i.notifier.Notify(ctx, f.Message)
	}

	i.mu.RLock()
	hooks := append([]FaultHook(nil), i.hooks...)
	i.mu.RUnlock()

	for _, h := range hooks {
		h(ctx, f)
	}
	return f
}
