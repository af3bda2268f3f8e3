package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/moonbase/moonrobot/internal/config"
	"github.com/moonbase/moonrobot/internal/logging"
	"github.com/moonbase/moonrobot/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// NewLogger configures the application logger from settings.
// A non-empty levelOverride (from --log-level) wins over the settings.
func NewLogger(s *config.Settings, levelOverride string) (*slog.Logger, error) {
	name := s.LogLevel
	if levelOverride != "" {
		name = levelOverride
	}
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return logging.New(level, s.LogFormat).With("env", s.Environment), nil
}

// PrintSystemMessage prints a standardized system message to w.
func PrintSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBatchStart: func(ctx context.Context, e *domain.BatchEvent) {
			logger.Debug("Batch Start", "commands", e.Commands, "from", e.Initial.Position.String(), "direction", e.Initial.Direction)
		},
		OnCollision: func(ctx context.Context, e *domain.BatchEvent) {
			logger.Debug("Collision", "obstacle", e.Result.Obstacle.String(), "consumed", e.Result.Consumed)
		},
		OnBatchComplete: func(ctx context.Context, e *domain.BatchEvent) {
			if e.Err != nil {
				logger.Debug("Batch Failed", "err", e.Err, "duration", e.Duration)
				return
			}
			logger.Debug("Batch Complete", "to", e.Result.State.Position.String(), "direction", e.Result.State.Direction, "duration", e.Duration)
		},
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// HandleExecutionError maps user interruptions to a clean exit.
func HandleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
