package services

import (
	"context"
	"log/slog"

	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/xvierd/focusguard/internal/ports"
)

// Router dispatches protocol messages to the coordinator and the greyscale
// applier.
type Router struct {
	coordinator *Coordinator
	greyscale   *GreyscaleApplier
	log         *slog.Logger
}

var _ ports.MessageHandler = (*Router)(nil)

// NewRouter creates a router. log may be nil.
func NewRouter(coordinator *Coordinator, greyscale *GreyscaleApplier, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{coordinator: coordinator, greyscale: greyscale, log: log}
}

// Handle answers one message. Unknown actions get {success:false}.
func (r *Router) Handle(ctx context.Context, msg domain.Message) domain.Response {
	switch msg.Action {
	case domain.ActionStartTimer:
		started, err := r.coordinator.Start(ctx)
		return r.result(msg, started, err)

	case domain.ActionStopTimer:
		stopped, err := r.coordinator.Stop(ctx)
		return r.result(msg, stopped, err)

	case domain.ActionResetTimer:
		remaining, err := r.coordinator.Reset(ctx)
		if err != nil {
			return r.result(msg, false, err)
		}
		return domain.Response{Success: true, TimeRemaining: &remaining}

	case domain.ActionGetTimerState:
		state, err := r.coordinator.State(ctx)
		if err != nil {
			return r.result(msg, false, err)
		}
		return domain.Response{State: &state}

	case domain.ActionToggleGreyscale:
		_, err := r.greyscale.Toggle(ctx, msg.Enabled)
		return r.result(msg, err == nil, err)

	case domain.ActionUpdateSettings:
		err := r.coordinator.ReloadSettings(ctx)
		return r.result(msg, err == nil, err)

	default:
		r.log.Debug("Unknown action", logfields.Action(string(msg.Action)))
		return domain.Response{Success: false}
	}
}

func (r *Router) result(msg domain.Message, ok bool, err error) domain.Response {
	if err != nil {
		r.log.Warn("Message failed", logfields.Action(string(msg.Action)), logfields.Error(err))
	}
	return domain.Response{Success: ok && err == nil}
}
