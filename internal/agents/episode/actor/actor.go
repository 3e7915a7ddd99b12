package actor

import (
	"context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"flatbot/internal/agents/episode/handler"
	"flatbot/pkg/logger"
	"flatbot/pkg/messages"
)

// Episode is a one-shot actor: the transport spawns it per utterance,
// sends HandleUtterance, and blocks on the future. The actor answers and
// stops itself. Independent utterances therefore reason concurrently
// without sharing state.
type Episode struct {
	handler *handler.Handler
	timeout contextTimeout
	id      uuid.UUID
}

type contextTimeout = func() (context.Context, context.CancelFunc)

// Producer builds the actor factory the transport spawns from. The
// handler is shared (it is stateless); the context factory bounds one
// whole episode.
func Producer(h *handler.Handler, newContext contextTimeout) func() actor.Actor {
	return func() actor.Actor {
		return &Episode{handler: h, timeout: newContext, id: uuid.Nil}
	}
}

func (a *Episode) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), "agent": "episode"}).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case messages.HandleUtterance:
		l.Debug().Str(logger.RequestIDField, msg.RequestID.String()).Msg("HandleUtterance received")
		a.id = msg.RequestID

		ctx, cancel := a.timeout()
		answer, err := a.handler.Handle(ctx, msg.Utterance)
		cancel()
		if err != nil {
			l.Error().Err(err).Str(logger.RequestIDField, a.id.String()).Msg("episode failed")
			ac.Respond(messages.ReportError{RequestID: a.id, Err: err})
		} else {
			ac.Respond(messages.Answer{RequestID: a.id, Text: answer})
		}
		ac.Stop(ac.Self())
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}
