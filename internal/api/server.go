package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/justinas/alice"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	episodeActor "flatbot/internal/agents/episode/actor"
	"flatbot/internal/agents/episode/handler"
	"flatbot/internal/roster"
	"flatbot/internal/scheduler"
	"flatbot/pkg/logger"
	"flatbot/pkg/messages"
	"flatbot/pkg/models"
)

// FallbackAnswer is what the user gets when an episode fails; silence is
// never an acceptable reply.
const FallbackAnswer = "nein... my brain glitched. try again in a moment."

type inboundMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

type scheduleRequest struct {
	Target  string `json:"target"`
	Delay   string `json:"delay"`
	Message string `json:"message"`
}

type scheduleResponse struct {
	ID string `json:"id"`
}

type cancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	ac     *actor.RootContext
	server *http.Server
	props  func() *actor.Props
	sched  *scheduler.Scheduler
	roster *roster.Engine
	future time.Duration
	now    func() time.Time
}

func New(ac *actor.RootContext, h *handler.Handler, sched *scheduler.Scheduler, engine *roster.Engine, addr string, episodeTimeout time.Duration) *Server {
	s := &Server{
		ac:     ac,
		sched:  sched,
		roster: engine,
		future: episodeTimeout,
		now:    time.Now,
	}

	producer := episodeActor.Producer(h, func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), episodeTimeout)
	})
	s.props = func() *actor.Props {
		decider := func(reason interface{}) actor.Directive {
			log.Error().Msgf("handling failure for episode actor. reason: %v", reason)
			return actor.StopDirective
		}
		strategy := actor.NewOneForOneStrategy(1, 10000, decider)
		return actor.PropsFromProducer(producer, actor.WithSupervisor(strategy))
	}

	r := chi.NewRouter()
	r.Use(logMiddleware())

	r.Post("/message", s.handleMessage)
	r.Post("/reminders", s.handleSchedule)
	r.Delete("/reminders/{id}", s.handleCancel)
	r.Get("/reminders", s.handlePending)
	r.Get("/roster", s.handleRoster)
	r.Get("/roster/{duty}", s.handleDuty)

	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// handleMessage runs one reasoning episode and always answers with text:
// the degraded fallback on episode failure, never a 5xx with no words.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	msg := inboundMessage{}
	if err := unmarshalRequestBody(r, &msg); err != nil || msg.Text == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse body"})
		return
	}

	id := uuid.New()
	utt := models.Utterance{Sender: msg.Sender, Text: msg.Text, Timestamp: s.now()}

	pid := s.ac.Spawn(s.props())
	future := s.ac.RequestFuture(pid, messages.HandleUtterance{RequestID: id, Utterance: utt}, s.future)
	res, err := future.Result() // blocking
	if err != nil {
		log.Error().Err(err).Str(logger.RequestIDField, id.String()).Msg("episode future failed")
		render.JSON(w, r, answerResponse{Answer: FallbackAnswer})
		return
	}

	switch v := res.(type) {
	case messages.Answer:
		render.JSON(w, r, answerResponse{Answer: v.Text})
	case messages.ReportError:
		log.Error().Err(v.Err).Str(logger.RequestIDField, id.String()).Msg("episode reported an error")
		render.JSON(w, r, answerResponse{Answer: FallbackAnswer})
	default:
		log.Error().Str(logger.RequestIDField, id.String()).Msgf("unknown episode response: %v", v)
		render.JSON(w, r, answerResponse{Answer: FallbackAnswer})
	}
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	req := scheduleRequest{}
	if err := unmarshalRequestBody(r, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse body"})
		return
	}

	delay, err := time.ParseDuration(req.Delay)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: fmt.Sprintf("invalid delay %q", req.Delay)})
		return
	}

	id, err := s.sched.Schedule(req.Target, delay, req.Message)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: err.Error()})
		return
	}
	render.JSON(w, r, scheduleResponse{ID: id.String()})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse id"})
		return
	}
	render.JSON(w, r, cancelResponse{Cancelled: s.sched.Cancel(id)})
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.sched.Pending())
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.roster.Upcoming(s.now(), 3))
}

func (s *Server) handleDuty(w http.ResponseWriter, r *http.Request) {
	duty := chi.URLParam(r, "duty")
	period := s.roster.PeriodIndex(s.now())
	member, err := s.roster.AssignmentFor(duty, period)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: err.Error()})
		return
	}
	render.JSON(w, r, struct {
		Duty   string `json:"duty"`
		Period int    `json:"period"`
		Member string `json:"member"`
	}{duty, period, member})
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}

	log.Info().Msg("http server stopped")
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func logMiddleware() func(http.Handler) http.Handler {
	c := alice.New()
	c = c.Append(hlog.NewHandler(log.Logger))
	c = c.Append(hlog.RemoteAddrHandler("ip"))
	c = c.Append(hlog.UserAgentHandler("agent"))
	c = c.Append(hlog.RefererHandler("referer"))
	c = c.Append(hlog.RequestIDHandler("req_id", "Request-Id"))
	c = c.Append(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("verb", r.Method).
			Stringer("url", r.URL).
			Int("size", size).
			Int("status", status).
			Int64("duration", duration.Milliseconds()).
			Msg("REQ")
	}))

	return c.Then
}

func unmarshalRequestBody(req *http.Request, output interface{}) error {
	if req.Body == nil {
		return errors.New("invalid body in request")
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	if err = req.Body.Close(); err != nil {
		return err
	}
	if err = json.Unmarshal(body, &output); err != nil {
		return err
	}

	return nil
}
