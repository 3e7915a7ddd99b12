package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatbot/internal/agents/episode/handler"
	"flatbot/internal/config"
	"flatbot/internal/llm"
	"flatbot/internal/roster"
	"flatbot/internal/scheduler"
	"flatbot/internal/tools"
	"flatbot/pkg/models"
)

type cannedInferencer struct {
	thought models.Thought
	err     error
}

func (c *cannedInferencer) Infer(context.Context, llm.PromptInput) (models.Thought, error) {
	return c.thought, c.err
}

func newServer(t *testing.T, inf llm.Inferencer) *Server {
	t.Helper()
	engine, err := roster.New(config.Roster{
		Duties:       map[string][]string{"kitchen": {"alice", "bob"}},
		PeriodBase:   time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		PeriodLength: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	sched := scheduler.New(time.Hour, time.Second, func(string, string) {})
	h := handler.New(inf, tools.NewRegistry(tools.NewCalculator()), 6)
	system := protoactor.NewActorSystem().Root

	return New(system, h, sched, engine, ":0", 5*time.Second)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleMessageAnswers(t *testing.T) {
	srv := newServer(t, &cannedInferencer{thought: models.Thought{Action: models.FinalAnswer, Input: "alles klar"}})

	rec := doJSON(t, srv, http.MethodPost, "/message", `{"sender": "user1", "text": "hey"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res answerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "alles klar", res.Answer)
}

func TestHandleMessageFallbackOnEpisodeError(t *testing.T) {
	srv := newServer(t, &cannedInferencer{err: models.ErrInferenceUnavailable})

	rec := doJSON(t, srv, http.MethodPost, "/message", `{"sender": "user1", "text": "hey"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res answerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, FallbackAnswer, res.Answer)
}

func TestHandleMessageRejectsEmptyBody(t *testing.T) {
	srv := newServer(t, &cannedInferencer{})

	rec := doJSON(t, srv, http.MethodPost, "/message", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReminderEndpoints(t *testing.T) {
	srv := newServer(t, &cannedInferencer{})

	rec := doJSON(t, srv, http.MethodPost, "/reminders", `{"target": "user1", "delay": "10m", "message": "check oven"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created scheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, srv, http.MethodGet, "/reminders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "check oven")

	rec = doJSON(t, srv, http.MethodDelete, "/reminders/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cancelled":true`)

	rec = doJSON(t, srv, http.MethodDelete, "/reminders/"+created.ID, "")
	assert.Contains(t, rec.Body.String(), `"cancelled":false`)
}

func TestReminderInvalidDelay(t *testing.T) {
	srv := newServer(t, &cannedInferencer{})

	rec := doJSON(t, srv, http.MethodPost, "/reminders", `{"target": "user1", "delay": "-5m", "message": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRosterEndpoints(t *testing.T) {
	srv := newServer(t, &cannedInferencer{})

	rec := doJSON(t, srv, http.MethodGet, "/roster/kitchen", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"duty":"kitchen"`)

	rec = doJSON(t, srv, http.MethodGet, "/roster/garden", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/roster", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kitchen")
}
