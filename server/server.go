package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/agent"
	"tictactoe/game"
	"tictactoe/table"
)

// MoveRequest asks for the move of Turn on Board, a row-major state key.
type MoveRequest struct {
	Board     string `json:"board"`
	Turn      string `json:"turn"`
	Algorithm string `json:"algorithm"`
}

type MoveResponse struct {
	Move   game.Move `json:"move"`
	Board  string    `json:"board"`
	Status string    `json:"status"`
	Winner string    `json:"winner,omitempty"`
}

type TablesResponse struct {
	QEntries      int `json:"q_entries"`
	QStates       int `json:"q_states"`
	GreedyEntries int `json:"greedy_entries"`
	ValueStates   int `json:"value_states"`
}

// MaxRequestBytes bounds a move request body; a 7x7 key is 49 bytes.
const MaxRequestBytes = 1 << 10

type ErrorResponse struct {
	Error string `json:"error"`
}

// Server answers move requests from agents sharing one set of tables.
type Server struct {
	mu      sync.Mutex // guards tables, agents and rng
	tables  agent.Tables
	agents  map[agent.Kind]agent.Agent
	rng     *rand.Rand
	options []agent.Option
	router  chi.Router
}

func New(tables agent.Tables, rng *rand.Rand, options ...agent.Option) *Server {
	if tables.Q == nil {
		tables.Q = table.NewQTable()
	}
	if tables.Greedy == nil {
		tables.Greedy = table.NewQTable()
	}
	if tables.Values == nil {
		tables.Values = table.NewValueTable()
	}
	s := &Server{tables: tables, rng: rng, options: options, agents: make(map[agent.Kind]agent.Agent)}
	if s.rng == nil {
		s.rng = agent.NewRand(uint64(time.Now().UnixNano()))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/tables", s.handleTables)
	r.Post("/move", s.handleMove)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, TablesResponse{
		QEntries:      s.tables.Q.Len(),
		QStates:       s.tables.Q.States(),
		GreedyEntries: s.tables.Greedy.Len(),
		ValueStates:   s.tables.Values.Len(),
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}

	kind, err := agent.ParseKind(req.Algorithm)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	turn, err := game.ParseSymbol(req.Turn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opponent := game.O
	if turn == game.O {
		opponent = game.X
	}
	key := game.StateKey(req.Board)
	if err := game.CheckPlayable(key.Size()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := game.FromKey(key, turn, opponent, turn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if diff := g.Board.Count(game.X) - g.Board.Count(game.O); diff < -1 || diff > 1 {
		writeError(w, http.StatusBadRequest, "players must alternate: piece counts differ by more than one")
		return
	}

	if g.IsOver() {
		writeError(w, http.StatusConflict, "game is already over")
		return
	}

	s.mu.Lock()
	move, err := s.agent(kind).FindMove(g)
	s.mu.Unlock()

	switch {
	case errors.Is(err, agent.ErrNoMoves):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Str("board", req.Board).Msg("failed to find move")
		writeError(w, http.StatusInternalServerError, "failed to find move")
		return
	}

	if err := g.Play(move); err != nil {
		log.Error().Err(err).Str("board", req.Board).Msg("agent returned an illegal move")
		writeError(w, http.StatusInternalServerError, "agent returned an illegal move")
		return
	}
	status, winner := g.Board.Status()
	resp := MoveResponse{Move: move, Board: string(g.Key()), Status: status.String()}
	if status == game.Won {
		resp.Winner = winner.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	})
}

// agent returns the cached agent of kind so exploration schedules carry over
// between requests. Callers hold s.mu.
func (s *Server) agent(kind agent.Kind) agent.Agent {
	a, ok := s.agents[kind]
	if !ok {
		// kind comes from ParseKind, so New cannot fail
		a, _ = agent.New(kind, s.tables, s.rng, s.options...)
		s.agents[kind] = a
	}
	return a
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
