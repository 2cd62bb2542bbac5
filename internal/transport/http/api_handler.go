package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/domain"
)

// APIHandler exposes the game operations as a polling-friendly JSON API.
// Every mutation returns the updated snapshot so clients resynchronize in a
// single round trip.
type APIHandler struct {
	service *app.GameService
	log     *logrus.Logger
}

func NewAPIHandler(service *app.GameService, log *logrus.Logger) *APIHandler {
	return &APIHandler{service: service, log: log}
}

// Register mounts all game routes on the mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /games", h.createGame)
	mux.HandleFunc("GET /games", h.listGames)
	mux.HandleFunc("GET /games/{id}", h.getGame)
	mux.HandleFunc("POST /games/{id}/join", h.joinGame)
	mux.HandleFunc("POST /games/{id}/start", h.startGame)
	mux.HandleFunc("POST /games/{id}/answer", h.submitAnswer)
	mux.HandleFunc("POST /games/{id}/next", h.advanceQuestion)
	mux.HandleFunc("GET /games/{id}/answers", h.listAnswers)
}

type createGameRequest struct {
	HostID   string `json:"hostId"`
	HostName string `json:"hostName"`
}

type joinGameRequest struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type submitAnswerRequest struct {
	PlayerID      string `json:"playerId"`
	SelectedIndex int    `json:"selectedIndex"`
	ElapsedMs     int64  `json:"elapsedMs"`
}

func (h *APIHandler) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HostID == "" {
		h.writeError(w, http.StatusBadRequest, "hostId is required")
		return
	}
	game, err := h.service.CreateGame(r.Context(), req.HostID, req.HostName)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"gameId": game.ID,
		"game":   newGameView(game, h.service.Now()),
	})
}

func (h *APIHandler) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.service.ListOpenGames(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	now := h.service.Now()
	views := make([]gameView, 0, len(games))
	for _, g := range games {
		views = append(views, newGameView(g, now))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"games": views})
}

func (h *APIHandler) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.service.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"game": newGameView(game, h.service.Now())})
}

func (h *APIHandler) joinGame(w http.ResponseWriter, r *http.Request) {
	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		h.writeError(w, http.StatusBadRequest, "playerId is required")
		return
	}
	game, player, err := h.service.JoinGame(r.Context(), r.PathValue("id"), req.PlayerID, req.PlayerName)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"game":   newGameView(game, h.service.Now()),
		"player": playerView{ID: player.ID, Name: player.Name, Score: player.Score},
	})
}

func (h *APIHandler) startGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.service.StartGame(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"game": newGameView(game, h.service.Now())})
}

func (h *APIHandler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		h.writeError(w, http.StatusBadRequest, "playerId is required")
		return
	}
	result, game, err := h.service.SubmitAnswer(r.Context(), r.PathValue("id"), req.PlayerID, req.SelectedIndex, req.ElapsedMs)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"result": result,
		"game":   newGameView(game, h.service.Now()),
	})
}

func (h *APIHandler) advanceQuestion(w http.ResponseWriter, r *http.Request) {
	result, game, err := h.service.AdvanceQuestion(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"finished":   result.Finished,
		"nextIndex":  result.NextIndex,
		"game":       newGameView(game, h.service.Now()),
		"serverTime": h.service.Now(),
	})
}

func (h *APIHandler) listAnswers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListAnswers(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"answers": entries})
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.WithError(err).Warn("write response failed")
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses:
// missing things are 404, state conflicts 409, bad input 400, anything else
// a retryable 500.
func (h *APIHandler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrGameNotFound), errors.Is(err, domain.ErrPlayerNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrGameStarted),
		errors.Is(err, domain.ErrGameFull),
		errors.Is(err, domain.ErrGameNotPlaying),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrGameIDTaken):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidOption):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.WithError(err).Error("internal error")
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
