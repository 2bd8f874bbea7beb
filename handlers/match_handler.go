package handlers

import (
	"net/http"

	"github.com/Dosada05/scoring-engine/scoring"
	"github.com/Dosada05/scoring-engine/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type setServerRequest struct {
	Participant scoring.Side `json:"participant"`
}

// ListByTournamentHandler обрабатывает GET /tournaments/{tournamentID}/matches
func (h *MatchHandler) ListByTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHandler обрабатывает GET /matches/{matchID}
//
//	@Summary	Get a match
//	@Tags		matches
//	@Produce	json
//	@Param		matchID	path		int	true	"match id"
//	@Success	200		{object}	models.Match
//	@Router		/matches/{matchID} [get]
func (h *MatchHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LiveHandler обрабатывает GET /matches/{matchID}/live
//
//	@Summary	Live score of a match
//	@Tags		matches
//	@Produce	json
//	@Param		matchID	path		int	true	"match id"
//	@Success	200		{object}	services.LiveScoreView
//	@Router		/matches/{matchID}/live [get]
func (h *MatchHandler) LiveHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	live, err := h.matchService.GetLiveScore(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"live": live}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartHandler обрабатывает POST /matches/{matchID}/start
//
//	@Summary	Start scoring a match
//	@Tags		matches
//	@Accept		json
//	@Produce	json
//	@Param		matchID	path	int							true	"match id"
//	@Param		input	body	services.StartMatchInput	true	"first server and court"
//	@Success	200		{object}	services.MatchUpdate
//	@Security	BearerAuth
//	@Router		/matches/{matchID}/start [post]
func (h *MatchHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StartMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	update, err := h.matchService.StartMatch(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, update, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EventHandler обрабатывает POST /matches/{matchID}/events
//
//	@Summary	Apply a scoring event
//	@Tags		matches
//	@Accept		json
//	@Produce	json
//	@Param		matchID	path	int				true	"match id"
//	@Param		event	body	scoring.Event	true	"point, ace, fault, double_fault or set_server"
//	@Success	200		{object}	services.MatchUpdate
//	@Security	BearerAuth
//	@Router		/matches/{matchID}/events [post]
func (h *MatchHandler) EventHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var event scoring.Event
	if err := readJSON(w, r, &event); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	update, err := h.matchService.ApplyEvent(r.Context(), matchID, event)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, update, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UndoHandler обрабатывает POST /matches/{matchID}/undo
func (h *MatchHandler) UndoHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	update, err := h.matchService.Undo(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, update, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetServerHandler обрабатывает PUT /matches/{matchID}/server
func (h *MatchHandler) SetServerHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input setServerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	update, err := h.matchService.SetServer(r.Context(), matchID, input.Participant)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, update, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResultHandler обрабатывает POST /matches/{matchID}/result
//
//	@Summary	Record a final score entered by hand
//	@Tags		matches
//	@Accept		json
//	@Produce	json
//	@Param		matchID	path	int							true	"match id"
//	@Param		input	body	services.RecordResultInput	true	"set scores"
//	@Success	200		{object}	services.MatchUpdate
//	@Security	BearerAuth
//	@Router		/matches/{matchID}/result [post]
func (h *MatchHandler) ResultHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	update, err := h.matchService.RecordResult(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, update, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
