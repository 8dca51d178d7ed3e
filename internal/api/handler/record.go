package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/hoyorecord/internal/api/request"
	"github.com/mcoot/hoyorecord/internal/api/response"
	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/record"
)

// RecordHandler runs game record operations
type RecordHandler struct {
	sessions Sessions
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(sessions Sessions) *RecordHandler {
	return &RecordHandler{sessions: sessions}
}

// List handles GET /games
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Session(r.Context(), false)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := response.Operations{Games: make(map[string][]string)}
	for game, names := range sess.OperationNames() {
		out.Games[string(game)] = names
	}
	response.JSON(w, http.StatusOK, out)
}

// Run handles GET /games/{game}/{operation}
func (h *RecordHandler) Run(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	game, err := model.ParseGame(vars["game"])
	if err != nil {
		WriteError(w, err)
		return
	}

	opts, err := request.Options(r)
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}
	refresh, err := request.Refresh(r)
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	sess, err := h.sessions.Session(r.Context(), refresh)
	if err != nil {
		WriteError(w, err)
		return
	}

	op, err := sess.Operation(game, vars["operation"])
	if err != nil {
		WriteError(w, err)
		return
	}

	raw, err := op(r.Context(), opts)
	if err != nil {
		WriteError(w, err)
		return
	}

	env, err := record.ParseEnvelope(raw)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Operation{
		Game:      string(game),
		Operation: vars["operation"],
		Data:      env.Data,
	})
}
