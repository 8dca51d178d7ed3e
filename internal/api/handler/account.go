package handler

import (
	"net/http"

	"github.com/mcoot/hoyorecord/internal/api/request"
	"github.com/mcoot/hoyorecord/internal/api/response"
)

// AccountHandler handles the account endpoints
type AccountHandler struct {
	sessions Sessions
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(sessions Sessions) *AccountHandler {
	return &AccountHandler{sessions: sessions}
}

// Get handles GET /account
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	response.JSON(w, http.StatusOK, response.AccountFromModel(sess.Record()))
}

// Forget handles DELETE /account
func (h *AccountHandler) Forget(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ForgetAccount(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
