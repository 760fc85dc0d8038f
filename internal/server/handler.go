package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sheikh-saqib/apb-demo-bank/internal/commands"
	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
	"github.com/sheikh-saqib/apb-demo-bank/internal/router"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type sessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	View          router.View     `json:"view"`
	Account       *models.Account `json:"account,omitempty"`
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	view, account, ok := s.cmd.Navigate(r.Context(), "")
	resp := sessionResponse{Authenticated: ok, View: view}
	if ok {
		resp.Account = &account
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeResult(w, s.cmd.Login(r.Context(), req.Username, req.Password), http.StatusOK)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.cmd.Logout(r.Context()), http.StatusOK)
}

func (s *Server) menu(w http.ResponseWriter, r *http.Request) {
	_, account, ok := s.cmd.Navigate(r.Context(), "")
	if !ok {
		writeJSON(w, http.StatusOK, []router.View{})
		return
	}
	writeJSON(w, http.StatusOK, router.Menu(account.Role))
}

func (s *Server) notification(w http.ResponseWriter, r *http.Request) {
	n, ok := s.cmd.Slot().Current(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := s.cmd.Navigate(r.Context(), ""); !ok {
		writeError(w, http.StatusUnauthorized, "session required")
		return
	}
	txs, err := s.cmd.Ledger().Transactions(r.Context())
	if err != nil {
		s.log.Error("list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) latestClip(w http.ResponseWriter, r *http.Request) {
	if s.clips == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	clip, ok := s.clips.Latest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(clip.WAV)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(clip.WAV)
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetAccount string      `json:"target_account"`
		Amount        json.Number `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeResult(w, s.cmd.Transfer(r.Context(), req.TargetAccount, req.Amount.String()), http.StatusOK)
}

func (s *Server) requestLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount json.Number `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeResult(w, s.cmd.RequestLoan(r.Context(), req.Amount.String()), http.StatusOK)
}

func (s *Server) repayLoan(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.cmd.RepayLoan(r.Context()), http.StatusOK)
}

func (s *Server) purchase(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.cmd.Purchase(r.Context(), chi.URLParam(r, "itemID")), http.StatusOK)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string      `json:"username"`
		Password string      `json:"password"`
		Name     string      `json:"name"`
		Balance  json.Number `json:"balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	form := commands.AccountForm{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Balance:  req.Balance.String(),
	}
	writeResult(w, s.cmd.CreateAccount(r.Context(), form), http.StatusCreated)
}

func (s *Server) adjustBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction commands.Direction `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeResult(w, s.cmd.AdjustBalance(r.Context(), chi.URLParam(r, "id"), req.Direction), http.StatusOK)
}

func (s *Server) setStaffRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffRole string `json:"staff_role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeResult(w, s.cmd.SetStaffRole(r.Context(), chi.URLParam(r, "id"), req.StaffRole), http.StatusOK)
}
