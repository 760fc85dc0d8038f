package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sheikh-saqib/apb-demo-bank/internal/ledger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
	"github.com/sheikh-saqib/apb-demo-bank/internal/notify"
	"github.com/sheikh-saqib/apb-demo-bank/internal/router"
)

// recentActivityLimit is how many transactions the dashboard lists.
const recentActivityLimit = 5

type viewResponse struct {
	View         router.View     `json:"view"`
	Menu         []router.View   `json:"menu"`
	Account      *models.Account `json:"account,omitempty"`
	Notification *notify.Notice  `json:"notification,omitempty"`
	Data         any             `json:"data,omitempty"`
}

type dashboardData struct {
	RecentActivity []models.Transaction `json:"recent_activity"`
	LoanLimit      string               `json:"loan_limit"`
}

type transferData struct {
	AccountNumber string `json:"account_number"`
	Balance       string `json:"balance"`
}

type marketItem struct {
	models.StoreItem
	Owned bool `json:"owned"`
}

type adminData struct {
	Accounts []models.Account `json:"accounts"`
	Stats    models.Stats     `json:"stats"`
}

type staffData struct {
	Accounts   []models.Account   `json:"accounts"`
	StaffRoles []models.StaffRole `json:"staff_roles"`
}

type onboardingData struct {
	Fields []string `json:"fields"`
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	requested, err := router.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	ctx := r.Context()
	resp := viewResponse{Menu: []router.View{}}
	if n, ok := s.cmd.Slot().Current(ctx); ok {
		resp.Notification = &n
	}

	view, account, ok := s.cmd.Navigate(ctx, requested)
	resp.View = view
	if !ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Account = &account
	resp.Menu = router.Menu(account.Role)

	data, err := s.viewData(ctx, view, account)
	if err != nil {
		s.log.Error("render view", "view", view, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render view")
		return
	}
	resp.Data = data
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) viewData(ctx context.Context, view router.View, account models.Account) (any, error) {
	l := s.cmd.Ledger()
	switch view {
	case router.ViewDashboard:
		recent, err := l.RecentActivity(ctx, account.ID, recentActivityLimit)
		if err != nil {
			return nil, err
		}
		return dashboardData{RecentActivity: recent, LoanLimit: ledger.LoanLimit.String()}, nil

	case router.ViewTransfer:
		return transferData{AccountNumber: account.AccountNumber, Balance: account.Balance.String()}, nil

	case router.ViewMarket:
		items := ledger.Catalog()
		out := make([]marketItem, 0, len(items))
		for _, item := range items {
			out = append(out, marketItem{StoreItem: item, Owned: account.Owns(item.Name)})
		}
		return out, nil

	case router.ViewAdmin:
		accounts, err := l.Accounts(ctx)
		if err != nil {
			return nil, err
		}
		stats, err := l.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return adminData{Accounts: accounts, Stats: stats}, nil

	case router.ViewStaff:
		accounts, err := l.Accounts(ctx)
		if err != nil {
			return nil, err
		}
		return staffData{Accounts: accounts, StaffRoles: models.StaffRoles}, nil

	case router.ViewOnboarding:
		return onboardingData{Fields: []string{"name", "username", "password", "balance"}}, nil
	}
	return nil, nil
}
