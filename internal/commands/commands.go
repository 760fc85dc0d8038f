// Package commands implements the form handlers of the client: each command
// validates its input, runs one ledger operation, leaves at most one notice
// in the notification slot and names the view to show next.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sheikh-saqib/apb-demo-bank/internal/ledger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/logger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
	"github.com/sheikh-saqib/apb-demo-bank/internal/notify"
	"github.com/sheikh-saqib/apb-demo-bank/internal/router"
	"github.com/sheikh-saqib/apb-demo-bank/internal/session"
	"github.com/shopspring/decimal"
)

var ErrForbidden = errors.New("admin role required")

// Speaker receives spoken confirmations. Announce must not block.
type Speaker interface {
	Announce(text string)
}

type Handler struct {
	ledger  *ledger.Ledger
	session *session.Session
	slot    notify.Slot
	speaker Speaker
	router  router.Router
	log     *logger.Logger
}

func NewHandler(l *ledger.Ledger, s *session.Session, slot notify.Slot, speaker Speaker, r router.Router, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{ledger: l, session: s, slot: slot, speaker: speaker, router: r, log: log}
}

// Result is what every command returns. Err is the error the command
// recovered from, kept so transports can classify it.
type Result struct {
	View   router.View    `json:"view"`
	Notice *notify.Notice `json:"notification,omitempty"`
	Data   any            `json:"data,omitempty"`
	Err    error          `json:"-"`
}

func (h *Handler) Ledger() *ledger.Ledger    { return h.ledger }
func (h *Handler) Session() *session.Session { return h.session }
func (h *Handler) Router() router.Router     { return h.router }
func (h *Handler) Slot() notify.Slot         { return h.slot }

// Navigate resolves the requested view against the current session.
func (h *Handler) Navigate(ctx context.Context, requested router.View) (router.View, models.Account, bool) {
	account, err := h.session.Current(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			h.log.Warn("resolve session account", "error", err)
		}
		return router.ViewLogin, models.Account{}, false
	}
	return h.router.Resolve(true, account.Role, requested), account, true
}

func (h *Handler) Login(ctx context.Context, username, password string) Result {
	account, err := h.session.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidCredentials) {
			return h.fail(ctx, router.ViewLogin, err, notify.SeverityError, "Invalid credentials")
		}
		return h.unexpected(ctx, router.ViewLogin, "login", err)
	}
	h.log.Info("session started", "account_id", account.ID, "role", account.Role)
	h.announce(fmt.Sprintf("Authorized. Welcome, %s.", account.Name))
	return Result{View: router.Home(account.Role), Data: account}
}

func (h *Handler) Logout(ctx context.Context) Result {
	if id := h.session.AccountID(); id != "" {
		h.log.Info("session ended", "account_id", id)
	}
	h.session.Logout()
	return Result{View: router.ViewLogin}
}

func (h *Handler) Transfer(ctx context.Context, targetAccount, amount string) Result {
	account, res, ok := h.requireSession(ctx)
	if !ok {
		return res
	}
	amt, err := parseAmount(amount)
	if err != nil {
		return h.fail(ctx, router.ViewTransfer, err, notify.SeverityError, "Enter a valid amount.")
	}

	tx, err := h.ledger.Transfer(ctx, account.ID, strings.TrimSpace(targetAccount), amt)
	switch {
	case err == nil:
		return h.succeed(ctx, router.ViewTransfer, tx, fmt.Sprintf("Sent $%s to %s", formatAmount(amt), tx.Receiver))
	case errors.Is(err, ledger.ErrInvalidAmount):
		return h.fail(ctx, router.ViewTransfer, err, notify.SeverityError, "Enter a valid amount.")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return h.fail(ctx, router.ViewTransfer, err, notify.SeverityError, "Insufficient funds")
	case errors.Is(err, ledger.ErrAccountNotFound):
		return h.fail(ctx, router.ViewTransfer, err, notify.SeverityError, "Account not found")
	case errors.Is(err, ledger.ErrSelfTransfer):
		return h.fail(ctx, router.ViewTransfer, err, notify.SeverityError, "Cannot transfer to self.")
	}
	return h.unexpected(ctx, router.ViewTransfer, "transfer", err)
}

func (h *Handler) RequestLoan(ctx context.Context, amount string) Result {
	account, res, ok := h.requireSession(ctx)
	if !ok {
		return res
	}
	amt, err := parseAmount(amount)
	if err != nil {
		return h.fail(ctx, router.ViewDashboard, err, notify.SeverityError, "Enter a valid amount.")
	}

	tx, err := h.ledger.RequestLoan(ctx, account.ID, amt)
	switch {
	case err == nil:
		return h.succeed(ctx, router.ViewDashboard, tx, fmt.Sprintf("Loan of $%s approved.", formatAmount(amt)))
	case errors.Is(err, ledger.ErrLoanLimitExceeded):
		return h.fail(ctx, router.ViewDashboard, err, notify.SeverityError, fmt.Sprintf("Max loan limit is $%s", formatAmount(ledger.LoanLimit)))
	case errors.Is(err, ledger.ErrInvalidAmount):
		return h.fail(ctx, router.ViewDashboard, err, notify.SeverityError, "Enter a valid amount.")
	}
	return h.unexpected(ctx, router.ViewDashboard, "request loan", err)
}

func (h *Handler) RepayLoan(ctx context.Context) Result {
	account, res, ok := h.requireSession(ctx)
	if !ok {
		return res
	}

	tx, err := h.ledger.RepayLoan(ctx, account.ID)
	switch {
	case err == nil:
		return h.succeed(ctx, router.ViewDashboard, tx, "Loan fully repaid.")
	case errors.Is(err, ledger.ErrNoActiveLoan):
		return h.fail(ctx, router.ViewDashboard, err, notify.SeverityInfo, "No active loans.")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return h.fail(ctx, router.ViewDashboard, err, notify.SeverityError, "Insufficient balance to repay.")
	}
	return h.unexpected(ctx, router.ViewDashboard, "repay loan", err)
}

func (h *Handler) Purchase(ctx context.Context, itemID string) Result {
	account, res, ok := h.requireSession(ctx)
	if !ok {
		return res
	}

	tx, err := h.ledger.PurchaseItem(ctx, account.ID, itemID)
	switch {
	case err == nil:
		item, _ := ledger.LookupItem(itemID)
		out := h.succeed(ctx, router.ViewMarket, tx, fmt.Sprintf("Purchased %s!", item.Name))
		h.announce("Purchase confirmed.")
		return out
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return h.fail(ctx, router.ViewMarket, err, notify.SeverityError, "Insufficient liquidity.")
	case errors.Is(err, ledger.ErrAlreadyOwned):
		return h.fail(ctx, router.ViewMarket, err, notify.SeverityError, "Item already owned.")
	case errors.Is(err, ledger.ErrUnknownItem):
		return h.fail(ctx, router.ViewMarket, err, notify.SeverityError, "Unknown item.")
	}
	return h.unexpected(ctx, router.ViewMarket, "purchase", err)
}

// AccountForm carries the onboarding form as typed by the admin.
type AccountForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Balance  string `json:"balance"`
}

func (h *Handler) CreateAccount(ctx context.Context, form AccountForm) Result {
	if _, res, ok := h.requireAdmin(ctx); !ok {
		return res
	}
	balance := decimal.Zero
	if strings.TrimSpace(form.Balance) != "" {
		b, err := parseAmount(form.Balance)
		if err != nil {
			return h.fail(ctx, router.ViewOnboarding, err, notify.SeverityError, "Enter a valid amount.")
		}
		balance = b
	}

	account, err := h.ledger.CreateAccount(ctx, ledger.NewAccount{
		Username: form.Username,
		Password: form.Password,
		Name:     form.Name,
		Balance:  balance,
	})
	switch {
	case err == nil:
		return h.succeed(ctx, router.ViewAdmin, account, fmt.Sprintf("Entity %s created.", account.Name))
	case errors.Is(err, ledger.ErrMissingField):
		return h.fail(ctx, router.ViewOnboarding, err, notify.SeverityError, "Username, password and name are required.")
	}
	return h.unexpected(ctx, router.ViewOnboarding, "create account", err)
}

// Direction is the admin panel's plus/minus button.
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

func (h *Handler) AdjustBalance(ctx context.Context, accountID string, dir Direction) Result {
	if _, res, ok := h.requireAdmin(ctx); !ok {
		return res
	}
	var delta decimal.Decimal
	switch dir {
	case Credit:
		delta = ledger.AdminStep
	case Debit:
		delta = ledger.AdminStep.Neg()
	default:
		return h.fail(ctx, router.ViewAdmin, ledger.ErrInvalidAmount, notify.SeverityError, "Unknown adjustment.")
	}

	account, err := h.ledger.AdjustBalance(ctx, accountID, delta)
	switch {
	case err == nil:
		return Result{View: router.ViewAdmin, Data: account}
	case errors.Is(err, ledger.ErrAccountNotFound):
		return h.fail(ctx, router.ViewAdmin, err, notify.SeverityError, "Account not found")
	}
	return h.unexpected(ctx, router.ViewAdmin, "adjust balance", err)
}

func (h *Handler) SetStaffRole(ctx context.Context, accountID, role string) Result {
	if _, res, ok := h.requireAdmin(ctx); !ok {
		return res
	}
	staffRole, err := models.ParseStaffRole(role)
	if err != nil {
		return h.fail(ctx, router.ViewStaff, fmt.Errorf("%w: %v", ledger.ErrUnknownStaffRole, err), notify.SeverityError, "Unknown staff role.")
	}

	account, err := h.ledger.SetStaffRole(ctx, accountID, staffRole)
	switch {
	case err == nil:
		return Result{View: router.ViewStaff, Data: account}
	case errors.Is(err, ledger.ErrAccountNotFound):
		return h.fail(ctx, router.ViewStaff, err, notify.SeverityError, "Account not found")
	}
	return h.unexpected(ctx, router.ViewStaff, "set staff role", err)
}

func (h *Handler) requireSession(ctx context.Context) (models.Account, Result, bool) {
	account, err := h.session.Current(ctx)
	if err == nil {
		return account, Result{}, true
	}
	if errors.Is(err, ledger.ErrAccountNotFound) {
		// the session key no longer resolves
		h.session.Logout()
		err = session.ErrNoSession
	}
	if errors.Is(err, session.ErrNoSession) {
		return models.Account{}, h.fail(ctx, router.ViewLogin, err, notify.SeverityError, "Session required."), false
	}
	return models.Account{}, h.unexpected(ctx, router.ViewLogin, "resolve session", err), false
}

// requireAdmin only checks the role when the router enforces admin views.
func (h *Handler) requireAdmin(ctx context.Context) (models.Account, Result, bool) {
	account, res, ok := h.requireSession(ctx)
	if !ok {
		return account, res, false
	}
	if h.router.Enforce && account.Role != models.RoleAdmin {
		return account, h.fail(ctx, router.ViewDashboard, ErrForbidden, notify.SeverityError, "Admin clearance required."), false
	}
	return account, Result{}, true
}

func (h *Handler) succeed(ctx context.Context, view router.View, data any, msg string) Result {
	n := h.notify(ctx, notify.SeveritySuccess, msg)
	return Result{View: view, Notice: n, Data: data}
}

func (h *Handler) fail(ctx context.Context, view router.View, err error, severity notify.Severity, msg string) Result {
	n := h.notify(ctx, severity, msg)
	return Result{View: view, Notice: n, Err: err}
}

func (h *Handler) unexpected(ctx context.Context, view router.View, op string, err error) Result {
	h.log.Error("command failed", "op", op, "error", err)
	return h.fail(ctx, view, err, notify.SeverityError, "Something went wrong.")
}

func (h *Handler) notify(ctx context.Context, severity notify.Severity, msg string) *notify.Notice {
	n := notify.Notice{Severity: severity, Message: msg, CreatedAt: time.Now()}
	if h.slot != nil {
		h.slot.Set(ctx, n)
	}
	return &n
}

func (h *Handler) announce(text string) {
	if h.speaker != nil {
		h.speaker.Announce(text)
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	amt, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ledger.ErrInvalidAmount, s)
	}
	if err := ledger.ValidateAmount(amt); err != nil {
		return decimal.Decimal{}, err
	}
	return amt, nil
}
