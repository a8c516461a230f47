package handlers

import (
	"net/http"
	"strings"
	"time"

	"finance/internal/config"
	"finance/internal/middleware"
	"finance/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	cfg     config.Config
	log     logrus.FieldLogger
	catalog CatalogService
	ledger  LedgerService
	reports ReportService
	members middleware.MemberStore
	hub     *websocket.Hub
	now     func() time.Time
}

func New(cfg config.Config, log logrus.FieldLogger, catalog CatalogService, ledger LedgerService, reports ReportService, members middleware.MemberStore, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:     cfg,
		log:     log,
		catalog: catalog,
		ledger:  ledger,
		reports: reports,
		members: members,
		hub:     hub,
		now:     time.Now,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestLogger(h.log))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(h.cfg.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/organizations", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Post("/", h.CreateOrganization)
		r.Route("/{orgID}", func(r chi.Router) {
			r.Use(middleware.RequireMember(h.members, "orgID", h.log))
			r.Get("/", h.GetOrganization)
			r.Put("/base-currency", h.UpdateBaseCurrency)

			r.Get("/accounts", h.ListAccounts)
			r.Post("/accounts", h.CreateAccount)
			r.Get("/accounts/balances", h.ListAccountBalances)

			r.Get("/categories", h.ListCategories)
			r.Post("/categories", h.CreateCategory)

			r.Get("/budgets", h.ListBudgets)
			r.Post("/budgets", h.CreateBudget)
			r.Get("/budgets/overview", h.BudgetOverview)
			r.Put("/budgets/{budgetID}", h.UpdateBudget)
			r.Delete("/budgets/{budgetID}", h.DeleteBudget)

			r.Get("/exchange-defaults", h.ListExchangeDefaults)
			r.Put("/exchange-defaults", h.UpsertExchangeDefault)
			r.Delete("/exchange-defaults/{from}/{to}", h.DeleteExchangeDefault)

			r.Get("/transactions", h.ListTransactions)
			r.Post("/transactions", h.CreateTransaction)
			r.Get("/transactions/activity", h.ListActivity)
			r.Patch("/transactions/{transactionID}", h.UpdateTransaction)
			r.Delete("/transactions/{transactionID}", h.DeleteTransaction)

			r.Post("/transfers", h.CreateTransfer)
			r.Delete("/transfers/{transferID}", h.DeleteTransfer)
			r.Put("/transfers/{transferID}/status", h.UpdateTransferStatus)

			r.Get("/expense-totals", h.ListMonthExpenseTotals)
			r.Get("/balance", h.OrgBalance)
			r.Get("/audit", h.ListAuditLog)
			r.Get("/ws", h.Events)
		})
	})
	return router
}

func allowedOrigins(raw string) []string {
	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
