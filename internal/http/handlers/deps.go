package handlers

import (
	"orderly/internal/bot"
	"orderly/internal/config"
	"orderly/internal/metrics"
	"orderly/internal/repos"
	"orderly/internal/services"
	"orderly/internal/store"
)

type Deps struct {
	Store   *store.Store
	Metrics *metrics.Registry
	AuthSvc *services.AuthService
	Drafts  *bot.DraftStore

	BotSecret string

	AuthHandler   *AuthHandler
	OrderHandler  *OrderHandler
	AdminHandler  *AdminHandler
	BotHandler    *BotHandler
	HealthHandler *HealthHandler
}

func NewDeps(st *store.Store, cfg config.Config, m *metrics.Registry, n bot.Notifier) (*Deps, error) {
	orderRepo := repos.NewOrderRepo(st)
	reportRepo := repos.NewReportRepo(st)
	sessionRepo := repos.NewSessionRepo(st)
	merchantRepo := repos.NewMerchantRepo(st)

	authSvc, err := services.NewAuthService(sessionRepo, cfg.AdminUsername, cfg.AdminPasswordHash, cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	reportSvc := services.NewReportService(reportRepo)
	panelSvc := services.NewPanelService(orderRepo, reportSvc, m)

	drafts := bot.NewDraftStore(cfg.DraftTTL)
	machine := bot.NewMachine(orderRepo, n, drafts, m)
	m.ActiveDrafts(drafts.Len)

	return &Deps{
		Store:         st,
		Metrics:       m,
		AuthSvc:       authSvc,
		Drafts:        drafts,
		BotSecret:     cfg.BotSecret,
		AuthHandler:   &AuthHandler{Auth: authSvc},
		OrderHandler:  &OrderHandler{Panel: panelSvc, Reports: reportSvc},
		AdminHandler:  &AdminHandler{Panel: panelSvc, Merchants: merchantRepo},
		BotHandler:    &BotHandler{Machine: machine},
		HealthHandler: &HealthHandler{Store: st},
	}, nil
}
