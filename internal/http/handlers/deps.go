package handlers

import (
	"github.com/jmoiron/sqlx"

	"localledger/internal/barcode"
	"localledger/internal/bot"
	"localledger/internal/config"
	"localledger/internal/gateway"
	"localledger/internal/repos"
	"localledger/internal/services"
	"localledger/internal/voice"
)

type Deps struct {
	Webhook *WebhookHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	productRepo := repos.NewProductRepo(db)
	creditorRepo := repos.NewCreditorRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	invSvc := services.NewInventoryService(productRepo, cfg.StockThreshold)
	creditSvc := services.NewCreditService(creditorRepo, orderRepo)
	orderSvc := services.NewOrderService(productRepo, orderRepo, creditSvc)
	reportSvc := services.NewReportService(orderRepo)

	speech := voice.NewClient(cfg.SpeechURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken)
	scanner := barcode.NewClient(cfg.BarcodeURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken)

	engine := bot.NewEngine(
		invSvc, creditSvc, orderSvc, reportSvc,
		speech, scanner,
		bot.NewSessionStore(cfg.SessionTimeout),
		bot.NewFormatter(cfg.CurrencySymbol),
	)

	return &Deps{
		Webhook: &WebhookHandler{
			Engine:    engine,
			Validator: gateway.NewValidator(cfg.TwilioAuthToken),
		},
	}
}
