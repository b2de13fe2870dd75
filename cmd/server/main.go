// cmd/server/main.go
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/tablepulse/crm-backend/internal/config"
	"github.com/tablepulse/crm-backend/internal/controller"
	"github.com/tablepulse/crm-backend/internal/db"
	"github.com/tablepulse/crm-backend/internal/handler"
	"github.com/tablepulse/crm-backend/internal/logger"
	"github.com/tablepulse/crm-backend/internal/queue"
	"github.com/tablepulse/crm-backend/internal/repository"
	"github.com/tablepulse/crm-backend/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.App.Env, cfg.App.LogLevel)

	database, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer database.Close()

	taskQueue, err := queue.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Queue)
	if err != nil {
		log.Fatal().Err(err).Msg("amqp connection failed")
	}
	defer taskQueue.Close()

	restaurantRepo := &repository.RestaurantRepository{DB: database}
	customerRepo := &repository.CustomerRepository{DB: database}
	visitRepo := &repository.VisitRepository{DB: database}
	campaignRepo := &repository.CampaignRepository{DB: database}
	eventRepo := &repository.OutreachEventRepository{DB: database}

	ledger := service.NewLedgerService(visitRepo, log)
	campaignService := &service.CampaignService{
		Campaigns:   campaignRepo,
		Customers:   customerRepo,
		Restaurants: restaurantRepo,
		Queue:       taskQueue,
		Log:         log,
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
		Events:          eventRepo,
	}
	restaurantHandler := &handler.RestaurantHandler{Restaurants: restaurantRepo}
	customerHandler := &handler.CustomerHandler{
		Customers: customerRepo,
		Visits:    visitRepo,
		Ledger:    ledger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/restaurants", restaurantHandler.CreateRestaurant)
	r.Get("/restaurants", restaurantHandler.ListRestaurants)

	r.Post("/customers", customerHandler.CreateCustomer)
	r.Get("/customers", customerHandler.ListCustomers)
	r.Get("/customers/inactive", customerHandler.ListInactive)
	r.Get("/customers/high-spenders", customerHandler.ListHighSpenders)
	r.Post("/customers/{id}/visits", customerHandler.AddVisit)
	r.Get("/customers/{id}/visits", customerHandler.ListVisits)

	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignController.GetCampaign)
	r.Post("/campaigns/{id}/run", campaignController.RunCampaign)
	r.Post("/campaigns/{id}/pause", campaignController.PauseCampaign)
	r.Post("/campaigns/{id}/preview", campaignController.PreviewCampaign)
	r.Get("/campaigns/{id}/events", campaignController.ListEvents)

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("server listening")
	if err := http.ListenAndServe(cfg.HTTP.Addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
