// cmd/worker/main.go
package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/tablepulse/crm-backend/internal/config"
	"github.com/tablepulse/crm-backend/internal/db"
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

	runner := &service.Runner{
		Campaigns:   &repository.CampaignRepository{DB: database},
		Customers:   &repository.CustomerRepository{DB: database},
		Events:      &repository.OutreachEventRepository{DB: database},
		Sender:      &service.LogSender{Log: log},
		Log:         log,
		SendTimeout: cfg.Send.Timeout,
	}

	log.Info().Str("queue", cfg.AMQP.Queue).Msg("worker waiting for campaign runs")
	err = taskQueue.Consume(func(job queue.RunCampaignJob) error {
		result, err := runner.Run(context.Background(), job.CampaignID)
		if err != nil {
			// The runner already parked the campaign; re-triggering it
			// is the retry path, so the job is not requeued.
			log.Error().Err(err).Int("campaign_id", job.CampaignID).Msg("campaign run failed")
			return err
		}
		log.Info().
			Int("campaign_id", job.CampaignID).
			Int("processed", result.Processed).
			Int("sent", result.Sent).
			Int("failed", result.Failed).
			Msg("campaign run finished")
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("consumer stopped")
	}
}
