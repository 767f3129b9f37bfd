// @title           Aircon Control API
// @version         1.0
// @description     Discomfort-index driven air-conditioner control.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "aircon_control/docs"
	"aircon_control/internal/broker"
	"aircon_control/internal/config"
	"aircon_control/internal/device"
	"aircon_control/internal/handlers"
	"aircon_control/internal/logger"
	"aircon_control/internal/metrics"
	"aircon_control/internal/repository"
	"aircon_control/internal/repository/db"
	"aircon_control/internal/server"
	"aircon_control/internal/service"

	"github.com/google/uuid"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load configs/config.yml + AIRCON_* env
	cfg, err := config.Load(os.Getenv("AIRCON_CONFIG_DIR"))
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	if closeEvents := wireEventStream(cfg, repos, log); closeEvents != nil {
		defer closeEvents()
	}

	m := metrics.New()
	services := service.NewService(repos, newDevice(cfg, log.Named("device")), service.Config{
		Params:     cfg.ControlParams(),
		SigningKey: signingKey(cfg, log),
		TokenTTL:   cfg.Auth.TokenTTL,
	}, m, log)
	apiHandler := handlers.NewHandler(services, log, m)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go services.Session.Run(ctx, cfg.Session.Tick)

	sub := startSubscriber(ctx, cfg, services, log)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, sub, log)
}

// wireEventStream mirrors control events to Kafka when brokers are set.
func wireEventStream(cfg config.Config, repos *repository.Repository, log *logger.Logger) func() {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil
	}
	pub := broker.NewPublishingEventRepo(repos.EventRepo, broker.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), log.Named("kafka"))
	repos.EventRepo = pub
	log.Infow("publishing control events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return func() {
		if err := pub.Close(); err != nil {
			log.Errorw("failed to close kafka writer", "err", err)
		}
	}
}

func newDevice(cfg config.Config, log *logger.Logger) device.Controller {
	st := cfg.SmartThings
	if !st.Enabled() {
		log.Warnw("smartthings not configured; commands are logged only")
		return device.NewOffline(log)
	}
	return device.NewSmartThings(st.BaseURL, st.Token, st.DeviceID, st.Timeout, log)
}

// signingKey falls back to a per-process random key; tokens then die with the process.
func signingKey(cfg config.Config, log *logger.Logger) string {
	if cfg.Auth.SigningKey != "" {
		return cfg.Auth.SigningKey
	}
	log.Warnw("auth.signing_key not set; using a random key")
	return uuid.NewString() + uuid.NewString()
}

// startSubscriber feeds MQTT readings into auto control. Failure to connect is
// logged and the HTTP API keeps running.
func startSubscriber(ctx context.Context, cfg config.Config, services *service.Service, log *logger.Logger) *broker.Subscriber {
	if cfg.MQTT.Broker == "" {
		return nil
	}
	client := broker.NewMQTTClient(cfg.MQTT.Broker, cfg.MQTT.ClientID)
	sub := broker.NewSubscriber(client, cfg.MQTT.Topic, services.AutoControl, log.Named("mqtt"))
	if err := sub.Start(ctx); err != nil {
		log.Errorw("mqtt subscriber not started", "err", err, "broker", cfg.MQTT.Broker)
		return nil
	}
	return sub
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, sub *broker.Subscriber, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	if sub != nil {
		sub.Stop()
	}
	// stop the session countdown
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
