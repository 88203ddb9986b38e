package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"restaurant-dashboard/internal/config"
	"restaurant-dashboard/internal/database"
	"restaurant-dashboard/internal/logger"
	"restaurant-dashboard/internal/menu"
	"restaurant-dashboard/internal/mqttx"
	"restaurant-dashboard/internal/orders"
	"restaurant-dashboard/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	port := flag.Int("port", 0, "http port (overrides config)")
	flag.Parse()

	lg := logger.New("dashboard")

	cfg, err := config.Load(*configPath)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": *configPath})
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Error("db_connect_failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	menuRepo := menu.NewRepository(db)
	orderRepo := orders.NewRepository(db)

	manager := mqttx.NewManager(cfg.MQTT, logger.New("mqtt"))
	processor := orders.NewProcessor(orderRepo, logger.New("order-processor"), cfg.Database.QueryTimeout)
	syncer := mqttx.NewSyncer(cfg.MQTT, logger.New("sync"), manager, menuRepo, processor)

	menuService := menu.NewService(menuRepo, syncer, logger.New("menu"))

	handler := server.NewHandler(lg, menuService, orderRepo, syncer)
	srv := server.New(fmt.Sprintf(":%d", cfg.HTTP.Port), server.Router(handler))

	lg.Info("service_started", map[string]any{"port": cfg.HTTP.Port, "broker": cfg.MQTT.BrokerURL})
	if err := srv.Run(ctx); err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
	lg.Info("service_stopped", nil)
}
