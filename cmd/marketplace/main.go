package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/app"
	"github.com/vladislavdragonenkov/marketplace/internal/version"
)

// readConfig разбирает флаги и загружает конфигурацию; путь к файлу берётся
// из -config или MARKETPLACE_CONFIG.
func readConfig(args []string) (app.Config, bool, error) {
	fs := flag.NewFlagSet("marketplace", flag.ContinueOnError)
	path := fs.String("config", app.ConfigPathFromEnv(), "path to YAML config (fallback: MARKETPLACE_CONFIG)")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, err
	}
	if *showVersion {
		return app.Config{}, true, nil
	}

	cfg, err := app.LoadConfig(*path)
	if err != nil {
		return app.Config{}, false, err
	}
	return cfg, false, nil
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, versionOnly, err := readConfig(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("не удалось загрузить конфигурацию")
	}
	if versionOnly {
		fmt.Println(version.String())
		return
	}
	app.SetupLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"grpc_addr":    cfg.Server.GRPCAddr,
		"http_addr":    cfg.Server.HTTPAddr,
		"metrics_addr": cfg.Server.MetricsAddr,
		"storage":      cfg.Storage.Driver,
		"kafka":        cfg.KafkaEnabled(),
	}).Info("запускаем marketplace")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("marketplace остановлен")
}
