package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/alparslanahmed/milight/api"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var listenFlag string

func serveCommand() *cobra.Command {
	cmd := cobra.Command{
		Use:   "serve",
		Short: "Köprüyü HTTP API üzerinden sun",
		Args:  cobra.ExactArgs(0),
		RunE:  serve,
	}
	cmd.Flags().StringVar(&listenFlag, "listen", "", "HTTP dinleme adresi (varsayılan :8080)")

	return &cmd
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.HTTP.Listen = listenFlag
	}
	if cfg.Bridge.Host == "" {
		return errors.New("köprü adresi yok: --host, MILIGHT_HOST veya bridge.host kullanın")
	}
	cfg.LogConfig(log.Default())

	rec, closer, err := openRecorder(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	b := newBridge(cfg, cfg.Bridge.Host, rec)
	if err := b.Connect(); err != nil {
		return err
	}
	defer b.Close()

	srv := api.NewServer(b, log.Default())

	g, ctx := errgroup.WithContext(listenStop())
	g.Go(func() error {
		log.Printf("HTTP API dinleniyor: %s", cfg.HTTP.Listen)
		return srv.Start(cfg.HTTP.Listen)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
