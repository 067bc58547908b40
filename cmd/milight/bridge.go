package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/alparslanahmed/milight"
	"github.com/spf13/cobra"
)

// loadConfig, yapılandırma dosyasını, ortam değişkenlerini ve açıkça
// verilmiş flag'leri birleştirir.
func loadConfig(cmd *cobra.Command) (*milight.Config, error) {
	cfg, err := milight.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Bridge.Host = hostFlag
	}
	if flags.Changed("port") {
		cfg.Bridge.Port = portFlag
	}
	if flags.Changed("zone") {
		cfg.Bridge.Zone = zoneFlag
	}
	if flags.Changed("timeout") {
		cfg.Bridge.Timeout = timeoutFlag
	}
	if flags.Changed("retries") {
		cfg.Bridge.MaxRetries = retriesFlag
	}
	if flags.Changed("capture") {
		cfg.Capture.File = captureFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openRecorder, yapılandırılmışsa kayıt dosyasını oluşturur.
func openRecorder(cfg *milight.Config) (*milight.Recorder, io.Closer, error) {
	if cfg.Capture.File == "" {
		return nil, io.NopCloser(nil), nil
	}
	f, err := os.Create(cfg.Capture.File)
	if err != nil {
		return nil, nil, fmt.Errorf("kayıt dosyası oluşturulamadı: %w", err)
	}
	return &milight.Recorder{Dest: f}, f, nil
}

func newBridge(cfg *milight.Config, host string, rec *milight.Recorder) *milight.Bridge {
	opts := append(cfg.Options(), milight.WithLogger(log.Default()))
	if rec != nil {
		opts = append(opts, milight.WithRecorder(rec))
	}
	return milight.NewBridge(host, cfg.Bridge.Port, opts...)
}

// withBridge, yapılandırılmış köprüye bağlanır, fn'i çalıştırır ve soketi
// her durumda kapatır.
func withBridge(cmd *cobra.Command, fn func(b *milight.Bridge, zone milight.Zone) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Bridge.Host == "" {
		return errors.New("köprü adresi yok: --host, MILIGHT_HOST veya bridge.host kullanın")
	}

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

	return fn(b, milight.Zone(cfg.Bridge.Zone))
}

func listenStop() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	go func() {
		<-sigCh
		cancel()
	}()

	return ctx
}
