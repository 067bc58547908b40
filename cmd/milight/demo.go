package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/alparslanahmed/milight"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	demoPause  = time.Second
	demoColors = []milight.Color{
		milight.ColorRed,
		milight.ColorYellow,
		milight.ColorGreen,
		milight.ColorAqua,
		milight.ColorOrange,
	}
)

func demoCommand() *cobra.Command {
	cmd := cobra.Command{
		Use:   "demo [HOST...]",
		Short: "Bir veya daha fazla köprüde renkleri sırayla dene",
		RunE:  demo,
	}
	cmd.Flags().DurationVar(&demoPause, "pause", demoPause, "Renkler arası bekleme")

	return &cmd
}

func demo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	hosts := args
	if len(hosts) == 0 {
		if cfg.Bridge.Host == "" {
			return errors.New("köprü adresi yok: HOST argümanı verin veya --host kullanın")
		}
		hosts = []string{cfg.Bridge.Host}
	}

	rec, closer, err := openRecorder(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	g, ctx := errgroup.WithContext(listenStop())
	zone := milight.Zone(cfg.Bridge.Zone)
	for _, host := range hosts {
		b := newBridge(cfg, host, rec)
		g.Go(func() error { return runDemo(ctx, b, zone) })
	}
	return g.Wait()
}

// runDemo, ampulleri açar, demo renklerini sırayla ayarlar ve tekrar kapatır.
// İptal edilirse adımlar arasında durur ve ampulleri olduğu gibi bırakır.
func runDemo(ctx context.Context, b *milight.Bridge, zone milight.Zone) error {
	if err := b.Connect(); err != nil {
		return err
	}
	defer b.Close()

	if err := b.SwitchOn(zone); err != nil {
		return err
	}

	for _, color := range demoColors {
		if err := b.SetColor(color, zone); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			log.Printf("%s üzerindeki demo durduruldu", b.Host())
			return nil
		case <-time.After(demoPause):
		}
	}

	return b.SwitchOff(zone)
}
