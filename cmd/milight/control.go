package main

import (
	"fmt"
	"strconv"

	"github.com/alparslanahmed/milight"
	"github.com/spf13/cobra"
)

func controlCommands() []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "on",
			Short: "Ampulleri aç",
			Args:  cobra.ExactArgs(0),
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withBridge(cmd, func(b *milight.Bridge, zone milight.Zone) error {
					return b.SwitchOn(zone)
				})
			},
		},
		{
			Use:   "off",
			Short: "Ampulleri kapat",
			Args:  cobra.ExactArgs(0),
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withBridge(cmd, func(b *milight.Bridge, zone milight.Zone) error {
					return b.SwitchOff(zone)
				})
			},
		},
		{
			Use:   "color NAME",
			Short: "Palet rengini ayarla",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				color, err := milight.ParseColor(args[0])
				if err != nil {
					return err
				}
				return withBridge(cmd, func(b *milight.Bridge, zone milight.Zone) error {
					return b.SetColor(color, zone)
				})
			},
		},
		{
			Use:   "brightness 0-255",
			Short: "Parlaklığı ayarla",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("geçersiz parlaklık: %w", err)
				}
				return withBridge(cmd, func(b *milight.Bridge, zone milight.Zone) error {
					return b.SetBrightness(n, zone)
				})
			},
		},
		{
			Use:   "mode N",
			Short: "Yerleşik efekt modunu seç",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.ParseUint(args[0], 10, 8)
				if err != nil {
					return fmt.Errorf("geçersiz mod: %w", err)
				}
				return withBridge(cmd, func(b *milight.Bridge, zone milight.Zone) error {
					return b.SetMode(byte(n), zone)
				})
			},
		},
		{
			Use:   "link [ZONE]",
			Short: "Yeni açılmış ampulü bölgeye eşle (varsayılan bölge 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				zone := milight.DefaultLinkZone
				if len(args) == 1 {
					z, err := parseZoneArg(args[0])
					if err != nil {
						return err
					}
					zone = z
				}
				return withBridge(cmd, func(b *milight.Bridge, _ milight.Zone) error {
					return b.Link(zone)
				})
			},
		},
		{
			Use:   "unlink ZONE",
			Short: "Bölgenin eşlemesini kaldır",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				zone, err := parseZoneArg(args[0])
				if err != nil {
					return err
				}
				return withBridge(cmd, func(b *milight.Bridge, _ milight.Zone) error {
					return b.Unlink(zone)
				})
			},
		},
		{
			Use:   "colors",
			Short: "Palet renklerini listele",
			Args:  cobra.ExactArgs(0),
			Run: func(cmd *cobra.Command, _ []string) {
				for _, name := range milight.ColorNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			},
		},
	}
}

func parseZoneArg(s string) (milight.Zone, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("geçersiz bölge %q: %w", s, err)
	}
	zone := milight.Zone(n)
	if !zone.Valid() {
		return 0, fmt.Errorf("%w: %d", milight.ErrZoneOutOfRange, n)
	}
	return zone, nil
}
