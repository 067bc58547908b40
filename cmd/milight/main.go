// Command milight controls a MiLight v6 bridge from the command line.
package main

import (
	"log"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	hostFlag    string
	portFlag    int
	zoneFlag    int
	timeoutFlag time.Duration
	retriesFlag int
	captureFlag string
)

func main() {
	cmd := &cobra.Command{
		Use:          "milight",
		Short:        "MiLight v6 köprüsünü UDP üzerinden kontrol et",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML yapılandırma dosyası")
	flags.StringVar(&hostFlag, "host", "", "Köprü adresi")
	flags.IntVar(&portFlag, "port", 0, "Köprü UDP portu (varsayılan 5987)")
	flags.IntVar(&zoneFlag, "zone", 0, "Bölge 0-4, 0 tüm bölgeler")
	flags.DurationVar(&timeoutFlag, "timeout", 0, "Yanıt zaman aşımı, 0 süresiz bekler (varsayılan 4s)")
	flags.IntVar(&retriesFlag, "retries", 0, "Zaman aşımında yeniden gönderme sayısı")
	flags.StringVar(&captureFlag, "capture", "", "Her datagramı dosyaya kaydet")

	cmd.AddCommand(controlCommands()...)
	cmd.AddCommand(demoCommand())
	cmd.AddCommand(serveCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "dump FILE",
		Short: "Datagram kaydını yazdır",
		Args:  cobra.ExactArgs(1),
		RunE:  dump,
	})

	if err := cmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
