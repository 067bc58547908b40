package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alparslanahmed/milight"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func dump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("kayıt dosyası açılamadı: %w", err)
	}
	defer f.Close()

	dgs := make(chan milight.Datagram, 100)

	var g errgroup.Group
	g.Go(func() error { return printDatagrams(cmd.OutOrStdout(), dgs) })
	g.Go(func() error { return milight.ReadCapture(dgs, f) })

	return g.Wait()
}

// printDatagrams, kanal kapanana kadar okur. Yazma hatasından sonra da kanalı
// boşaltır, böylece ReadCapture hiçbir zaman bloklanmaz.
func printDatagrams(w io.Writer, dgs <-chan milight.Datagram) error {
	var werr error
	for dg := range dgs {
		if werr != nil {
			continue
		}
		if _, err := fmt.Fprintln(w, formatDatagram(dg)); err != nil {
			werr = fmt.Errorf("çıktı yazılamadı: %w", err)
		}
	}
	return werr
}

func formatDatagram(dg milight.Datagram) string {
	conn := dg.ConnID
	if len(conn) > 8 {
		conn = conn[:8]
	}

	line := fmt.Sprintf("%s %s %s %02d: % X", dg.Timestamp.Format("15:04:05.000"), conn, dg.Direction, len(dg.Data), dg.Data)
	if desc := milight.DescribePacket(dg.Data); desc != "" {
		line += "  " + desc
	}
	return line
}
