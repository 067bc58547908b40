// Package milight provides a Go client for MiLight / LimitlessLED v6 Wi-Fi
// bridges (iBox) speaking the proprietary binary UDP control protocol.
//
// # Overview
//
// The bridge listens on UDP port 5987. Every exchange is one datagram out and
// one datagram back: the client never has more than one request in flight.
//
// # Protocol Architecture
//
// A connection starts with a fixed 27-byte CONNECT datagram. The bridge
// answers with a frame whose bytes 19 and 20 are the session tokens; those two
// bytes are embedded in every command that follows.
//
// Command datagrams use a fixed layout:
//
//	80 00 00 00 11  preamble
//	s0 s1           session tokens
//	00 00 01        filler, marker
//	sc              scope (0x31 command, 0x3D link, 0x3E unlink)
//	00 00           filler
//	p0 .. pN        command payload (6 bytes)
//	zz 00           zone, filler
//	cs              checksum: low byte of scope + payload + zone
//
// # Quick Start
//
//	bridge := milight.NewBridge("192.168.20.15", milight.DefaultPort,
//	    milight.WithTimeout(4*time.Second),
//	)
//	if err := bridge.Connect(); err != nil {
//	    log.Fatal(err)
//	}
//	defer bridge.Close()
//
//	bridge.SwitchOn(milight.ZoneAll)
//	bridge.SetColor(milight.ColorRed, milight.ZoneAll)
//	bridge.SetBrightness(128, milight.Zone1)
//
// # Supported Features
//
//   - Power on/off per zone or for all zones
//   - Nine palette colors, brightness (0-255) and built-in modes
//   - Linking and unlinking bulbs to a remote zone
//   - Optional receive timeout and retry on timeout
//   - Datagram capture to a gob stream for offline inspection
//
// # Thread Safety
//
// Bridge is safe for concurrent use. Calls are serialised so the protocol
// stays half-duplex on the wire.
package milight
