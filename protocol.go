package milight

import (
	"bytes"
	"fmt"
)

// ─── Paket Oluşturma ────────────────────────────────────────────────────────────
//
// Bu dosya, MiLight v6 UDP protokolü için düşük seviyeli paket oluşturma
// fonksiyonlarını içerir. Çok byte'lı alan yoktur; her alan tek byte'tır.
//
// Komut Paketi Genel Formatı:
//   [5 byte] Preamble          80 00 00 00 11
//   [2 byte] Oturum byte'ları  handshake yanıtının 19. ve 20. byte'ı
//   [3 byte] Dolgu + işaret    00 00 01
//   [1 byte] Scope
//   [2 byte] Dolgu             00 00
//   [N byte] Payload
//   [1 byte] Bölge
//   [1 byte] Dolgu             00
//   [1 byte] Checksum

var preamble = [...]byte{0x80, 0x00, 0x00, 0x00, 0x11}

const (
	filler        byte = 0x00
	commandMarker byte = 0x01

	// commandHeaderLength, payload'dan önceki byte sayısıdır.
	commandHeaderLength = len(preamble) + 2 + 3 + 1 + 2

	// commandTrailerLength, payload'dan sonraki byte sayısıdır (bölge, dolgu, checksum).
	commandTrailerLength = 3

	// CommandOverhead, bir komut paketinin payload dışındaki toplam uzunluğudur.
	// 6 byte'lık payload ile paket 22 byte olur.
	CommandOverhead = commandHeaderLength + commandTrailerLength
)

// checksum, scope, payload ve bölge byte'larının toplamının düşük 8 bitini döner.
// Toplama sırası iletim sırasıyla aynıdır; dolgu byte'ları sıfırdır ve
// sonuca katkı yapmaz. Tel formatında tek checksum byte'ı olduğu için
// toplam her zaman açıkça 256'ya göre kısaltılır.
func checksum(scope Scope, payload []byte, zone Zone) byte {
	sum := uint(scope) + uint(filler) + uint(filler)
	for _, b := range payload {
		sum += uint(b)
	}
	sum += uint(byte(zone)) + uint(filler)
	return byte(sum % 256)
}

// buildCommandPacket, payload'u oturum byte'ları ve checksum ile çerçeveler.
// Bölgenin önceden doğrulanmış olması gerekir.
//
// Paket Formatı (6 byte'lık payload için toplam 22 byte):
//
//	[0-4]   preamble
//	[5-6]   oturum byte'ları (bit deseni olduğu gibi kopyalanır)
//	[7-8]   dolgu
//	[9]     işaret = 0x01
//	[10]    scope
//	[11-12] dolgu
//	[13..]  payload
//	[n-3]   bölge
//	[n-2]   dolgu
//	[n-1]   checksum
func buildCommandPacket(payload []byte, zone Zone, scope Scope, s Session) []byte {
	pkt := make([]byte, 0, CommandOverhead+len(payload))
	pkt = append(pkt, preamble[:]...)
	pkt = append(pkt, s[0], s[1])
	pkt = append(pkt, filler, filler, commandMarker, byte(scope), filler, filler)
	pkt = append(pkt, payload...)
	pkt = append(pkt, byte(zone), filler, checksum(scope, payload, zone))
	return pkt
}

// buildConnectPacket, handshake için gönderilen 27 byte'lık sabit paketi döner.
// Bu paket çerçevelenmez, olduğu gibi gönderilir.
func buildConnectPacket() []byte {
	pkt, _ := lookupCommand(CommandConnect)
	return pkt
}

// ─── Paket Çözümleme ────────────────────────────────────────────────────────────

// Packet, çözümlenmiş bir komut datagramıdır.
type Packet struct {
	Session  Session
	Scope    Scope
	Payload  []byte
	Zone     Zone
	Checksum byte
}

// DecodePacket, buildCommandPacket ile üretilmiş bir datagramı ayrıştırır.
// Preamble, işaret byte'ı veya checksum tutmazsa ErrMalformedPacket döner.
func DecodePacket(data []byte) (*Packet, error) {
	if len(data) < CommandOverhead {
		return nil, fmt.Errorf("%w: %d byte", ErrMalformedPacket, len(data))
	}
	if !bytes.Equal(data[:len(preamble)], preamble[:]) {
		return nil, fmt.Errorf("%w: preamble % X", ErrMalformedPacket, data[:len(preamble)])
	}
	if data[9] != commandMarker {
		return nil, fmt.Errorf("%w: işaret byte'ı 0x%02x", ErrMalformedPacket, data[9])
	}

	n := len(data)
	p := &Packet{
		Session:  Session{data[5], data[6]},
		Scope:    Scope(data[10]),
		Payload:  append([]byte(nil), data[commandHeaderLength:n-commandTrailerLength]...),
		Zone:     Zone(data[n-3]),
		Checksum: data[n-1],
	}

	if want := checksum(p.Scope, p.Payload, p.Zone); want != p.Checksum {
		return nil, fmt.Errorf("%w: checksum 0x%02x, beklenen 0x%02x", ErrMalformedPacket, p.Checksum, want)
	}
	return p, nil
}

// DescribePacket, giden bir datagramın kısa ve okunabilir özetini döner.
// Tanınmayan veriler için boş string döner.
func DescribePacket(data []byte) string {
	if bytes.Equal(data, commandTable[CommandConnect]) {
		return "CONNECT"
	}
	p, err := DecodePacket(data)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s %s session=%s", describePayload(p.Scope, p.Payload), p.Zone, p.Session)
}

func describePayload(scope Scope, payload []byte) string {
	switch scope {
	case ScopeLink, ScopeUnlink:
		return scope.String()
	}

	switch {
	case bytes.Equal(payload, commandTable[CommandOn]):
		return "on"
	case bytes.Equal(payload, commandTable[CommandOff]):
		return "off"
	}
	for c, p := range colorTable {
		if bytes.Equal(payload, p) {
			return "color=" + c.String()
		}
	}
	if len(payload) > payloadValueIndex {
		switch {
		case bytes.Equal(payload[:2], commandTable[CommandBrightness][:2]):
			return fmt.Sprintf("brightness=%d", payload[payloadValueIndex])
		case bytes.Equal(payload[:2], commandTable[CommandMode][:2]):
			return fmt.Sprintf("mode=%d", payload[payloadValueIndex])
		}
	}
	return fmt.Sprintf("raw[% X]", payload)
}
