package milight

import "fmt"

// Session, handshake yanıtından alınan iki oturum byte'ıdır.
// Byte'lar opak kabul edilir; 0x80 ve üzeri değerler işaret genişletmesi
// olmadan, aynı bit deseniyle pakete yazılır.
type Session [2]byte

// String, oturum byte'larını onaltılık olarak döner.
func (s Session) String() string {
	return fmt.Sprintf("%02X%02X", s[0], s[1])
}

// roundTripper, tek bir datagram gönderip tek bir yanıt bekleyen her şeydir.
type roundTripper interface {
	SendReceive(pkt []byte) ([]byte, error)
}

// handshake, CONNECT paketini olduğu gibi gönderir ve yanıttan oturumu çıkarır.
//
// Paket Formatı (yanıt, en az 21 byte):
//
//	[0-18]  köprüye özgü alanlar (yok sayılır)
//	[19]    oturum byte'ı 1
//	[20]    oturum byte'ı 2
func handshake(rt roundTripper) (Session, error) {
	resp, err := rt.SendReceive(buildConnectPacket())
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}
	return parseSession(resp)
}

// parseSession, handshake yanıtının 19. ve 20. byte'larını döner.
func parseSession(resp []byte) (Session, error) {
	if len(resp) < minHandshakeResponse {
		return Session{}, fmt.Errorf("%w: yanıt %d byte, en az %d byte bekleniyor",
			ErrHandshakeFailed, len(resp), minHandshakeResponse)
	}
	return Session{resp[sessionOffset], resp[sessionOffset+1]}, nil
}
