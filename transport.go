package milight

import (
	"errors"
	"net"
	"time"
)

// Transport, köprüye bağlı bir datagram kanalıdır. SendReceive bir paket
// gönderir ve tek bir yanıt datagramı gelene kadar bekler.
type Transport interface {
	SendReceive(pkt []byte) ([]byte, error)
	Close() error
}

// DialFunc, "host:port" adresine bağlı yeni bir Transport oluşturur.
type DialFunc func(addr string) (Transport, error)

// udpTransport, sabit bir köprü adresine bağlanmış UDP soketidir.
// Yerel port işletim sistemi tarafından seçilir.
type udpTransport struct {
	conn       *net.UDPConn
	timeout    time.Duration
	bufferSize int
}

// DialUDP, addr adresine bağlı bir UDP transport'u açar. timeout sıfırsa
// okuma süresiz bekler. bufferSize, bir yanıt için ayrılan tampon boyutudur.
//
//	t, err := milight.DialUDP("192.168.20.15:5987", 4*time.Second, 64)
func DialUDP(addr string, timeout time.Duration, bufferSize int) (Transport, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, &TransportError{Op: "resolve", Err: err}
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}

	if bufferSize < minHandshakeResponse {
		bufferSize = DefaultReceiveBufferSize
	}

	return &udpTransport{
		conn:       conn,
		timeout:    timeout,
		bufferSize: bufferSize,
	}, nil
}

func (t *udpTransport) SendReceive(pkt []byte) ([]byte, error) {
	if err := t.drain(); err != nil {
		return nil, err
	}

	if _, err := t.conn.Write(pkt); err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}

	deadline := time.Time{}
	if t.timeout > 0 {
		deadline = time.Now().Add(t.timeout)
	}
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return nil, &TransportError{Op: "receive", Err: err}
	}

	buf := make([]byte, t.bufferSize)
	n, err := t.conn.Read(buf)
	if err != nil {
		return nil, &TransportError{Op: "receive", Err: err}
	}
	return buf[:n], nil
}

// maxDrain, tek bir drain çağrısında atılacak en fazla datagram sayısıdır.
const maxDrain = 64

// drain, zaman aşımından sonra gelen geç yanıtları atar. Aksi halde bir
// sonraki istek önceki isteğin yanıtını okur. Okuma süresi SendReceive
// içinde yeniden ayarlanır.
func (t *udpTransport) drain() error {
	if err := t.conn.SetReadDeadline(time.Now()); err != nil {
		return &TransportError{Op: "receive", Err: err}
	}

	buf := make([]byte, t.bufferSize)
	for i := 0; i < maxDrain; i++ {
		_, err := t.conn.Read(buf)
		if err == nil {
			continue
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil
		}
		if errors.Is(err, net.ErrClosed) {
			return &TransportError{Op: "receive", Err: err}
		}
		// Kuyruktaki ICMP hataları (ECONNREFUSED) bir kez okunur ve atılır.
	}
	return nil
}

func (t *udpTransport) Close() error {
	if err := t.conn.Close(); err != nil {
		return &TransportError{Op: "close", Err: err}
	}
	return nil
}

// ─── Bağlantı ───────────────────────────────────────────────────────────────────

// connection, bir Bridge'in aktif transport'unu sarar: zaman aşımında
// yeniden dener, datagramları kaydeder ve her hatayı *TransportError
// olarak döner.
type connection struct {
	id        string
	transport Transport
	opts      *bridgeOptions
	logf      func(format string, v ...interface{})
}

func (c *connection) SendReceive(pkt []byte) ([]byte, error) {
	attempts := c.opts.maxRetries + 1

	var lastErr *TransportError
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			c.logf("yanıt zaman aşımı, yeniden deneniyor (%d/%d)", attempt-1, c.opts.maxRetries)
			if c.opts.retryDelay > 0 {
				time.Sleep(c.opts.retryDelay)
			}
		}

		c.record(Outbound, pkt)
		resp, err := c.transport.SendReceive(pkt)
		if err == nil {
			c.record(Inbound, resp)
			return resp, nil
		}

		lastErr = asTransportError(err)
		if !lastErr.Timeout() {
			break
		}
	}
	return nil, lastErr
}

func (c *connection) Close() error {
	return c.transport.Close()
}

func (c *connection) record(dir Direction, data []byte) {
	if c.opts.recorder == nil {
		return
	}
	err := c.opts.recorder.Record(Datagram{
		ConnID:    c.id,
		Direction: dir,
		Data:      append([]byte(nil), data...),
		Timestamp: time.Now(),
	})
	if err != nil {
		c.logf("datagram kaydedilemedi: %v", err)
	}
}

func asTransportError(err error) *TransportError {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}
	return &TransportError{Op: "exchange", Err: err}
}
