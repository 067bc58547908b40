package milight

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Test Yardımcıları ──────────────────────────────────────────────────────────

// fakeTransport, gönderilen paketleri saklar ve handle ile yanıt üretir.
// handle nil ise köprü gibi davranır.
type fakeTransport struct {
	mu     sync.Mutex
	sent   [][]byte
	handle func(pkt []byte) ([]byte, error)
	closed bool
}

func (f *fakeTransport) SendReceive(pkt []byte) ([]byte, error) {
	f.mu.Lock()
	f.sent = append(f.sent, append([]byte(nil), pkt...))
	handle := f.handle
	f.mu.Unlock()

	if handle == nil {
		return bridgeReply(pkt), nil
	}
	return handle(pkt)
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// commands, handshake dışında gönderilen paketleri döner.
func (f *fakeTransport) commands() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out [][]byte
	for _, pkt := range f.sent {
		if !bytes.Equal(pkt, commandTable[CommandConnect]) {
			out = append(out, pkt)
		}
	}
	return out
}

func handshakeResponse(s0, s1 byte) []byte {
	resp := make([]byte, 22)
	resp[0] = 0x28
	resp[4] = 0x11
	resp[sessionOffset] = s0
	resp[sessionOffset+1] = s1
	return resp
}

var ackReply = []byte{0x88, 0x00, 0x00, 0x00, 0x03, 0x00, 0x01, 0x00}

func bridgeReply(pkt []byte) []byte {
	if bytes.Equal(pkt, commandTable[CommandConnect]) {
		return handshakeResponse(0x3A, 0x01)
	}
	return ackReply
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func newTestBridge(ft *fakeTransport, opts ...BridgeOption) *Bridge {
	dial := WithDialer(func(string) (Transport, error) { return ft, nil })
	return NewBridge("192.168.20.15", DefaultPort, append([]BridgeOption{dial}, opts...)...)
}

func connectedBridge(t *testing.T, opts ...BridgeOption) (*Bridge, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{}
	b := newTestBridge(ft, opts...)
	require.NoError(t, b.Connect())
	t.Cleanup(func() { b.Close() })
	return b, ft
}

// ─── Bağlantı Yaşam Döngüsü ─────────────────────────────────────────────────────

func TestBridgeConnect(t *testing.T) {
	b, ft := connectedBridge(t)

	assert.True(t, b.IsConnected())
	s, ok := b.Session()
	assert.True(t, ok)
	assert.Equal(t, Session{0x3A, 0x01}, s)

	require.Len(t, ft.sent, 1)
	assert.Equal(t, buildConnectPacket(), ft.sent[0])

	st := b.Status()
	assert.Equal(t, "192.168.20.15", st.Host)
	assert.Equal(t, DefaultPort, st.Port)
	assert.True(t, st.Connected)
	assert.Equal(t, "3A01", st.Session)
	_, err := uuid.Parse(st.ConnectionID)
	assert.NoError(t, err)
}

func TestBridgeConnectDialsBridgeAddress(t *testing.T) {
	var dialed string
	b := NewBridge("10.1.2.3", 5988, WithDialer(func(addr string) (Transport, error) {
		dialed = addr
		return &fakeTransport{}, nil
	}))
	require.NoError(t, b.Connect())
	defer b.Close()

	assert.Equal(t, "10.1.2.3:5988", dialed)
}

func TestBridgeConnectShortHandshake(t *testing.T) {
	ft := &fakeTransport{handle: func([]byte) ([]byte, error) {
		return make([]byte, 20), nil
	}}
	b := newTestBridge(ft)

	err := b.Connect()

	assert.ErrorIs(t, err, ErrHandshakeFailed)
	assert.False(t, b.IsConnected())
	assert.True(t, ft.closed, "socket must be released when the handshake fails")
	assert.ErrorIs(t, b.SwitchOn(ZoneAll), ErrNotConnected)
}

func TestBridgeConnectDialError(t *testing.T) {
	dialErr := &TransportError{Op: "dial", Err: errors.New("network is unreachable")}
	b := NewBridge("192.168.20.15", DefaultPort, WithDialer(func(string) (Transport, error) {
		return nil, dialErr
	}))

	err := b.Connect()

	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, b.IsConnected())
}

func TestBridgeReconnectReplacesSession(t *testing.T) {
	first := &fakeTransport{}
	second := &fakeTransport{handle: func(pkt []byte) ([]byte, error) {
		if bytes.Equal(pkt, commandTable[CommandConnect]) {
			return handshakeResponse(0x9C, 0xF1), nil
		}
		return ackReply, nil
	}}
	transports := []*fakeTransport{first, second}

	b := NewBridge("192.168.20.15", DefaultPort, WithDialer(func(string) (Transport, error) {
		next := transports[0]
		transports = transports[1:]
		return next, nil
	}))

	require.NoError(t, b.Connect())
	firstID := b.Status().ConnectionID
	require.NoError(t, b.Connect())
	defer b.Close()

	assert.True(t, first.closed)
	s, ok := b.Session()
	assert.True(t, ok)
	assert.Equal(t, Session{0x9C, 0xF1}, s)
	assert.NotEqual(t, firstID, b.Status().ConnectionID)

	require.NoError(t, b.SwitchOn(ZoneAll))
	cmds := second.commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, []byte{0x9C, 0xF1}, cmds[0][5:7])
}

func TestBridgeClose(t *testing.T) {
	ft := &fakeTransport{}
	b := newTestBridge(ft)
	require.NoError(t, b.Connect())

	require.NoError(t, b.Close())

	assert.True(t, ft.closed)
	assert.False(t, b.IsConnected())
	_, ok := b.Session()
	assert.False(t, ok)
	assert.False(t, b.Status().Connected)
	assert.Empty(t, b.Status().Session)
	assert.NoError(t, b.Close(), "closing twice is safe")
}

func TestCommandsRequireConnection(t *testing.T) {
	dialed := false
	b := NewBridge("192.168.20.15", DefaultPort, WithDialer(func(string) (Transport, error) {
		dialed = true
		return &fakeTransport{}, nil
	}))

	ops := map[string]func() error{
		"on":         func() error { return b.SwitchOn(ZoneAll) },
		"off":        func() error { return b.SwitchOff(Zone1) },
		"color":      func() error { return b.SetColor(ColorRed, ZoneAll) },
		"brightness": func() error { return b.SetBrightness(100, Zone2) },
		"mode":       func() error { return b.SetMode(3, Zone3) },
		"link":       func() error { return b.Link(DefaultLinkZone) },
		"unlink":     func() error { return b.Unlink(Zone4) },
		"raw": func() error {
			_, err := b.SendCommand(commandTable[CommandOn], ZoneAll, ScopeCommand)
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, op(), ErrNotConnected)
		})
	}
	assert.False(t, dialed)
}

// ─── Doğrulama ──────────────────────────────────────────────────────────────────

func TestValidationHappensBeforeIO(t *testing.T) {
	b, ft := connectedBridge(t)

	tests := []struct {
		name string
		op   func() error
		want error
	}{
		{name: "switch on zone 5", op: func() error { return b.SwitchOn(5) }, want: ErrZoneOutOfRange},
		{name: "switch off negative zone", op: func() error { return b.SwitchOff(-1) }, want: ErrZoneOutOfRange},
		{name: "brightness 256", op: func() error { return b.SetBrightness(256, ZoneAll) }, want: ErrIntensityOutOfRange},
		{name: "brightness -1", op: func() error { return b.SetBrightness(-1, ZoneAll) }, want: ErrIntensityOutOfRange},
		{name: "brightness bad zone", op: func() error { return b.SetBrightness(10, 9) }, want: ErrZoneOutOfRange},
		{name: "unknown color", op: func() error { return b.SetColor(Color(0xC0), ZoneAll) }, want: ErrUnknownColor},
		{name: "color bad zone", op: func() error { return b.SetColor(ColorRed, 5) }, want: ErrZoneOutOfRange},
		{name: "mode bad zone", op: func() error { return b.SetMode(1, 6) }, want: ErrZoneOutOfRange},
		{name: "link bad zone", op: func() error { return b.Link(5) }, want: ErrZoneOutOfRange},
		{name: "unlink bad zone", op: func() error { return b.Unlink(-2) }, want: ErrZoneOutOfRange},
		{
			name: "raw bad zone",
			op: func() error {
				_, err := b.SendCommand(commandTable[CommandOn], 7, ScopeCommand)
				return err
			},
			want: ErrZoneOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.op(), tt.want)
		})
	}

	assert.Empty(t, ft.commands(), "nothing may be sent after a validation error")
}

func TestValidationPrecedesConnectionCheck(t *testing.T) {
	b := NewBridge("192.168.20.15", DefaultPort)

	assert.ErrorIs(t, b.SwitchOn(5), ErrZoneOutOfRange)
	assert.ErrorIs(t, b.SetBrightness(300, ZoneAll), ErrIntensityOutOfRange)
}

// ─── Komutlar ───────────────────────────────────────────────────────────────────

func TestScenarioOnRedOff(t *testing.T) {
	b, ft := connectedBridge(t)

	require.NoError(t, b.SwitchOn(ZoneAll))
	require.NoError(t, b.SetColor(ColorRed, ZoneAll))
	require.NoError(t, b.SwitchOff(ZoneAll))

	cmds := ft.commands()
	require.Len(t, cmds, 3)

	wantPayloads := [][]byte{
		{0x07, 0x03, 0x01, 0x00, 0x00, 0x00},
		{0x07, 0x01, 0xFF, 0xFF, 0xFF, 0xFF},
		{0x07, 0x03, 0x02, 0x00, 0x00, 0x00},
	}
	for i, pkt := range cmds {
		assert.Len(t, pkt, 22)
		assert.Equal(t, byte(0x31), pkt[10])
		assert.Equal(t, byte(0x00), pkt[len(pkt)-3])

		p, err := DecodePacket(pkt)
		require.NoError(t, err)
		assert.Len(t, p.Payload, 6)
		assert.Equal(t, wantPayloads[i], p.Payload)
		assert.Equal(t, Session{0x3A, 0x01}, p.Session)
	}
}

func TestSetBrightness(t *testing.T) {
	b, ft := connectedBridge(t)

	require.NoError(t, b.SetBrightness(200, Zone2))
	require.NoError(t, b.SetBrightness(BrightnessMin, ZoneAll))
	require.NoError(t, b.SetBrightness(BrightnessMax, ZoneAll))

	cmds := ft.commands()
	require.Len(t, cmds, 3)

	p, err := DecodePacket(cmds[0])
	require.NoError(t, err)
	assert.Equal(t, []byte{0x07, 0x02, 0xC8, 0x00, 0x00, 0x00}, p.Payload)
	assert.Equal(t, Zone2, p.Zone)

	assert.Equal(t, byte(0x00), cmds[1][15])
	assert.Equal(t, byte(0xFF), cmds[2][15])
}

func TestSetMode(t *testing.T) {
	b, ft := connectedBridge(t)

	require.NoError(t, b.SetMode(0x05, Zone3))

	cmds := ft.commands()
	require.Len(t, cmds, 1)
	p, err := DecodePacket(cmds[0])
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x04, 0x05, 0x00, 0x00, 0x00}, p.Payload)
	assert.Equal(t, ScopeCommand, p.Scope)
	assert.Equal(t, Zone3, p.Zone)
}

func TestLinkAndUnlinkScopes(t *testing.T) {
	b, ft := connectedBridge(t)

	require.NoError(t, b.Link(DefaultLinkZone))
	require.NoError(t, b.Unlink(Zone3))

	cmds := ft.commands()
	require.Len(t, cmds, 2)

	link, err := DecodePacket(cmds[0])
	require.NoError(t, err)
	assert.Equal(t, ScopeLink, link.Scope)
	assert.Equal(t, Zone1, link.Zone)

	unlink, err := DecodePacket(cmds[1])
	require.NoError(t, err)
	assert.Equal(t, ScopeUnlink, unlink.Scope)
	assert.Equal(t, Zone3, unlink.Zone)
}

func TestSendCommandReturnsReply(t *testing.T) {
	b, ft := connectedBridge(t)
	reply := []byte{0x88, 0x00, 0x00, 0x00, 0x03, 0x00, 0x2A, 0x00}
	ft.handle = func([]byte) ([]byte, error) { return reply, nil }

	payload := []byte{0x07, 0x05, 0x01, 0x00, 0x00, 0x00}
	resp, err := b.SendCommand(payload, Zone4, ScopeCommand)
	require.NoError(t, err)
	assert.Equal(t, reply, resp)

	cmds := ft.commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, payload, cmds[0][13:19])
}

// ─── Transport Hataları ve Yeniden Deneme ───────────────────────────────────────

func TestTransportErrorLeavesSessionIntact(t *testing.T) {
	b, ft := connectedBridge(t)
	ft.handle = func([]byte) ([]byte, error) {
		return nil, errors.New("sendto: no route to host")
	}

	err := b.SwitchOn(ZoneAll)

	assert.ErrorIs(t, err, ErrTransport)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Error(), "no route to host")

	assert.True(t, b.IsConnected())
	s, _ := b.Session()
	assert.Equal(t, Session{0x3A, 0x01}, s)

	ft.handle = nil
	assert.NoError(t, b.SwitchOn(ZoneAll))
}

func TestNoRetryByDefault(t *testing.T) {
	b, ft := connectedBridge(t)
	ft.handle = func([]byte) ([]byte, error) {
		return nil, &TransportError{Op: "receive", Err: timeoutError{}}
	}

	err := b.SwitchOn(ZoneAll)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.Timeout())
	assert.Len(t, ft.commands(), 1)
}

func TestRetryOnTimeout(t *testing.T) {
	b, ft := connectedBridge(t, WithMaxRetries(2))

	failures := 2
	ft.handle = func(pkt []byte) ([]byte, error) {
		if failures > 0 {
			failures--
			return nil, &TransportError{Op: "receive", Err: timeoutError{}}
		}
		return bridgeReply(pkt), nil
	}

	require.NoError(t, b.SetColor(ColorGreen, Zone1))

	cmds := ft.commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, cmds[0], cmds[1])
	assert.Equal(t, cmds[0], cmds[2])
}

func TestRetryExhausted(t *testing.T) {
	b, ft := connectedBridge(t, WithMaxRetries(1))
	ft.handle = func([]byte) ([]byte, error) {
		return nil, &TransportError{Op: "receive", Err: timeoutError{}}
	}

	err := b.SwitchOff(ZoneAll)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.Timeout())
	assert.Len(t, ft.commands(), 2)
}

func TestNonTimeoutErrorIsNotRetried(t *testing.T) {
	b, ft := connectedBridge(t, WithMaxRetries(3))
	ft.handle = func([]byte) ([]byte, error) {
		return nil, &TransportError{Op: "receive", Err: errors.New("connection refused")}
	}

	assert.ErrorIs(t, b.SwitchOff(ZoneAll), ErrTransport)
	assert.Len(t, ft.commands(), 1)
}

func TestHandshakeRetriesOnTimeout(t *testing.T) {
	attempts := 0
	ft := &fakeTransport{handle: func(pkt []byte) ([]byte, error) {
		attempts++
		if attempts == 1 {
			return nil, &TransportError{Op: "receive", Err: timeoutError{}}
		}
		return bridgeReply(pkt), nil
	}}
	b := newTestBridge(ft, WithMaxRetries(1))

	require.NoError(t, b.Connect())
	defer b.Close()
	assert.Equal(t, 2, attempts)
}

// ─── Kayıt ve Loglama ───────────────────────────────────────────────────────────

func TestRecorderCapturesDatagrams(t *testing.T) {
	var buf bytes.Buffer
	b, _ := connectedBridge(t, WithRecorder(&Recorder{Dest: &buf}))
	require.NoError(t, b.SwitchOn(ZoneAll))
	connID := b.Status().ConnectionID

	out := make(chan Datagram, 10)
	require.NoError(t, ReadCapture(out, &buf))

	var got []Datagram
	for dg := range out {
		got = append(got, dg)
	}
	require.Len(t, got, 4)

	assert.Equal(t, Outbound, got[0].Direction)
	assert.Equal(t, buildConnectPacket(), got[0].Data)
	assert.Equal(t, Inbound, got[1].Direction)
	assert.Equal(t, handshakeResponse(0x3A, 0x01), got[1].Data)
	assert.Equal(t, Outbound, got[2].Direction)
	assert.Equal(t, "on all session=3A01", DescribePacket(got[2].Data))
	assert.Equal(t, Inbound, got[3].Direction)
	assert.Equal(t, ackReply, got[3].Data)

	for _, dg := range got {
		assert.Equal(t, connID, dg.ConnID)
		assert.False(t, dg.Timestamp.IsZero())
	}
}

func TestLoggerReceivesLines(t *testing.T) {
	logger := &captureLogger{}
	b, _ := connectedBridge(t, WithLogger(logger))
	require.NoError(t, b.SetColor(ColorOrange, Zone2))
	require.NoError(t, b.Close())

	logger.mu.Lock()
	defer logger.mu.Unlock()
	require.NotEmpty(t, logger.lines)
	for _, line := range logger.lines {
		assert.True(t, strings.HasPrefix(line, "[milight] "), line)
	}
	joined := strings.Join(logger.lines, "\n")
	assert.Contains(t, joined, "3A01")
	assert.Contains(t, joined, "color orange")
}

func TestOptions(t *testing.T) {
	b := NewBridge("192.168.20.15", DefaultPort,
		WithTimeout(0),
		WithMaxRetries(-3),
		WithReceiveBufferSize(8),
	)
	assert.Equal(t, DefaultTimeout, b.opts.timeout)
	assert.Equal(t, 0, b.opts.maxRetries)
	assert.Equal(t, DefaultReceiveBufferSize, b.opts.receiveBufferSize)

	b = NewBridge("192.168.20.15", DefaultPort, WithReceiveBufferSize(128), WithMaxRetries(2))
	assert.Equal(t, 128, b.opts.receiveBufferSize)
	assert.Equal(t, 2, b.opts.maxRetries)
}
