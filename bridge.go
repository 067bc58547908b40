package milight

import (
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Bridge, bir MiLight v6 köprüsüyle UDP oturumunu yöneten ana yapıdır.
// Thread-safe olarak tasarlanmıştır; aynı anda yalnızca bir istek
// köprüye gönderilir.
//
// Kullanım:
//
//	bridge := milight.NewBridge("192.168.20.15", milight.DefaultPort)
//	if err := bridge.Connect(); err != nil {
//	    log.Fatal(err)
//	}
//	defer bridge.Close()
//
//	err := bridge.SwitchOn(milight.ZoneAll)
type Bridge struct {
	// host, köprünün IP adresi veya host adıdır.
	host string

	// port, köprünün UDP port numarasıdır.
	port int

	// opts, köprü yapılandırma seçenekleridir.
	opts bridgeOptions

	// mu, bağlantı durumunu korur ve istekleri sıraya sokar.
	mu sync.Mutex

	// conn, aktif bağlantıdır. Bağlı değilken nil'dir.
	conn *connection

	// session, handshake ile alınan oturum byte'larıdır.
	session Session
}

// Status, köprü bağlantısının anlık görüntüsüdür.
type Status struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	Connected    bool   `json:"connected"`
	Session      string `json:"session,omitempty"`
	ConnectionID string `json:"connection_id,omitempty"`
}

// NewBridge, yeni bir Bridge nesnesi oluşturur.
// Bağlantı henüz kurulmaz; Connect() çağrılmalıdır.
//
//	// Seçeneklerle
//	bridge := milight.NewBridge("192.168.20.15", milight.DefaultPort,
//	    milight.WithTimeout(4*time.Second),
//	    milight.WithMaxRetries(2),
//	    milight.WithLogger(log.Default()),
//	)
func NewBridge(host string, port int, options ...BridgeOption) *Bridge {
	opts := defaultBridgeOptions()
	for _, opt := range options {
		opt(&opts)
	}

	return &Bridge{
		host: host,
		port: port,
		opts: opts,
	}
}

// Connect, UDP soketini açar ve handshake ile yeni bir oturum alır.
//
// Eğer bağlantı zaten kuruluysa, önce mevcut bağlantı kapatılır ve oturum
// yenisiyle değiştirilir. Handshake başarısız olursa soket kapatılır ve
// Bridge bağlı olmayan durumda kalır.
func (b *Bridge) Connect() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		b.closeInternal()
	}

	addr := net.JoinHostPort(b.host, strconv.Itoa(b.port))
	b.logf("UDP bağlantısı açılıyor: %s", addr)

	dial := b.opts.dialer
	if dial == nil {
		dial = func(addr string) (Transport, error) {
			return DialUDP(addr, b.opts.timeout, b.opts.receiveBufferSize)
		}
	}

	t, err := dial(addr)
	if err != nil {
		return fmt.Errorf("köprüye bağlanılamadı: %w", err)
	}

	conn := &connection{
		id:        uuid.New().String(),
		transport: t,
		opts:      &b.opts,
		logf:      b.logf,
	}

	session, err := handshake(conn)
	if err != nil {
		if cerr := conn.Close(); cerr != nil {
			b.logf("soket kapatılamadı: %v", cerr)
		}
		return err
	}

	b.conn = conn
	b.session = session
	b.logf("Bağlantı başarıyla kuruldu (bağlantı: %s, oturum: %s)", conn.id, session)
	return nil
}

// Close, soketi kapatır ve oturumu siler. Bağlı değilken çağrılması
// güvenlidir.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeInternal()
}

// closeInternal, bağlantıyı kapatır (mutex tutulurken çağrılır).
func (b *Bridge) closeInternal() error {
	b.session = Session{}
	if b.conn == nil {
		return nil
	}
	conn := b.conn
	b.conn = nil
	b.logf("Bağlantı kapatılıyor (bağlantı: %s)", conn.id)
	return conn.Close()
}

// IsConnected, geçerli bir oturum olup olmadığını döner.
func (b *Bridge) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// Host, köprünün adresini döner.
func (b *Bridge) Host() string {
	return b.host
}

// Port, köprünün port numarasını döner.
func (b *Bridge) Port() int {
	return b.port
}

// Session, aktif oturum byte'larını döner. Bağlı değilken ok false'tur.
func (b *Bridge) Session() (s Session, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session, b.conn != nil
}

// Status, bağlantının anlık durumunu döner.
func (b *Bridge) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := Status{Host: b.host, Port: b.port, Connected: b.conn != nil}
	if b.conn != nil {
		st.Session = b.session.String()
		st.ConnectionID = b.conn.id
	}
	return st
}

// ─── Veri Gönderme/Alma ─────────────────────────────────────────────────────────

// send, payload'u aktif oturumla çerçeveler, gönderir ve yanıtı döner.
// Bölge çağıran tarafından doğrulanmış olmalıdır.
func (b *Bridge) send(name string, payload []byte, zone Zone, scope Scope) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureConnected(); err != nil {
		return nil, err
	}

	pkt := buildCommandPacket(payload, zone, scope, b.session)
	b.logf("%s gönderiliyor (bölge: %s, scope: %s)", name, zone, scope)

	resp, err := b.conn.SendReceive(pkt)
	if err != nil {
		return nil, fmt.Errorf("%s gönderilemedi: %w", name, err)
	}
	return resp, nil
}

// ─── Dahili Yardımcılar ─────────────────────────────────────────────────────────

// logf, yapılandırılmış logger varsa mesaj yazar.
func (b *Bridge) logf(format string, v ...interface{}) {
	if b.opts.logger != nil {
		b.opts.logger.Printf("[milight] "+format, v...)
	}
}

// ensureConnected, bağlantının aktif olduğunu kontrol eder.
func (b *Bridge) ensureConnected() error {
	if b.conn == nil {
		return ErrNotConnected
	}
	return nil
}
