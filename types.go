package milight

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ─── Protokol Sabitleri ─────────────────────────────────────────────────────────

const (
	// DefaultPort, MiLight v6 köprüsünün varsayılan UDP portudur.
	DefaultPort = 5987

	// DefaultTimeout, yanıt bekleme süresidir. Sıfır değer, köprü yanıt
	// verene kadar süresiz bekleme anlamına gelir.
	DefaultTimeout time.Duration = 0

	// DefaultReceiveBufferSize, tek bir yanıt datagramı için ayrılan tampon
	// boyutudur. Handshake yanıtı 22 byte, komut onayları 8 byte gelir.
	DefaultReceiveBufferSize = 64

	// BrightnessMin ve BrightnessMax, parlaklık değerinin geçerli aralığıdır.
	BrightnessMin = 0x00
	BrightnessMax = 0xFF

	// sessionOffset, handshake yanıtında ilk oturum byte'ının konumudur.
	sessionOffset = 19

	// minHandshakeResponse, oturum byte'larını taşıyabilecek en kısa yanıttır.
	minHandshakeResponse = sessionOffset + 2
)

// ─── Bölgeler ───────────────────────────────────────────────────────────────────

// Zone, köprüye eşlenmiş bir uzaktan kumanda grubunu seçer.
// ZoneAll tüm grupları, Zone1-Zone4 tek bir grubu adresler.
type Zone int

const (
	ZoneAll Zone = 0
	Zone1   Zone = 1
	Zone2   Zone = 2
	Zone3   Zone = 3
	Zone4   Zone = 4
)

// DefaultLinkZone, bölge belirtilmediğinde Link için kullanılan bölgedir.
const DefaultLinkZone = Zone1

// Valid, bölgenin protokolün kabul ettiği aralıkta olup olmadığını döner.
func (z Zone) Valid() bool {
	return z >= ZoneAll && z <= Zone4
}

// String, Zone'un okunabilir string temsilini döner.
func (z Zone) String() string {
	if z == ZoneAll {
		return "all"
	}
	return fmt.Sprintf("zone%d", int(z))
}

func validateZone(z Zone) error {
	if !z.Valid() {
		return fmt.Errorf("%w: %d", ErrZoneOutOfRange, int(z))
	}
	return nil
}

func validateIntensity(intensity int) error {
	if intensity < BrightnessMin || intensity > BrightnessMax {
		return fmt.Errorf("%w: %d", ErrIntensityOutOfRange, intensity)
	}
	return nil
}

// ─── Scope ──────────────────────────────────────────────────────────────────────

// Scope, komut paketindeki alt protokol seçici byte'tır.
type Scope byte

const (
	// ScopeCommand, sıradan komutlar (güç, renk, parlaklık, mod) içindir.
	ScopeCommand Scope = 0x31

	// ScopeLink, bir ampulü uzaktan kumanda bölgesine eşler.
	ScopeLink Scope = 0x3D

	// ScopeUnlink, bölge eşlemesini kaldırır.
	ScopeUnlink Scope = 0x3E
)

// String, Scope'un okunabilir string temsilini döner.
func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeLink:
		return "link"
	case ScopeUnlink:
		return "unlink"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", byte(s))
	}
}

// ─── Komutlar ───────────────────────────────────────────────────────────────────

// Command, komut tablosundaki mantıksal eylem adıdır.
type Command string

const (
	CommandLink       Command = "link"
	CommandUnlink     Command = "unlink"
	CommandOn         Command = "on"
	CommandOff        Command = "off"
	CommandBrightness Command = "brightness"
	CommandConnect    Command = "connect"
	CommandMode       Command = "mode"
)

// ─── Renkler ────────────────────────────────────────────────────────────────────

// Color, köprünün renk tablosundaki bir palet girdisini seçer.
// Sayısal değerler köprünün renk çarkındaki konumu izler; beyaz ayrı bir
// moddur ve çark dışında tutulur.
type Color int

const (
	ColorRoyalBlue Color = 0x10 // #4169E1
	ColorAqua      Color = 0x30 // #00FFFF
	ColorGreen     Color = 0x60 // #008000
	ColorLimeGreen Color = 0x70 // #32CD32
	ColorYellow    Color = 0x80 // #FFFF00
	ColorOrange    Color = 0xA0 // #FFA500
	ColorRed       Color = 0xB0 // #FF0000
	ColorLavender  Color = 0xF0 // #E6E6FA
	ColorWhite     Color = 0xFFFFFF
)

var colorNames = map[Color]string{
	ColorWhite:     "white",
	ColorRoyalBlue: "royalblue",
	ColorAqua:      "aqua",
	ColorRed:       "red",
	ColorLavender:  "lavender",
	ColorGreen:     "green",
	ColorLimeGreen: "limegreen",
	ColorOrange:    "orange",
	ColorYellow:    "yellow",
}

// String, Color'ın okunabilir string temsilini döner.
func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%02x)", int(c))
}

// ParseColor, renk adını (büyük/küçük harf duyarsız) Color değerine çevirir.
//
//	c, err := milight.ParseColor("Red") // ColorRed
func ParseColor(name string) (Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range colorNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

// ColorNames, tanımlı tüm renk adlarını alfabetik sırada döner.
func ColorNames() []string {
	names := make([]string, 0, len(colorNames))
	for _, n := range colorNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ─── Hatalar ────────────────────────────────────────────────────────────────────

var (
	// ErrZoneOutOfRange, bölge 0-4 aralığı dışındadır.
	ErrZoneOutOfRange = errors.New("bölge aralık dışında (0-4)")

	// ErrIntensityOutOfRange, parlaklık 0-255 aralığı dışındadır.
	ErrIntensityOutOfRange = errors.New("parlaklık aralık dışında (0-255)")

	// ErrUnknownIdentifier, tablolarda bulunmayan bir anahtar istendi.
	ErrUnknownIdentifier = errors.New("bilinmeyen tanımlayıcı")

	// ErrUnknownColor, renk tablosunda olmayan bir renk istendi.
	ErrUnknownColor = fmt.Errorf("bilinmeyen renk: %w", ErrUnknownIdentifier)

	// ErrUnknownCommand, komut tablosunda olmayan bir komut istendi.
	ErrUnknownCommand = fmt.Errorf("bilinmeyen komut: %w", ErrUnknownIdentifier)

	// ErrHandshakeFailed, köprü oturum byte'larını içeren bir yanıt vermedi.
	ErrHandshakeFailed = errors.New("handshake başarısız")

	// ErrNotConnected, Connect() çağrılmadan komut gönderilmeye çalışıldı.
	ErrNotConnected = errors.New("köprü bağlı değil, önce Connect() çağırın")

	// ErrTransport, tüm *TransportError değerleriyle eşleşir.
	ErrTransport = errors.New("transport hatası")

	// ErrMalformedPacket, çözümlenen datagram bir komut paketi değildir.
	ErrMalformedPacket = errors.New("geçersiz komut paketi")
)

// TransportError, soket seviyesindeki bir hatayı (çözümleme, bağlanma,
// gönderme, alma) işlem adıyla birlikte taşır.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is, errors.Is(err, ErrTransport) kontrolünü destekler.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Timeout, hatanın bir okuma zaman aşımından kaynaklanıp kaynaklanmadığını döner.
func (e *TransportError) Timeout() bool {
	var te interface{ Timeout() bool }
	return errors.As(e.Err, &te) && te.Timeout()
}

// ─── Yapılandırma Seçenekleri ───────────────────────────────────────────────────

// BridgeOption, Bridge yapılandırma seçeneklerini tanımlar.
// Functional Options pattern kullanılır.
type BridgeOption func(*bridgeOptions)

type bridgeOptions struct {
	timeout           time.Duration
	maxRetries        int
	retryDelay        time.Duration
	receiveBufferSize int
	logger            Logger
	recorder          *Recorder
	dialer            DialFunc
}

func defaultBridgeOptions() bridgeOptions {
	return bridgeOptions{
		timeout:           DefaultTimeout,
		maxRetries:        0,
		retryDelay:        0,
		receiveBufferSize: DefaultReceiveBufferSize,
		logger:            nil,
		recorder:          nil,
		dialer:            nil,
	}
}

// WithTimeout, her yanıt için bekleme süresini ayarlar.
// Sıfır süresiz bekler.
//
//	bridge := milight.NewBridge("192.168.20.15", milight.DefaultPort,
//	    milight.WithTimeout(4 * time.Second),
//	)
func WithTimeout(d time.Duration) BridgeOption {
	return func(o *bridgeOptions) {
		o.timeout = d
	}
}

// WithMaxRetries, yanıt zaman aşımına uğradığında paketin en fazla kaç kez
// yeniden gönderileceğini ayarlar. Varsayılan 0'dır; diğer transport
// hataları hiçbir zaman tekrarlanmaz.
func WithMaxRetries(n int) BridgeOption {
	return func(o *bridgeOptions) {
		if n < 0 {
			n = 0
		}
		o.maxRetries = n
	}
}

// WithRetryDelay, iki deneme arasında beklenecek süreyi ayarlar.
func WithRetryDelay(d time.Duration) BridgeOption {
	return func(o *bridgeOptions) {
		o.retryDelay = d
	}
}

// WithReceiveBufferSize, yanıt tamponunun boyutunu ayarlar.
// Handshake yanıtının 20. byte'ı sığmalıdır; daha küçük değerler yok sayılır.
func WithReceiveBufferSize(n int) BridgeOption {
	return func(o *bridgeOptions) {
		if n >= minHandshakeResponse {
			o.receiveBufferSize = n
		}
	}
}

// WithLogger, özel bir loglama arayüzü ayarlar.
// Varsayılan olarak loglama devre dışıdır.
func WithLogger(l Logger) BridgeOption {
	return func(o *bridgeOptions) {
		o.logger = l
	}
}

// WithRecorder, gönderilen ve alınan her datagramı kaydeder.
func WithRecorder(r *Recorder) BridgeOption {
	return func(o *bridgeOptions) {
		o.recorder = r
	}
}

// WithDialer, Connect() sırasında transport oluşturan fonksiyonu değiştirir.
// Varsayılan DialUDP'dir.
func WithDialer(fn DialFunc) BridgeOption {
	return func(o *bridgeOptions) {
		o.dialer = fn
	}
}

// ─── Logger Arayüzü ─────────────────────────────────────────────────────────────

// Logger, kütüphanenin loglama arayüzüdür.
// stdlib log paketi veya zerolog/zap gibi kütüphanelerle uyumludur.
type Logger interface {
	// Printf, formatlanmış bir log mesajı yazar.
	Printf(format string, v ...interface{})
}
