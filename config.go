package milight

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config, köprü istemcisi, HTTP arayüzü ve kayıt ayarlarını tutar.
type Config struct {
	Bridge  BridgeConfig  `yaml:"bridge"`
	HTTP    HTTPConfig    `yaml:"http"`
	Capture CaptureConfig `yaml:"capture"`
}

// BridgeConfig, köprü bağlantı ayarlarıdır.
type BridgeConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	ReceiveBuffer int           `yaml:"receive_buffer"`
	Zone          int           `yaml:"zone"`
}

// HTTPConfig, `milight serve` ayarlarıdır.
type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// CaptureConfig, datagram kaydı ayarlarıdır. File boşsa kayıt yapılmaz.
type CaptureConfig struct {
	File string `yaml:"file"`
}

// DefaultConfig, varsayılan yapılandırmayı döner. Zaman aşımı 4 saniyedir;
// kütüphanenin kendisi ise varsayılan olarak süresiz bekler.
func DefaultConfig() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Port:          DefaultPort,
			Timeout:       4 * time.Second,
			MaxRetries:    0,
			ReceiveBuffer: DefaultReceiveBufferSize,
			Zone:          int(ZoneAll),
		},
		HTTP: HTTPConfig{
			Listen: ":8080",
		},
	}
}

// LoadConfig, yapılandırmayı sırasıyla varsayılanlardan, path'teki YAML
// dosyasından (boş değilse) ve MILIGHT_* ortam değişkenlerinden yükler.
// Ortam değişkenleri dosyadaki değerleri ezer.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFromYAML(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("geçersiz yapılandırma: %w", err)
	}
	return cfg, nil
}

func loadFromYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("yapılandırma dosyası okunamadı: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("yapılandırma dosyası çözümlenemedi: %w", err)
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("MILIGHT_HOST"); v != "" {
		cfg.Bridge.Host = v
	}
	if v := os.Getenv("MILIGHT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("geçersiz MILIGHT_PORT %q: %w", v, err)
		}
		cfg.Bridge.Port = port
	}
	if v := os.Getenv("MILIGHT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("geçersiz MILIGHT_TIMEOUT %q: %w", v, err)
		}
		cfg.Bridge.Timeout = d
	}
	if v := os.Getenv("MILIGHT_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("geçersiz MILIGHT_MAX_RETRIES %q: %w", v, err)
		}
		cfg.Bridge.MaxRetries = n
	}
	if v := os.Getenv("MILIGHT_ZONE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("geçersiz MILIGHT_ZONE %q: %w", v, err)
		}
		cfg.Bridge.Zone = n
	}
	return nil
}

// Validate, yapılandırmanın geçerli olup olmadığını kontrol eder.
// Host burada zorunlu değildir; köprüye bağlanan komutlar ayrıca kontrol eder.
func (c *Config) Validate() error {
	if c.Bridge.Port < 1 || c.Bridge.Port > 65535 {
		return fmt.Errorf("geçersiz port: %d (1-65535 olmalı)", c.Bridge.Port)
	}
	if c.Bridge.Timeout < 0 {
		return fmt.Errorf("geçersiz zaman aşımı: %v (negatif olamaz)", c.Bridge.Timeout)
	}
	if c.Bridge.MaxRetries < 0 {
		return fmt.Errorf("geçersiz yeniden deneme sayısı: %d", c.Bridge.MaxRetries)
	}
	if c.Bridge.RetryDelay < 0 {
		return fmt.Errorf("geçersiz yeniden deneme beklemesi: %v", c.Bridge.RetryDelay)
	}
	if c.Bridge.ReceiveBuffer < minHandshakeResponse {
		return fmt.Errorf("geçersiz alma tamponu: %d (en az %d byte)", c.Bridge.ReceiveBuffer, minHandshakeResponse)
	}
	if err := validateZone(Zone(c.Bridge.Zone)); err != nil {
		return err
	}
	return nil
}

// Options, köprü ayarlarını Bridge seçeneklerine çevirir.
func (c *Config) Options() []BridgeOption {
	return []BridgeOption{
		WithTimeout(c.Bridge.Timeout),
		WithMaxRetries(c.Bridge.MaxRetries),
		WithRetryDelay(c.Bridge.RetryDelay),
		WithReceiveBufferSize(c.Bridge.ReceiveBuffer),
	}
}

// LogConfig, geçerli yapılandırmayı logger'a yazar.
func (c *Config) LogConfig(l Logger) {
	l.Printf("Köprü: %s:%d (bölge: %s)", c.Bridge.Host, c.Bridge.Port, Zone(c.Bridge.Zone))
	l.Printf("  Zaman aşımı: %v, yeniden deneme: %d (bekleme: %v)", c.Bridge.Timeout, c.Bridge.MaxRetries, c.Bridge.RetryDelay)
	l.Printf("  Alma tamponu: %d byte", c.Bridge.ReceiveBuffer)
	if c.Capture.File != "" {
		l.Printf("Datagram kaydı: %s", c.Capture.File)
	}
}
