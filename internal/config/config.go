package config

import (
	"encoding/xml"
	"io"
	"os"
	"sync"
)

var (
	cfg  *APIConfig
	once sync.Once
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName     xml.Name        `xml:"API"`
	RequestDump bool            `xml:"REQUEST_DUMP,attr"`
	Context     ContextConfig   `xml:"CONTEXT"`
	Pagination  PaginationConfig `xml:"PAGINATION"`
	DB          DBConfig        `xml:"DB"`
	AI          AIConfig        `xml:"AI"`
	RateLimit   RateLimitConfig `xml:"RATE_LIMIT"`
	THIRD_PARTY ThirdPartyConfig `xml:"THIRD_PARTY"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port     int    `xml:"PORT"`
	Host     string `xml:"HOST"`
	Path     string `xml:"PATH"`
	TimeZone string `xml:"TIME_ZONE"`
}

// AIConfig holds the generative model settings injected into the gateways.
type AIConfig struct {
	OllamaURL       string  `xml:"OLLAMA_URL"`
	Model           string  `xml:"MODEL"`
	Temperature     float64 `xml:"TEMPERATURE"`
	TopP            float64 `xml:"TOP_P"`
	MaxOutputTokens int     `xml:"MAX_OUTPUT_TOKENS"`
}

// RateLimitConfig throttles generation-triggering endpoints.
type RateLimitConfig struct {
	RequestsPerSecond float64 `xml:"REQUESTS_PER_SECOND"`
	Burst             int     `xml:"BURST"`
}

type ThirdPartyConfig struct {
	HFToken string `xml:"HF_TOKEN"`
}

// PaginationConfig holds pagination settings.
type PaginationConfig struct {
	PageSize int `xml:"PAGE_SIZE"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Initialize bool         `xml:"INITIALIZE"`
	Server     string       `xml:"SERVER"`
	Host       string       `xml:"HOST"`
	Port       int          `xml:"PORT"`
	Driver     string       `xml:"DRIVER"`
	SSLMode    string       `xml:"SSL_MODE"`
	Names      DBNames      `xml:"NAMES"`
	Username   string       `xml:"USERNAME"`
	Password   DBPassword   `xml:"PASSWORD"`
	Pool       DBPoolConfig `xml:"POOL"`
}

// DBNames holds the names defined in the DB section.
type DBNames struct {
	NEUROLEAP string `xml:"NEUROLEAP,attr"`
}

// DBPassword holds password details. Type "env" resolves the value from the
// named environment variable.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// Resolve returns the effective password value.
func (p DBPassword) Resolve() string {
	if p.Type == "env" {
		return os.Getenv(p.Value)
	}
	return p.Value
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// LoadConfig loads and parses the XML configuration from the given file.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	once.Do(func() {
		f, err := os.Open(xmlPath)
		if err != nil {
			return
		}
		defer func(f *os.File) {
			err := f.Close()
			if err != nil {

			}
		}(f)

		data, err := io.ReadAll(f)
		if err != nil {
			return
		}

		var newCfg APIConfig
		if err := xml.Unmarshal(data, &newCfg); err != nil {
			return
		}

		cfg = &newCfg
	})

	if cfg == nil {
		return nil, os.ErrInvalid
	}
	return cfg, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}
