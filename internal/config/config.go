package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/masterdex/card-search-go/internal/web"
	"gopkg.in/yaml.v3"
)

// EnvAPIKey overrides the configured upstream API key when set. Keeps the
// key out of config files that end up in version control.
const EnvAPIKey = "POKEMONTCG_API_KEY"

type Config struct {
	Upstream Upstream `yaml:"upstream"`
	Proxy    Proxy    `yaml:"proxy"`
	Cache    Cache    `yaml:"cache"`
	Storage  Storage  `yaml:"storage"`
	Logging  Logging  `yaml:"logging"`
}

type Upstream struct {
	BaseURL  string     `yaml:"baseUrl"`
	APIKey   string     `yaml:"apiKey"`
	PageSize int        `yaml:"pageSize"`
	Client   web.Config `yaml:"client"`
}

func (u Upstream) PageSizeOrDefault() int {
	if u.PageSize <= 0 {
		return 20
	}

	return u.PageSize
}

// EnsureBaseURL joins the given url with the configured base url. URLs that
// already carry a schema are returned unchanged.
func (u Upstream) EnsureBaseURL(rawURL string) (string, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %s, %w", rawURL, err)
	}

	if ref.IsAbs() {
		return rawURL, nil
	}

	base, err := url.Parse(u.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %s, %w", u.BaseURL, err)
	}

	joined := base.JoinPath(ref.Path)
	joined.RawQuery = ref.RawQuery

	return joined.String(), nil
}

type Proxy struct {
	Addr string `yaml:"addr"`
}

func (p Proxy) AddrOrDefault() string {
	if strings.TrimSpace(p.Addr) == "" {
		return ":8080"
	}

	return p.Addr
}

// Cache configures the optional proxy response cache. An empty addr
// disables caching entirely.
type Cache struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

func (c Cache) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

func (c Cache) TTLOrDefault() time.Duration {
	if c.TTL <= 0 {
		return 5 * time.Minute
	}

	return c.TTL
}

// UnmarshalYAML accepts the ttl in time.ParseDuration notation.
func (c *Cache) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode cache config, %w", err)
	}

	c.Addr = raw.Addr
	c.Password = raw.Password
	c.DB = raw.DB

	if raw.TTL == "" {
		c.TTL = 0

		return nil
	}

	ttl, err := time.ParseDuration(raw.TTL)
	if err != nil {
		return fmt.Errorf("invalid cache ttl %s, %w", raw.TTL, err)
	}
	c.TTL = ttl

	return nil
}

const (
	REPLACE = "REPLACE"
	CREATE  = "CREATE"
)

type Storage struct {
	Location string `yaml:"location"`
	Mode     string `yaml:"mode"`
}

type Logging struct {
	Level string `yaml:"level"`
}

func (l Logging) LevelOrDefault() string {
	level := strings.TrimSpace(l.Level)
	if level == "" {
		level = "INFO"
	}

	return strings.ToLower(level)
}

func Load(path string) (*Config, error) {
	s, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if s.IsDir() {
		return nil, fmt.Errorf("'%s' is a directory, not a regular file", path)
	}

	return buildConfig(path)
}

func buildConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read config file: %w", err)
	}

	config := &Config{}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("config unmarshal failed with: %w", err)
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		config.Upstream.APIKey = key
	}

	return config, nil
}
