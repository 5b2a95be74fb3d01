package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/masterdex/card-search-go/internal/aio"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const defaultTimeout = 60 * time.Second

type Config struct {
	Delay       time.Duration `yaml:"delay"`
	Timeout     time.Duration `yaml:"timeout"`
	Retries     int           `yaml:"retries"`
	Retrieables []int         `yaml:"retrieables"`
	RetryDelay  time.Duration `yaml:"retryDelay"`
}

// TimeoutOrDefault returns the configured client timeout, every call path
// uses the same value.
func (c Config) TimeoutOrDefault() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}

	return c.Timeout
}

// WithoutRetries strips the retry policy, failed requests surface
// immediately. Used for interactive searches, bulk downloads keep the
// configured retries.
func (c Config) WithoutRetries() Config {
	c.Retries = 0
	c.Retrieables = nil
	c.RetryDelay = 0

	return c
}

// UnmarshalYAML accepts durations in time.ParseDuration notation, plain
// integers are not supported.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Delay       string `yaml:"delay"`
		Timeout     string `yaml:"timeout"`
		Retries     int    `yaml:"retries"`
		Retrieables []int  `yaml:"retrieables"`
		RetryDelay  string `yaml:"retryDelay"`
	}
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode client config, %w", err)
	}

	parse := func(field, v string) (time.Duration, error) {
		if v == "" {
			return 0, nil
		}

		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %s for field %s, %w", v, field, err)
		}

		return d, nil
	}

	var err error
	if c.Delay, err = parse("delay", raw.Delay); err != nil {
		return err
	}
	if c.Timeout, err = parse("timeout", raw.Timeout); err != nil {
		return err
	}
	if c.RetryDelay, err = parse("retryDelay", raw.RetryDelay); err != nil {
		return err
	}
	c.Retries = raw.Retries
	c.Retrieables = raw.Retrieables

	return nil
}

type Response struct {
	Body        io.ReadCloser
	ContentType string
}

func NewGetOpts() GetOptions {
	return GetOptions{
		Header:      make(map[string]string),
		StatusCodes: []int{http.StatusOK},
	}
}

type GetOptions struct {
	Header      map[string]string
	StatusCodes []int
}

func (o GetOptions) WithHeader(k, v string) GetOptions {
	o.Header[k] = v

	return o
}

func (o GetOptions) WithExpectedCodes(statusCode ...int) GetOptions {
	o.StatusCodes = statusCode

	return o
}

type Client interface {
	Get(ctx context.Context, url string, opts GetOptions) (*Response, error)
}

func NewClient(cfg Config, client *http.Client) Client {
	if client == nil {
		panic("missing net/http client")
	}

	return &httpClient{
		cfg:    cfg,
		client: client,
	}
}

type httpClient struct {
	cfg    Config
	client *http.Client
}

func (c *httpClient) Get(ctx context.Context, url string, opts GetOptions) (*Response, error) {
	return WithRetry(ctx, c.cfg, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("request creation failed for url %s, %w", url, err)
		}

		req.Header.Set(HeaderUserAgent, DefaultUserAgent)
		for k, v := range opts.Header {
			req.Header.Set(k, v)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request execution failed for url %s, %w", url, err)
		}

		if !slices.Contains(opts.StatusCodes, resp.StatusCode) {
			defer aio.Close(resp.Body)

			return nil, NewHTTPErr(url, resp)
		}

		return resp, nil
	})
}

// WithRetry runs exec until it succeeds, fails with a non retrievable
// status code or the configured attempts are used up. A zero config runs
// exec exactly once without any delay.
func WithRetry(ctx context.Context, cfg Config, exec func() (*http.Response, error)) (*Response, error) {
	t := time.NewTimer(cfg.Delay)
	defer t.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("stop execution due to cancelled context")
		case <-t.C:
			resp, err := exec()
			if err != nil {
				if resp != nil {
					aio.Close(resp.Body)
				}

				if IsStatusCode(err, cfg.Retrieables...) && attempts < cfg.Retries {
					attempts++
					log.Info().Str("err", err.Error()).Msgf("request attempt %d after err", attempts)

					t.Reset(cfg.RetryDelay)

					continue
				}

				return nil, err
			}

			return &Response{
				Body:        resp.Body,
				ContentType: resp.Header.Get("content-type"),
			}, nil
		}
	}
}
