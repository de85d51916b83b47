package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// Client talks to the source shop: it downloads exports and checks image URLs
type Client interface {
	Download(ctx context.Context, url, dest string) error
	CheckImages(ctx context.Context, records []*domain.Product) domain.Findings
}

type httpClient struct {
	rl            ratelimit.Limiter
	config        config.ClientConfig
	httpClient    *resty.Client
	proxySupplier proxy.ProxySupplier
	proxyMutex    sync.Mutex
}

func NewClient(cfg config.ClientConfig, proxySupplier proxy.ProxySupplier) Client {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("User-Agent", "shop-export-converter/1.0").
		SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true,
		})

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	rps := cfg.MaxRequestsPerSecond
	if rps < 1 {
		rps = 1
	}

	return &httpClient{
		rl:            ratelimit.New(rps),
		config:        cfg,
		httpClient:    client,
		proxySupplier: proxySupplier,
	}
}

// Download fetches url into dest
func (c *httpClient) Download(ctx context.Context, url, dest string) error {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}

	if resp.IsError() {
		return fmt.Errorf("failed to download %s: HTTP %d %s", url, resp.StatusCode(), resp.Status())
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(resp.String()), 0o644); err != nil {
		return fmt.Errorf("failed to save download: %w", err)
	}

	log.Infof("📥 Downloaded %s to %s", url, dest)
	return nil
}

// CheckImages sends one HEAD request per distinct image URL. Broken URLs are reported against
// the first record that references them; nothing is ever removed from the records.
func (c *httpClient) CheckImages(ctx context.Context, records []*domain.Product) domain.Findings {
	var findings domain.Findings

	var urls []string
	owner := make(map[string]string)
	for _, p := range records {
		for _, img := range p.Images {
			if _, seen := owner[img]; !seen {
				owner[img] = p.SKU
				urls = append(urls, img)
			}
		}
	}

	if len(urls) == 0 {
		return findings
	}

	log.Infof("🖼️ Checking %d image URLs...", len(urls))

	failures := make([]string, len(urls))
	workers := c.config.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			resp, err := c.do(ctx, http.MethodHead, url)
			switch {
			case err != nil:
				failures[i] = err.Error()
			case resp.IsError():
				failures[i] = fmt.Sprintf("HTTP %d", resp.StatusCode())
			}
		}()
	}
	wg.Wait()

	for i, url := range urls {
		if failures[i] != "" {
			findings.AddWarning(domain.FindingValidation, owner[url], "image %s is not reachable: %s", url, failures[i])
		}
	}

	log.Infof("✅ Image check finished, %d broken", len(findings.Warnings))
	return findings
}

// do sends a rate limited request. A 429 answer switches to the next proxy and retries once.
func (c *httpClient) do(ctx context.Context, method, url string) (*resty.Response, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Execute(method, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, err
	}

	if resp.StatusCode() == http.StatusTooManyRequests && c.rotateProxy() {
		log.Warnf("🚫 Rate limited by %s, retrying through the next proxy", url)
		c.rl.Take()
		return c.httpClient.R().
			SetContext(ctx).
			Execute(method, url)
	}

	return resp, nil
}

func (c *httpClient) rotateProxy() bool {
	if c.proxySupplier == nil || c.proxySupplier.Len() < 2 {
		return false
	}

	c.proxyMutex.Lock()
	defer c.proxyMutex.Unlock()

	next := c.proxySupplier.Get()
	if next == "" {
		return false
	}
	c.httpClient.SetProxy(next)
	log.Infof("🔄 Switching to proxy: %s", next)
	return true
}
