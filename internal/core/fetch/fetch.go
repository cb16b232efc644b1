// Package fetch 下載食譜頁面
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

var reHTTPURL = regexp.MustCompile(`^https?://`)

// Page 下載結果
type Page struct {
	URL  string
	HTML string
}

// Fetcher 只下載允許網域的頁面
type Fetcher struct {
	allowed   []string
	userAgent string
	timeout   time.Duration
	maxBody   int
	cache     cache.Store
}

// NewFetcher 建立 Fetcher；store 可為 nil
func NewFetcher(cfg config.FetchConfig, store cache.Store) *Fetcher {
	allowed := make([]string, 0, len(cfg.AllowedDomains))
	for _, d := range cfg.AllowedDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			allowed = append(allowed, strings.TrimPrefix(d, "www."))
		}
	}
	f := &Fetcher{
		allowed:   allowed,
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		maxBody:   cfg.MaxBodyBytes,
		cache:     store,
	}
	if f.userAgent == "" {
		f.userAgent = "Mozilla/5.0"
	}
	if f.timeout <= 0 {
		f.timeout = 10 * time.Second
	}
	return f
}

// ValidateURL 檢查網址格式與網域，子網域視同允許
func (f *Fetcher) ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !reHTTPURL.MatchString(raw) {
		return nil, common.ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return nil, common.ErrInvalidURL.Wrap(err)
	}
	if !f.Allowed(u.Hostname()) {
		return nil, common.ErrUnsupportedSite.Wrap(fmt.Errorf("host %q is not supported", u.Hostname()))
	}
	return u, nil
}

// Allowed 主機是否在允許清單內
func (f *Fetcher) Allowed(host string) bool {
	host = strings.ToLower(host)
	for _, d := range f.allowed {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Fetch 驗證網址後下載頁面
func (f *Fetcher) Fetch(ctx context.Context, raw string) (*Page, error) {
	u, err := f.ValidateURL(raw)
	if err != nil {
		return nil, err
	}
	target := u.String()

	key := cache.Key(cache.NamespacePage, target)
	if f.cache != nil {
		if html, err := f.cache.Get(ctx, key); err == nil && html != "" {
			common.LogDebug("頁面快取命中", zap.String("url", target))
			return &Page{URL: target, HTML: html}, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.timeout)
	if f.maxBody > 0 {
		c.MaxBodySize = f.maxBody
	}
	// 轉址後仍須在允許清單內
	c.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		if !f.Allowed(req.URL.Hostname()) {
			return fmt.Errorf("redirect to unsupported host %q", req.URL.Hostname())
		}
		if len(via) >= 10 {
			return fmt.Errorf("stopped after 10 redirects")
		}
		return nil
	})

	var page *Page
	c.OnResponse(func(r *colly.Response) {
		page = &Page{URL: r.Request.URL.String(), HTML: string(r.Body)}
	})

	start := time.Now()
	err = c.Visit(target)
	common.LogLookup("fetch", target, time.Since(start), err)
	if err != nil {
		return nil, common.ErrFetchFailed.Wrap(err)
	}
	if page == nil {
		return nil, common.ErrFetchFailed.Wrap(fmt.Errorf("empty response from %s", target))
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, page.HTML); err != nil {
			common.LogWarn("寫入頁面快取失敗", zap.String("url", target), zap.Error(err))
		}
	}
	return page, nil
}
