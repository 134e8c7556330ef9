package research

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// maxPageChars caps extracted page text so one huge page cannot dominate a
// synthesis prompt.
const maxPageChars = 64 * 1024

// Fetcher retrieves readable text from web pages with a headless browser.
// The browser is launched lazily on first use.
type Fetcher struct {
	mu      sync.Mutex
	browser *rod.Browser
}

func NewFetcher() *Fetcher {
	return &Fetcher{}
}

func (f *Fetcher) ensureBrowser() error {
	if f.browser != nil {
		return nil
	}
	l := launcher.New().Headless(true)
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	f.browser = browser
	return nil
}

// FetchText navigates to rawURL and returns the rendered page text.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	if err := validateURL(rawURL); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureBrowser(); err != nil {
		return "", err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{URL: rawURL})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("page load: %w", err)
	}

	text, err := page.Eval(`() => document.body.innerText`)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	content := text.Value.Str()
	if len(content) > maxPageChars {
		content = content[:maxPageChars] + "\n... (content truncated)"
	}
	return content, nil
}

// Close shuts the browser down if it was ever launched.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser == nil {
		return nil
	}
	err := f.browser.Close()
	f.browser = nil
	return err
}

// validateURL permits only public http/https targets.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("only http/https schemes are allowed, got: %s", u.Scheme)
	}
	if isPrivateHost(u.Hostname()) {
		return fmt.Errorf("access to private/loopback addresses is denied: %s", u.Hostname())
	}
	return nil
}

// isPrivateHost returns true for loopback, private, and link-local addresses.
func isPrivateHost(host string) bool {
	lower := strings.ToLower(host)
	if lower == "localhost" || lower == "ip6-localhost" || lower == "ip6-loopback" {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}
