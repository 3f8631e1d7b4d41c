package browser

import (
	"context"
	"fmt"
	"net/url"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// Cookie is the wire shape reported by manage_cookies.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain,omitempty"`
	Path     string `json:"path,omitempty"`
	HTTPOnly bool   `json:"http_only,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
}

// Cookies returns the browser's cookies, optionally filtered by name.
func (t *Tab) Cookies(name string) ([]Cookie, error) {
	if t == nil {
		return nil, fmt.Errorf("no active tab")
	}

	var raw []*network.Cookie
	err := t.Run(probeTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		raw, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("get cookies: %w", err)
	}

	var out []Cookie
	for _, c := range raw {
		if name != "" && c.Name != name {
			continue
		}
		out = append(out, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		})
	}
	return out, nil
}

// SetCookie sets a cookie. When domain is empty the current page's host is
// used.
func (t *Tab) SetCookie(name, value, domain string) error {
	if t == nil {
		return fmt.Errorf("no active tab")
	}

	if domain == "" {
		info, err := t.Info()
		if err != nil {
			return fmt.Errorf("resolve cookie domain: %w", err)
		}
		u, err := url.Parse(info.URL)
		if err != nil || u.Hostname() == "" {
			return fmt.Errorf("cannot derive cookie domain from %q", info.URL)
		}
		domain = u.Hostname()
	}

	err := t.Run(probeTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookie(name, value).
			WithDomain(domain).
			WithPath("/").
			Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("set cookie %s: %w", name, err)
	}
	return nil
}

// DeleteCookie removes every cookie with the given name on the current
// page's URL.
func (t *Tab) DeleteCookie(name string) error {
	if t == nil {
		return fmt.Errorf("no active tab")
	}

	info, err := t.Info()
	if err != nil {
		return fmt.Errorf("resolve cookie url: %w", err)
	}

	err = t.Run(probeTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.DeleteCookies(name).WithURL(info.URL).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("delete cookie %s: %w", name, err)
	}
	return nil
}

// ClearCookies removes all browser cookies.
func (t *Tab) ClearCookies() error {
	if t == nil {
		return fmt.Errorf("no active tab")
	}
	err := t.Run(probeTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.ClearBrowserCookies().Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	return nil
}
