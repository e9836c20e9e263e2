package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultRedirectHops = 5
	DefaultUserAgent    = "idscan/1.0 (+https://github.com/hyperifyio/idscan)"
)

// Client issues a single bounded GET per URL. There is no retry and no cache.
type Client struct {
	UserAgent string
	// PerRequestTimeout bounds each request. Zero means DefaultTimeout.
	PerRequestTimeout time.Duration
	// RedirectMaxHops caps redirect following. Zero means DefaultRedirectHops.
	RedirectMaxHops int
	// HTTPClient overrides the underlying transport client, mainly for tests.
	HTTPClient *http.Client

	rc *resty.Client
}

func (c *Client) client() *resty.Client {
	if c.rc != nil {
		return c.rc
	}
	var rc *resty.Client
	if c.HTTPClient != nil {
		rc = resty.NewWithClient(c.HTTPClient)
	} else {
		rc = resty.New()
	}
	timeout := c.PerRequestTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	rc.SetTimeout(timeout).
		SetHeader("User-Agent", ua).
		SetRedirectPolicy(c.redirectPolicy())
	c.rc = rc
	return rc
}

// Get fetches url and returns the body transcoded to UTF-8 along with the
// response Content-Type. Any status other than 200 is an error.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse url: %w", err)
	}
	// Reject non-HTTP(S) schemes early
	if !isHTTPScheme(u) {
		return nil, "", fmt.Errorf("unsupported URL scheme: %q", rawURL)
	}

	resp, err := c.client().R().SetContext(ctx).Get(u.String())
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status: %d", resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	body, err := toUTF8(resp.Body(), contentType)
	if err != nil {
		return nil, "", fmt.Errorf("decode body: %w", err)
	}
	return body, contentType, nil
}

// toUTF8 transcodes body using the charset declared in contentType, or the one
// sniffed from a <meta> tag or BOM when the header is silent. Sniffing only
// sees the first 1024 bytes, so an uncertain guess loses to a body that is
// valid UTF-8 as a whole.
func toUTF8(body []byte, contentType string) ([]byte, error) {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(body)) {
		return body, nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) redirectPolicy() resty.RedirectPolicy {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = DefaultRedirectHops
	}
	return resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	})
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
