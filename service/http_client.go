package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/aurum-labs/jewel-studio/common/config"
	"golang.org/x/net/proxy"
)

var (
	httpClient      *http.Client
	httpClientOnce  sync.Once
	proxyClientLock sync.Mutex
	proxyClients    = make(map[string]*http.Client)
)

// MaxAssetSize caps downloads of generated assets.
const MaxAssetSize = 64 << 20

func relayTimeout() time.Duration {
	// generation calls may take minutes; RELAY_TIMEOUT overrides
	defaultTimeout := 15 * time.Minute
	if config.RelayTimeout > 0 {
		defaultTimeout = time.Duration(config.RelayTimeout) * time.Second
	}
	return defaultTimeout
}

// GetHttpClient returns the shared upstream client, honouring RELAY_PROXY.
func GetHttpClient() *http.Client {
	httpClientOnce.Do(func() {
		if config.RelayProxy != "" {
			client, err := NewProxyHttpClient(config.RelayProxy)
			if err == nil {
				httpClient = client
				return
			}
		}
		httpClient = &http.Client{Timeout: relayTimeout()}
	})
	return httpClient
}

// ResetProxyClientCache drops cached proxy clients so the next call rebuilds them.
func ResetProxyClientCache() {
	proxyClientLock.Lock()
	defer proxyClientLock.Unlock()
	for _, client := range proxyClients {
		if transport, ok := client.Transport.(*http.Transport); ok && transport != nil {
			transport.CloseIdleConnections()
		}
	}
	proxyClients = make(map[string]*http.Client)
}

// NewProxyHttpClient builds (and caches) a client that routes through proxyURL.
func NewProxyHttpClient(proxyURL string) (*http.Client, error) {
	if proxyURL == "" {
		return http.DefaultClient, nil
	}

	proxyClientLock.Lock()
	if client, ok := proxyClients[proxyURL]; ok {
		proxyClientLock.Unlock()
		return client, nil
	}
	proxyClientLock.Unlock()

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, err
	}

	var transport *http.Transport
	switch parsedURL.Scheme {
	case "http", "https":
		transport = &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			ForceAttemptHTTP2:   true,
			Proxy:               http.ProxyURL(parsedURL),
		}

	case "socks5", "socks5h":
		var auth *proxy.Auth
		if parsedURL.User != nil {
			auth = &proxy.Auth{
				User:     parsedURL.User.Username(),
				Password: "",
			}
			if password, ok := parsedURL.User.Password(); ok {
				auth.Password = password
			}
		}

		// every TCP connection, DNS included, goes through the proxy
		dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
		if err != nil {
			return nil, err
		}
		transport = &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			ForceAttemptHTTP2:   true,
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}

	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s, must be http, https, socks5 or socks5h", parsedURL.Scheme)
	}

	client := &http.Client{Transport: transport, Timeout: relayTimeout()}
	proxyClientLock.Lock()
	proxyClients[proxyURL] = client
	proxyClientLock.Unlock()
	return client, nil
}

// FetchBytes downloads rawURL and returns the body with its content type.
func FetchBytes(ctx context.Context, client *http.Client, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxAssetSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > MaxAssetSize {
		return nil, "", fmt.Errorf("fetch %s: asset larger than %d bytes", rawURL, MaxAssetSize)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
