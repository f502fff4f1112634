// Package proxy builds HTTP clients that tunnel through a SOCKS5 proxy,
// for running the speech and model collaborators from restricted networks.
package proxy

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultTimeout bounds one collaborator round trip; synthesis and model
// calls can be slow but never open-ended.
const DefaultTimeout = 2 * time.Minute

// NewSocksClient returns an http.Client dialing through the SOCKS5 proxy
// at socksAddr. A non-positive timeout falls back to DefaultTimeout.
func NewSocksClient(socksAddr string, timeout time.Duration) (*http.Client, error) {
	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("socks5 %s: %w", socksAddr, err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}
