package question

import (
	"context"
	"net"
	"net/url"
	"time"
)

// Connectivity is a point-in-time online check made before every fetch.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// StaticConnectivity always reports the same state.
type StaticConnectivity bool

func (s StaticConnectivity) Online(context.Context) bool { return bool(s) }

// DialProbe reports online when a TCP connection to Addr succeeds.
type DialProbe struct {
	Addr    string
	Timeout time.Duration
}

// NewDialProbe targets the host of endpoint, defaulting the port from its scheme.
func NewDialProbe(endpoint string, timeout time.Duration) (*DialProbe, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}
	return &DialProbe{Addr: net.JoinHostPort(u.Hostname(), port), Timeout: timeout}, nil
}

func (p *DialProbe) Online(ctx context.Context) bool {
	if p.Addr == "" {
		return false
	}
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
