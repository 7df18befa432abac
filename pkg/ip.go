package pkg

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

var (
	localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1(:\d{1,5})?$`)
)

type userIPKey struct{}

func IPIsLocal(ipAddr string) bool {
	// used in local development ?
	if strings.HasPrefix(ipAddr, "127.0.0.1") || strings.HasPrefix(ipAddr, "[::1]") || ipAddr == "::1" {
		return true
	}

	// user within docker container ?
	return localDockerIpRegex.MatchString(ipAddr)
}

// IPResolver resolves the client IP of a request. Proxy headers are only
// honored when the direct peer is one of the trusted proxies.
type IPResolver struct {
	trusted []*net.IPNet
}

// NewIPResolver accepts plain IPs and CIDR ranges.
func NewIPResolver(trustedProxies []string) (*IPResolver, error) {
	res := &IPResolver{}
	for _, p := range trustedProxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return nil, fmt.Errorf("trusted proxy %s is invalid", p)
			}
			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}
			res.trusted = append(res.trusted, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %s is invalid: %w", p, err)
		}
		res.trusted = append(res.trusted, ipNet)
	}
	return res, nil
}

func (res *IPResolver) isTrusted(ipAddr string) bool {
	ip := net.ParseIP(ipAddr)
	if ip == nil {
		return false
	}
	for _, n := range res.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns the client IP. Local (dev / docker) addresses are
// reported as "localhost".
func (res *IPResolver) ClientIP(r *http.Request) (string, error) {
	ipAddr := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}

	if res != nil && res.isTrusted(ipAddr) {
		if realIp := strings.TrimSpace(r.Header.Get("X-Real-Ip")); realIp != "" {
			ipAddr = realIp
		} else if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			ipAddr = res.forwardedClient(forwarded)
		}
	}

	if IPIsLocal(ipAddr) {
		return "localhost", nil
	}

	if ip := net.ParseIP(ipAddr); ip == nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}

	return ipAddr, nil
}

// forwardedClient walks X-Forwarded-For (client, proxy1, proxy2) from the
// right and returns the first hop not owned by a trusted proxy.
func (res *IPResolver) forwardedClient(header string) string {
	hops := strings.Split(header, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if !res.isTrusted(hop) {
			return hop
		}
	}
	return strings.TrimSpace(hops[0])
}

// WithUserIP stores the resolved client IP in the context.
func WithUserIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, userIPKey{}, ip)
}

// ReadUserIP returns the client IP resolved by the client ip middleware,
// or the direct peer address when the request did not pass through it.
func ReadUserIP(r *http.Request) (string, error) {
	if ip, ok := r.Context().Value(userIPKey{}).(string); ok && ip != "" {
		return ip, nil
	}
	var res *IPResolver
	return res.ClientIP(r)
}
