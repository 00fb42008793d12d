package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

const (
	dnsResolves    = "RESOLVES"
	dnsNXDomain    = "NXDOMAIN"
	dnsNoARecord   = "NO_A_RECORD"
	dnsServFail    = "SERVFAIL_or_TIMEOUT"
	dnsInvalidName = "INVALID_NAME"
)

var dnsTimeout = 3 * time.Second

// classifyHost tells apart "site is down" from "name does not resolve" when a
// direct probe fails. It only annotates the reason; the status stays OFFLINE.
func classifyHost(parent context.Context, host string) string {
	host = strings.TrimSpace(host)
	if host == "" || strings.Contains(host, "://") {
		return dnsInvalidName
	}
	if net.ParseIP(host) != nil {
		return ""
	}

	// the probe context may already be spent; give DNS its own small budget
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), dnsTimeout)
	defer cancel()
	r := &net.Resolver{} // OS resolver

	ips, err := r.LookupIP(ctx, "ip", host)
	if err == nil && len(ips) > 0 {
		return dnsResolves
	}
	class := dnsServFail
	var de *net.DNSError
	if errors.As(err, &de) && de.IsNotFound {
		class = dnsNXDomain
	}
	if class == dnsNXDomain {
		if ns, err := r.LookupNS(ctx, host); err == nil && len(ns) > 0 {
			class = dnsNoARecord
		}
	}
	return class
}
