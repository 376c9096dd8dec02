// Package proxy normalizes proxy list entries and probes them for
// reachability before a workflow commits to using one.
package proxy

import (
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/betbot/okxflow/pkg/logger"
	"github.com/betbot/okxflow/pkg/syncgroup"
)

// echoURL answers with the caller's public IP, which lets a probe confirm
// traffic actually went through the proxy.
const echoURL = "https://eth0.me/"

const probeTimeout = 15 * time.Second

// Parse normalizes one raw proxy line to user:pass@host:port or host:port.
// Accepted inputs: host:port, user:pass@host:port, and the 4-segment
// user:pass:host:port form. Returns "" for anything else.
func Parse(raw string) string {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	switch {
	case len(parts) == 4:
		return parts[0] + ":" + parts[1] + "@" + parts[2] + ":" + parts[3]
	case len(parts) == 2:
		return raw
	case strings.Contains(raw, "@"):
		return raw
	}
	return ""
}

// ParseAll normalizes every line, dropping the unparseable ones.
func ParseAll(lines []string) []string {
	var proxies []string
	for _, line := range lines {
		if p := Parse(line); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

// Check probes one normalized proxy. The probe succeeds when the echo
// service reports an IP that appears in the proxy string itself.
func Check(proxy string) bool {
	if proxy == "" {
		return false
	}
	client := resty.New().
		SetProxy("http://" + proxy).
		SetTimeout(probeTimeout)
	resp, err := client.R().Get(echoURL)
	if err != nil {
		logger.Warnf("proxy %s probe failed: %v", proxy, err)
		return false
	}
	ip := strings.TrimSpace(resp.String())
	return ip != "" && strings.Contains(proxy, ip)
}

// CheckAll probes every proxy concurrently, one goroutine per candidate,
// and returns the reachable ones. Order follows probe completion.
func CheckAll(proxies []string) []string {
	var mu sync.Mutex
	var valid []string

	group := syncgroup.NewSyncGroup()
	for _, p := range proxies {
		group.Add(func() {
			if Check(p) {
				mu.Lock()
				valid = append(valid, p)
				mu.Unlock()
			}
		})
	}
	group.Run()
	group.Wait()
	return valid
}
