package remote

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type kidskeys keyboards announce.
	ServiceType = "_kidskeys._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default time to listen for announcements
	DefaultScanTimeout = 5 * time.Second
)

// Keyboard is a kidskeys keyboard found on the network.
type Keyboard struct {
	Name         string
	Hostname     string
	IP           string
	Port         int
	Metadata     map[string]string // TXT records, e.g. version, path
	DiscoveredAt time.Time
}

// String returns a human-readable description.
func (k *Keyboard) String() string {
	return fmt.Sprintf("%s at %s", k.Name, k.Addr())
}

// Addr returns host:port.
func (k *Keyboard) Addr() string {
	return net.JoinHostPort(k.IP, strconv.Itoa(k.Port))
}

// URL returns the websocket endpoint.
func (k *Keyboard) URL() string {
	path := k.Metadata["path"]
	if path == "" {
		path = "/ws"
	}
	return "ws://" + k.Addr() + path
}

// Scanner discovers keyboards over mDNS.
type Scanner struct {
	// Timeout is the maximum time to wait for announcements
	Timeout time.Duration
}

// NewScanner creates a scanner with the default timeout.
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan listens for keyboards until the timeout or ctx expires.
func (s *Scanner) Scan(ctx context.Context) ([]*Keyboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu    sync.Mutex
		found []*Keyboard
		seen  = make(map[string]bool)
	)
	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			kb := parseServiceEntry(entry)
			if kb == nil {
				continue
			}
			mu.Lock()
			if !seen[kb.Addr()] {
				seen[kb.Addr()] = true
				found = append(found, kb)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]*Keyboard(nil), found...), nil
}

// parseServiceEntry converts a service entry to a Keyboard, or nil when it
// has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Keyboard {
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" || entry.Port == 0 {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	name := entry.Instance
	if name == "" {
		name = entry.HostName
	}

	return &Keyboard{
		Name:         name,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
