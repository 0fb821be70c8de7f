package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// browseFunc browses one service type until ctx is done, sending resolved
// and expired entries.
type browseFunc func(ctx context.Context, service string, found, lost chan<- ServiceEntry) error

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig
	logger *slog.Logger
	browse browseFunc

	mu      sync.Mutex
	stopped bool
	cancels []context.CancelFunc
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) (*MDNSBrowser, error) {
	defaults := DefaultBrowserConfig()
	if config.BrowseTimeout <= 0 {
		config.BrowseTimeout = defaults.BrowseTimeout
	}
	if len(config.ServiceTypes) == 0 {
		config.ServiceTypes = defaults.ServiceTypes
	}

	var opts []zeroconf.ClientOption
	if config.Interface != "" {
		iface, err := net.InterfaceByName(config.Interface)
		if err != nil {
			return nil, fmt.Errorf("interface %q: %w", config.Interface, err)
		}
		opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
	}

	b := &MDNSBrowser{
		config: config,
		logger: config.Logger,
		browse: zeroconfBrowse(opts),
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}
	return b, nil
}

// Browse searches for eSCL scanners. Services are aggregated by instance
// name: addresses from multiple interfaces and the ports of both service
// types are combined into a single entry.
func (b *MDNSBrowser) Browse(ctx context.Context) (<-chan *ScannerService, error) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil, ErrBrowserStopped
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancels = append(b.cancels, cancel)
	b.mu.Unlock()

	out := make(chan *ScannerService)
	found := make(chan ServiceEntry)
	lost := make(chan ServiceEntry)

	for _, service := range b.config.ServiceTypes {
		go func() {
			if err := b.browse(ctx, service, found, lost); err != nil && ctx.Err() == nil {
				b.logger.Warn("browse failed", "service", service, "error", err)
			}
		}()
	}

	go func() {
		defer close(out)
		defer cancel()

		agg := newAggregator()
		for {
			select {
			case entry := <-found:
				svc, err := agg.add(entry)
				if err != nil {
					b.logger.Debug("ignoring service", "instance", entry.Instance, "error", err)
					continue
				}
				if svc == nil {
					continue
				}
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}

			case entry := <-lost:
				agg.remove(entry)

			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// FindAll browses for timeout and returns every scanner seen.
func (b *MDNSBrowser) FindAll(ctx context.Context, timeout time.Duration) ([]*ScannerService, error) {
	if timeout <= 0 {
		timeout = b.config.BrowseTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]*ScannerService)
	for svc := range results {
		latest[svc.InstanceName] = svc
	}

	services := make([]*ScannerService, 0, len(latest))
	for _, svc := range latest {
		services = append(services, svc)
	}
	slices.SortFunc(services, func(a, b *ScannerService) int {
		return strings.Compare(a.InstanceName, b.InstanceName)
	})
	return services, nil
}

// Stop stops all active browsing operations. Later calls to Browse fail
// with ErrBrowserStopped.
func (b *MDNSBrowser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
}

// zeroconfBrowse adapts zeroconf.Browse to browseFunc.
func zeroconfBrowse(opts []zeroconf.ClientOption) browseFunc {
	return func(ctx context.Context, service string, found, lost chan<- ServiceEntry) error {
		entries := make(chan *zeroconf.ServiceEntry)
		removed := make(chan *zeroconf.ServiceEntry)

		go func() {
			for {
				var (
					entry *zeroconf.ServiceEntry
					ok    bool
					dst   chan<- ServiceEntry
				)
				select {
				case entry, ok = <-entries:
					if !ok {
						return
					}
					dst = found
				case entry, ok = <-removed:
					if !ok {
						removed = nil
						continue
					}
					dst = lost
				case <-ctx.Done():
					return
				}
				select {
				case dst <- fromZeroconf(service, entry):
				case <-ctx.Done():
					return
				}
			}
		}()

		return zeroconf.Browse(ctx, service, Domain, entries, removed, opts...)
	}
}

// fromZeroconf converts a zeroconf entry to a ServiceEntry.
func fromZeroconf(service string, entry *zeroconf.ServiceEntry) ServiceEntry {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return ServiceEntry{
		Instance: entry.Instance,
		Service:  service,
		Host:     strings.TrimSuffix(entry.HostName, "."),
		Port:     uint16(entry.Port),
		Text:     entry.Text,
		Addrs:    addrs,
	}
}

// aggregator merges entries of the same instance.
type aggregator struct {
	services map[string]*ScannerService
}

func newAggregator() *aggregator {
	return &aggregator{services: make(map[string]*ScannerService)}
}

// add merges entry and returns a copy of the merged service, or nil if
// nothing changed.
func (a *aggregator) add(entry ServiceEntry) (*ScannerService, error) {
	svc, err := entry.ToScannerService()
	if err != nil {
		return nil, err
	}

	existing, found := a.services[svc.InstanceName]
	if !found {
		a.services[svc.InstanceName] = svc
		return svc.Clone(), nil
	}

	n := len(existing.Addresses)
	existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
	changed := len(existing.Addresses) != n
	if svc.Port != 0 && svc.Port != existing.Port {
		existing.Port = svc.Port
		changed = true
	}
	if svc.SecurePort != 0 && svc.SecurePort != existing.SecurePort {
		existing.SecurePort = svc.SecurePort
		changed = true
	}
	if !changed {
		return nil, nil
	}
	return existing.Clone(), nil
}

// remove drops the addresses of entry. A service without addresses is
// forgotten.
func (a *aggregator) remove(entry ServiceEntry) {
	existing, found := a.services[entry.Instance]
	if !found {
		return
	}
	existing.Addresses = removeAddresses(existing.Addresses, entry.Addrs)
	if len(existing.Addresses) == 0 {
		delete(a.services, entry.Instance)
	}
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, new []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range new {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses returns addresses without the ones in gone.
func removeAddresses(addresses, gone []string) []string {
	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !slices.Contains(gone, addr) {
			result = append(result, addr)
		}
	}
	return result
}

// Ensure MDNSBrowser implements Browser interface.
var _ Browser = (*MDNSBrowser)(nil)
