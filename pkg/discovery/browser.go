package discovery

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/scanopt/scanopt-go/pkg/version"
)

// Browser finds network scanners.
type Browser interface {
	// Browse searches until ctx is done. A service is sent when first seen
	// and again whenever a later record adds an address or a port. The
	// channel is closed when ctx is done or the browser is stopped.
	Browse(ctx context.Context) (<-chan *ScannerService, error)

	// FindAll browses for timeout and returns every scanner seen, sorted
	// by instance name. Running out of time is not an error.
	FindAll(ctx context.Context, timeout time.Duration) ([]*ScannerService, error)

	// Stop stops all active browsing operations.
	Stop()
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// BrowseTimeout is the FindAll timeout when none is given.
	// Default: 5 seconds.
	BrowseTimeout time.Duration

	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// ServiceTypes lists the service types to browse.
	// Default: both eSCL service types.
	ServiceTypes []string

	// Logger for debug output (optional).
	Logger *slog.Logger
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		BrowseTimeout: BrowseTimeout,
		ServiceTypes:  []string{ServiceTypeESCL, ServiceTypeESCLSecure},
	}
}

// FilterFunc is a function that filters browse results.
type FilterFunc func(*ScannerService) bool

// FilterByInputSource returns a filter that matches scanners with any of
// the given input sources.
func FilterByInputSource(sources ...string) FilterFunc {
	return func(svc *ScannerService) bool {
		for _, s := range sources {
			if svc.HasInputSource(s) {
				return true
			}
		}
		return false
	}
}

// FilterByColorSpace returns a filter that matches scanners supporting
// the given color space.
func FilterByColorSpace(cs string) FilterFunc {
	return func(svc *ScannerService) bool {
		return slices.Contains(svc.ColorSpaces, cs)
	}
}

// FilterByMinVersion returns a filter that matches scanners advertising
// eSCL min or newer. Scanners with a missing or malformed version never
// match.
func FilterByMinVersion(min version.Version) FilterFunc {
	return func(svc *ScannerService) bool {
		v, err := svc.ProtocolVersion()
		return err == nil && v.AtLeast(min)
	}
}

// FilterBrowseResults filters a channel of scanner services.
func FilterBrowseResults(in <-chan *ScannerService, filter FilterFunc) <-chan *ScannerService {
	out := make(chan *ScannerService)
	go func() {
		defer close(out)
		for svc := range in {
			if filter(svc) {
				out <- svc
			}
		}
	}()
	return out
}

// ServiceEntry is a resolved DNS-SD record, independent of the mDNS
// library in use.
type ServiceEntry struct {
	Instance string
	Service  string
	Host     string
	Port     uint16
	Text     []string
	Addrs    []string
}

// ToScannerService converts a ServiceEntry to ScannerService.
func (e *ServiceEntry) ToScannerService() (*ScannerService, error) {
	txt := StringsToTXTRecords(e.Text)
	info, err := DecodeScannerTXT(txt)
	if err != nil {
		return nil, err
	}

	svc := &ScannerService{
		InstanceName: e.Instance,
		Host:         e.Host,
		Addresses:    slices.Clone(e.Addrs),
		MakeModel:    info.MakeModel,
		Manufacturer: info.Manufacturer,
		Model:        info.Model,
		UUID:         info.UUID,
		ResourcePath: info.ResourcePath,
		ColorSpaces:  info.ColorSpaces,
		InputSources: info.InputSources,
		Formats:      info.Formats,
		Duplex:       info.Duplex,
		Note:         info.Note,
		AdminURL:     info.AdminURL,
		Version:      info.Version,
	}
	if e.Service == ServiceTypeESCLSecure {
		svc.SecurePort = e.Port
	} else {
		svc.Port = e.Port
	}
	return svc, nil
}
