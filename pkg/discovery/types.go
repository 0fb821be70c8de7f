package discovery

import (
	"errors"
	"net"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/scanopt/scanopt-go/pkg/version"
)

// Service type constants for mDNS.
const (
	// ServiceTypeESCL is the service type of eSCL scanners over plain HTTP.
	ServiceTypeESCL = "_uscan._tcp"

	// ServiceTypeESCLSecure is the service type of eSCL scanners over HTTPS.
	ServiceTypeESCLSecure = "_uscans._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultResourcePath is the eSCL root used when rs is not advertised.
	DefaultResourcePath = "eSCL"
)

// TXT record key constants.
const (
	TXTKeyVersion      = "txtvers"
	TXTKeyMakeModel    = "ty"       // Make and model, free text
	TXTKeyManufacturer = "usb_MFG"  // IEEE 1284 manufacturer (optional)
	TXTKeyModel        = "usb_MDL"  // IEEE 1284 model (optional)
	TXTKeyUUID         = "UUID"     // Device UUID (optional)
	TXTKeyResourcePath = "rs"       // eSCL root path, default "eSCL"
	TXTKeyColorSpaces  = "cs"       // color,grayscale,binary
	TXTKeyInputSources = "is"       // platen,adf,camera
	TXTKeyFormats      = "pdl"      // Document formats (MIME types)
	TXTKeyDuplex       = "duplex"   // T or F
	TXTKeyNote         = "note"     // Location or user note
	TXTKeyAdminURL     = "adminurl" // Configuration page
	TXTKeyESCLVersion  = "vers"     // eSCL version
)

// Input source names used in the is record.
const (
	InputPlaten = "platen"
	InputADF    = "adf"
	InputCamera = "camera"
)

// BrowseTimeout is the default timeout for FindAll.
const BrowseTimeout = 5 * time.Second

// Errors.
var (
	ErrMissingRequired  = errors.New("discovery: missing required TXT field")
	ErrInvalidTXTRecord = errors.New("discovery: invalid TXT record")
	ErrBrowserStopped   = errors.New("discovery: browser stopped")
)

// ScannerService is an eSCL scanner found on the network. A scanner that
// advertises both service types is reported once, with both ports set.
type ScannerService struct {
	InstanceName string
	Host         string
	Addresses    []string

	// Port is the plain HTTP port, 0 if not advertised.
	Port uint16

	// SecurePort is the HTTPS port, 0 if not advertised.
	SecurePort uint16

	MakeModel    string
	Manufacturer string
	Model        string
	UUID         uuid.UUID
	ResourcePath string
	ColorSpaces  []string
	InputSources []string
	Formats      []string
	Duplex       bool
	Note         string
	AdminURL     string
	Version      string
}

// URL returns the eSCL base URL. HTTPS is preferred when advertised. The
// first known address is used in place of the host name when available.
func (s *ScannerService) URL() string {
	scheme, port := "http", s.Port
	if s.SecurePort != 0 {
		scheme, port = "https", s.SecurePort
	}
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(int(port))),
		Path:   "/" + s.ResourcePath,
	}
	return u.String()
}

// HasInputSource reports whether the scanner advertises the input source.
func (s *ScannerService) HasInputSource(source string) bool {
	return slices.Contains(s.InputSources, source)
}

// ProtocolVersion parses the advertised eSCL version.
func (s *ScannerService) ProtocolVersion() (version.Version, error) {
	return version.Parse(s.Version)
}

// Clone returns a deep copy.
func (s *ScannerService) Clone() *ScannerService {
	c := *s
	c.Addresses = slices.Clone(s.Addresses)
	c.ColorSpaces = slices.Clone(s.ColorSpaces)
	c.InputSources = slices.Clone(s.InputSources)
	c.Formats = slices.Clone(s.Formats)
	return &c
}

// DeviceInfo identifies a discovered scanner the way an open device does.
type DeviceInfo struct {
	Name   string
	Vendor string
	Model  string
	Type   string
}

// ServiceToDeviceInfo converts a service to a DeviceInfo. The name is the
// eSCL URL prefixed with "escl:".
func ServiceToDeviceInfo(s *ScannerService) DeviceInfo {
	info := DeviceInfo{
		Name:   "escl:" + s.URL(),
		Vendor: s.Manufacturer,
		Model:  s.Model,
	}
	switch {
	case s.HasInputSource(InputPlaten):
		info.Type = "flatbed scanner"
	case s.HasInputSource(InputADF):
		info.Type = "sheetfed scanner"
	case s.HasInputSource(InputCamera):
		info.Type = "camera"
	default:
		info.Type = "network scanner"
	}
	return info
}
