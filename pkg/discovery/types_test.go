package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanopt/scanopt-go/pkg/version"
)

func TestScannerServiceURL(t *testing.T) {
	tests := []struct {
		name string
		svc  ScannerService
		want string
	}{
		{
			name: "Plain",
			svc:  ScannerService{Host: "scanner.local", Port: 8080, ResourcePath: "eSCL"},
			want: "http://scanner.local:8080/eSCL",
		},
		{
			name: "PreferSecure",
			svc:  ScannerService{Host: "scanner.local", Port: 80, SecurePort: 443, ResourcePath: "eSCL"},
			want: "https://scanner.local:443/eSCL",
		},
		{
			name: "AddressOverHost",
			svc:  ScannerService{Host: "scanner.local", Addresses: []string{"192.168.1.20"}, Port: 80, ResourcePath: "eSCL"},
			want: "http://192.168.1.20:80/eSCL",
		},
		{
			name: "IPv6",
			svc:  ScannerService{Addresses: []string{"fe80::1"}, Port: 80, ResourcePath: "scan/eSCL"},
			want: "http://[fe80::1]:80/scan/eSCL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.svc.URL())
		})
	}
}

func TestServiceToDeviceInfo(t *testing.T) {
	svc := &ScannerService{
		Host:         "mfp.local",
		Port:         80,
		ResourcePath: "eSCL",
		Manufacturer: "Brother",
		Model:        "MFC-L2710DW",
		InputSources: []string{InputADF, InputPlaten},
	}
	info := ServiceToDeviceInfo(svc)
	assert.Equal(t, DeviceInfo{
		Name:   "escl:http://mfp.local:80/eSCL",
		Vendor: "Brother",
		Model:  "MFC-L2710DW",
		Type:   "flatbed scanner",
	}, info)

	svc.InputSources = []string{InputADF}
	assert.Equal(t, "sheetfed scanner", ServiceToDeviceInfo(svc).Type)

	svc.InputSources = nil
	assert.Equal(t, "network scanner", ServiceToDeviceInfo(svc).Type)
}

func TestScannerServiceClone(t *testing.T) {
	svc := &ScannerService{Addresses: []string{"10.0.0.1"}, InputSources: []string{InputPlaten}}
	c := svc.Clone()
	c.Addresses[0] = "10.0.0.2"
	c.InputSources[0] = InputADF

	assert.Equal(t, "10.0.0.1", svc.Addresses[0])
	assert.Equal(t, InputPlaten, svc.InputSources[0])
}

func TestScannerServiceProtocolVersion(t *testing.T) {
	svc := &ScannerService{Version: "2.63"}
	v, err := svc.ProtocolVersion()
	require.NoError(t, err)
	assert.Equal(t, version.Version{Major: 2, Minor: 63}, v)

	svc.Version = ""
	_, err = svc.ProtocolVersion()
	assert.Error(t, err)
}

func TestFilterByMinVersion(t *testing.T) {
	filter := FilterByMinVersion(version.MustParse("2.5"))

	assert.True(t, filter(&ScannerService{Version: "2.63"}))
	assert.True(t, filter(&ScannerService{Version: "2.5"}))
	assert.False(t, filter(&ScannerService{Version: "2.0"}))
	assert.False(t, filter(&ScannerService{Version: ""}))
	assert.False(t, filter(&ScannerService{Version: "beta"}))
}
