package discovery

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// ScannerTXT holds the decoded eSCL TXT records.
type ScannerTXT struct {
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

// DecodeScannerTXT parses eSCL TXT records. Either ty or usb_MDL must be
// present. Manufacturer and model fall back to splitting ty at the first
// space.
func DecodeScannerTXT(txt TXTRecordMap) (*ScannerTXT, error) {
	info := &ScannerTXT{
		MakeModel:    strings.TrimSpace(txt[TXTKeyMakeModel]),
		Manufacturer: strings.TrimSpace(txt[TXTKeyManufacturer]),
		Model:        strings.TrimSpace(txt[TXTKeyModel]),
		Note:         txt[TXTKeyNote],
		AdminURL:     txt[TXTKeyAdminURL],
		Version:      txt[TXTKeyESCLVersion],
	}

	if info.MakeModel == "" && info.Model == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyMakeModel)
	}
	if info.MakeModel == "" {
		info.MakeModel = strings.TrimSpace(info.Manufacturer + " " + info.Model)
	}
	if info.Manufacturer == "" || info.Model == "" {
		vendor, model, found := strings.Cut(info.MakeModel, " ")
		if !found {
			vendor, model = "", info.MakeModel
		}
		if info.Manufacturer == "" {
			info.Manufacturer = vendor
		}
		if info.Model == "" {
			info.Model = model
		}
	}

	if s, ok := txt[TXTKeyUUID]; ok && s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q", ErrInvalidTXTRecord, TXTKeyUUID, s)
		}
		info.UUID = id
	}

	info.ResourcePath = strings.Trim(txt[TXTKeyResourcePath], "/")
	if _, ok := txt[TXTKeyResourcePath]; !ok {
		info.ResourcePath = DefaultResourcePath
	}

	info.ColorSpaces = parseList(txt[TXTKeyColorSpaces], true)
	info.InputSources = parseList(txt[TXTKeyInputSources], true)
	info.Formats = parseList(txt[TXTKeyFormats], false)

	switch strings.ToUpper(txt[TXTKeyDuplex]) {
	case "", "F":
	case "T":
		info.Duplex = true
	default:
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidTXTRecord, TXTKeyDuplex, txt[TXTKeyDuplex])
	}

	return info, nil
}

// parseList splits a comma-separated record, dropping empty items.
func parseList(s string, lower bool) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if lower {
			p = strings.ToLower(p)
		}
		out = append(out, p)
	}
	return out
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}
