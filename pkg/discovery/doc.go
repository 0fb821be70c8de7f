// Package discovery finds network scanners with mDNS/DNS-SD.
//
// Scanners that speak eSCL (AirScan) advertise two service types:
//
//   - _uscan._tcp for plain HTTP
//   - _uscans._tcp for HTTPS
//
// A device usually advertises both under the same instance name. The
// browser merges them into one ScannerService carrying both ports, and
// merges the addresses seen on different interfaces.
//
// # TXT records
//
// The decoder reads ty (make and model), usb_MFG and usb_MDL, UUID, rs
// (resource root, default "eSCL"), cs (color spaces), is (input sources),
// pdl (document formats), duplex, note, adminurl, and vers. Either ty or
// usb_MDL is required.
//
// Use ServiceToDeviceInfo to turn a result into the identity shown in
// device lists.
package discovery
