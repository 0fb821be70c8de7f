// Package scanner exposes an open scanner as a Device.
//
// A Device wraps the option registry of one backend session and adds the
// operations applications use directly: string based option access
// (GetOptVals, SetOptVals, GetOptVal, SetOptVal), hardware button
// notification, scan area selection in millimeters, and preview handling.
//
// Every Device method is safe for concurrent use. Button callbacks run
// after the device lock is released, so they may call back into the Device.
//
// Option events are forwarded to the configured log.Logger with the
// session ID of the Device:
//
//	dev, err := scanner.Open(info, backend, scanner.Config{
//		EventLogger: fileLogger,
//	})
package scanner
