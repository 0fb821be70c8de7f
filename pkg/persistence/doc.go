// Package persistence stores named option presets so scanner settings
// survive between sessions.
//
// A preset is the string value map returned by scanner.Device.GetOptVals;
// loading it feeds the same map back through SetOptVals. Presets are kept
// per device name in one JSON file.
package persistence
