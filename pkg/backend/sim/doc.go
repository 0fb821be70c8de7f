// Package sim provides a simulated scanner backend.
//
// A Profile lists native options the way a scanner driver reports them:
// value type, unit, capabilities, constraint, and default. Profiles may
// declare dependencies between options. An option listed with active_when
// is inactive unless the referenced options hold one of the given values,
// and ranges_by switches an option's range by another option's value.
// Writing an option that others depend on reports InfoReloadOptions.
//
// Two profiles are embedded (see BuiltinNames); others are loaded from
// YAML files with LoadProfile.
package sim
