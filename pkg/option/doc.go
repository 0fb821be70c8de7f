// Package option implements the scanner option model.
//
// A backend reports its capabilities as a list of Descriptors. The Registry
// turns each supported descriptor into an Option of one of seven kinds:
//
//	CheckBox  boolean flag
//	Slider    integer in a range
//	SliderF   fractional number in a range
//	Combo     one of an enumerated set
//	Entry     free text
//	Gamma     lookup table, written as a brightness:contrast:gamma triple
//	Button    momentary action without a value
//
// # String Protocol
//
// Every readable option exchanges its value as a canonical string (see
// codec.go). Booleans are "true"/"false", numbers are decimal text, combo
// values are the choice text. Gamma tables and buttons cannot be read.
//
// # Dynamic Options
//
// Writing one option can change the constraints or visibility of others.
// The backend signals this with InfoReloadOptions; the registry then reloads
// the descriptor set while keeping the identity of every option whose name
// and type survive, so observers stay attached.
//
// # Errors
//
// Rejections are reported with the sentinel errors in errors.go. A rejected
// write never changes the stored value.
package option
