package option

// Backend is the device side of the option model. It enumerates
// capabilities and performs native value I/O. Implementations are called
// from the registry's goroutine only.
//
// Native values are bool, int, float64 (fixed), string, and []int for
// array options. Button writes pass nil.
type Backend interface {
	// Descriptors returns the current descriptor set in enumeration order.
	Descriptors() ([]Descriptor, error)

	// ReadValue returns the native value of the option at index.
	ReadValue(index int) (any, error)

	// WriteValue stores a native value and reports its side effects.
	WriteValue(index int, value any) (WriteInfo, error)
}
