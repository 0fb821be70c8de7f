package option

// Classify picks the option kind for a backend entry from its native type,
// constraint, and byte size.
func Classify(vt ValueType, ck ConstraintKind, size int) Type {
	switch vt {
	case ValueBool:
		return TypeCheckBox

	case ValueInt, ValueFixed:
		switch ck {
		case ConstraintWordList:
			return TypeCombo
		case ConstraintRange:
			if size > WordSize {
				return TypeGamma
			}
		case ConstraintNone:
			if size > WordSize {
				// Arrays without a range have no value limits to build
				// a curve against.
				return TypeNone
			}
		default:
			return TypeNone
		}
		if vt == ValueInt {
			return TypeSlider
		}
		return TypeSliderF

	case ValueString:
		switch ck {
		case ConstraintStringList:
			return TypeCombo
		case ConstraintNone:
			return TypeEntry
		default:
			return TypeNone
		}

	case ValueButton:
		return TypeButton

	default:
		return TypeNone
	}
}
