package schema

// matchType checks one value against a scalar descriptor and returns the
// violations for prop. Descriptors are tried as primitive, then opaque, then
// predicate; each kind reports a differently shaped message.
func matchType(t Type, prop string, value any) []string {
	if isNilType(t) {
		return []string{notFound(prop)}
	}

	switch d := t.(type) {
	case *PrimitiveType:
		if d.Match(value) {
			return nil
		}
		return []string{violatedType(prop, d.Name(), render(value))}
	case *OpaqueType:
		if d.Match(value) {
			return nil
		}
		return []string{violatedType(prop, d.Name(), TypeName(value))}
	case *PredicateType:
		if d.Match(value) {
			return nil
		}
		return []string{violated(prop)}
	case Schema:
		if _, ok := asRecord(value); ok {
			return nil
		}
		return []string{violatedType(prop, d.Name(), TypeName(value))}
	case *ArrayType:
		if _, ok := asSequence(value); ok {
			return nil
		}
		return []string{violatedType(prop, "Array", TypeName(value))}
	case Matcher:
		// Descriptors defined outside this package behave like primitives.
		if d.Match(value) {
			return nil
		}
		return []string{violatedType(prop, d.Name(), render(value))}
	default:
		return []string{notFound(prop)}
	}
}

// matches reports whether value satisfies a scalar descriptor without building messages.
func matches(t Type, value any) bool {
	m, ok := t.(Matcher)
	return ok && !isNilType(t) && m.Match(value)
}
