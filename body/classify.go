package body

// IsFileLike reports whether v carries file content.
func IsFileLike(v Value) bool {
	f, ok := v.(File)
	return ok && f.FileLike != nil
}

// IsMapping reports whether v is a *Mapping.
func IsMapping(v Value) bool {
	m, ok := v.(*Mapping)
	return ok && m != nil
}

// IsSequence reports whether v is a Sequence.
func IsSequence(v Value) bool {
	_, ok := v.(Sequence)
	return ok
}

// ContainsFile reports whether v holds a file at any depth. Mappings stop at
// the first entry that contains one.
func ContainsFile(v Value) bool {
	return containsFile(v, nil)
}

// containsFile calls visit, when set, with every value it examines.
func containsFile(v Value, visit func(Value)) bool {
	if visit != nil {
		visit(v)
	}
	switch x := v.(type) {
	case *Mapping:
		if x == nil {
			return false
		}
		found := false
		x.Each(func(_ string, child Value) bool {
			found = containsFile(child, visit)
			return !found
		})
		return found
	case Sequence:
		for _, e := range x {
			if IsFileLike(e) {
				return true
			}
			if (IsMapping(e) || IsSequence(e)) && containsFile(e, visit) {
				return true
			}
		}
		return false
	default:
		return IsFileLike(v)
	}
}
