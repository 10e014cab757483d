package storepath

// MergeValues composes patch over base and returns a new value. Objects are
// merged member by member: members present in both are merged recursively,
// members only in base keep their position, and members only in patch are
// appended. Any other patch variant replaces base outright. Inputs are not
// mutated.
func MergeValues(base, patch any) any {
	strong, ok := patch.(*Object)
	if !ok || strong == nil {
		return cloneValue(patch)
	}
	weak, ok := base.(*Object)
	if !ok || weak == nil {
		return strong.Clone()
	}

	result := weak.Clone()
	for _, key := range strong.keys {
		value := strong.values[key]
		existing, exists := result.values[key]
		if exists {
			result.Set(key, MergeValues(existing, value))
			continue
		}
		result.Set(key, cloneValue(value))
	}
	return result
}
