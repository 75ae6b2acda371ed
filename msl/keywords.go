package msl

import "unicode"

// Metal keywords that may not be used as variable or struct member
// names. Renamed by appending "0".
var reservedVariableNames = map[string]struct{}{
	"kernel": {},
	"bias":   {},
}

// Metal Standard Library names that may not be used as function names.
// Renamed by appending "0".
var reservedFunctionNames = map[string]struct{}{
	"main":     {},
	"saturate": {},
}

// isReservedVariableName reports whether the alias collides with a
// Metal keyword.
func isReservedVariableName(name string) bool {
	_, ok := reservedVariableNames[name]
	return ok
}

// isReservedFunctionName reports whether the alias collides with a
// Metal Standard Library function.
func isReservedFunctionName(name string) bool {
	_, ok := reservedFunctionNames[name]
	return ok
}

// ensureValidName prefixes names of the transient "_<digit>" form so
// they survive renumbering between compilation passes.
func ensureValidName(name, prefix string) string {
	if len(name) >= 2 && name[0] == '_' && unicode.IsDigit(rune(name[1])) {
		return prefix + name
	}
	return name
}
