package evolution

// overrides forces the propagated value for specific attributes regardless of
// the requested default or declared type. Keys match attribute names exactly.
var overrides = map[string]any{
	"Status": "Validated",
}

// Override reports the forced value for name, if any.
func Override(name string) (any, bool) {
	v, ok := overrides[name]
	return v, ok
}
