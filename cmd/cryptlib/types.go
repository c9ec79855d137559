package main

// optionalString is a string flag that remembers whether it was given, so
// an explicit empty value differs from an absent one.
type optionalString struct {
	value *string
}

func (o *optionalString) UnmarshalFlag(val string) error {
	o.value = &val
	return nil
}

func (o *optionalString) MarshalFlag() (string, error) {
	if o.value == nil {
		return "", nil
	}
	return *o.value, nil
}

// IsSet reports whether the flag was given.
func (o *optionalString) IsSet() bool { return o.value != nil }

// Value returns the flag value, or "" when unset.
func (o *optionalString) Value() string {
	if o.value == nil {
		return ""
	}
	return *o.value
}
