package names

import "strings"

// UniqueID identifies an overload: the name value folded with the ordered
// parameter type values. No list and an empty list are distinct.
type UniqueID struct {
	Name   Name
	Params []string // nil: без списка параметров
	value  string
}

// IDOf builds an id without a parameter list.
func IDOf(n Name) UniqueID {
	return UniqueID{Name: n, value: n.Value()}
}

// IDWithParams builds an id with an explicit (possibly empty) parameter list.
func IDWithParams(n Name, params ...string) UniqueID {
	ps := make([]string, len(params))
	copy(ps, params)
	return UniqueID{Name: n, Params: ps, value: n.Value() + "-" + strings.Join(ps, "-")}
}

// Value returns the canonical id string.
func (u UniqueID) Value() string { return u.value }

// HasParams reports whether a parameter list was supplied.
func (u UniqueID) HasParams() bool { return u.Params != nil }

func (u UniqueID) String() string { return u.value }

// Equal compares ids by value.
func (u UniqueID) Equal(other UniqueID) bool { return u.value == other.value }
