package shared

import (
	"fmt"
	"sort"
	"strings"
)

// Dependencies counts the records that reference an aggregate, keyed by record kind
type Dependencies map[string]int64

// Total returns the number of dependent records
func (d Dependencies) Total() int64 {
	var total int64
	for _, n := range d {
		total += n
	}
	return total
}

// HasAny reports whether at least one dependent record exists
func (d Dependencies) HasAny() bool {
	return d.Total() > 0
}

// NonZero returns only the kinds that have dependents
func (d Dependencies) NonZero() Dependencies {
	out := make(Dependencies, len(d))
	for k, n := range d {
		if n > 0 {
			out[k] = n
		}
	}
	return out
}

// String renders the non-zero kinds in a stable order, e.g. "customers=2, payments=5"
func (d Dependencies) String() string {
	nz := d.NonZero()
	keys := make([]string, 0, len(nz))
	for k := range nz {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, nz[k]))
	}
	return strings.Join(parts, ", ")
}

// NewHasDependenciesError builds the error returned when a delete is blocked
func NewHasDependenciesError(resource string, deps Dependencies) *DomainError {
	return NewDomainErrorWithDetails(
		ErrHasDependencies.Code,
		fmt.Sprintf("%s cannot be deleted while referenced (%s)", resource, deps.String()),
		deps.NonZero(),
	)
}
