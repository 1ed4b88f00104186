package ast

import (
	"slices"
	"strings"
)

// SearchHints tells the resolver where a pragma looks for its target.
type SearchHints uint8

const (
	SearchNone     SearchHints = 0
	SearchParent   SearchHints = 1 << iota // owner of the declaration list
	SearchPrevious                         // nearest preceding declaration
	SearchNext                             // following declarations
	SearchSiblings                         // every other declaration of the list
)

// Has reports whether all bits of h2 are set.
func (h SearchHints) Has(h2 SearchHints) bool {
	return h&h2 == h2 && h2 != 0
}

func (h SearchHints) String() string {
	if h == SearchNone {
		return "none"
	}
	var parts []string
	for _, e := range []struct {
		bit  SearchHints
		name string
	}{
		{SearchParent, "parent"},
		{SearchPrevious, "previous"},
		{SearchNext, "next"},
		{SearchSiblings, "siblings"},
	} {
		if h&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// AnnotationKind identifies what a resolved pragma means for its target.
type AnnotationKind uint8

const (
	AnnUnknown AnnotationKind = iota
	AnnDeprecated
	AnnExceptionInit
	AnnAutonomousTransaction
	AnnSeriallyReusable
	AnnUDF
	AnnRestrictReferences
	AnnInline
	AnnCoverage
	AnnSuppressesWarning6009
)

var annotationNames = [...]string{
	AnnUnknown:               "unknown",
	AnnDeprecated:            "deprecated",
	AnnExceptionInit:         "exception_init",
	AnnAutonomousTransaction: "autonomous_transaction",
	AnnSeriallyReusable:      "serially_reusable",
	AnnUDF:                   "udf",
	AnnRestrictReferences:    "restrict_references",
	AnnInline:                "inline",
	AnnCoverage:              "coverage",
	AnnSuppressesWarning6009: "suppresses_warning_6009",
}

func (k AnnotationKind) String() string {
	if int(k) < len(annotationNames) {
		return annotationNames[k]
	}
	return "unknown"
}

// PragmaSpec describes a known pragma.
type PragmaSpec struct {
	Name  string
	Kind  AnnotationKind
	Hints SearchHints
	// MinArgs/MaxArgs bound the argument count; MaxArgs < 0 means unbounded.
	MinArgs int
	MaxArgs int
}

var pragmaRegistry = map[string]PragmaSpec{
	"AUTONOMOUS_TRANSACTION":  {Name: "AUTONOMOUS_TRANSACTION", Kind: AnnAutonomousTransaction, Hints: SearchParent},
	"SERIALLY_REUSABLE":       {Name: "SERIALLY_REUSABLE", Kind: AnnSeriallyReusable, Hints: SearchParent},
	"UDF":                     {Name: "UDF", Kind: AnnUDF, Hints: SearchParent},
	"SUPPRESSES_WARNING_6009": {Name: "SUPPRESSES_WARNING_6009", Kind: AnnSuppressesWarning6009, Hints: SearchParent},
	"DEPRECATE":               {Name: "DEPRECATE", Kind: AnnDeprecated, Hints: SearchParent | SearchPrevious, MinArgs: 1, MaxArgs: 2},
	"EXCEPTION_INIT":          {Name: "EXCEPTION_INIT", Kind: AnnExceptionInit, Hints: SearchPrevious, MinArgs: 2, MaxArgs: 2},
	"RESTRICT_REFERENCES":     {Name: "RESTRICT_REFERENCES", Kind: AnnRestrictReferences, Hints: SearchPrevious, MinArgs: 2, MaxArgs: -1},
	"INLINE":                  {Name: "INLINE", Kind: AnnInline, Hints: SearchNext, MinArgs: 2, MaxArgs: 2},
	"COVERAGE":                {Name: "COVERAGE", Kind: AnnCoverage, Hints: SearchNext, MinArgs: 1, MaxArgs: 1},
}

// LookupPragma returns metadata for a pragma name (case-insensitive).
func LookupPragma(name string) (PragmaSpec, bool) {
	if name == "" {
		return PragmaSpec{}, false
	}
	spec, ok := pragmaRegistry[strings.ToUpper(name)]
	return spec, ok
}

// AcceptsArgs reports whether n arguments fit the spec.
func (spec PragmaSpec) AcceptsArgs(n int) bool {
	if n < spec.MinArgs {
		return false
	}
	return spec.MaxArgs < 0 || n <= spec.MaxArgs
}

// PragmaSpecs returns every registered pragma sorted by name.
func PragmaSpecs() []PragmaSpec {
	names := make([]string, 0, len(pragmaRegistry))
	for name := range pragmaRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	result := make([]PragmaSpec, 0, len(names))
	for _, name := range names {
		result = append(result, pragmaRegistry[name])
	}
	return result
}
