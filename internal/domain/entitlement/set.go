package entitlement

import "strconv"

// Set is the structured entitlement of a plan or subscription: the IDs of
// the covered services.
type Set map[uint]struct{}

func NewSet(serviceIDs ...uint) Set {
	s := make(Set, len(serviceIDs))
	for _, id := range serviceIDs {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Covers(serviceID uint) bool {
	_, ok := s[serviceID]
	return ok
}

func (s Set) IDs() []uint {
	out := make([]uint, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// CatalogEntry is the slice of a catalog service the legacy resolver needs.
type CatalogEntry struct {
	ID   uint
	Name string
}

// ResolveLegacy converts a free-text spec into a Set against the service
// catalog. Used when importing legacy text and for subscriptions whose
// text was never migrated.
func ResolveLegacy(includedSpec string, catalog []CatalogEntry) Set {
	set := Set{}
	if len(ParseTerms(includedSpec)) == 0 {
		return set
	}
	for _, svc := range catalog {
		if IsServiceIncluded(includedSpec, svc.Name, uintString(svc.ID)) {
			set[svc.ID] = struct{}{}
		}
	}
	return set
}

func uintString(v uint) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(v), 10)
}
