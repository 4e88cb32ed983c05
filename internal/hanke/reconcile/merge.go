// Package reconcile merges an incoming hanke into its persisted entity graph.
package reconcile

// HasID is implemented by items that may or may not have been persisted yet.
type HasID interface {
	GetID() *int
}

// MergeInto rewrites target from source. Every source item is converted in
// source order; convert receives the target item with the same id when one
// exists. Target items without an id are kept after the converted ones, in
// their original order. Identified target items missing from source are dropped.
func MergeInto[S, T HasID](source []S, target *[]T, convert func(src S, existing T, found bool) T) {
	byID := make(map[int]T, len(*target))
	var unidentified []T
	for _, t := range *target {
		if id := t.GetID(); id != nil {
			byID[*id] = t
		} else {
			unidentified = append(unidentified, t)
		}
	}

	merged := make([]T, 0, len(source)+len(unidentified))
	for _, s := range source {
		var (
			existing T
			found    bool
		)
		if id := s.GetID(); id != nil {
			existing, found = byID[*id]
		}
		merged = append(merged, convert(s, existing, found))
	}
	*target = append(merged, unidentified...)
}
