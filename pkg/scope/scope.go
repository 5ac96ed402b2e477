// Package scope narrows shared collections to what a given viewer may see.
//
// The rule is binary: the designated administrator sees every record and gets
// the distinct owner names to drive a filter dropdown; any other identity sees
// only the records it owns and gets no dropdown at all.
package scope

// AllOwners is the Refine sentinel meaning "no owner filter".
const AllOwners = ""

// Result holds the viewer-visible subset of a collection and, for privileged
// viewers, the owner values available as filter criteria.
type Result[T any] struct {
	Visible []T
	// DistinctOwners preserves first-appearance order so the dropdown is stable
	// across refreshes. Empty for non-privileged viewers.
	DistinctOwners []string
}

// Scope narrows records to the subset visible to viewer. ownerOf extracts the
// owner field being scoped on (name_of_staff for tasks, author_name for
// reports). privileged viewers get the whole collection plus the distinct
// owner set; everyone else gets exactly their own records.
func Scope[T any](records []T, viewer string, privileged bool, ownerOf func(T) string) Result[T] {
	if privileged {
		return Result[T]{
			Visible:        records,
			DistinctOwners: distinctOwners(records, ownerOf),
		}
	}

	visible := make([]T, 0, len(records))

	for _, r := range records {
		if ownerOf(r) == viewer {
			visible = append(visible, r)
		}
	}

	return Result[T]{Visible: visible}
}

// Refine re-applies an owner filter over an already-scoped set. Passing
// AllOwners returns the input unchanged. Refine is pure, order-preserving,
// and idempotent: refining twice with the same owner equals refining once.
func Refine[T any](records []T, owner string, ownerOf func(T) string) []T {
	if owner == AllOwners {
		return records
	}

	refined := make([]T, 0, len(records))

	for _, r := range records {
		if ownerOf(r) == owner {
			refined = append(refined, r)
		}
	}

	return refined
}

func distinctOwners[T any](records []T, ownerOf func(T) string) []string {
	seen := map[string]bool{}
	owners := []string{}

	for _, r := range records {
		owner := ownerOf(r)
		if !seen[owner] {
			seen[owner] = true

			owners = append(owners, owner)
		}
	}

	return owners
}
