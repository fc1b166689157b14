package search

// ReconcileSelection computes where the selection cursor lands after one
// item is removed from a result list of the given length.
//
// It must be called with the pre-removal list state, before the removal is
// issued: closing a tab is asynchronous and the list only shrinks once the
// removal notification arrives, so the caller stashes this value and
// applies it when the refreshed list lands. That keeps the cursor from
// visibly jumping twice.
func ReconcileSelection(length, removed, selected int) int {
	if removed < 0 || removed >= length {
		return selected
	}
	remaining := length - 1
	switch {
	case removed < selected:
		if selected-1 < 0 {
			return 0
		}
		return selected - 1
	case removed == selected:
		if remaining == 0 {
			return 0
		}
		if selected >= remaining {
			// The next item slides into the removed slot unless the
			// cursor was on the last row.
			return remaining - 1
		}
		return selected
	default:
		return selected
	}
}
