package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileSelection(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		removed  int
		selected int
		want     int
	}{
		{name: "removed before selection shifts up", length: 5, removed: 0, selected: 2, want: 1},
		{name: "removed selected item keeps slot", length: 5, removed: 2, selected: 2, want: 2},
		{name: "removed after selection is a no-op", length: 5, removed: 4, selected: 2, want: 2},
		{name: "removed selected last item backs up", length: 5, removed: 4, selected: 4, want: 3},
		{name: "sole item removed resets to zero", length: 1, removed: 0, selected: 0, want: 0},
		{name: "removed immediately before selection", length: 3, removed: 1, selected: 2, want: 1},
		{name: "out of range removal leaves selection", length: 5, removed: 9, selected: 3, want: 3},
		{name: "negative removal leaves selection", length: 5, removed: -1, selected: 3, want: 3},
		{name: "first of two removed while selected", length: 2, removed: 0, selected: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconcileSelection(tt.length, tt.removed, tt.selected))
		})
	}
}
