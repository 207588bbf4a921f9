package lifecycle

import (
	"reflect"
	"testing"
)

func TestNewPaging(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		count  int
		want   Paging
	}{
		{"defaults", 0, 0, Paging{Offset: 0, Count: DefaultPageSize}},
		{"explicit", 5, 3, Paging{Offset: 5, Count: 3}},
		{"negative offset clamps", -7, 3, Paging{Offset: 0, Count: 3}},
		{"negative count falls back", 2, -1, Paging{Offset: 2, Count: DefaultPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPaging(tt.offset, tt.count); got != tt.want {
				t.Errorf("NewPaging(%d, %d) = %+v, want %+v", tt.offset, tt.count, got, tt.want)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name   string
		paging Paging
		want   []string
	}{
		{"full window", Paging{Offset: 0, Count: 10}, []string{"a", "b", "c", "d", "e"}},
		{"inner window", Paging{Offset: 1, Count: 2}, []string{"b", "c"}},
		{"tail window", Paging{Offset: 3, Count: 10}, []string{"d", "e"}},
		{"offset at end", Paging{Offset: 5, Count: 2}, nil},
		{"offset beyond end", Paging{Offset: 42, Count: 2}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.paging.Window(names)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Window() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindow_EmptyInput(t *testing.T) {
	if got := NewPaging(0, 10).Window(nil); len(got) != 0 {
		t.Errorf("Window(nil) = %v, want empty", got)
	}
}
