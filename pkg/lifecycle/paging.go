package lifecycle

// DefaultPageSize is the page size used when a listing request does not
// specify a count.
const DefaultPageSize = 10

// Paging is a client-requested offset/count window over an ordered listing.
type Paging struct {
	Offset int
	Count  int
}

// NewPaging normalizes an offset/count pair. Negative offsets clamp to zero;
// non-positive counts fall back to DefaultPageSize.
func NewPaging(offset, count int) Paging {
	if offset < 0 {
		offset = 0
	}
	if count <= 0 {
		count = DefaultPageSize
	}
	return Paging{Offset: offset, Count: count}
}

// Window applies the paging window to an ordered name sequence. The result
// preserves order and holds at most Count entries.
func (p Paging) Window(names []string) []string {
	if p.Offset >= len(names) {
		return nil
	}
	end := p.Offset + p.Count
	if end > len(names) {
		end = len(names)
	}
	return names[p.Offset:end]
}
