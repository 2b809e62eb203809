// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of rows returned when the caller does not
// ask for a size.
const DefaultPageSize = 20

// MaxPageSize caps a single page.
const MaxPageSize = 100

// MaxPage is the highest page number accepted. MaxPage*MaxPageSize stays
// well inside int64 on every platform.
const MaxPage = 1_000_000

// Page is a 1-based offset page.
type Page struct {
	Number int
	Size   int
}

// Skip returns the number of rows to skip for this page: (Number-1)*Size.
// Number is clamped to [1, MaxPage] and Size to [0, MaxPageSize], so the
// result is never negative.
func (p Page) Skip() int64 {
	n := min(max(p.Number, 1), MaxPage)
	size := min(max(p.Size, 0), MaxPageSize)
	return int64(n-1) * int64(size)
}

// Limit returns Size as int64 for Find().SetLimit().
func (p Page) Limit() int64 {
	return int64(p.Size)
}

// HasNext reports whether rows remain after this page, given the total
// number of matching rows and the number actually returned.
func HasNext(total, skip int64, returned int) bool {
	return total > skip+int64(returned)
}

// Parse reads the "page" and "size" query parameters. Missing values come
// back as 0 so the caller's defaults apply; values that are not integers are
// treated as missing. Range checks are left to the caller.
func Parse(r *http.Request) Page {
	return Page{
		Number: atoiOrZero(query.Get(r, "page")),
		Size:   atoiOrZero(query.Get(r, "size")),
	}
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
