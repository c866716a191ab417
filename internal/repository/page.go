package repository

import "math"

// PerPage is the fixed page size of every listing endpoint.
const PerPage = 15

// PageRequest selects one page of a listing.  Number is 1-based.
type PageRequest struct {
	Number int
	Size   int
}

// maxPage keeps Offset within int.
const maxPage = math.MaxInt / PerPage

// NewPageRequest clamps number to [1, maxPage] and uses PerPage.
func NewPageRequest(number int) PageRequest {
	if number < 1 {
		number = 1
	}
	if number > maxPage {
		number = maxPage
	}
	return PageRequest{Number: number, Size: PerPage}
}

func (p PageRequest) Limit() int { return p.Size }

func (p PageRequest) Offset() int { return (p.Number - 1) * p.Size }
