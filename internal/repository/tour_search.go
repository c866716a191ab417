package repository

import (
	"strings"
	"time"

	"github.com/iliyamo/travel-api/internal/model"
)

// Sortable columns and directions accepted by TourFilter.
const (
	SortByPrice = "price"
	SortAsc     = "asc"
	SortDesc    = "desc"
)

var tourSortColumns = map[string]string{SortByPrice: "price"}

// TourFilter narrows and orders the tours of one travel.  Nil fields impose
// no constraint.  SortBy and SortOrder only take effect together.
type TourFilter struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	PriceFrom *model.Money
	PriceTo   *model.Money
	SortBy    string
	SortOrder string
}

// BuildTourQuery turns a filter into a WHERE clause, its arguments and an
// ORDER BY clause for the tours table.  Conditions are combined with AND.
// A requested sort comes first, then starting_date and id so that equal
// prices keep a stable order.
func BuildTourQuery(travelID uint64, f TourFilter) (where string, args []any, orderBy string) {
	conds := []string{"travel_id = ?"}
	args = []any{travelID}

	if f.DateFrom != nil {
		conds = append(conds, "starting_date >= ?")
		args = append(args, *f.DateFrom)
	}
	if f.DateTo != nil {
		conds = append(conds, "ending_date <= ?")
		args = append(args, *f.DateTo)
	}
	if f.PriceFrom != nil {
		conds = append(conds, "price >= ?")
		args = append(args, f.PriceFrom.Minor())
	}
	if f.PriceTo != nil {
		conds = append(conds, "price <= ?")
		args = append(args, f.PriceTo.Minor())
	}

	order := []string{}
	if col, ok := tourSortColumns[f.SortBy]; ok {
		switch strings.ToLower(f.SortOrder) {
		case SortAsc:
			order = append(order, col+" ASC")
		case SortDesc:
			order = append(order, col+" DESC")
		}
	}
	order = append(order, "starting_date ASC", "id ASC")

	return strings.Join(conds, " AND "), args, strings.Join(order, ", ")
}
