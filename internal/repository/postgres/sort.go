package postgres

import (
	"fmt"
	"time"

	"eventmanagement/internal/domain"
)

// sortStrategy renders the ORDER BY clause for an event listing, appending
// any arguments it needs to args.
type sortStrategy interface {
	orderBy(args []any) (clause string, outArgs []any)
}

// smartDateOrder partitions events around now: upcoming events sort soonest
// first and always precede past events, which sort most recent first. The
// requested direction does not apply to this ordering.
type smartDateOrder struct {
	now time.Time
}

func (s smartDateOrder) orderBy(args []any) (string, []any) {
	args = append(args, s.now)
	n := len(args)
	clause := fmt.Sprintf(
		"(e.event_date >= $%d) DESC, CASE WHEN e.event_date >= $%d THEN e.event_date - $%d ELSE $%d - e.event_date END ASC",
		n, n, n, n,
	)
	return clause, args
}

// fieldOrder sorts by a single whitelisted column.
type fieldOrder struct {
	column string
	desc   bool
}

func (f fieldOrder) orderBy(args []any) (string, []any) {
	dir := "ASC"
	if f.desc {
		dir = "DESC"
	}
	return "e." + f.column + " " + dir, args
}

// sortColumns whitelists the plainly sortable fields. Anything else falls
// back to created_at.
var sortColumns = map[string]string{
	"name":        "name",
	"price":       "price",
	"total_seats": "total_seats",
	"created_at":  "created_at",
}

func sortStrategyFor(sort domain.EventSort, now time.Time) sortStrategy {
	if sort.SmartDate() {
		return smartDateOrder{now: now}
	}
	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "created_at"
	}
	return fieldOrder{column: column, desc: sort.Desc}
}
