package order

import "fmt"

// Filter selects a tab of the orders list.
type Filter string

const (
	FilterAll       Filter = ""
	FilterNew       Filter = "NEW"
	FilterPreparing Filter = "PREPARING"
	// FilterHistory covers completed and rejected orders.
	FilterHistory Filter = "HISTORY"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterAll, FilterNew, FilterPreparing, FilterHistory:
		return f, nil
	default:
		return "", fmt.Errorf("unknown order filter %q", s)
	}
}

// Match reports whether o belongs to the tab.
func (f Filter) Match(o Order) bool {
	switch f {
	case FilterNew:
		return o.Status == StatusNew
	case FilterPreparing:
		return o.Status == StatusPreparing
	case FilterHistory:
		return o.Status == StatusCompleted || o.Status == StatusRejected
	default:
		return true
	}
}
