package inventory

import (
	"fmt"
	"sort"
)

// FIFOAdvisor checks whether a chosen lot skips older available stock of the
// same product and size. The check is advisory: older material should
// generally move first, but a specific heat is sometimes required for
// certification, so warnings never block a reservation.
type FIFOAdvisor struct{}

// NewFIFOAdvisor creates a new FIFOAdvisor
func NewFIFOAdvisor() *FIFOAdvisor {
	return &FIFOAdvisor{}
}

// CheckLot compares the chosen lot's receipt date against the reservable
// lots of the same product and size, and emits one warning naming every
// older heat still holding unclaimed quantity. The chosen lot does not need
// to appear in available: a claim that drains the lot removes it from the
// reservable set, and the skipped older stock still warrants the warning.
// Read-only, no locking.
func (a *FIFOAdvisor) CheckLot(chosen *StockLot, available []StockLot) []string {
	if chosen == nil || len(available) == 0 {
		return nil
	}

	candidates := make([]StockLot, 0, len(available))
	for _, lot := range available {
		if lot.HeatNumber == chosen.HeatNumber {
			continue
		}
		if lot.IsReservable() && lot.HasUnclaimedQuantity() {
			candidates = append(candidates, lot)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ReceivedAt.Before(candidates[j].ReceivedAt)
	})

	var older []string
	for _, other := range candidates {
		if other.ReceivedAt.Before(chosen.ReceivedAt) {
			older = append(older, fmt.Sprintf("%s (received %s, %s available)",
				other.HeatNumber, other.ReceivedAt.Format("2006-01-02"), other.Quantity.String()))
		}
	}
	if len(older) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("heat %s skips older stock of %s %s: %s",
		chosen.HeatNumber, chosen.ProductName, chosen.SizeLabel, joinList(older))}
}

func joinList(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
