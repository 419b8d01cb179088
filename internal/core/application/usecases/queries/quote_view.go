package queries

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
)

// QuoteView is a quote as a reader sees it at a given time. EffectiveStatus is
// EXPIRE for active quotes past their validity even before the sweep stored it.
type QuoteView struct {
	Quote           *quote.Quote
	EffectiveStatus quote.Status
}

// visibleQuotes keeps the quotes actor may read. Administrators, the shipper and
// the assigned carrier see every quote; other carriers only their own.
func visibleQuotes(o *order.Order, quotes []*quote.Quote, actor kernel.Actor, now time.Time) []QuoteView {
	seeAll := actor.IsAdmin() || o.IsShipper(actor) || o.IsAssignedCarrier(actor)

	views := make([]QuoteView, 0, len(quotes))
	for _, q := range quotes {
		if !seeAll && !q.IsOwnedBy(actor) {
			continue
		}
		views = append(views, QuoteView{Quote: q, EffectiveStatus: q.EffectiveStatus(now)})
	}
	return views
}
