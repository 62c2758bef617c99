// Package fanout issues many independent requests against one operation
// with a bounded number in flight and returns exactly one Outcome per
// request.
//
//	outcomes := fanout.Run(ctx, urls, fetch,
//	    fanout.WithLimit(128),
//	    fanout.WithOrdering(fanout.Ordered),
//	)
//	for _, o := range outcomes {
//	    if o.Err != nil { ... }
//	}
//
// A failing or panicking operation only affects its own Outcome. Run never
// stops launching work early and never cancels operations; the context is
// handed to each operation unchanged and operations enforce their own
// timeouts.
package fanout
