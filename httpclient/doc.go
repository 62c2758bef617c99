// Package httpclient is the HTTP accessor: single GET/POST calls with a
// per-call timeout, and fan-out variants that issue many calls with a
// bounded number in flight.
//
// Any HTTP status a server returns is a successful call; only transport
// failures (timeout, connection) and unreadable bodies are errors. Every
// failure is an *Error carrying the origin URL:
//
//	client, _ := httpclient.New(httpclient.Config{}, log)
//
//	resp, err := client.Get(ctx, "https://a.example/ok", time.Second)
//
//	outcomes := client.MultiGet(ctx, urls, time.Second, fanout.Ordered)
//	for _, o := range outcomes {
//	    if o.Ok() {
//	        fmt.Println(o.Request, o.Value.StatusCode)
//	    }
//	}
//
// Requests go through an otelhttp transport, so each call is traced when a
// tracer provider is installed.
package httpclient
