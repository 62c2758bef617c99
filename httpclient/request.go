package httpclient

import "net/http"

// Target is one POST request of a MultiPost.
type Target struct {
	URL  string
	Body string
}

// Response is the success side of one HTTP call. Any received status,
// including 4xx and 5xx, is a Response.
type Response struct {
	// URL is the requested URL.
	URL string
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, first value per name.
	Headers map[string]string
	// Body is the response body as text.
	Body string
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
