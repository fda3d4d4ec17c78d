// Package httputil holds the retry policy for outbound HTTP calls.
//
// [CheckResponse] classifies a response: 2xx passes, 429 and 5xx become a
// [RetryableError] (429 carrying the server's Retry-After), anything else a
// plain [StatusError]. [Retry] repeats retryable failures with doubling
// backoff capped by the policy:
//
//	err := httputil.Retry(ctx, httputil.Policy{Attempts: 3, Delay: time.Second}, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckResponse(resp)
//	})
//
// The planning backend client in package planner is the main user.
package httputil
