// Package dedupe guards against applying the same form submission twice.
//
// Every form the web UI renders carries a fresh nonce. Handlers call
// Guard.Claim before acting; a nonce that was claimed within the TTL is a
// replay (browser refresh, double click, back-and-resubmit) and is skipped.
package dedupe
