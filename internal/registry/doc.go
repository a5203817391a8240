// Package registry maps the runner type names used in plan files (e.g.
// "http_request") to the compiled Go handlers that implement them. The
// registry is populated by modules at startup and validated before any plan
// executes, so a mismatch between configuration and code fails fast instead
// of mid-run.
package registry
