// Package api documents the swarmdfs HTTP API.
//
// Handlers live in api/handlers; the server is started by `swarmdfs serve`.
//
// # API Overview
//
//   - POST /v1/runs        run the playbook swarm on {"task": "..."}, returns the trace (201)
//   - GET  /v1/runs        list run summaries, newest first (?limit=N)
//   - GET  /v1/runs/{id}   fetch a stored trace
//   - GET  /health         liveness
//   - GET  /ready          readiness, includes the trace store check
//   - GET  /version        build information and the active playbook
//   - GET  /metrics        Prometheus metrics (when metrics.enabled)
//
// # Response Envelope
//
// Every JSON response uses the same envelope:
//
//	{"success": true, "data": {...}, "timestamp": "..."}
//	{"success": false, "error": {"code": "RUN_NOT_FOUND", "message": "...", "retryable": false}, "timestamp": "..."}
//
// # Error Codes
//
//	INVALID_REQUEST, INVALID_PLAYBOOK, INVALID_CONFIG  400
//	RUN_NOT_FOUND                                      404
//	EMPTY_POOL, NO_WORKER_AVAILABLE                    422
//	STORE_UNAVAILABLE                                  503
//	RUN_CANCELLED                                      504
//
// A cancelled or timed-out run still stores its partial trace; the 504 body
// carries the error and the trace can be fetched by run id afterwards.
//
// # Base URL
//
// The default base URL for the API is:
//
//	http://localhost:8080
package api
