// Package testing provides test utilities for the stallwatch library.
//
// This package offers helpers for setting up test environments: an embedded
// NATS server for sink integration tests, a testing.T-backed logger, and a
// blocking-worker harness. It follows Go's convention of providing testing
// utilities in a dedicated package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: In-process NATS server for NATS sink tests
//   - NewTestLogger: Logger that writes through testing.T
//   - BlockableWorker: A registered worker goroutine with controllable stalls
//
// Example usage:
//
//	import (
//	    "testing"
//	    stalltest "github.com/stallkit/stallwatch/testing"
//	)
//
//	func TestMySink(t *testing.T) {
//	    _, nc := stalltest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
