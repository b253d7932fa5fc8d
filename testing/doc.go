// Package testing provides test utilities for the workplace library.
//
// This package offers helpers for setting up test environments: a scriptable
// in-memory workplace service, a logger that writes to testing.T, and an
// embedded NATS server for bridge integration tests. It follows Go's
// convention of providing testing utilities in a dedicated package (similar
// to net/http/httptest).
//
// Key utilities:
//   - NewFakeService: In-memory Service with scriptable failures and call counts
//   - NewTestLogger: Logger writing to the test log
//   - StartEmbeddedNATS: Single in-process NATS server for bridge tests
//
// Example usage:
//
//	import (
//	    "testing"
//	    wptest "github.com/claimdesk/workplace/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    svc := wptest.NewFakeService()
//	    // Use svc as the coordinator's Service
//	}
package testing
