// Package onem2m provides the oneM2M protocol client used to synchronize
// this node with its MN-CSE.
//
// This package manages:
//   - The immutable resource path hierarchy built once at startup (Paths)
//   - Idempotent resource provisioning (CreateIfAbsent: 201 and 409 both
//     count as success)
//   - Attribute updates on flex-containers (Update: 200/204)
//   - Subscription creation with a notification target (Subscribe)
//   - Bounded startup readiness probing (ProbeReady: 200/403 means ready)
//
// Every request carries the oneM2M headers X-M2M-Origin, a fresh X-M2M-RI
// correlation identifier, and X-M2M-RVI. Operations return a Result value
// describing the outcome; they never panic and never surface transport
// failures as Go errors, because a degraded link to the CSE is an expected
// steady-state condition for an edge node.
package onem2m
