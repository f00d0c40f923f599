// Package actuator holds the local mirror of the lamp's power and colour
// state and the refresh task that drives the physical driver from it.
//
// Power and colour are independent fields backed by independent remote
// sub-resources: updating one never implicitly changes the other. The
// notification listener is the only writer; the refresh task only reads.
// A single mutex guards both fields so readers never observe a torn update.
package actuator
