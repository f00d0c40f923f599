// Package automation contains the cross-channel rule linking the occupancy
// sensor to the lamp.
//
// The rule is stateless: whenever the occupancy channel confirms a state
// change upstream, the rule derives a lamp switch command and pushes it to
// the lamp's binarySwitch resource. Occupancy reporting and lamp automation
// are independent best-effort operations; a failed lamp push is logged and
// never rolls back or retries the occupancy report.
package automation
