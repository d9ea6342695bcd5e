// Package protocol owns the client<->controller envelope wire format.
//
// Ownership boundary:
// - envelope variant types and their JSON shapes
// - outbound envelope constructors
// - inbound decode with type discrimination
//
// One transport message carries exactly one envelope. Envelopes are
// self-contained; decode never depends on prior messages.
package protocol
