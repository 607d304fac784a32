// Package shopify is the upstream source-of-truth client: authenticated
// fetch of a single order by display reference and tag updates by admin id.
//
// The client is deliberately thin. All decision logic lives in the export
// and reconcile features; this package only does transport, auth, and
// payload decoding, with bounded timeouts on every call.
package shopify
