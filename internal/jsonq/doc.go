// Package jsonq walks into a parsed JSON document one step at a time.
//
// # Cursor
//
// A [Navigator] is an immutable cursor: either a position (a [gjson.Result] plus its [Mode]) or a failure.
// Every traversal method returns a new Navigator. Once a step fails the cursor stays failed, keeps the
// first error, and ignores every later step, so a whole lookup is written as one chain and checked once:
//
//	nav := jsonq.Parse(body).
//		Object("tracks").
//		Array("items").
//		ObjectAt(0).
//		Field("preview_url")
//	if !nav.OK() {
//		return nav.Err()
//	}
//
// # Steps
//
// The same traversal can be expressed as data with [Step] values and folded with [Navigator.Walk]:
//
//	path := []jsonq.Step{jsonq.Key("tracks"), jsonq.ArrayKey("items"), jsonq.Index(0), jsonq.FieldKey("preview_url")}
//	nav := jsonq.Parse(body).Walk(path...)
//
// # Errors
//
// Failures wrap one of [ErrInvalidJSON], [ErrKeyNotFound], [ErrTypeMismatch], [ErrIndexOutOfRange] or
// [ErrWrongMode], so callers can branch with [errors.Is] while the message names the key or index.
//
// The package is read-only: it never mutates or re-encodes the document.
package jsonq
