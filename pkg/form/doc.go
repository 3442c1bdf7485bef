// Package form encodes and decodes application/x-www-form-urlencoded bodies.
//
// Unlike url.Values, a decoded Body keeps every pair in the order it appeared,
// including repeated names, so that Encode(Decode(b)) reproduces b whenever b
// needs no escaping normalization.
package form
