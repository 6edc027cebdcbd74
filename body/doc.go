// Package body encodes request parameters into an HTTP request body.
//
// Parameters are a tree of Values. A tree whose root is a Mapping with no File
// anywhere inside is rendered as application/x-www-form-urlencoded text. A
// Mapping that holds at least one File is rendered as multipart/form-data.
// Every other value is handed back untouched so callers can supply a body
// that is already encoded.
package body
