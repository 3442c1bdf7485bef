// Package field parses the configuration keys that bind a matching rule or
// generator to a form field.
//
// A field key has the shape
//
//	field:<name>
//
// where name is one or more ASCII letters. Whitespace between the tokens is
// ignored, anything else is rejected:
//
//	name, err := field.Parse("field:age")   // "age"
//	_, err = field.Parse("field:first_name")  // error
//
// The same name is used as the rule and generator path segment, see Path.
package field
