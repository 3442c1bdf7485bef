// Package generators produces replacement values for generated form fields.
//
// A Generator is a type name plus parameters as sent by the host, for example
//
//	generators.Generator{Type: "RandomInt", Values: map[string]any{"min": 1.0, "max": 9.0}}
//
// The Engine evaluates it, taking the current field value as the seed. When no
// random source is configured the package-level math/rand/v2 source is used;
// WithRand installs a seeded source for reproducible output.
//
// Supported types: RandomInt, RandomDecimal, RandomHexadecimal, RandomString,
// RandomBoolean, Uuid, Regex, Date, Time, DateTime and ProviderState.
package generators
