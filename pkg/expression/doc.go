// Package expression parses matching rule definitions such as
//
//	matching(type, 'Name')
//	matching(regex, '\d+', '100')
//	matching(datetime, 'yyyy-MM-dd', '2000-01-01')
//	notEmpty('Fred'), matching(type, 'Fred')
//
// into an example value, the matching rules to apply and an optional
// generator. A definition of the form matching($'name') refers to a rule set
// defined elsewhere; it is returned as a ReferenceEntry and left for the
// caller to reject or resolve.
package expression
