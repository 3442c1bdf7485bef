// Package plugin serves the form content engine to a Pact plugin driver.
//
// The driver speaks the io.pact.plugin.PactPlugin gRPC service. Its
// interface definition is embedded in the binary and compiled at start-up;
// requests and responses are handled as dynamic messages and converted to
// the wire types in this package through their protojson encoding.
//
// # Calls
//
//   - InitPlugin: advertises a content matcher and a content generator for
//     application/x-www-form-urlencoded
//   - UpdateCatalogue: ignored
//   - ConfigureInteraction: builds the example body, rules and generators
//     from field:<name> definitions
//   - CompareContents: compares an actual body against the expected one
//   - GenerateContent: replaces field values using generators
//
// Calls that cannot complete fail with codes.Aborted and an
// errdetails.ErrorInfo naming the reason. Comparison mismatches are part of a
// successful response.
//
// # Usage
//
//	schema, err := plugin.LoadSchema(ctx)
//	if err != nil {
//	    return err
//	}
//	srv, err := plugin.NewServer("127.0.0.1:0", plugin.New(), schema)
//	if err != nil {
//	    return err
//	}
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	defer srv.Stop(ctx, 5*time.Second)
package plugin
