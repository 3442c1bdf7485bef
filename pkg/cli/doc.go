// Package cli implements the form-urlencoded-plugin command line.
//
// With no subcommand the binary serves the plugin over gRPC and writes the
// start-up handshake the plugin driver waits for. The configure, compare
// and generate subcommands run the content engines without a driver.
package cli
