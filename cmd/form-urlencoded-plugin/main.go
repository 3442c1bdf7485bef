// form-urlencoded-plugin - Pact plugin for form url encoded bodies
package main

import "github.com/getmockd/form-urlencoded-plugin/pkg/cli"

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	cli.Execute()
}
