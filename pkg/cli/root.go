package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command. Without a subcommand it serves.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "form-urlencoded-plugin",
		Short: "Pact plugin for application/x-www-form-urlencoded bodies",
		Long: `form-urlencoded-plugin matches and generates form url encoded request and
response bodies for Pact tests.

The plugin driver starts it with no arguments. It then listens on an ephemeral
port and prints {"port":N, "serverKey":"..."} on standard output.`,
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newConfigureCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newGenerateCmd())
	return root
}

// Execute runs the command line with os.Args.
func Execute() {
	rootCmd.SetArgs(resolveArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveArgs routes an empty command line, or one starting with a serve
// flag, to the serve command.
func resolveArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"serve"}
	}

	switch first := args[0]; {
	case first == "-h" || first == "--help":
		return args
	case first == "-v" || first == "--version":
		return []string{"version"}
	case strings.HasPrefix(first, "-"):
		return append([]string{"serve"}, args...)
	default:
		return args
	}
}
