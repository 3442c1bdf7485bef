// Package logging configures the plugin's structured logger.
//
// The logger wraps log/slog. Output defaults to stderr because the plugin host
// reads the start-up handshake from stdout, so nothing else may be written
// there.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	logger.Info("plugin started", "port", 50051)
//
// Components take a *slog.Logger through an option and fall back to Nop.
package logging
