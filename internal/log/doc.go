// Package log sets up the structured logger shared by the command-line tools.
//
// Loggers write human-readable lines to a writer (stderr in the CLI), never
// to stdout, which is reserved for extracted links. The logger travels in
// the context:
//
//	logger := log.New(os.Stderr, verbose)
//	ctx = logger.WithContext(ctx)
//
//	// deeper in the call stack
//	zerolog.Ctx(ctx).Debug().Msg("Fetching album page")
package log
