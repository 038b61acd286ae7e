// Package logging builds the slog loggers slsah commands log through.
//
// The console gets either [ConsoleHandler] lines or JSON depending on
// --log-format; --log-file adds a second JSON sink. Every sink masks Steam
// credentials before writing:
//
//	logger := logging.New(logging.Options{
//		Level:   logging.LevelFromVerbosity(verbose),
//		Format:  logging.FormatText,
//		Console: cmd.ErrOrStderr(),
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Packages below the command layer call [FromContext] and never construct
// loggers themselves. Tests use [ForTest].
package logging
