// Package errors is the error vocabulary shared by slsah's commands.
//
// Construction and wrapping go through github.com/cockroachdb/errors so every
// failure carries a stack and stays matchable with [Is] and [As]. On top of
// that the package adds [ExitError], which a command returns to pick the
// process exit status and print a one-line suggestion:
//
//	return errors.NewUserError(
//	    errors.Wrap(errors.ErrInvalidAppID, "parsing argument"),
//	    "AppIDs are positive integers, e.g. 620",
//	)
//
// Deeper layers that cannot know which command is running attach hints with
// [WithHint] instead; [Suggestion] merges both for display.
package errors
