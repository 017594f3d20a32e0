package errors

import (
	"fmt"
	"strings"
)

// MigrationHint is attached to every legacy configuration error.
const MigrationHint = "loader-style configuration was removed; use css_filename, css_regexp, chunks, position and minify instead"

// Config errors

func LegacyConfiguration(shape string) *StyleExtError {
	return New(CategoryConfig, SeverityFatal, "legacy configuration detected ("+shape+") - "+MigrationHint).
		WithContext("shape", shape)
}

func InvalidPosition(value string, allowed []string) *StyleExtError {
	msg := fmt.Sprintf("invalid position %q (allowed: %s)", value, strings.Join(allowed, ", "))
	return New(CategoryConfig, SeverityFatal, msg).
		WithContext("value", value).
		WithContext("allowed", allowed)
}

func InvalidPattern(pattern string, cause error) *StyleExtError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "invalid css_regexp").
		WithContext("pattern", pattern)
}

func UnknownChunk(name string) *StyleExtError {
	return New(CategoryConfig, SeverityWarning, fmt.Sprintf("chunks: no entrypoint named %q", name)).
		WithContext("chunk", name)
}

func ConfigRead(path string, cause error) *StyleExtError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "failed to read configuration").
		WithContext("path", path)
}

// Mutation errors

func MinifyFailed(asset string, cause error) *StyleExtError {
	return Wrap(cause, CategoryMutation, SeverityError, "stylesheet minification failed").
		WithContext("asset", asset)
}

func AssetMissing(asset string) *StyleExtError {
	return New(CategoryMutation, SeverityError, "resolved stylesheet is not in the compilation").
		WithContext("asset", asset)
}

func MalformedPayload(stage, reason string) *StyleExtError {
	return New(CategoryMutation, SeverityError, "malformed html plugin payload").
		WithContext("stage", stage).
		WithContext("reason", reason)
}

func RenderFailed(stage string, cause error) *StyleExtError {
	return Wrap(cause, CategoryMutation, SeverityError, "failed to rewrite html document").
		WithContext("stage", stage)
}

// Lifecycle errors

func CallbackPanic(stage string, recovered any) *StyleExtError {
	return New(CategoryLifecycle, SeverityError, fmt.Sprintf("callback panicked: %v", recovered)).
		WithContext("stage", stage)
}

func UnexpectedArgument(event string, arg any) *StyleExtError {
	return New(CategoryLifecycle, SeverityError, fmt.Sprintf("unexpected argument type %T", arg)).
		WithContext("event", event)
}

// Host errors

func InputError(operation string, cause error) *StyleExtError {
	return Wrap(cause, CategoryInput, SeverityFatal, "failed to load build input").
		WithContext("operation", operation)
}

func OutputError(path string, cause error) *StyleExtError {
	return Wrap(cause, CategoryOutput, SeverityFatal, "failed to write build output").
		WithContext("path", path)
}

func InternalError(message string, cause error) *StyleExtError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
