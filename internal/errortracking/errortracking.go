package errortracking

import (
	"net/http"

	"gitlab.com/gitlab-org/labkit/errortracking"
)

// Initialize configures Sentry reporting. It is a no-op when dsn is empty.
func Initialize(dsn, environment, version string) error {
	if dsn == "" {
		return nil
	}

	return errortracking.Initialize(
		errortracking.WithSentryDSN(dsn),
		errortracking.WithSentryEnvironment(environment),
		errortracking.WithVersion(version),
		errortracking.WithLoggerName("serve-static"),
	)
}

// CaptureOption alias to avoid importing labkit/errortracking in internal packages
type CaptureOption = errortracking.CaptureOption

// WithField alias to avoid importing labkit/errortracking in internal packages
func WithField(key, value string) CaptureOption {
	return errortracking.WithField(key, value)
}

// CaptureErrWithReqAndStackTrace reports err together with the request it
// happened in, the stack trace and any additional fields
func CaptureErrWithReqAndStackTrace(err error, r *http.Request, fields ...CaptureOption) {
	opts := append(
		fields,
		errortracking.WithContext(r.Context()),
		errortracking.WithRequest(r),
		errortracking.WithStackTrace(),
	)

	errortracking.Capture(err, opts...)
}

// CaptureErrWithStackTrace reports an error raised outside of a request
func CaptureErrWithStackTrace(err error) {
	errortracking.Capture(err, errortracking.WithStackTrace())
}
