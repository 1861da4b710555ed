package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrMisconfigured         = errors.New("service misconfigured")
	ErrNoAccessToken         = errors.New("token response carried no access_token")
)

// UpstreamStatusError is implemented by errors that carry the HTTP status
// returned by an upstream service.
type UpstreamStatusError interface {
	error
	UpstreamStatus() int
}

// UpstreamStatus extracts the upstream HTTP status from err, if any.
func UpstreamStatus(err error) (int, bool) {
	var target UpstreamStatusError
	if !errors.As(err, &target) {
		return 0, false
	}
	return target.UpstreamStatus(), true
}
