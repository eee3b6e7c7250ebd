package error

import "errors"

var (
	ErrEmptyInput     = errors.New("input cannot be empty")
	ErrNoActiveDevice = errors.New("no active playback device")
	ErrNothingPlaying = errors.New("nothing is playing")
	ErrNoResults      = errors.New("no search results")
	ErrEmptyResponse  = errors.New("empty model response")
	ErrTokenExpired   = errors.New("access token expired")
)
