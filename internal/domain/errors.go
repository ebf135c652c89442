package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrConfiguration = errors.New("invalid configuration")
	ErrNoFrames      = fmt.Errorf("%w: no frames matched", ErrConfiguration)
	ErrDecode        = errors.New("frame decode failed")
	ErrSink          = errors.New("video sink failed")
)
