package errors

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration          = errors.New("configuration error")
	ErrInvalidPercentileRange = errors.New("invalid percentile range")
	ErrIO                     = errors.New("io failure")
	ErrEmptyIndex             = errors.New("empty index")
	ErrEmptyVocabulary        = errors.New("empty vocabulary")
	ErrDegenerateTerm         = errors.New("degenerate term")
)

const (
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitIO            = 3
	ExitEmpty         = 4
	ExitDegenerate    = 5
)

type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, exitCode int, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  message,
		ExitCode: exitCode,
	}
}

func Newf(sentinel error, exitCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: exitCode,
	}
}

// IOf wraps cause as an ErrIO failure while keeping it reachable through
// errors.Is / errors.As.
func IOf(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, fmt.Sprintf(format, args...), cause)
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.ExitCode != 0 {
		return appErr.ExitCode
	}

	switch {
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrInvalidPercentileRange):
		return ExitConfiguration
	case errors.Is(err, ErrIO):
		return ExitIO
	case errors.Is(err, ErrEmptyIndex), errors.Is(err, ErrEmptyVocabulary):
		return ExitEmpty
	case errors.Is(err, ErrDegenerateTerm):
		return ExitDegenerate
	default:
		return ExitFailure
	}
}
