package counter

import "fmt"

// Error is a rejection raised by a counter transition. Codes and names are
// stable and safe to send to callers.
type Error struct {
	code    uint32
	name    string
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Code() uint32 {
	return e.code
}

func (e *Error) Name() string {
	return e.name
}

func (e *Error) String() string {
	return fmt.Sprintf("%s (%d): %s", e.name, e.code, e.message)
}

var (
	ErrUnauthorized = &Error{
		code:    6000,
		name:    "Unauthorized",
		message: "You are not authorized to perform this action.",
	}
	ErrMaxCountExceeded = &Error{
		code:    6001,
		name:    "MaxCountExceeded",
		message: "You cannot increment more.",
	}
	ErrMinCountSubceeded = &Error{
		code:    6002,
		name:    "MinCountSubceeded",
		message: "You cannot decrement more.",
	}
)

var rejections = []*Error{ErrUnauthorized, ErrMaxCountExceeded, ErrMinCountSubceeded}

// ErrorFromCode returns the counter error with the given code, or nil.
func ErrorFromCode(code uint32) *Error {
	for _, err := range rejections {
		if err.code == code {
			return err
		}
	}

	return nil
}

// ErrorFromName returns the counter error with the given name, or nil.
func ErrorFromName(name string) *Error {
	for _, err := range rejections {
		if err.name == name {
			return err
		}
	}

	return nil
}
