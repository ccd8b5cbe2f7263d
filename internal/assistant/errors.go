package assistant

import (
	"errors"
	"fmt"
)

// Kind separates failures the user can simply retry from ones that need an
// operator.
type Kind int

const (
	KindUnexpected Kind = iota
	KindRecoverable
)

func (k Kind) String() string {
	if k == KindRecoverable {
		return "recoverable"
	}
	return "unexpected"
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of the first *Error in err's chain. Errors that
// were never classified are unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

func recoverable(op string, err error) error {
	return &Error{Kind: KindRecoverable, Op: op, Err: err}
}

func unexpected(op string, err error) error {
	return &Error{Kind: KindUnexpected, Op: op, Err: err}
}
