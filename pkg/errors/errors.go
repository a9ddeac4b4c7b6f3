package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeNotFound          Code = "NOT_FOUND"
	CodeLoadFailure       Code = "LOAD_FAILURE"
	CodeStorageParse      Code = "STORAGE_PARSE_ERROR"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeEmptyCart         Code = "EMPTY_CART"
	CodeConfirmPending    Code = "CONFIRMATION_PENDING"
	CodeDependency        Code = "DEPENDENCY_ERROR"
	CodeInternal          Code = "INTERNAL_ERROR"
)

type Metadata struct {
	Recoverable    bool
	Informational  bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Recoverable:    true,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		Recoverable:    true,
		PublicMessage:  "resource not found",
		DetailsAllowed: false,
	},
	CodeLoadFailure: {
		Recoverable:    false,
		PublicMessage:  "catalog could not be loaded, please reload",
		DetailsAllowed: false,
	},
	CodeStorageParse: {
		Recoverable:    true,
		PublicMessage:  "saved data was discarded",
		DetailsAllowed: true,
	},
	CodeInsufficientStock: {
		Recoverable:    true,
		PublicMessage:  "not enough stock available",
		DetailsAllowed: true,
	},
	CodeEmptyCart: {
		Recoverable:    true,
		Informational:  true,
		PublicMessage:  "the cart is empty",
		DetailsAllowed: false,
	},
	CodeConfirmPending: {
		Recoverable:    true,
		Informational:  true,
		PublicMessage:  "confirmation required",
		DetailsAllowed: true,
	},
	CodeDependency: {
		Recoverable:    true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
	CodeInternal: {
		Recoverable:    true,
		PublicMessage:  "internal error",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// Informational reports whether the error represents a benign no-op
// outcome (empty-cart class) rather than a failure.
func (e *Error) Informational() bool {
	if e == nil {
		return false
	}
	return MetadataFor(e.code).Informational
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
