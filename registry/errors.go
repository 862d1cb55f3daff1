// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"errors"
)

// Category classifies registry errors.
type Category int

const (
	// CategoryNone is the category of errors not raised by the registry, e.g. storage failures.
	CategoryNone Category = iota
	// CategoryValidation errors reject bad arguments before any mutation.
	CategoryValidation
	// CategoryConflict errors report a violated precondition on record state.
	CategoryConflict
	// CategoryArithmetic errors report a counter that would overflow.
	CategoryArithmetic
	// CategoryExternal errors come from the reward issuer or the treasury.
	CategoryExternal
)

func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryConflict:
		return "conflict"
	case CategoryArithmetic:
		return "arithmetic"
	case CategoryExternal:
		return "external"
	default:
		return "internal"
	}
}

// Error is a classified registry error.
// errors.Is matches two Errors by Code, so a sentinel matches its wrapped instances.
type Error struct {
	Code     string
	Category Category
	Message  string
	cause    error
}

func newError(code string, category Category, message string) *Error {
	return &Error{Code: code, Category: category, Message: message}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// wrap returns a copy of e caused by err.
func (e *Error) wrap(err error) *Error {
	cpy := *e
	cpy.cause = err
	return &cpy
}

var (
	ErrInvalidName       = newError("InvalidName", CategoryValidation, "invalid challenge name")
	ErrInvalidURI        = newError("InvalidURI", CategoryValidation, "invalid challenge uri")
	ErrInvalidAmount     = newError("InvalidAmount", CategoryValidation, "stake amount must be positive")
	ErrChallengeNotFound = newError("ChallengeNotFound", CategoryValidation, "challenge not found")
	ErrPlayerNotFound    = newError("PlayerNotFound", CategoryValidation, "player stake not found")

	ErrAlreadyExists     = newError("AlreadyExists", CategoryConflict, "challenge already exists")
	ErrChallengeInactive = newError("ChallengeInactive", CategoryConflict, "challenge is not active")
	ErrInsufficientStake = newError("InsufficientStake", CategoryConflict, "challenge has not reached its required stake")
	ErrReentrantCall     = newError("ReentrantCall", CategoryConflict, "reentrant registry call")

	ErrArithmeticOverflow = newError("ArithmeticOverflow", CategoryArithmetic, "stake counter overflow")

	ErrRewardIssuanceFailed = newError("RewardIssuanceFailed", CategoryExternal, "reward issuance failed")
	ErrTransferFailed       = newError("TransferFailed", CategoryExternal, "stake transfer failed")
)

// CategoryOf returns the category of err, CategoryNone if err is not a registry error.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return CategoryNone
}

// CodeOf returns the code of err, empty if err is not a registry error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
