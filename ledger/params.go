// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// MaxSeedLength is the longest single seed accepted by address derivation.
	MaxSeedLength = 32
	// MaxNameLength is the longest challenge name in bytes. Names are used as a seed.
	MaxNameLength = MaxSeedLength
	// MaxURILength is the longest metadata uri in bytes.
	MaxURILength = 200
)

var (
	ErrEmptyName   = errors.New("empty challenge name")
	ErrNameTooLong = fmt.Errorf("challenge name exceeds %d bytes", MaxNameLength)
	ErrBadEncoding = errors.New("invalid utf-8 encoding")
	ErrURITooLong  = fmt.Errorf("uri exceeds %d bytes", MaxURILength)
)

// ValidateName checks a challenge name can be stored and used as a seed.
func ValidateName(name string) error {
	if len(name) == 0 {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !utf8.ValidString(name) {
		return ErrBadEncoding
	}
	return nil
}

// ValidateURI checks a metadata uri fits the record.
func ValidateURI(uri string) error {
	if len(uri) > MaxURILength {
		return ErrURITooLong
	}
	if !utf8.ValidString(uri) {
		return ErrBadEncoding
	}
	return nil
}
