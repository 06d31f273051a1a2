package domain

import "errors"

var (
	// ErrEmptyBank indicates the question bank loaded with no entries.
	ErrEmptyBank = errors.New("question bank is empty")
	// ErrBankExhausted is returned when a sample asks for more questions than the bank holds.
	ErrBankExhausted = errors.New("not enough questions in bank")
	// ErrBankNotFound indicates the bank could not be located in the backing store.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrUnknownPlayer is returned when a carried-over name has no roster entry.
	ErrUnknownPlayer = errors.New("player not in roster")
	// ErrNoCredentials indicates a roster entry without a token or chat id.
	ErrNoCredentials = errors.New("player has no delivery credentials")
)
