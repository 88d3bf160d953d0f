package ledger

import "errors"

var (
	ErrInvalidEntryType   = errors.New("ledger: invalid entry type")
	ErrInvalidAmount      = errors.New("ledger: amount must be a non-negative number")
	ErrInvalidDate        = errors.New("ledger: date must be YYYY-MM-DD")
	ErrMissingDescription = errors.New("ledger: description is required")
	ErrInvalidID          = errors.New("ledger: id must be an integer")
	ErrUnknownFilter      = errors.New("ledger: unknown filter key")
)
