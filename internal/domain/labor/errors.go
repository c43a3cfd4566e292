package labor

import "errors"

var (
	ErrEntryNotFound   = errors.New("time entry not found")
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrEntryLocked guards paid entries: once settled they are immutable.
	ErrEntryLocked = errors.New("time entry is paid and locked")

	// ErrNoPayableEntries means none of the requested entries belong to the
	// employee with status approved. Also what the loser of a concurrent
	// settlement race sees after the winner marks the batch paid.
	ErrNoPayableEntries = errors.New("no payable entries in batch")

	// ErrTransactionConflict maps a serialization failure; the caller may
	// retry the whole settlement, a losing retry finds no eligible entries.
	ErrTransactionConflict = errors.New("settlement transaction conflict")
)
