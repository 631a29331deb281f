package tally

import "errors"

var (
	// ErrTooFewOptions is returned when a tally is created without options.
	ErrTooFewOptions = errors.New("tally: at least one option is required")

	// ErrCiphertextSize is returned when a ballot covers a different number
	// of options than the tally.
	ErrCiphertextSize = errors.New("tally: ballot size does not match the tally")

	// ErrShareCount is returned when the decrypt shares do not line up with
	// the committee or the options.
	ErrShareCount = errors.New("tally: decrypt share count mismatch")

	// ErrDecryptionShare is returned when a member's decrypt share fails its
	// discrete-log-equality proof.
	ErrDecryptionShare = errors.New("tally: invalid decryption share")

	// ErrMaxLogExceeded is returned when a decrypted count exceeds the
	// discrete-log search bound.
	ErrMaxLogExceeded = errors.New("tally: exceeded maximum number of votes in discrete log search")

	// ErrTallyMismatch is returned when published results do not match the
	// decrypted tally.
	ErrTallyMismatch = errors.New("tally: results do not match the decrypted tally")
)
