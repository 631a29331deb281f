package tally

import "github.com/veilvote/veilvote/pkg/math/curve"

// TallyDecryptor finishes validated tallies, owning the discrete-log table
// so it can be shared across proposals with the same vote bound.
type TallyDecryptor struct {
	table *BabyStepGiantStep
}

// NewTallyDecryptor builds a decryptor for counts up to absMaxVotes. With a
// bound of zero no table is built, and only all-zero tallies decrypt.
func NewTallyDecryptor(group curve.Curve, absMaxVotes uint64) TallyDecryptor {
	if absMaxVotes == 0 {
		return TallyDecryptor{}
	}
	return TallyDecryptor{table: NewBabyStepGiantStep(group, absMaxVotes)}
}

// Table exposes the underlying table, or nil for a zero bound.
func (d TallyDecryptor) Table() *BabyStepGiantStep {
	return d.table
}

// Decrypt recovers the per-option counts from a validated tally.
func (d TallyDecryptor) Decrypt(v *ValidatedTally) (*Tally, error) {
	points := v.decryptedPoints()
	votes := make([]uint64, len(points))
	for i, p := range points {
		if d.table == nil {
			if !p.IsIdentity() {
				return nil, ErrMaxLogExceeded
			}
			continue
		}
		n, err := d.table.DiscreteLog(p)
		if err != nil {
			return nil, err
		}
		votes[i] = n
	}
	return &Tally{Votes: votes}, nil
}
