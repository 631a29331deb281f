package committee

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veilvote/veilvote/pkg/ballot"
	"github.com/veilvote/veilvote/pkg/elgamal"
	"github.com/veilvote/veilvote/pkg/math/curve"
	"github.com/veilvote/veilvote/pkg/math/sample"
	"github.com/veilvote/veilvote/pkg/pedersen"
)

// runDKG runs the first phase for n members with the given threshold and
// returns the commitment key, the channel keys and the phase-one states.
func runDKG(t *testing.T, n, threshold int) (pedersen.CommitmentKey, []MemberCommunicationKey, []*MemberState1) {
	t.Helper()
	group := curve.Ristretto255{}
	ck := pedersen.NewCommitmentKey(group, []byte("dkg test"))

	commKeys := make([]MemberCommunicationKey, n)
	commPKs := make([]MemberCommunicationPublicKey, n)
	for i := range commKeys {
		commKeys[i] = NewMemberCommunicationKey(rand.Reader, group)
		commPKs[i] = commKeys[i].PublicKey()
	}

	states := make([]*MemberState1, n)
	for i := range states {
		var err error
		states[i], err = NewMemberState(rand.Reader, ck, threshold, i+1, commPKs)
		require.NoError(t, err)
	}
	return ck, commKeys, states
}

// fetchFor gathers what member receiver (1-based) fetches from every sender.
func fetchFor(states []*MemberState1, receiver int) []MemberFetchedState {
	fetched := make([]MemberFetchedState, 0, len(states))
	for s, state := range states {
		fetched = append(fetched, MemberFetchedState{
			Sender:                s + 1,
			Shares:                state.EncryptedShares()[receiver-1],
			CommittedCoefficients: state.CommittedCoefficients(),
		})
	}
	return fetched
}

func TestDKG(t *testing.T) {
	group := curve.Ristretto255{}
	_, commKeys, states := runDKG(t, 3, 2)

	for i, state := range states {
		phase2 := state.Phase2(commKeys[i], fetchFor(states, i+1))
		assert.Empty(t, phase2.Misbehaving())
		assert.NoError(t, phase2.Validate())
	}

	memberPKs := make([]MemberPublicKey, len(states))
	for i, state := range states {
		memberPKs[i] = state.PublicKey()
	}
	electionKey, err := NewElectionPublicKey(memberPKs)
	require.NoError(t, err)

	// The members' combined secret decrypts what the election key encrypts.
	combined := group.NewScalar()
	for _, state := range states {
		combined.Add(state.SecretKey().SecretKey.Scalar)
	}
	m := group.NewScalar().SetUint64(42)
	ct, _ := electionKey.PublicKey.Encrypt(rand.Reader, m)
	plain := elgamal.SecretKey{Scalar: combined}.Decrypt(ct)
	assert.True(t, plain.Equal(m.ActOnBase()))
}

func TestDKGDetectsMisbehaviour(t *testing.T) {
	group := curve.Ristretto255{}
	_, commKeys, states := runDKG(t, 3, 2)

	fetched := fetchFor(states, 1)
	fetched[1].CommittedCoefficients = []curve.Point{
		sample.Scalar(rand.Reader, group).ActOnBase(),
		sample.Scalar(rand.Reader, group).ActOnBase(),
	}

	phase2 := states[0].Phase2(commKeys[0], fetched)
	misbehaving := phase2.Misbehaving()
	require.Len(t, misbehaving, 1)
	assert.Equal(t, 2, misbehaving[0].Member)
	assert.ErrorIs(t, misbehaving[0].Reason, ErrShareValidity)
	assert.ErrorIs(t, phase2.Validate(), ErrMisbehaviourDetected)
}

func TestDKGAbandonsAtThreshold(t *testing.T) {
	_, commKeys, states := runDKG(t, 3, 2)

	fetched := fetchFor(states, 1)
	other := NewMemberCommunicationKey(rand.Reader, curve.Ristretto255{})
	for i := 1; i < 3; i++ {
		resealed, err := other.PublicKey().HybridEncrypt(rand.Reader, []byte("junk"))
		require.NoError(t, err)
		fetched[i].Shares.VoteShare = resealed
	}

	phase2 := states[0].Phase2(commKeys[0], fetched)
	require.Len(t, phase2.Misbehaving(), 2)
	for _, m := range phase2.Misbehaving() {
		assert.ErrorIs(t, m.Reason, ErrShareDecryption)
	}
	assert.ErrorIs(t, phase2.Validate(), ErrTooManyMisbehaving)
}

func TestNewMemberStateValidation(t *testing.T) {
	group := curve.Ristretto255{}
	ck := pedersen.NewCommitmentKey(group, []byte("validation"))
	commPKs := make([]MemberCommunicationPublicKey, 3)
	for i := range commPKs {
		commPKs[i] = NewMemberCommunicationKey(rand.Reader, group).PublicKey()
	}

	_, err := NewMemberState(rand.Reader, ck, 2, 1, nil)
	assert.ErrorIs(t, err, ErrNoMembers)

	// 2t must exceed n.
	_, err = NewMemberState(rand.Reader, ck, 1, 1, commPKs)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewMemberState(rand.Reader, ck, 4, 1, commPKs)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewMemberState(rand.Reader, ck, 2, 0, commPKs)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = NewMemberState(rand.Reader, ck, 2, 4, commPKs)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestEncryptAndProve(t *testing.T) {
	group := curve.Ristretto255{}
	ck := pedersen.NewCommitmentKey(group, []byte("ballots"))
	kp := elgamal.NewKeypair(rand.Reader, group)
	electionKey, err := NewElectionPublicKey([]MemberPublicKey{{PublicKey: kp.Public}})
	require.NoError(t, err)

	vote, err := ballot.NewVote(4, 2)
	require.NoError(t, err)
	enc, proof := electionKey.EncryptAndProve(rand.Reader, ck, vote)
	assert.NoError(t, electionKey.VerifyBallot(ck, enc, proof))

	otherVote, err := ballot.NewVote(4, 3)
	require.NoError(t, err)
	other := ballot.Prepare(rand.Reader, electionKey.PublicKey, otherVote)
	assert.ErrorIs(t, electionKey.VerifyBallot(ck, other.Ciphertexts, proof), ErrUnitVectorProof)
}

func TestCommunicationKeyMarshal(t *testing.T) {
	group := curve.Ristretto255{}
	key := NewMemberCommunicationKey(rand.Reader, group)

	data, err := key.PublicKey().MarshalBinary()
	require.NoError(t, err)

	decoded, err := UnmarshalMemberCommunicationPublicKey(group, data)
	require.NoError(t, err)

	ct, err := decoded.HybridEncrypt(rand.Reader, []byte("hello"))
	require.NoError(t, err)
	opened, err := key.HybridDecrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), opened)

	_, err = UnmarshalMemberCommunicationPublicKey(group, data[1:])
	assert.ErrorIs(t, err, ErrKeyBytes)
}
