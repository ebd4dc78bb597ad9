package structs

import (
	ssz "github.com/ferranbt/fastssz"
	"github.com/flashbots/go-boost-utils/types"
)

const MaxWithdrawalsPerPayload = 16

// Withdrawals is the withdrawal list of a capella (or later) payload.
// A nil list means "not provided", an empty one means "no withdrawals".
type Withdrawals []*Withdrawal

// Root returns the SSZ list root that replaces the withdrawals in a header.
func (ws Withdrawals) Root() (types.Root, error) {
	hw := HashWithdrawals{Withdrawals: ws}
	root, err := hw.HashTreeRoot()
	if err != nil {
		return types.Root{}, err
	}
	return types.Root(root), nil
}

// HashWithdrawals wraps Withdrawals so they can be hashed as an SSZ list.
type HashWithdrawals struct {
	Withdrawals Withdrawals `ssz-max:"16"`
}

// HashTreeRoot ssz hashes the HashWithdrawals object
func (w *HashWithdrawals) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(w)
}

// HashTreeRootWith ssz hashes the HashWithdrawals object with a hasher
func (w *HashWithdrawals) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	{
		subIndx := hh.Index()
		num := uint64(len(w.Withdrawals))
		if num > MaxWithdrawalsPerPayload {
			return ssz.ErrIncorrectListSize
		}
		for _, elem := range w.Withdrawals {
			if elem == nil {
				elem = &Withdrawal{}
			}
			if err = elem.HashTreeRootWith(hh); err != nil {
				return
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, MaxWithdrawalsPerPayload)
	}

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the HashWithdrawals object
func (w *HashWithdrawals) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(w)
}

type Withdrawal struct {
	Index          uint64        `json:"index,string"`
	ValidatorIndex uint64        `json:"validator_index,string"`
	Address        types.Address `json:"address" ssz-size:"20"`
	Amount         uint64        `json:"amount,string"`
}

func (w *Withdrawal) SizeSSZ() (size int) {
	return 44
}

// HashTreeRoot ssz hashes the Withdrawal object
func (w *Withdrawal) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(w)
}

// HashTreeRootWith ssz hashes the Withdrawal object with a hasher
func (w *Withdrawal) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	hh.PutUint64(w.Index)
	hh.PutUint64(w.ValidatorIndex)
	hh.PutBytes(w.Address[:])
	hh.PutUint64(w.Amount)

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the Withdrawal object
func (w *Withdrawal) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(w)
}
