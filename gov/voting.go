// The voting engine: single-vote-per-address tallying with support
// categories.

package gov

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// CastVote tallies the caller's current voting power on an Active proposal.
//
// The weight is read from the ledger at call time, not snapshotted earlier:
// the ledger owns the question of when power vests. The receipt is written
// once and never overwritten, so a second vote fails with ErrAlreadyVoted
// regardless of the support value chosen. The votes-cast counters are bumped
// only after the tally and the receipt are in place, so the counting can
// never affect the vote being cast.
//
// Returns the counted weight.
func (g *Governance) CastVote(voter common.Address, id uint64, support VoteSupport) (*big.Int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.resolve(id)
	if err != nil {
		return nil, err
	}
	if st != StateActive {
		return nil, ErrInvalidStatus
	}
	if !support.Valid() {
		return nil, ErrInvalidInput
	}
	if g.store.receipt(id, voter) != nil {
		return nil, ErrAlreadyVoted
	}

	p, _ := g.store.get(id)
	votes := new(big.Int).Set(g.ledger.GetVotes(voter))
	switch support {
	case VoteAgainst:
		p.AgainstVotes.Add(p.AgainstVotes, votes)
	case VoteFor:
		p.ForVotes.Add(p.ForVotes, votes)
	case VoteAbstain:
		p.AbstainVotes.Add(p.AbstainVotes, votes)
	}
	g.store.putReceipt(id, voter, &Receipt{
		HasVoted: true,
		Support:  support,
		Votes:    votes,
	})
	g.store.bumpVoted(voter)

	g.journal.append(&VoteCast{
		Voter:      voter,
		ProposalID: id,
		Support:    support,
		Votes:      votes,
	})
	g.log.WithFields(logrus.Fields{
		"id":      id,
		"voter":   voter.Hex(),
		"support": support.String(),
		"votes":   votes.String(),
	}).Info("vote cast")
	return new(big.Int).Set(votes), nil
}
