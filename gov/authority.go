// Centralized role checks. Every mutating operation of the engine consults
// the Authority instead of inspecting caller addresses itself, so the
// lifecycle code stays free of scattered identity guards.

package gov

import (
	"github.com/ethereum/go-ethereum/common"
)

// Authority knows which accounts hold which governance roles.
//
// Roles:
//   - admin: verifies proposals, vetoes, and may tune the basis-point
//     thresholds.
//   - executor: the delayed-execution authority (the timelock's account);
//     the only role allowed to retune the voting windows or migrate the
//     voting-power source.
//   - ledger: recorded separately by the engine; see UpdateCommunityScore.
type Authority struct {
	admins   map[common.Address]bool
	executor common.Address
}

// NewAuthority builds the role table. At least one admin and a non-zero
// executor are required.
func NewAuthority(admins []common.Address, executor common.Address) (*Authority, error) {
	if len(admins) == 0 {
		return nil, ErrZeroAddress
	}
	if executor == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	set := make(map[common.Address]bool, len(admins))
	for _, a := range admins {
		if a == (common.Address{}) {
			return nil, ErrZeroAddress
		}
		set[a] = true
	}
	return &Authority{admins: set, executor: executor}, nil
}

// IsAdmin reports whether the account holds the admin role.
func (a *Authority) IsAdmin(addr common.Address) bool {
	return a.admins[addr]
}

// Executor returns the delayed-execution authority account.
func (a *Authority) Executor() common.Address {
	return a.executor
}

// requireAdmin gates admin-only operations.
func (a *Authority) requireAdmin(caller common.Address) error {
	if !a.admins[caller] {
		return ErrUnauthorized
	}
	return nil
}

// requireExecutor gates operations reserved for the timelock authority.
func (a *Authority) requireExecutor(caller common.Address) error {
	if caller != a.executor {
		return ErrUnauthorized
	}
	return nil
}

// requireExecutorOrAdmin gates operations open to either role.
func (a *Authority) requireExecutorOrAdmin(caller common.Address) error {
	if caller != a.executor && !a.admins[caller] {
		return ErrUnauthorized
	}
	return nil
}
