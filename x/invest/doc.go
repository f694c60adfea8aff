/*
Package invest implements crowd investment into proposals.

Anyone can create a proposal. Anyone can invest into any proposal, which
moves the invested funds from the investor wallet into the escrow account of
that proposal and records an Investment. The authority, configured once for
the whole chain, accepts or rejects pending proposals. Once a proposal is
accepted, the authority distributes revenue held by a vault to all investors
of that proposal, in proportion to their stake:

	share = floor(investment amount * revenue / total invested)

Rewards can be distributed only once per proposal. A distribution either
pays every share or, if any payout fails, leaves no trace at all.
*/
package invest
