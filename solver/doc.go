// Package solver recommends team compositions with an anytime
// branch-and-bound search.
//
// Given a roster, a trait catalogue and a scoring policy, Solve selects
// subsets of characters that maximize the trait-synergy score subject to a
// maximum team size and a role-coverage requirement, honoring forced
// members, bans and emblem bonuses. The best K teams found before the time
// budget runs out are returned.
//
// Rationale (succinct):
//  1. Ranking: candidates are sorted once by a static value (Σ weight/need
//     over scoring traits), so strong teams are met early and the bound
//     tightens quickly. Ranking never changes which teams are valid.
//  2. Search: depth-first over the ranked candidates; at each node the
//     current team is recorded when valid, then the next candidate is
//     included (first) and excluded (second).
//  3. Trait bound: score + Σ weight of traits still reachable within the
//     remaining slots. Prune when it falls below the worst retained score.
//  4. Role bound: prune when tanks or carries (cost ≥ HighCostTier) cannot
//     reach their minimum even if every remaining slot went to them.
//  5. Anytime: the wall clock is polled at every node; on expiry the search
//     unwinds through the normal rollback path and the ledger keeps what it has.
//
// Complexity:
//   - Worst case O(2ⁿ) nodes for n candidates, capped by C(n, ≤ maxTeam).
//   - Per node: O(T) for the trait bound (T scoring traits), O(traits of c)
//     for include/rollback, O(K) for a ledger insert.
//   - Memory: O(maxTeam) recursion depth beyond O(n + T) tables.
//
// Concurrency:
//   - One call is single-threaded and owns its search state exclusively.
//   - Datasets and policies are only read; concurrent calls may share them.
//
// Errors:
//   - Only malformed input fails (see solve.go). Unsatisfiable requests,
//     empty searches and expired budgets all return a (possibly empty) Result.
package solver
