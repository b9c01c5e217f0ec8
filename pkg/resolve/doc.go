// Package resolve finds the latest version matching each of an ordered
// list of qualifiers.
//
// # Consumption
//
// Qualifiers are applied in input order against a shared pool of
// candidates. Every candidate a qualifier matches is removed from the
// pool, whether or not it was the winner, so later qualifiers only see
// what earlier ones left behind:
//
//	candidates: 1.0.0 1.1.4 1.2.3 1.3.1
//	~1.1 -> 1.1.4   (takes 1.1.4)
//	~1.3 -> 1.3.1   (takes 1.3.1)
//	^1   -> 1.2.3   (takes 1.0.0 1.2.3)
//
// The same qualifiers in a different order can give different results.
// Pre-releases are removed from the pool once, before matching, unless
// they are requested.
//
// # Usage
//
// [Resolve] is the pure algorithm. [Runner] adds the fetch:
//
//	runner := resolve.NewRunner(mavenClient, logger)
//	result, err := runner.Run(ctx, resolve.NewRequest(coord, qualifiers, false))
package resolve
