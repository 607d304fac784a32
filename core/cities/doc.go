// Package cities normalizes noisy free-text city names from shipping
// addresses into canonical values.
//
// Resolution runs through a tiered strategy in strict precedence order:
//
//  1. Alias lookup: an exact (lowercased) hit in the alias map.
//  2. Fuzzy match: normalized edit distance against the canonical city
//     list with a 0.85 minimum ratio.
//  3. Address hint: scan the canonical list for a name appearing inside
//     the first address line.
//
// The canonical list is stored as an ordered slice, so fuzzy tie-breaks
// and hint scans resolve to the first entry in corpus order and the
// whole pipeline is deterministic. Unresolvable input passes through
// unchanged rather than failing the export.
package cities
