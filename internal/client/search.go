package client

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/sakif/pokedex/internal/model"
)

// DefaultSearchThreshold is the maximum edit distance a name may be from the
// search term and still count as a match. Loose enough that "pikchu" finds
// Pikachu, tight enough that "mew" doesn't match half the collection.
const DefaultSearchThreshold = 10

// FilterByName narrows a collection to records whose names fuzzy-match the
// search term, best matches first.
//
// WHY CLIENT-SIDE?
// The whole collection is already in hand after List, and personal
// collections are small — filtering locally gives instant as-you-type
// results with zero extra requests, and the server keeps no search API to
// maintain.
//
// Matching is case-insensitive and unicode-normalized (RankFindNormalizedFold),
// so "pika" matches "Pikachu" and "flabebe" matches "Flabébé". An empty term
// returns the collection unchanged.
func FilterByName(pokemon []model.Pokemon, term string, threshold int) []model.Pokemon {
	if term == "" {
		return pokemon
	}

	type ranked struct {
		pokemon model.Pokemon
		rank    int
	}

	matches := make([]ranked, 0, len(pokemon))
	for _, p := range pokemon {
		// Rank is the Levenshtein distance between term and name, or -1
		// when the term's characters don't appear in order at all.
		rank := fuzzy.RankMatchNormalizedFold(term, p.Name)
		if rank >= 0 && rank <= threshold {
			matches = append(matches, ranked{pokemon: p, rank: rank})
		}
	}

	// Closest first; SliceStable keeps collection order among ties.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	result := make([]model.Pokemon, len(matches))
	for i, m := range matches {
		result[i] = m.pokemon
	}
	return result
}
