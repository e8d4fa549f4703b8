// Package clueindex maps clue texts to the suspect they incriminate.
package clueindex

import (
	"slices"
)

// BucketCount is the fixed number of chains in an [Index].
const BucketCount = 101

// Hash is djb2 over the bytes of key: start at 5381 and fold each byte in with h*33 + c, wrapping at 64 bits.
func Hash(key string) uint64 {
	h := uint64(5381) //nolint:mnd // djb2 seed
	for i := 0; i < len(key); i++ {
		h = (h << 5) + h + uint64(key[i]) //nolint:mnd // h*33
	}
	return h
}

func bucketIdx(key string) uint64 {
	return Hash(key) % BucketCount
}

type entry struct {
	clue    string
	suspect string
	next    *entry
}

// Pair associates a clue with a suspect.
type Pair struct {
	Clue    string
	Suspect string
}

// Index is a chained hash table. It is built once and only read afterwards.
type Index struct {
	buckets [BucketCount]*entry
	size    int
}

// New inserts every pair in order. Duplicate clues are kept; the last inserted one shadows the others.
func New(pairs []Pair) *Index {
	index := &Index{} //nolint:exhaustruct // zero buckets are empty chains
	for _, p := range pairs {
		index.Insert(p.Clue, p.Suspect)
	}
	return index
}

// Insert prepends the pair to its bucket chain without checking for an existing clue.
func (idx *Index) Insert(clue string, suspect string) {
	b := bucketIdx(clue)
	idx.buckets[b] = &entry{clue: clue, suspect: suspect, next: idx.buckets[b]}
	idx.size++
}

// Lookup returns the suspect of the most recently inserted pair whose clue matches exactly.
func (idx *Index) Lookup(clue string) (string, bool) {
	for e := idx.buckets[bucketIdx(clue)]; e != nil; e = e.next {
		if e.clue == clue {
			return e.suspect, true
		}
	}
	return "", false
}

// Len returns the number of inserted pairs, duplicates included.
func (idx *Index) Len() int {
	return idx.size
}

// Suspects returns the distinct suspects in ascending order.
func (idx *Index) Suspects() []string {
	var suspects []string
	for _, head := range idx.buckets {
		for e := head; e != nil; e = e.next {
			suspects = append(suspects, e.suspect)
		}
	}
	slices.Sort(suspects)
	return slices.Compact(suspects)
}
