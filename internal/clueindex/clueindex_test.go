package clueindex_test

import (
	"github.com/myrjola/detectivequest/internal/clueindex"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
	"testing"
)

func TestHash(t *testing.T) {
	tests := []struct {
		key        string
		wantHash   uint64
		wantBucket uint64
	}{
		{key: "", wantHash: 5381, wantBucket: 28},
		{key: "a", wantHash: 177670, wantBucket: 11},
		{key: "abc", wantHash: 193485963, wantBucket: 61},
		// Multi-byte runes are hashed byte by byte and the accumulator wraps around.
		{key: "Pegadas molhadas próximas à janela", wantHash: 14555898588946326411, wantBucket: 45},
		{key: "Pegadas que seguem para o portão", wantHash: 5874077613808971160, wantBucket: 32},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := clueindex.Hash(tt.key)
			require.Equal(t, tt.wantHash, got)
			require.Equal(t, tt.wantBucket, got%clueindex.BucketCount)
		})
	}
}

func TestLookup(t *testing.T) {
	index := clueindex.New([]clueindex.Pair{
		{Clue: "Pegadas molhadas próximas à janela", Suspect: "Sr. Green"},
		{Clue: "Colar quebrado com fios de seda", Suspect: "Sra. Peacock"},
		{Clue: "Pegadas que seguem para o portão", Suspect: "Sr. Green"},
		{Clue: "Mancha de lama recente", Suspect: "Mr. Boddy"},
	})

	suspect, ok := index.Lookup("Colar quebrado com fios de seda")
	require.True(t, ok)
	require.Equal(t, "Sra. Peacock", suspect)

	suspect, ok = index.Lookup("Pegadas que seguem para o portão")
	require.True(t, ok)
	require.Equal(t, "Sr. Green", suspect)

	_, ok = index.Lookup("colar quebrado com fios de seda")
	require.False(t, ok, "lookup is case-sensitive")

	_, ok = index.Lookup("Chave antiga enferrujada")
	require.False(t, ok)

	require.Equal(t, 4, index.Len())
	require.Equal(t, []string{"Mr. Boddy", "Sr. Green", "Sra. Peacock"}, index.Suspects())
}

func TestLookup_sharedBucket(t *testing.T) {
	// "aa" and "dc" hash to bucket 56.
	require.Equal(t, clueindex.Hash("aa")%clueindex.BucketCount, clueindex.Hash("dc")%clueindex.BucketCount)

	index := clueindex.New([]clueindex.Pair{
		{Clue: "aa", Suspect: "Professor Plum"},
		{Clue: "dc", Suspect: "Dr. Orchid"},
	})
	suspect, ok := index.Lookup("aa")
	require.True(t, ok)
	require.Equal(t, "Professor Plum", suspect)
	suspect, ok = index.Lookup("dc")
	require.True(t, ok)
	require.Equal(t, "Dr. Orchid", suspect)
}

func TestLookup_duplicateClueReturnsMostRecent(t *testing.T) {
	index := clueindex.New(nil)
	_, ok := index.Lookup("Resíduo químico em um copo")
	require.False(t, ok, "empty index")

	index.Insert("Resíduo químico em um copo", "Dr. Orchid")
	index.Insert("Resíduo químico em um copo", "Sra. Peacock")

	suspect, ok := index.Lookup("Resíduo químico em um copo")
	require.True(t, ok)
	require.Equal(t, "Sra. Peacock", suspect)
	require.Equal(t, 2, index.Len())
}

func TestLookupProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clues := rapid.SliceOfN(rapid.StringN(0, 8, -1), 1, 50).Draw(t, "clues")
		suspects := rapid.SliceOfN(rapid.SampledFrom([]string{
			"Sr. Green", "Sra. Peacock", "Professor Plum", "Dr. Orchid", "Mr. Boddy",
		}), len(clues), len(clues)).Draw(t, "suspects")

		index := clueindex.New(nil)
		latest := map[string]string{}
		for i, clue := range clues {
			index.Insert(clue, suspects[i])
			latest[clue] = suspects[i]
		}

		for clue, want := range latest {
			got, ok := index.Lookup(clue)
			require.True(t, ok, "clue %q not found", clue)
			require.Equal(t, want, got, "clue %q", clue)
		}

		missing := rapid.StringN(9, 12, -1).Draw(t, "missing")
		_, ok := index.Lookup(missing)
		require.False(t, ok, "never inserted clue %q found", missing)
	})
}
