package engine

import (
	"slices"
	"time"

	"github.com/bamsammich/sneaker/internal/catalog"
	"github.com/bamsammich/sneaker/internal/manifest"
)

// Diff compares a home inventory with the last-known offsite catalog and
// returns the instructions that make the offsite tree match home.
//
// Records are fingerprinted by size and modification time: two records are
// the same file when sizes match and mtimes differ by less than tolerance.
// Unchanged files at the same path (compared case-insensitively) produce
// nothing, or a MOVE when only the letter case differs. Remaining home
// files are paired with unclaimed catalog records of the same fingerprint
// as MOVEs, first match wins. Anything left on the home side is a COPY and
// anything left in the catalog is a DELETE.
//
// The output is deterministic for a given input order, and no two
// instructions write the same destination.
func Diff(home, offsite []catalog.FileRecord, tolerance time.Duration) []manifest.Instruction {
	index := catalog.NewIndex(offsite)
	exact := make(map[string]int, len(offsite))
	for j, r := range offsite {
		if _, dup := exact[r.RelativePath]; !dup {
			exact[r.RelativePath] = j
		}
	}
	claimed := make([]bool, len(offsite))

	var out []manifest.Instruction

	// Exact reconciliation.
	var unmatched []int
	for i, h := range home {
		j, ok := exact[h.RelativePath]
		if !ok {
			j, ok = index.Lookup(h.RelativePath)
		}
		if ok && !claimed[j] && catalog.SameFingerprint(h, offsite[j], tolerance) {
			claimed[j] = true
			if offsite[j].RelativePath != h.RelativePath {
				out = append(out, manifest.NewMove(offsite[j].RelativePath, h.RelativePath))
			}
			continue
		}
		unmatched = append(unmatched, i)
	}

	// Move detection over unclaimed records grouped by size.
	buckets := make(map[int64][]int)
	for j, r := range offsite {
		if !claimed[j] {
			buckets[r.Size] = append(buckets[r.Size], j)
		}
	}
	var copies []int
	for _, i := range unmatched {
		h := home[i]
		bucket := buckets[h.Size]
		k := slices.IndexFunc(bucket, func(j int) bool {
			return catalog.SameFingerprint(h, offsite[j], tolerance)
		})
		if k < 0 {
			copies = append(copies, i)
			continue
		}
		j := bucket[k]
		buckets[h.Size] = slices.Delete(bucket, k, k+1)
		claimed[j] = true
		if offsite[j].RelativePath != h.RelativePath {
			out = append(out, manifest.NewMove(offsite[j].RelativePath, h.RelativePath))
		}
	}

	// Copies. An in-place edit consumes the old record so it is not also
	// deleted.
	for _, i := range copies {
		h := home[i]
		out = append(out, manifest.NewCopy(h.RelativePath, h.Size))
		if j, ok := exact[h.RelativePath]; ok && !claimed[j] {
			claimed[j] = true
		}
	}

	// Deletions, in catalog order.
	for j, r := range offsite {
		if !claimed[j] {
			out = append(out, manifest.NewDelete(r.RelativePath))
		}
	}
	return out
}
