package metrics

import "github.com/nvr-ai/go-eval/common"

// MatchTable records, per image, which ground truths of one class a detection
// has already claimed. Indexes follow the order of the ground truths within
// their image.
type MatchTable map[int][]bool

// NewMatchTable allocates an unclaimed slot for every ground truth in gts.
func NewMatchTable(gts []common.GroundTruth) MatchTable {
	counts := make(map[int]int)
	for _, gt := range gts {
		counts[gt.ImageID]++
	}

	table := make(MatchTable, len(counts))
	for imageID, n := range counts {
		table[imageID] = make([]bool, n)
	}
	return table
}

// Claim marks the idx-th ground truth of imageID as matched.
//
// Returns:
//   - true if the slot was free and is now claimed, false if it was already
//     claimed or does not exist.
func (m MatchTable) Claim(imageID, idx int) bool {
	slots, ok := m[imageID]
	if !ok || idx < 0 || idx >= len(slots) || slots[idx] {
		return false
	}
	slots[idx] = true
	return true
}

// Claimed counts the claimed slots across all images.
func (m MatchTable) Claimed() int {
	n := 0
	for _, slots := range m {
		for _, used := range slots {
			if used {
				n++
			}
		}
	}
	return n
}

// groupByImage splits ground truths by image, keeping their relative order.
func groupByImage(gts []common.GroundTruth) map[int][]common.GroundTruth {
	byImage := make(map[int][]common.GroundTruth)
	for _, gt := range gts {
		byImage[gt.ImageID] = append(byImage[gt.ImageID], gt)
	}
	return byImage
}
