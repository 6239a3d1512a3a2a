package batch

import "github.com/hammywammy/oslira-workers/internal/models"

// Partition splits items into ordered groups of at most size items each.
// The concatenation of all groups equals the input in order; every group
// except possibly the last holds exactly size items. An empty input yields
// an empty group list. Pure function, no side effects.
func Partition(items []models.WorkItem, size int) []models.BatchGroup {
	if size < 1 {
		size = 1
	}
	if len(items) == 0 {
		return nil
	}

	groups := make([]models.BatchGroup, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		group := models.BatchGroup{
			Index: len(groups),
			Items: make([]models.WorkItem, end-start),
		}
		copy(group.Items, items[start:end])
		groups = append(groups, group)
	}
	return groups
}
