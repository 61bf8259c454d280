package service

import "github.com/veilpay/notesync/models"

// Balance sums the amounts of the given notes. Pure; callers pass the
// unspent set returned by a sync.
func Balance(notes []models.Note) uint64 {
	var total uint64
	for _, n := range notes {
		total += n.Amount
	}
	return total
}
