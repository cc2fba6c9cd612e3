package allocations

import (
	"sort"
	"sync"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/services"
	"github.com/midburn/spark-admin/utils"
)

type stagedPatch struct {
	patch models.GroupPatch
	seq   uint64
}

// EditBuffer holds unsaved per-group patches. Staging the same group twice
// keeps only the last patch.
type EditBuffer struct {
	mu      sync.Mutex
	changes map[int]stagedPatch
	seq     uint64
}

// NewEditBuffer creates an empty EditBuffer
func NewEditBuffer() *EditBuffer {
	return &EditBuffer{changes: make(map[int]stagedPatch)}
}

// Stage validates patch and records it for groupID, replacing any earlier patch
func (b *EditBuffer) Stage(groupID int, patch models.GroupPatch) error {
	if groupID <= 0 {
		return services.ErrInvalidGroupID
	}
	if err := utils.ValidateStruct(patch); err != nil {
		return services.NewDomainError(services.ErrorTypeValidation, "invalid group patch", err).
			WithDetail("fields", utils.GetValidationFields(err))
	}

	quota := *patch.PreSaleTicketsQuota
	patch.PreSaleTicketsQuota = &quota

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	b.changes[groupID] = stagedPatch{patch: patch, seq: b.seq}
	return nil
}

// Pending returns a copy of the staged patches keyed by group id
func (b *EditBuffer) Pending() map[int]models.GroupPatch {
	b.mu.Lock()
	defer b.mu.Unlock()

	pending := make(map[int]models.GroupPatch, len(b.changes))
	for id, staged := range b.changes {
		quota := *staged.patch.PreSaleTicketsQuota
		pending[id] = models.GroupPatch{PreSaleTicketsQuota: &quota}
	}
	return pending
}

// Len returns the number of staged groups
func (b *EditBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.changes)
}

// Discard drops every staged patch
func (b *EditBuffer) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = make(map[int]stagedPatch)
}

// snapshot is the batch that a commit submits
type snapshot struct {
	patches []models.QuotaPatch
	seqs    map[int]uint64
}

func (b *EditBuffer) snapshot() snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := snapshot{
		patches: make([]models.QuotaPatch, 0, len(b.changes)),
		seqs:    make(map[int]uint64, len(b.changes)),
	}
	for id, staged := range b.changes {
		s.patches = append(s.patches, models.QuotaPatch{
			ID:                  id,
			PreSaleTicketsQuota: *staged.patch.PreSaleTicketsQuota,
		})
		s.seqs[id] = staged.seq
	}
	sort.Slice(s.patches, func(i, j int) bool { return s.patches[i].ID < s.patches[j].ID })
	return s
}

// clearCommitted removes the entries of s that were not re-staged since
func (b *EditBuffer) clearCommitted(s snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, seq := range s.seqs {
		if staged, ok := b.changes[id]; ok && staged.seq == seq {
			delete(b.changes, id)
		}
	}
}
