package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/sakshiyadav/vidya/core/fee"
)

type feeRepository struct {
	db *feeTable

	// FailWrites makes every mutating call fail; lets tests exercise the
	// write-through contract (local state untouched on remote rejection).
	FailWrites bool
	// FailReads makes QueryAllFees fail; exercises catalog degradation.
	FailReads bool
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *DB) *feeRepository {
	return &feeRepository{db: db.fee}
}

func (repo *feeRepository) QueryAllFees(_ context.Context) ([]fee.Fee, error) {
	if repo.FailReads {
		return nil, errRemoteDown
	}

	repo.db.RLock()
	defer repo.db.RUnlock()

	fees := make([]fee.Fee, 0, len(repo.db.table))
	for _, id := range repo.db.order {
		if f, ok := repo.db.table[id]; ok {
			fees = append(fees, *f)
		}
	}
	sort.SliceStable(fees, func(i, j int) bool {
		if fees[i].Board != fees[j].Board {
			return fees[i].Board < fees[j].Board
		}
		return fees[i].Grade < fees[j].Grade
	})
	return fees, nil
}

func (repo *feeRepository) CreateFee(_ context.Context, f fee.Fee) (fee.Fee, error) {
	if repo.FailWrites {
		return fee.Fee{}, errRemoteDown
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	f.ID = uuid.New().String()
	repo.db.table[f.ID] = &f
	repo.db.order = append(repo.db.order, f.ID)
	return f, nil
}

func (repo *feeRepository) UpdateFee(_ context.Context, f fee.Fee) (fee.Fee, error) {
	if repo.FailWrites {
		return fee.Fee{}, errRemoteDown
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[f.ID]; !ok {
		return fee.Fee{}, fee.ErrNotFound
	}
	repo.db.table[f.ID] = &f
	return f, nil
}

func (repo *feeRepository) DeleteFee(_ context.Context, id string) error {
	if repo.FailWrites {
		return errRemoteDown
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return fee.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
