package fee

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sakshiyadav/vidya/core"
)

var (
	// errors
	ErrNotFound        = errors.New("fee record not found")
	ErrFeeExists       = errors.New("a fee record for this grade and board already exists")
	ErrDataUnavailable = errors.New("fee catalog could not be loaded")
	ErrWriteRejected   = errors.New("fee record could not be saved")
)

type (
	Repository interface {
		// QueryAllFees returns the full catalog ordered by board then grade
		// (ascending, string collation).
		QueryAllFees(ctx context.Context) ([]Fee, error)
		CreateFee(ctx context.Context, f Fee) (Fee, error)
		UpdateFee(ctx context.Context, f Fee) (Fee, error)
		DeleteFee(ctx context.Context, id string) error
	}

	// Service is the fee catalog: the sole owner of Fee records in memory,
	// kept in sync with the remote store. Every mutation is write-through;
	// the local mirror changes only after the remote write succeeds.
	Service struct {
		mu      sync.RWMutex
		repo    Repository
		records []Fee
		logger  core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Load fetches the full catalog from the remote store and replaces the local
// mirror. On failure the mirror is left as-is (empty on first load) and
// ErrDataUnavailable is returned; callers degrade rather than crash.
func (svc *Service) Load(ctx context.Context) error {
	records, err := svc.repo.QueryAllFees(ctx)
	if err != nil {
		svc.logger.Warn("loading fee catalog", err)
		return errors.Wrap(ErrDataUnavailable, err.Error())
	}

	svc.mu.Lock()
	svc.records = records
	svc.mu.Unlock()
	return nil
}

// All returns a copy of the catalog ordered by board then grade.
func (svc *Service) All() []Fee {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	records := make([]Fee, len(svc.records))
	copy(records, svc.records)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Board != records[j].Board {
			return records[i].Board < records[j].Board
		}
		return records[i].Grade < records[j].Grade
	})
	return records
}

// Lookup scans the catalog for the first record matching both fields exactly.
// No partial matches, no fallback substitution.
func (svc *Service) Lookup(grade Grade, board Board) (Fee, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	for _, f := range svc.records {
		if f.Grade == grade && f.Board == board {
			return f, true
		}
	}
	return Fee{}, false
}

func (svc *Service) Get(id string) (Fee, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	for _, f := range svc.records {
		if f.ID == id {
			return f, nil
		}
	}
	return Fee{}, ErrNotFound
}

func (svc *Service) checkUniqueness(grade Grade, board Board) error {
	if _, ok := svc.Lookup(grade, board); ok {
		return core.NewValidationError(ErrFeeExists,
			core.FieldError{Field: "grade", Error: ErrFeeExists.Error()},
			core.FieldError{Field: "board", Error: ErrFeeExists.Error()},
		)
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nf NewFee) (Fee, error) {
	if err := nf.Validate(svc); err != nil {
		return Fee{}, err
	}

	now := time.Now().UTC()
	f := Fee{
		Grade:           nf.Grade,
		Board:           nf.Board,
		MonthlyFee:      nf.MonthlyFee,
		AdmissionFee:    nf.AdmissionFee,
		SecurityDeposit: nf.SecurityDeposit,
		ExamFee:         nf.ExamFee,
		LabFee:          nf.LabFee,
		LibraryFee:      nf.LibraryFee,
		SportsFee:       nf.SportsFee,
		MiscFee:         nf.MiscFee,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.TotalFee = f.computeTotal()

	f, err := svc.repo.CreateFee(ctx, f)
	if err != nil {
		return Fee{}, errors.Wrap(ErrWriteRejected, err.Error())
	}

	svc.mu.Lock()
	svc.records = append(svc.records, f)
	svc.mu.Unlock()
	return f, nil
}

func (svc *Service) Update(ctx context.Context, id string, uf UpdateFee) (Fee, error) {
	orig, err := svc.Get(id)
	if err != nil {
		return Fee{}, err
	}
	if err := uf.Validate(orig, svc); err != nil {
		return Fee{}, err
	}

	f := uf.merge(orig)
	f.UpdatedAt = time.Now().UTC()

	f, err = svc.repo.UpdateFee(ctx, f)
	if err != nil {
		return Fee{}, errors.Wrap(ErrWriteRejected, err.Error())
	}

	svc.mu.Lock()
	for i := range svc.records {
		if svc.records[i].ID == id {
			svc.records[i] = f
			break
		}
	}
	svc.mu.Unlock()
	return f, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.Get(id); err != nil {
		return err
	}
	if err := svc.repo.DeleteFee(ctx, id); err != nil {
		return errors.Wrap(ErrWriteRejected, err.Error())
	}

	svc.mu.Lock()
	for i := range svc.records {
		if svc.records[i].ID == id {
			svc.records = append(svc.records[:i], svc.records[i+1:]...)
			break
		}
	}
	svc.mu.Unlock()
	return nil
}
