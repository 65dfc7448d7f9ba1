package fee

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshiyadav/vidya/core"
)

var errRemoteDown = errors.New("remote store unavailable")

// testRepo is a minimal Repository for exercising the write-through contract.
type testRepo struct {
	fees []Fee

	failReads  bool
	failWrites bool
}

var _ Repository = (*testRepo)(nil)

func (repo *testRepo) QueryAllFees(_ context.Context) ([]Fee, error) {
	if repo.failReads {
		return nil, errRemoteDown
	}
	fees := make([]Fee, len(repo.fees))
	copy(fees, repo.fees)
	return fees, nil
}

func (repo *testRepo) CreateFee(_ context.Context, f Fee) (Fee, error) {
	if repo.failWrites {
		return Fee{}, errRemoteDown
	}
	f.ID = uuid.New().String()
	repo.fees = append(repo.fees, f)
	return f, nil
}

func (repo *testRepo) UpdateFee(_ context.Context, f Fee) (Fee, error) {
	if repo.failWrites {
		return Fee{}, errRemoteDown
	}
	for i := range repo.fees {
		if repo.fees[i].ID == f.ID {
			repo.fees[i] = f
			return f, nil
		}
	}
	return Fee{}, ErrNotFound
}

func (repo *testRepo) DeleteFee(_ context.Context, id string) error {
	if repo.failWrites {
		return errRemoteDown
	}
	for i := range repo.fees {
		if repo.fees[i].ID == id {
			repo.fees = append(repo.fees[:i], repo.fees[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(t *testing.T, fees ...Fee) (*Service, *testRepo) {
	t.Helper()
	repo := &testRepo{}
	for _, f := range fees {
		if _, err := repo.CreateFee(context.Background(), f); err != nil {
			t.Fatalf("seeding repo failed: %v", err)
		}
	}
	svc := NewService(repo, nopLogger{})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return svc, repo
}

func makeFee(grade Grade, board Board, monthly, lab, lib, sports, misc int) Fee {
	now := time.Now().UTC()
	f := Fee{
		Grade:      grade,
		Board:      board,
		MonthlyFee: monthly,
		LabFee:     lab,
		LibraryFee: lib,
		SportsFee:  sports,
		MiscFee:    misc,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.TotalFee = f.computeTotal()
	return f
}

func TestTotal(t *testing.T) {
	// exam, admission and deposit never count towards the monthly total
	assert.Equal(t, 1700, Total(1000, 200, 150, 200, 150))
	assert.Equal(t, 800, Total(800, 0, 0, 0, 0))
}

func Test_Service_Load(t *testing.T) {
	t.Run("failure leaves the mirror untouched", func(t *testing.T) {
		svc, repo := newTestService(t, makeFee(GradeClass1, BoardCBSE, 1500, 100, 200, 250, 200))

		repo.failReads = true
		err := svc.Load(context.Background())
		require.Error(t, err)
		assert.Equal(t, ErrDataUnavailable, errors.Cause(err))
		assert.Len(t, svc.All(), 1)
	})

	t.Run("first load failure keeps the catalog empty", func(t *testing.T) {
		repo := &testRepo{failReads: true}
		svc := NewService(repo, nopLogger{})

		err := svc.Load(context.Background())
		require.Error(t, err)
		assert.Empty(t, svc.All())
	})
}

func Test_Service_All(t *testing.T) {
	svc, _ := newTestService(t,
		makeFee(GradeClass5, BoardState, 1500, 200, 200, 250, 200),
		makeFee(GradeClass1, BoardCBSE, 1500, 100, 200, 250, 200),
		makeFee(GradeClass1, BoardState, 1000, 0, 150, 200, 150),
	)

	all := svc.All()
	require.Len(t, all, 3)
	assert.Equal(t, BoardCBSE, all[0].Board)
	assert.Equal(t, BoardState, all[1].Board)
	assert.Equal(t, GradeClass1, all[1].Grade)
	assert.Equal(t, GradeClass5, all[2].Grade)
}

func Test_Service_Lookup(t *testing.T) {
	svc, _ := newTestService(t,
		makeFee(GradeClass1, BoardState, 1000, 200, 150, 200, 150),
		makeFee(GradeClass1, BoardCBSE, 1500, 100, 200, 250, 200),
	)

	f, ok := svc.Lookup(GradeClass1, BoardState)
	require.True(t, ok)
	assert.Equal(t, 1700, f.TotalFee)

	// exact pair only; no fallback substitution
	_, ok = svc.Lookup(GradeClass1, BoardICSE)
	assert.False(t, ok)
	_, ok = svc.Lookup(GradeClass2, BoardState)
	assert.False(t, ok)
}

func Test_Service_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("derives the total", func(t *testing.T) {
		svc, _ := newTestService(t)

		f, err := svc.Create(ctx, NewFee{
			Grade:           GradeClass10,
			Board:           BoardICSE,
			MonthlyFee:      4000,
			AdmissionFee:    6000,
			SecurityDeposit: 4500,
			ExamFee:         1000,
			LabFee:          800,
			LibraryFee:      500,
			SportsFee:       500,
			MiscFee:         500,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, f.ID)
		assert.Equal(t, 6300, f.TotalFee)

		got, ok := svc.Lookup(GradeClass10, BoardICSE)
		require.True(t, ok)
		assert.Equal(t, f, got)
	})

	t.Run("rejects a duplicate pair", func(t *testing.T) {
		svc, _ := newTestService(t, makeFee(GradeClass1, BoardState, 1000, 0, 150, 200, 150))

		_, err := svc.Create(ctx, NewFee{Grade: GradeClass1, Board: BoardState, MonthlyFee: 900})
		require.Error(t, err)
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		require.True(t, ok, "want *core.ValidationError, got %T", err)
		assert.Equal(t, ErrFeeExists.Error(), vErr.Error())

		assert.Len(t, svc.All(), 1)
	})

	t.Run("rejects unknown grade and board", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, NewFee{Grade: "Class 13", Board: "IB"})
		require.Error(t, err)
		assert.Empty(t, svc.All())
	})

	t.Run("remote failure leaves the mirror untouched", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.failWrites = true

		_, err := svc.Create(ctx, NewFee{Grade: GradeClass1, Board: BoardState, MonthlyFee: 1000})
		require.Error(t, err)
		assert.Equal(t, ErrWriteRejected, errors.Cause(err))
		assert.Empty(t, svc.All())
	})
}

func Test_Service_Update(t *testing.T) {
	ctx := context.Background()
	iPtr := func(i int) *int { return &i }

	t.Run("partial update touches only the provided fields", func(t *testing.T) {
		svc, _ := newTestService(t, makeFee(GradeClass1, BoardState, 1000, 0, 150, 200, 150))
		orig := svc.All()[0]

		f, err := svc.Update(ctx, orig.ID, UpdateFee{MonthlyFee: iPtr(1200)})
		require.NoError(t, err)
		assert.Equal(t, 1200, f.MonthlyFee)
		assert.Equal(t, 1700, f.TotalFee)
		assert.Equal(t, orig.Grade, f.Grade)
		assert.Equal(t, orig.Board, f.Board)
		assert.Equal(t, orig.LibraryFee, f.LibraryFee)
		assert.True(t, f.UpdatedAt.After(orig.UpdatedAt))
	})

	t.Run("moving onto an existing pair is rejected", func(t *testing.T) {
		svc, _ := newTestService(t,
			makeFee(GradeClass1, BoardState, 1000, 0, 150, 200, 150),
			makeFee(GradeClass1, BoardCBSE, 1500, 100, 200, 250, 200),
		)
		orig, ok := svc.Lookup(GradeClass1, BoardCBSE)
		require.True(t, ok)

		board := BoardState
		_, err := svc.Update(ctx, orig.ID, UpdateFee{Board: &board})
		require.Error(t, err)
		_, ok = errors.Cause(err).(*core.ValidationError)
		require.True(t, ok, "want *core.ValidationError, got %T", err)
	})

	t.Run("keeping the same pair is fine", func(t *testing.T) {
		svc, _ := newTestService(t, makeFee(GradeClass1, BoardState, 1000, 0, 150, 200, 150))
		orig := svc.All()[0]

		board := BoardState
		_, err := svc.Update(ctx, orig.ID, UpdateFee{Board: &board, MonthlyFee: iPtr(1100)})
		require.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Update(ctx, "nope", UpdateFee{})
		assert.Equal(t, ErrNotFound, err)
	})

	t.Run("remote failure leaves the mirror untouched", func(t *testing.T) {
		svc, repo := newTestService(t, makeFee(GradeClass1, BoardState, 1000, 0, 150, 200, 150))
		orig := svc.All()[0]
		repo.failWrites = true

		_, err := svc.Update(ctx, orig.ID, UpdateFee{MonthlyFee: iPtr(9999)})
		require.Error(t, err)
		assert.Equal(t, ErrWriteRejected, errors.Cause(err))

		got, _ := svc.Get(orig.ID)
		assert.Equal(t, orig, got)
	})
}

func Test_Service_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		svc, _ := newTestService(t, makeFee(GradeClass1, BoardState, 1000, 0, 150, 200, 150))
		id := svc.All()[0].ID

		require.NoError(t, svc.Delete(ctx, id))
		assert.Empty(t, svc.All())
		_, err := svc.Get(id)
		assert.Equal(t, ErrNotFound, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := newTestService(t)
		assert.Equal(t, ErrNotFound, svc.Delete(ctx, "nope"))
	})

	t.Run("remote failure leaves the mirror untouched", func(t *testing.T) {
		svc, repo := newTestService(t, makeFee(GradeClass1, BoardState, 1000, 0, 150, 200, 150))
		id := svc.All()[0].ID
		repo.failWrites = true

		err := svc.Delete(ctx, id)
		require.Error(t, err)
		assert.Equal(t, ErrWriteRejected, errors.Cause(err))
		assert.Len(t, svc.All(), 1)
	})
}
