package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/fee"
)

// feeRow mirrors the persisted snake_case columns. The ancillary fee columns
// are nullable in storage; absent means zero in memory.
type feeRow struct {
	ID              string    `db:"id"`
	Grade           string    `db:"grade"`
	Board           string    `db:"board"`
	MonthlyFee      int       `db:"monthly_fee"`
	AdmissionFee    int       `db:"admission_fee"`
	SecurityDeposit int       `db:"security_deposit"`
	ExamFee         null.Int  `db:"exam_fee"`
	LabFee          null.Int  `db:"lab_fee"`
	LibraryFee      null.Int  `db:"library_fee"`
	SportsFee       null.Int  `db:"sports_fee"`
	MiscFee         null.Int  `db:"misc_fee"`
	TotalFee        int       `db:"total_fee"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type feeRepository struct {
	db *sqlx.DB
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *sql.DB) *feeRepository {
	return &feeRepository{db: sqlx.NewDb(db, "postgres")}
}

// nullAmount persists 0 as NULL, matching the legacy column semantics.
func nullAmount(v int) null.Int {
	return null.NewInt(v, v != 0)
}

func (repo feeRepository) toRow(f fee.Fee) feeRow {
	return feeRow{
		ID:              f.ID,
		Grade:           string(f.Grade),
		Board:           string(f.Board),
		MonthlyFee:      f.MonthlyFee,
		AdmissionFee:    f.AdmissionFee,
		SecurityDeposit: f.SecurityDeposit,
		ExamFee:         nullAmount(f.ExamFee),
		LabFee:          nullAmount(f.LabFee),
		LibraryFee:      nullAmount(f.LibraryFee),
		SportsFee:       nullAmount(f.SportsFee),
		MiscFee:         nullAmount(f.MiscFee),
		TotalFee:        f.TotalFee,
		CreatedAt:       f.CreatedAt.UTC(),
		UpdatedAt:       f.UpdatedAt.UTC(),
	}
}

func (repo feeRepository) fromRow(r feeRow) fee.Fee {
	return fee.Fee{
		ID:              r.ID,
		Grade:           fee.Grade(r.Grade),
		Board:           fee.Board(r.Board),
		MonthlyFee:      r.MonthlyFee,
		AdmissionFee:    r.AdmissionFee,
		SecurityDeposit: r.SecurityDeposit,
		ExamFee:         int(r.ExamFee.Int),
		LabFee:          int(r.LabFee.Int),
		LibraryFee:      int(r.LibraryFee.Int),
		SportsFee:       int(r.SportsFee.Int),
		MiscFee:         int(r.MiscFee.Int),
		TotalFee:        r.TotalFee,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// catalogOrdering keeps the stored scan order aligned with the in-memory one.
var catalogOrdering = []core.DBOrdering{
	{Field: "board", Ascending: true},
	{Field: "grade", Ascending: true},
}

func (repo feeRepository) QueryAllFees(ctx context.Context) ([]fee.Fee, error) {
	var rows []feeRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM fee ORDER BY `+core.OrderingClause(catalogOrdering...))
	if err != nil {
		return nil, errors.Wrap(err, "querying fees")
	}

	fees := make([]fee.Fee, 0, len(rows))
	for _, r := range rows {
		fees = append(fees, repo.fromRow(r))
	}
	return fees, nil
}

func (repo feeRepository) CreateFee(ctx context.Context, f fee.Fee) (fee.Fee, error) {
	f.ID = uuid.New().String()
	row := repo.toRow(f)
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO fee (
			id, grade, board, monthly_fee, admission_fee, security_deposit,
			exam_fee, lab_fee, library_fee, sports_fee, misc_fee, total_fee,
			created_at, updated_at
		) VALUES (
			:id, :grade, :board, :monthly_fee, :admission_fee, :security_deposit,
			:exam_fee, :lab_fee, :library_fee, :sports_fee, :misc_fee, :total_fee,
			:created_at, :updated_at
		)`, row)
	if err != nil {
		return fee.Fee{}, errors.Wrap(err, "inserting fee")
	}
	return f, nil
}

func (repo feeRepository) UpdateFee(ctx context.Context, f fee.Fee) (fee.Fee, error) {
	row := repo.toRow(f)
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE fee SET
			grade = :grade, board = :board, monthly_fee = :monthly_fee,
			admission_fee = :admission_fee, security_deposit = :security_deposit,
			exam_fee = :exam_fee, lab_fee = :lab_fee, library_fee = :library_fee,
			sports_fee = :sports_fee, misc_fee = :misc_fee, total_fee = :total_fee,
			updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return fee.Fee{}, errors.Wrap(err, "updating fee")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fee.Fee{}, fee.ErrNotFound
	}
	return f, nil
}

func (repo feeRepository) DeleteFee(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM fee WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting fee")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fee.ErrNotFound
	}
	return nil
}
