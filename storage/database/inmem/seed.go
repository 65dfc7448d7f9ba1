package inmemdb

import (
	"context"
	"time"

	"github.com/sakshiyadav/vidya/core/fee"
)

// seedFee holds the component amounts for one catalog entry; the total is
// always derived, never seeded.
type seedFee struct {
	grade                        fee.Grade
	board                        fee.Board
	monthly, admission, deposit  int
	exam, lab, lib, sports, misc int
}

var seedCatalog = []seedFee{
	// State board
	{fee.GradeNursery, fee.BoardState, 800, 2000, 1500, 200, 0, 100, 150, 100},
	{fee.GradeClass1, fee.BoardState, 1000, 2500, 2000, 300, 0, 150, 200, 150},
	{fee.GradeClass5, fee.BoardState, 1500, 3000, 2500, 400, 200, 200, 250, 200},
	{fee.GradeClass10, fee.BoardState, 2500, 4000, 3000, 600, 400, 300, 300, 300},

	// CBSE board
	{fee.GradeNursery, fee.BoardCBSE, 1200, 3000, 2000, 300, 0, 150, 200, 150},
	{fee.GradeClass1, fee.BoardCBSE, 1500, 3500, 2500, 400, 100, 200, 250, 200},
	{fee.GradeClass5, fee.BoardCBSE, 2000, 4000, 3000, 500, 300, 250, 300, 250},
	{fee.GradeClass10, fee.BoardCBSE, 3500, 5000, 4000, 800, 600, 400, 400, 400},

	// ICSE board
	{fee.GradeNursery, fee.BoardICSE, 1500, 4000, 2500, 400, 0, 200, 250, 200},
	{fee.GradeClass1, fee.BoardICSE, 1800, 4500, 3000, 500, 150, 250, 300, 250},
	{fee.GradeClass5, fee.BoardICSE, 2500, 5000, 3500, 600, 400, 300, 350, 300},
	{fee.GradeClass10, fee.BoardICSE, 4000, 6000, 4500, 1000, 800, 500, 500, 500},
}

// SeedFees populates the fee table with the stock catalog used by the mock
// deployment.
func SeedFees(db *DB) error {
	repo := NewFeeRepository(db)
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	for _, s := range seedCatalog {
		f := fee.Fee{
			Grade:           s.grade,
			Board:           s.board,
			MonthlyFee:      s.monthly,
			AdmissionFee:    s.admission,
			SecurityDeposit: s.deposit,
			ExamFee:         s.exam,
			LabFee:          s.lab,
			LibraryFee:      s.lib,
			SportsFee:       s.sports,
			MiscFee:         s.misc,
			TotalFee:        fee.Total(s.monthly, s.lab, s.lib, s.sports, s.misc),
			CreatedAt:       created,
			UpdatedAt:       created,
		}
		if _, err := repo.CreateFee(context.Background(), f); err != nil {
			return err
		}
	}
	return nil
}
