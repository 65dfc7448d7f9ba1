package fee

import (
	"time"

	"github.com/sakshiyadav/vidya/core"
)

// Board is an educational accreditation authority a fee structure is scoped to.
type Board string

// Grade is a school year label a fee structure is scoped to.
type Grade string

const (
	BoardState Board = "State"
	BoardCBSE  Board = "CBSE"
	BoardICSE  Board = "ICSE"
)

const (
	GradeNursery Grade = "Nursery"
	GradeLKG     Grade = "LKG"
	GradeUKG     Grade = "UKG"
	GradeClass1  Grade = "Class 1"
	GradeClass2  Grade = "Class 2"
	GradeClass3  Grade = "Class 3"
	GradeClass4  Grade = "Class 4"
	GradeClass5  Grade = "Class 5"
	GradeClass6  Grade = "Class 6"
	GradeClass7  Grade = "Class 7"
	GradeClass8  Grade = "Class 8"
	GradeClass9  Grade = "Class 9"
	GradeClass10 Grade = "Class 10"
	GradeClass11 Grade = "Class 11"
	GradeClass12 Grade = "Class 12"
)

var (
	Boards = []Board{BoardState, BoardCBSE, BoardICSE}

	Grades = []Grade{
		GradeNursery, GradeLKG, GradeUKG,
		GradeClass1, GradeClass2, GradeClass3, GradeClass4, GradeClass5,
		GradeClass6, GradeClass7, GradeClass8, GradeClass9, GradeClass10,
		GradeClass11, GradeClass12,
	}
)

func ValidBoard(b Board) bool {
	for _, board := range Boards {
		if b == board {
			return true
		}
	}
	return false
}

func ValidGrade(g Grade) bool {
	for _, grade := range Grades {
		if g == grade {
			return true
		}
	}
	return false
}

// Fee is the persisted tuple of per-category amounts for a (grade, board) pair.
// All amounts are whole rupees. AdmissionFee and SecurityDeposit are one-time
// charges; the rest recur monthly.
type Fee struct {
	ID              string    `json:"id"`
	Grade           Grade     `json:"grade"`
	Board           Board     `json:"board"`
	MonthlyFee      int       `json:"monthly_fee"`
	AdmissionFee    int       `json:"admission_fee"`
	SecurityDeposit int       `json:"security_deposit"`
	ExamFee         int       `json:"exam_fee"`
	LabFee          int       `json:"lab_fee"`
	LibraryFee      int       `json:"library_fee"`
	SportsFee       int       `json:"sports_fee"`
	MiscFee         int       `json:"misc_fee"`
	TotalFee        int       `json:"total_fee"`
	CreatedAt       time.Time `json:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at"` // UTC
}

// Total derives the monthly total shown to end users: the monthly tuition plus
// the recurring ancillary components. ExamFee is charged per term and the
// one-time AdmissionFee and SecurityDeposit are deliberately excluded.
func Total(monthly, lab, library, sports, misc int) int {
	return monthly + lab + library + sports + misc
}

func (f Fee) computeTotal() int {
	return Total(f.MonthlyFee, f.LabFee, f.LibraryFee, f.SportsFee, f.MiscFee)
}

// NewFee contains information needed to create a new Fee.
// TotalFee is never accepted from callers; it is derived on save.
type NewFee struct {
	Grade           Grade `json:"grade" validate:"required,grade"`
	Board           Board `json:"board" validate:"required,board"`
	MonthlyFee      int   `json:"monthly_fee" validate:"gte=0"`
	AdmissionFee    int   `json:"admission_fee" validate:"gte=0"`
	SecurityDeposit int   `json:"security_deposit" validate:"gte=0"`
	ExamFee         int   `json:"exam_fee" validate:"gte=0"`
	LabFee          int   `json:"lab_fee" validate:"gte=0"`
	LibraryFee      int   `json:"library_fee" validate:"gte=0"`
	SportsFee       int   `json:"sports_fee" validate:"gte=0"`
	MiscFee         int   `json:"misc_fee" validate:"gte=0"`
}

func (nf *NewFee) Validate(svc *Service) error {
	if err := core.Validate.Struct(nf); err != nil {
		return err
	}
	return svc.checkUniqueness(nf.Grade, nf.Board)
}

// UpdateFee defines what information may be provided to modify an existing Fee.
// Only non-nil fields are merged into the stored record.
type UpdateFee struct {
	Grade           *Grade `json:"grade" validate:"omitempty,grade"`
	Board           *Board `json:"board" validate:"omitempty,board"`
	MonthlyFee      *int   `json:"monthly_fee" validate:"omitempty,gte=0"`
	AdmissionFee    *int   `json:"admission_fee" validate:"omitempty,gte=0"`
	SecurityDeposit *int   `json:"security_deposit" validate:"omitempty,gte=0"`
	ExamFee         *int   `json:"exam_fee" validate:"omitempty,gte=0"`
	LabFee          *int   `json:"lab_fee" validate:"omitempty,gte=0"`
	LibraryFee      *int   `json:"library_fee" validate:"omitempty,gte=0"`
	SportsFee       *int   `json:"sports_fee" validate:"omitempty,gte=0"`
	MiscFee         *int   `json:"misc_fee" validate:"omitempty,gte=0"`
}

func (uf *UpdateFee) Validate(orig Fee, svc *Service) error {
	if err := core.Validate.Struct(uf); err != nil {
		return err
	}

	grade, board := orig.Grade, orig.Board
	if uf.Grade != nil {
		grade = *uf.Grade
	}
	if uf.Board != nil {
		board = *uf.Board
	}
	if grade == orig.Grade && board == orig.Board {
		return nil
	}
	return svc.checkUniqueness(grade, board)
}

// merge copies the provided fields onto orig and re-derives the total.
func (uf UpdateFee) merge(orig Fee) Fee {
	if uf.Grade != nil {
		orig.Grade = *uf.Grade
	}
	if uf.Board != nil {
		orig.Board = *uf.Board
	}
	if uf.MonthlyFee != nil {
		orig.MonthlyFee = *uf.MonthlyFee
	}
	if uf.AdmissionFee != nil {
		orig.AdmissionFee = *uf.AdmissionFee
	}
	if uf.SecurityDeposit != nil {
		orig.SecurityDeposit = *uf.SecurityDeposit
	}
	if uf.ExamFee != nil {
		orig.ExamFee = *uf.ExamFee
	}
	if uf.LabFee != nil {
		orig.LabFee = *uf.LabFee
	}
	if uf.LibraryFee != nil {
		orig.LibraryFee = *uf.LibraryFee
	}
	if uf.SportsFee != nil {
		orig.SportsFee = *uf.SportsFee
	}
	if uf.MiscFee != nil {
		orig.MiscFee = *uf.MiscFee
	}
	orig.TotalFee = orig.computeTotal()
	return orig
}

type QueryFilter struct {
	Grade Grade `query:"grade"`
	Board Board `query:"board"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Grade == "" && qf.Board == ""
}

func (qf *QueryFilter) Validate() error {
	var flds []core.FieldError
	if qf.Grade != "" && !ValidGrade(qf.Grade) {
		flds = append(flds, core.FieldError{Field: "grade", Error: "unknown grade"})
	}
	if qf.Board != "" && !ValidBoard(qf.Board) {
		flds = append(flds, core.FieldError{Field: "board", Error: "unknown board"})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}
