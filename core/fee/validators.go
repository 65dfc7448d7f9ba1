package fee

import (
	"github.com/go-playground/validator/v10"

	"github.com/sakshiyadav/vidya/core"
)

var (
	gradeTag  = "grade"
	gradeText = "invalid grade"

	boardTag  = "board"
	boardText = "invalid board"
)

func init() {
	_ = core.Validate.RegisterValidation(gradeTag, gradeValidation)
	core.RegisterCustomTranslation(gradeTag, gradeText)

	_ = core.Validate.RegisterValidation(boardTag, boardValidation)
	core.RegisterCustomTranslation(boardTag, boardText)
}

// gradeValidation checks that the value is one of the fifteen known grades.
func gradeValidation(fl validator.FieldLevel) bool {
	return ValidGrade(Grade(fl.Field().String()))
}

// boardValidation checks that the value is one of the three known boards.
func boardValidation(fl validator.FieldLevel) bool {
	return ValidBoard(Board(fl.Field().String()))
}
