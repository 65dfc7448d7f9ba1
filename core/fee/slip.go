package fee

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sakshiyadav/vidya/core"
)

var ErrRenderFailed = errors.New("fee slip could not be generated")

// SlipRenderer is any service that can render a Slip into a downloadable
// document. A failed render surfaces once to the caller; no partial artifact
// is left behind.
type SlipRenderer interface {
	Render(s Slip) ([]byte, error)
}

// Slip is the printable summary of one Fee record for end-user consumption.
type Slip struct {
	Org      core.OrgConfig
	Fee      Fee
	IssuedAt time.Time
}

func NewSlip(org core.OrgConfig, f Fee, now time.Time) Slip {
	return Slip{Org: org, Fee: f, IssuedAt: now}
}

// HasBreakdown reports whether the itemized section should be included:
// only when the monthly total differs from the bare monthly tuition,
// i.e. some recurring ancillary component is non-zero.
func (s Slip) HasBreakdown() bool {
	return s.Fee.TotalFee != s.Fee.MonthlyFee
}

// Filename derives the deterministic download name, e.g.
// "Vidya_Coaching_Fee_Slip_Class_10_CBSE_Board.pdf".
func (s Slip) Filename() string {
	underscore := func(v string) string {
		return strings.Join(strings.Fields(v), "_")
	}
	parts := []string{
		underscore(s.Org.Name),
		"Fee_Slip",
		underscore(string(s.Fee.Grade)),
		underscore(string(s.Fee.Board)) + "_Board",
	}
	return strings.Join(parts, "_") + ".pdf"
}

// IssueDate formats the issue date the way the slip prints it (dd/mm/yyyy).
func (s Slip) IssueDate() string {
	return s.IssuedAt.Format("02/01/2006")
}

// FormatRupees renders a whole-rupee amount with Indian digit grouping and a
// literal "Rs." prefix. The currency glyph is avoided on purpose: the PDF
// fonts in use do not carry it.
func FormatRupees(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}

	// Indian grouping: the last three digits, then groups of two.
	n := len(digits)
	if n <= 3 {
		b.WriteString(digits)
	} else {
		head := digits[:n-3]
		for len(head) > 2 {
			cut := len(head) % 2
			if cut == 0 {
				cut = 2
			}
			b.WriteString(head[:cut])
			b.WriteByte(',')
			head = head[cut:]
		}
		b.WriteString(head)
		b.WriteByte(',')
		b.WriteString(digits[n-3:])
	}
	return "Rs. " + b.String()
}
