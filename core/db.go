package core

// DBOrdering is a single ORDER BY term.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderingClause joins ordering terms into an ORDER BY expression.
func OrderingClause(orderings ...DBOrdering) string {
	if len(orderings) == 0 {
		return ""
	}
	clause := orderings[0].String()
	for _, ord := range orderings[1:] {
		clause += ", " + ord.String()
	}
	return clause
}
