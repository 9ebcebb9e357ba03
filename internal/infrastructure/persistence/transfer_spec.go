package persistence

import (
	"fmt"

	"github.com/gadgetstock/backend/internal/domain/transfer"
	"gorm.io/gorm/clause"
)

// matchNothing is the SQL rendering of an empty Or
var matchNothing = clause.Expr{SQL: "1 = 0"}

// specExpression translates a transfer.Spec into a WHERE expression over the
// shared request columns. A nil expression means "no restriction".
func specExpression(spec transfer.Spec) (clause.Expression, error) {
	col := func(name string) clause.Column { return clause.Column{Name: name} }

	switch s := spec.(type) {
	case nil:
		return nil, nil
	case transfer.StatusIs:
		return clause.Eq{Column: col("status"), Value: string(s.Status)}, nil
	case transfer.StatusNot:
		return clause.Neq{Column: col("status"), Value: string(s.Status)}, nil
	case transfer.FromBranch:
		return clause.Eq{Column: col("from_branch_id"), Value: s.BranchID}, nil
	case transfer.ToBranch:
		return clause.Eq{Column: col("to_branch_id"), Value: s.BranchID}, nil
	case transfer.And:
		exprs, err := childExpressions(s)
		if err != nil || len(exprs) == 0 {
			return nil, err
		}
		return clause.And(exprs...), nil
	case transfer.Or:
		if len(s) == 0 {
			return matchNothing, nil
		}
		exprs, err := childExpressions(s)
		if err != nil {
			return nil, err
		}
		if len(exprs) < len(s) {
			// one child was unrestricted, so the disjunction is too
			return nil, nil
		}
		return clause.Or(exprs...), nil
	}
	return nil, fmt.Errorf("unsupported transfer spec %T", spec)
}

func childExpressions(specs []transfer.Spec) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(specs))
	for _, child := range specs {
		expr, err := specExpression(child)
		if err != nil {
			return nil, err
		}
		if expr != nil {
			exprs = append(exprs, expr)
		}
	}
	return exprs, nil
}
