package persistence

import (
	"errors"
	"strings"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate is the row lock used by every read-then-write path
var forUpdate = clause.Locking{Strength: "UPDATE"}

// translate maps gorm sentinel errors to domain errors. resource names the
// entity in the NOT_FOUND message.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainError(shared.CodeAlreadyExists, resource+" already exists")
	}
	return err
}

func paginate(db *gorm.DB, f shared.Filter) *gorm.DB {
	f = f.Normalize()
	return db.Offset(f.Offset()).Limit(f.PageSize)
}

// likeEscaper escapes LIKE wildcards; queries pair it with ESCAPE '\'
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string { return "%" + likeEscaper.Replace(s) + "%" }

func prefixPattern(s string) string { return likeEscaper.Replace(s) + "%" }
