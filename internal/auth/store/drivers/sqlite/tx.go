package sqlite

import (
	"database/sql"

	"github.com/aussiebroadwan/edura/internal/auth/store"
	"github.com/aussiebroadwan/edura/internal/auth/store/drivers/sqlite/gen"
)

type txStore struct {
	q *gen.Queries
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{q: gen.New(tx)}
}

func (t *txStore) Users() store.Users           { return &usersRepo{q: t.q} }
func (t *txStore) ResetCodes() store.ResetCodes { return &resetCodesRepo{q: t.q} }
