package pgdb

import (
	"context"

	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// DB: подмножество *pgxpool.Pool, которое нужно репозиториям.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// inTx выполняет fn в транзакции. Транзакция доступна в контексте через tr.TxFromCtx.
// При ошибке fn транзакция откатывается, иначе фиксируется.
func inTx(ctx context.Context, db transaction.Transactional, opts pgx.TxOptions, fn func(ctx context.Context) error) (err error) {
	const op = "pgdb.inTx"

	ctx, tx, err := transaction.NewTransaction(ctx, opts, db)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			_ = tx.Rollback(ctx)
		}
	}()
	ctx = tr.WithTx(ctx, tx.Transaction())

	if err = fn(ctx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
