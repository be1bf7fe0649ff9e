// Package pg bootstraps the PostgreSQL pool used by the user and option stores.
//
// Connect opens a pgx pool and retries until the database answers a ping or
// the context ends. Migrate applies goose migrations from an fs.FS, usually
// the embedded set in the migrations package:
//
//	pool, err := pg.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, pool, migrations.FS, log); err != nil {
//		return err
//	}
//
// The error helpers classify pgx errors so stores can map them onto their own
// sentinels without importing pgconn.
package pg
