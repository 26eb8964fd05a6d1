/*
Lowish-level helpers for querying our Postgres database. They streamline the
mapping of query results onto Go types while still letting you write arbitrary
SQL.

Arguments use normal pgx placeholders ($1, $2, ...). When querying into a
struct, tag its fields with `db:"column_name"` and use the special $columns
placeholder to have the column list generated for you:

	type Location struct {
		ID   int    `db:"id"`
		Name string `db:"name"`
	}
	locations, err := db.Query[models.Location](ctx, conn, `SELECT $columns FROM location`)

Fields without a db tag are ignored. Individual values can be queried with
QueryScalar and friends:

	names, err := db.QueryScalar[string](ctx, conn, `SELECT name FROM location`)
*/
package db
