package db

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"git.blockward.net/bw/blockward/src/oops"
	"github.com/jackc/pgx/v5"
)

// Returned from query helpers when no result rows were found. Note that this
// is NOT returned when Query methods return no results; it is only returned
// when a singular result was expected.
var NotFound = errors.New("not found")

// Performs a SQL query and returns a slice of all the result rows. The query
// must use "$columns" into which the column names of the destination type will
// be substituted.
func Query[T any](
	ctx context.Context,
	conn ConnOrTx,
	query string,
	args ...any,
) ([]*T, error) {
	it, err := QueryIterator[T](ctx, conn, query, args...)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	return it.ToSlice(), nil
}

// Identical to Query, but panics if there was an error.
func MustQuery[T any](
	ctx context.Context,
	conn ConnOrTx,
	query string,
	args ...any,
) []*T {
	result, err := Query[T](ctx, conn, query, args...)
	if err != nil {
		panic(err)
	}
	return result
}

// Performs a SQL query and returns the single result row. If there are no
// result rows, it returns NotFound.
func QueryOne[T any](
	ctx context.Context,
	conn ConnOrTx,
	query string,
	args ...any,
) (*T, error) {
	rows, err := Query[T](ctx, conn, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NotFound
	}
	return rows[0], nil
}

// Performs a SQL query for a single scalar column and returns a slice of the
// results. No "$columns" here; select the one column yourself.
func QueryScalar[T any](
	ctx context.Context,
	conn ConnOrTx,
	query string,
	args ...any,
) ([]T, error) {
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		var val T
		if err := rows.Scan(&val); err != nil {
			return nil, oops.New(err, "failed to scan query result")
		}
		result = append(result, val)
	}
	return result, rows.Err()
}

// Like QueryScalar, but returns the single result value, or NotFound if there
// were no result rows.
func QueryOneScalar[T any](
	ctx context.Context,
	conn ConnOrTx,
	query string,
	args ...any,
) (T, error) {
	vals, err := QueryScalar[T](ctx, conn, query, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(vals) == 0 {
		var zero T
		return zero, NotFound
	}
	return vals[0], nil
}

// The lazy variant of Query. Use this when processing a very large result set,
// or when you want to bail out early. Make sure to Close it when done.
func QueryIterator[T any](
	ctx context.Context,
	conn ConnOrTx,
	query string,
	args ...any,
) (*Iterator[T], error) {
	var destExample T
	destType := reflect.TypeOf(destExample)

	compiled := compileQuery(query, destType)

	rows, err := conn.Query(ctx, compiled.query, args...)
	if err != nil {
		return nil, err
	}

	return &Iterator[T]{
		fieldIndexes: compiled.fieldIndexes,
		rows:         rows,
		destType:     compiled.destType,
	}, nil
}

type compiledQuery struct {
	query        string
	destType     reflect.Type
	fieldIndexes []int
}

// Replaces the "$columns" token in the query with the db-tagged fields of the
// destination struct, in declaration order.
func compileQuery(query string, destType reflect.Type) compiledQuery {
	if destType.Kind() != reflect.Struct {
		panic("db query destinations must be structs")
	}

	var columnNames []string
	var fieldIndexes []int
	for i := 0; i < destType.NumField(); i++ {
		field := destType.Field(i)
		column := field.Tag.Get("db")
		if column == "" || column == "-" {
			continue
		}
		columnNames = append(columnNames, column)
		fieldIndexes = append(fieldIndexes, i)
	}
	if len(columnNames) == 0 {
		panic(oops.New(nil, "no fields with \"db\" tags in type %s", destType))
	}

	columns := strings.Join(columnNames, ", ")
	return compiledQuery{
		query:        strings.Replace(query, "$columns", columns, -1),
		destType:     destType,
		fieldIndexes: fieldIndexes,
	}
}

type Iterator[T any] struct {
	fieldIndexes []int
	rows         pgx.Rows
	destType     reflect.Type
}

// Returns the next row of the result set, or false if there are no more rows.
func (it *Iterator[T]) Next() (*T, bool) {
	if !it.rows.Next() {
		it.rows.Close()
		return nil, false
	}

	result := reflect.New(it.destType)

	dests := make([]any, len(it.fieldIndexes))
	for i, fieldIndex := range it.fieldIndexes {
		dests[i] = result.Elem().Field(fieldIndex).Addr().Interface()
	}
	if err := it.rows.Scan(dests...); err != nil {
		panic(oops.New(err, "failed to scan query result into %s", it.destType))
	}

	return result.Interface().(*T), true
}

// Takes all the remaining results and closes the iterator.
func (it *Iterator[T]) ToSlice() []*T {
	defer it.Close()
	var result []*T
	for {
		row, ok := it.Next()
		if !ok {
			if err := it.rows.Err(); err != nil {
				panic(oops.New(err, "error while iterating through db results"))
			}
			break
		}
		result = append(result, row)
	}
	return result
}

func (it *Iterator[T]) Close() {
	it.rows.Close()
}
