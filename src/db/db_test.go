package db

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileQuery(t *testing.T) {
	type location struct {
		ID        int     `db:"id"`
		Name      string  `db:"name"`
		Thumbnail *string `db:"thumbnail"`
		Ignored   string
	}

	compiled := compileQuery(`SELECT $columns FROM location WHERE id = $1`, reflect.TypeOf(location{}))

	assert.Equal(t, `SELECT id, name, thumbnail FROM location WHERE id = $1`, compiled.query)
	assert.Equal(t, []int{0, 1, 2}, compiled.fieldIndexes)
}

func TestCompileQueryNoTags(t *testing.T) {
	type nope struct {
		Name string
	}
	assert.Panics(t, func() {
		compileQuery(`SELECT $columns FROM nope`, reflect.TypeOf(nope{}))
	})
}

func TestQueryBuilder(t *testing.T) {
	var qb QueryBuilder
	qb.Add(`SELECT id FROM post`)
	qb.Add(`WHERE author_id = $? AND legacy = $?`, 3, false)

	assert.Equal(t, "SELECT id FROM post\nWHERE author_id = $1 AND legacy = $2\n", qb.String())
	assert.Equal(t, []any{3, false}, qb.Args())

	assert.Panics(t, func() {
		qb.Add(`AND id = $?`)
	})
}
