package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		sql  string
		want Kind
	}{
		{"", KindEmpty},
		{"   \n\t", KindEmpty},
		{"SELECT 1 AS x", KindQuery},
		{"select * from t where a = ?", KindQuery},
		{"WITH c AS (SELECT 1) SELECT * FROM c", KindQuery},
		{"SELECT 1 UNION SELECT 2", KindQuery},
		{"SHOW TABLES", KindQuery},
		{"EXPLAIN SELECT 1", KindQuery},
		{"UPDATE t SET a=1", KindModify},
		{"INSERT INTO t (a) VALUES (1)", KindModify},
		{"DELETE FROM t", KindModify},
		{"CREATE TABLE t (a INT)", KindDDL},
		{"DROP VIEW v", KindDDL},
		{"CALL refresh()", KindCall},
		{"SET autocommit = 0", KindOther},
		{"DECLARE @x int = 1; SELECT @x", KindOther},

		// not MySQL: keyword fallback
		{"PRAGMA table_info('t')", KindQuery},
		{"SELECT $1::int", KindQuery},
		{"INSERT INTO t (a) VALUES ($1) RETURNING id", KindQuery},
		{"DELETE FROM t OUTPUT deleted.id WHERE a = @p1", KindQuery},
		{"UPDATE t SET a = $1 WHERE b = $2", KindModify},
		{"EXEC sp_who", KindCall},
		{"-- leading comment\nSELECT 1", KindQuery},
		{"/* hint */ DELETE FROM t WHERE a = $1", KindModify},
		{"SELEC 1 FRM", KindOther},
		{"-- only a comment", KindEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.sql))
		})
	}
}

func TestKindReturnsRows(t *testing.T) {
	assert.True(t, KindQuery.ReturnsRows())
	assert.True(t, KindCall.ReturnsRows())
	assert.True(t, KindOther.ReturnsRows())
	assert.False(t, KindModify.ReturnsRows())
	assert.False(t, KindDDL.ReturnsRows())
	assert.Equal(t, "modify", KindModify.String())
}
