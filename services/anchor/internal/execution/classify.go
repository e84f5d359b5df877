package execution

import (
	"strings"
	"sync"
	"unicode"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

// Kind is the coarse class of a statement.
type Kind int

const (
	KindEmpty Kind = iota
	// KindQuery statements return a result set.
	KindQuery
	// KindModify statements change rows and report an affected count.
	KindModify
	// KindDDL statements change schema.
	KindDDL
	// KindCall statements may or may not return rows.
	KindCall
	// KindOther is everything else. Whether it returns rows is decided by
	// the result, not the text.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindQuery:
		return "query"
	case KindModify:
		return "modify"
	case KindDDL:
		return "ddl"
	case KindCall:
		return "call"
	default:
		return "other"
	}
}

// ReturnsRows reports whether the statement should be run as a query. Runs
// that come back without columns are reported as non-queries.
func (k Kind) ReturnsRows() bool {
	return k == KindQuery || k == KindCall || k == KindOther
}

// Classifier decides how a statement is executed. It parses with the TiDB
// (MySQL dialect) parser and falls back to the leading keyword for anything
// that parser rejects, such as other engines' dialects.
type Classifier struct {
	parsers sync.Pool
}

// NewClassifier creates a classifier. It is safe for concurrent use.
func NewClassifier() *Classifier {
	return &Classifier{
		parsers: sync.Pool{New: func() interface{} { return parser.New() }},
	}
}

// Classify returns the kind of the first statement in sql.
func (c *Classifier) Classify(sql string) Kind {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return KindEmpty
	}

	p := c.parsers.Get().(*parser.Parser)
	stmts, _, err := p.Parse(sql, "", "")
	c.parsers.Put(p)
	if err == nil && len(stmts) > 0 {
		return classifyNode(stmts[0])
	}
	return classifyKeyword(sql)
}

func classifyNode(stmt ast.StmtNode) Kind {
	switch stmt.(type) {
	case *ast.SelectStmt, *ast.SetOprStmt, *ast.ShowStmt, *ast.ExplainStmt:
		return KindQuery
	case *ast.InsertStmt, *ast.UpdateStmt, *ast.DeleteStmt:
		return KindModify
	case *ast.CallStmt:
		return KindCall
	case ast.DDLNode:
		return KindDDL
	}
	return KindOther
}

var keywordKinds = map[string]Kind{
	"SELECT":   KindQuery,
	"WITH":     KindQuery,
	"SHOW":     KindQuery,
	"DESCRIBE": KindQuery,
	"DESC":     KindQuery,
	"EXPLAIN":  KindQuery,
	"VALUES":   KindQuery,
	"PRAGMA":   KindQuery,
	"TABLE":    KindQuery,

	"INSERT":  KindModify,
	"UPDATE":  KindModify,
	"DELETE":  KindModify,
	"MERGE":   KindModify,
	"UPSERT":  KindModify,
	"REPLACE": KindModify,

	"CREATE":   KindDDL,
	"ALTER":    KindDDL,
	"DROP":     KindDDL,
	"TRUNCATE": KindDDL,
	"RENAME":   KindDDL,
	"COMMENT":  KindDDL,

	"CALL":    KindCall,
	"EXEC":    KindCall,
	"EXECUTE": KindCall,
}

func classifyKeyword(sql string) Kind {
	words := strings.FieldsFunc(strings.ToUpper(stripComments(sql)), func(r rune) bool {
		return !(unicode.IsLetter(r) || r == '_')
	})
	if len(words) == 0 {
		return KindEmpty
	}
	kind, ok := keywordKinds[words[0]]
	if !ok {
		return KindOther
	}
	if kind == KindModify {
		for _, w := range words[1:] {
			// PostgreSQL RETURNING and SQL Server OUTPUT turn DML into queries.
			if w == "RETURNING" || w == "OUTPUT" {
				return KindQuery
			}
		}
	}
	return kind
}

// stripComments removes leading "--" and "/* */" comments.
func stripComments(sql string) string {
	for {
		sql = strings.TrimSpace(sql)
		switch {
		case strings.HasPrefix(sql, "--"):
			i := strings.IndexByte(sql, '\n')
			if i < 0 {
				return ""
			}
			sql = sql[i+1:]
		case strings.HasPrefix(sql, "/*"):
			i := strings.Index(sql, "*/")
			if i < 0 {
				return ""
			}
			sql = sql[i+2:]
		default:
			return sql
		}
	}
}
