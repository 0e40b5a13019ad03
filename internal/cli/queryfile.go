package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	sqlquery "github.com/biyonik/go-sqlquery"
	"github.com/biyonik/go-sqlquery/dialect"
)

// QueryFile, YAML ile tanımlanan bir SELECT sorgusudur.
//
//	from: Users
//	alias: u
//	select: [u.Id, u.Name]
//	joins:
//	  - kind: left
//	    table: Orders
//	    alias: o
//	    on: [{left: u.Id, right: o.UserId}]
//	where:
//	  - {column: u.Age, op: ">=", value: 18}
//	  - {column: u.Role, value: admin, or: true}
//	order: [{column: u.Name, desc: true}]
//	limit: 10
type QueryFile struct {
	From     string      `yaml:"from"`
	Alias    string      `yaml:"alias"`
	Schema   string      `yaml:"schema"`
	Distinct bool        `yaml:"distinct"`
	Select   []string    `yaml:"select"`
	Joins    []JoinSpec  `yaml:"joins"`
	Where    []WhereSpec `yaml:"where"`
	Order    []OrderSpec `yaml:"order"`
	Limit    *int        `yaml:"limit"`
	Offset   *int        `yaml:"offset"`
}

// JoinSpec, tek bir JOIN tanımıdır. Raw doluysa hedef olduğu gibi yazılır.
type JoinSpec struct {
	Kind  string   `yaml:"kind"` // inner | left | right
	Table string   `yaml:"table"`
	Alias string   `yaml:"alias"`
	Raw   string   `yaml:"raw"`
	On    []OnSpec `yaml:"on"`
}

// OnSpec, bir JOIN koşulunun iki kolonudur.
type OnSpec struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	Op    string `yaml:"op"`
}

// WhereSpec, bir WHERE koşuludur. Or true ise koşul OR ile birleşir.
type WhereSpec struct {
	Column string `yaml:"column"`
	Op     string `yaml:"op"`
	Value  any    `yaml:"value"`
	Raw    string `yaml:"raw"`
	Args   []any  `yaml:"args"`
	Or     bool   `yaml:"or"`
}

// OrderSpec, bir ORDER BY öğesidir.
type OrderSpec struct {
	Column string `yaml:"column"`
	Desc   bool   `yaml:"desc"`
}

// LoadQueryFile, bir YAML sorgu dosyasını okur.
func LoadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseQueryFile(data)
}

// ParseQueryFile, YAML içeriğini çözer.
func ParseQueryFile(data []byte) (*QueryFile, error) {
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("invalid query file: %w", err)
	}
	if strings.TrimSpace(qf.From) == "" {
		return nil, fmt.Errorf("invalid query file: %w", sqlquery.ErrNoTable)
	}
	return &qf, nil
}

// Apply, tanımı verilen sorguya uygular.
func (qf *QueryFile) Apply(q *sqlquery.Query) (*sqlquery.Query, error) {
	q.From(qf.From, sqlquery.As(qf.Alias), sqlquery.Schema(qf.Schema))
	if qf.Distinct {
		q.Distinct()
	}
	for _, s := range qf.Select {
		q.Select(s)
	}

	for i, j := range qf.Joins {
		if j.Raw != "" {
			switch strings.ToLower(j.Kind) {
			case "left":
				q.AppendLeftJoin(j.Raw)
			case "right":
				q.AppendRightJoin(j.Raw)
			default:
				q.AppendJoin(j.Raw)
			}
		} else {
			switch strings.ToLower(j.Kind) {
			case "left":
				q.LeftJoin(j.Table, sqlquery.As(j.Alias))
			case "right":
				q.RightJoin(j.Table, sqlquery.As(j.Alias))
			case "", "inner":
				q.Join(j.Table, sqlquery.As(j.Alias))
			default:
				return nil, fmt.Errorf("joins[%d]: unknown join kind %q", i, j.Kind)
			}
		}
		for _, on := range j.On {
			op, err := dialect.ParseOperator(on.Op)
			if err != nil {
				return nil, fmt.Errorf("joins[%d]: %w", i, err)
			}
			q.On(on.Left, on.Right, op)
		}
	}

	for i, w := range qf.Where {
		var cond dialect.Condition
		if w.Raw != "" {
			cond = dialect.Raw(w.Raw, w.Args...)
		} else {
			op, err := dialect.ParseOperator(w.Op)
			if err != nil {
				return nil, fmt.Errorf("where[%d]: %w", i, err)
			}
			cond = dialect.Compare(w.Column, op, w.Value)
		}
		if w.Or {
			q.Or(cond)
		} else {
			q.And(cond)
		}
	}

	for _, o := range qf.Order {
		if o.Desc {
			q.OrderByDesc(o.Column)
		} else {
			q.OrderBy(o.Column)
		}
	}
	if qf.Limit != nil {
		q.Limit(*qf.Limit)
	}
	if qf.Offset != nil {
		q.Offset(*qf.Offset)
	}
	return q, q.Err()
}
