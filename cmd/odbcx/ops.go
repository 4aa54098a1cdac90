package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/odbcadapter/dialect/sql/schema"
)

// opSpec is one operation of a migration file:
//
//	- op: change_column
//	  table: users
//	  column: age
//	  type: integer
//	  not_null: true
//	  default: 0
type opSpec struct {
	Op        string `yaml:"op"`
	Table     string `yaml:"table"`
	Column    string `yaml:"column"`
	Name      string `yaml:"name"`
	NewName   string `yaml:"new_name"`
	Type      string `yaml:"type"`
	Limit     int    `yaml:"limit"`
	Precision int    `yaml:"precision"`
	Scale     int    `yaml:"scale"`
	Default   any    `yaml:"default"`
	NotNull   *bool  `yaml:"not_null"`
	Primary   bool   `yaml:"primary_key"`
	AutoInc   bool   `yaml:"auto_increment"`
}

func readOps(path string) ([]schema.Op, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseOps(data)
}

func parseOps(data []byte) ([]schema.Op, error) {
	var specs []opSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse operations: %w", err)
	}
	ops := make([]schema.Op, 0, len(specs))
	for i, s := range specs {
		op, err := s.op()
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i+1, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (s opSpec) op() (schema.Op, error) {
	switch s.Op {
	case schema.KindRenameColumn:
		return schema.RenameColumn{Table: s.Table, Column: s.Column, NewName: s.NewName}, nil
	case schema.KindChangeColumn:
		opts := schema.ColumnOptions{
			TypeOptions:   schema.TypeOptions{Limit: s.Limit, Precision: s.Precision, Scale: s.Scale},
			Null:          s.null(),
			PrimaryKey:    s.Primary,
			AutoIncrement: s.AutoInc,
		}
		if s.Default != nil {
			opts = opts.WithDefault(s.Default)
		}
		return schema.ChangeColumn{Table: s.Table, Column: s.Column, Type: s.Type, Options: opts}, nil
	case schema.KindChangeColumnDefault:
		return schema.ChangeColumnDefault{Table: s.Table, Column: s.Column, Default: s.Default}, nil
	case schema.KindRenameIndex:
		return schema.RenameIndex{Table: s.Table, Name: s.Name, NewName: s.NewName}, nil
	case schema.KindRemoveIndex:
		return schema.RemoveIndex{Table: s.Table, Name: s.Name}, nil
	case schema.KindRenameTable:
		return schema.RenameTable{Table: s.Table, NewName: s.NewName}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", s.Op)
	}
}

func (s opSpec) null() *bool {
	if s.NotNull == nil {
		return nil
	}
	null := !*s.NotNull
	return &null
}
