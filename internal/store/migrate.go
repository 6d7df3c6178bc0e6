package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/scholarprep/ent/schema"
)

// migrate creates or updates every table declared in ent/schema.
//
// The schemas are read at runtime through their descriptors, so the
// migration engine sees exactly what the schema package declares without a
// generated client in between.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables, err := schemaTables(entschema.All())
	if err != nil {
		return err
	}
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// schemaTables converts ent schema declarations into migration tables.
func schemaTables(schemas []ent.Interface) ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(schemas))
	for _, s := range schemas {
		t, err := tableFor(s)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func tableFor(s ent.Interface) (*schema.Table, error) {
	name := tableName(s)
	t := schema.NewTable(name).AddPrimary(&schema.Column{
		Name:      "id",
		Type:      field.TypeInt,
		Increment: true,
	})

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		c := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
			Size:     int64(d.Size),
		}
		// Function defaults (time.Now) are applied by the writer, not the table.
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			c.Default = d.Default
		}
		t.AddColumn(c)
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		t.AddIndex(name+"_"+strings.Join(d.Fields, "_"), d.Unique, d.Fields)
	}
	return t, nil
}

// tableName prefers the entsql table annotation and falls back to the
// lowercased type name.
func tableName(s ent.Interface) string {
	for _, a := range s.Annotations() {
		switch ann := a.(type) {
		case entsql.Annotation:
			if ann.Table != "" {
				return ann.Table
			}
		case *entsql.Annotation:
			if ann != nil && ann.Table != "" {
				return ann.Table
			}
		}
	}
	return strings.ToLower(reflect.TypeOf(s).Name()) + "s"
}
