package client

import "strings"

// Type is a handle on a schema: a named field set constraining the items
// created under it. A Type is addressed like an item, so it inherits the
// item operations (Update, Delete, Field access).
type Type struct {
	*Item
}

func newType(c *Client, fields Fields) *Type {
	return &Type{Item: newItem(c, fields)}
}

// FieldDef describes one declared field of a schema.
type FieldDef struct {
	// Name of the field.
	Name string
	// Kind is the server's type label (text, number, date, ...), empty when
	// the schema only lists field names.
	Kind string
	// Options holds the allowed values for enumerated fields.
	Options []string
}

// FieldDefs returns the schema's declared fields. The server renders the
// declaration either as a list of names or as a list of objects carrying
// name, kind, and options; both shapes are handled.
func (t *Type) FieldDefs() []FieldDef {
	list, ok := t.Field("Fields").List()
	if !ok {
		return nil
	}
	defs := make([]FieldDef, 0, len(list))
	for _, v := range list {
		switch v.Kind() {
		case ValueString:
			name, _ := v.AsString()
			if name = strings.TrimSpace(name); name != "" {
				defs = append(defs, FieldDef{Name: name})
			}
		case ValueObject:
			obj, _ := v.Object()
			def := FieldDef{Name: obj.text("Name")}
			if def.Name == "" {
				continue
			}
			if kind := obj.text("Kind"); kind != "" {
				def.Kind = kind
			} else {
				def.Kind = obj.text("Type")
			}
			if opts, ok := obj.Get("Options"); ok {
				def.Options, _ = opts.AsStringSlice()
			}
			defs = append(defs, def)
		}
	}
	return defs
}

// FieldNames returns just the declared field names, in declaration order.
func (t *Type) FieldNames() []string {
	defs := t.FieldDefs()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// HasField reports whether the schema declares the field, ignoring case.
func (t *Type) HasField(name string) bool {
	for _, d := range t.FieldDefs() {
		if strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}
