package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeOf(t *testing.T, raw string) *Type {
	t.Helper()
	return newType(nil, parseFields(t, raw))
}

func TestTypeFieldDefs(t *testing.T) {
	t.Parallel()

	t.Run("NameListForm", func(t *testing.T) {
		typ := typeOf(t, `{"ID": "type-1", "Name": "Task",
			"Fields": ["Title", " Status ", ""]}`)

		defs := typ.FieldDefs()
		require.Len(t, defs, 2)
		assert.Equal(t, FieldDef{Name: "Title"}, defs[0])
		assert.Equal(t, FieldDef{Name: "Status"}, defs[1])
	})

	t.Run("ObjectForm", func(t *testing.T) {
		typ := typeOf(t, `{"ID": "type-1", "Name": "Task",
			"Fields": [
				{"Name": "Status", "Kind": "choice", "Options": ["open", "closed"]},
				{"Name": "Due", "Type": "date"},
				{"Kind": "text"}
			]}`)

		defs := typ.FieldDefs()
		require.Len(t, defs, 2)
		assert.Equal(t, "Status", defs[0].Name)
		assert.Equal(t, "choice", defs[0].Kind)
		assert.Equal(t, []string{"open", "closed"}, defs[0].Options)
		// "Type" is accepted as a fallback label for "Kind".
		assert.Equal(t, "date", defs[1].Kind)
		assert.Empty(t, defs[1].Options)
	})

	t.Run("MixedFormSkipsUnusableEntries", func(t *testing.T) {
		typ := typeOf(t, `{"ID": "type-1",
			"Fields": ["Title", 42, {"Name": "Status"}, null]}`)

		defs := typ.FieldDefs()
		require.Len(t, defs, 2)
		assert.Equal(t, "Title", defs[0].Name)
		assert.Equal(t, "Status", defs[1].Name)
	})

	t.Run("MissingDeclaration", func(t *testing.T) {
		assert.Nil(t, typeOf(t, `{"ID": "type-1", "Name": "Note"}`).FieldDefs())
		assert.Nil(t, typeOf(t, `{"ID": "type-1", "Fields": "not a list"}`).FieldDefs())
	})
}

func TestTypeFieldNames(t *testing.T) {
	t.Parallel()

	typ := typeOf(t, `{"ID": "type-1",
		"Fields": [{"Name": "Title"}, {"Name": "Status"}, {"Name": "Priority"}]}`)

	assert.Equal(t, []string{"Title", "Status", "Priority"}, typ.FieldNames())
}

func TestTypeHasField(t *testing.T) {
	t.Parallel()

	typ := typeOf(t, `{"ID": "type-1", "Fields": ["Title", "Status"]}`)

	assert.True(t, typ.HasField("Title"))
	assert.True(t, typ.HasField("status"))
	assert.True(t, typ.HasField("STATUS"))
	assert.False(t, typ.HasField("Priority"))
	assert.False(t, typ.HasField(""))
}
