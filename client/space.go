package client

import (
	"context"

	"github.com/drydotai/dry-go/client/internal/api"
	"github.com/drydotai/dry-go/client/internal/apierrors"
	"github.com/drydotai/dry-go/client/internal/types"
)

// Space is a handle on a remote, permissioned workspace containing types,
// items, and folders. Handles are cheap and not safe for concurrent use;
// derive one per goroutine via Client.Space.
type Space struct {
	c       *Client
	id      string
	fields  Fields
	deleted bool
}

func newSpace(c *Client, fields Fields) *Space {
	return &Space{c: c, id: fields.text("ID"), fields: fields}
}

// ID returns the space's identifier.
func (s *Space) ID() string { return s.id }

// Name returns the server-assigned space name, if present in the snapshot.
func (s *Space) Name() string { return s.fields.text("Name") }

// Description returns the space description, if present in the snapshot.
func (s *Space) Description() string { return s.fields.text("Description") }

// URL returns the space's web address, if present in the snapshot.
func (s *Space) URL() string { return s.fields.text("URL") }

// Subdomain returns the space's globally unique subdomain, if present in
// the snapshot. It is changed like any other attribute, through Update.
func (s *Space) Subdomain() string { return s.fields.text("Subdomain") }

// Fields returns the last server snapshot of the space's attributes.
func (s *Space) Fields() Fields { return s.fields }

// Field returns one attribute from the last server snapshot.
func (s *Space) Field(name string) Value {
	v, _ := s.fields.Get(name)
	return v
}

// guard rejects operations on a deleted handle without touching the
// network.
func (s *Space) guard(op string) error {
	if s.deleted {
		return apierrors.Newf(apierrors.KindInvalidState, "space %s is deleted; %s is no longer possible", s.id, op)
	}
	return nil
}

// AddType creates a schema in the space from a natural-language
// description, e.g. "Task with title, status, priority".
func (s *Space) AddType(ctx context.Context, description string) (*Type, error) {
	if err := s.guard("add_type"); err != nil {
		return nil, err
	}
	if err := types.RequireText("description", description); err != nil {
		return nil, err
	}
	fields, err := s.c.createEntity(ctx, "add_type", types.ItemTypeType, description, s.id)
	if err != nil {
		return nil, err
	}
	return newType(s.c, fields), nil
}

// AddItem creates a record in the space from a natural-language
// description. The server picks (or infers) the type and fills the fields.
func (s *Space) AddItem(ctx context.Context, description string) (*Item, error) {
	if err := s.guard("add_item"); err != nil {
		return nil, err
	}
	if err := types.RequireText("description", description); err != nil {
		return nil, err
	}
	fields, err := s.c.createEntity(ctx, "add_item", types.ItemTypeItem, description, s.id)
	if err != nil {
		return nil, err
	}
	return newItem(s.c, fields), nil
}

// AddFolder creates an organizational grouping in the space. Folders are
// addressed like items.
func (s *Space) AddFolder(ctx context.Context, description string) (*Item, error) {
	if err := s.guard("add_folder"); err != nil {
		return nil, err
	}
	if err := types.RequireText("description", description); err != nil {
		return nil, err
	}
	fields, err := s.c.createEntity(ctx, "add_folder", types.ItemTypeFolder, description, s.id)
	if err != nil {
		return nil, err
	}
	return newItem(s.c, fields), nil
}

// GetType resolves a schema in the space by name.
func (s *Space) GetType(ctx context.Context, name string) (*Type, error) {
	if err := s.guard("get_type"); err != nil {
		return nil, err
	}
	if err := types.RequireText("name", name); err != nil {
		return nil, err
	}
	fields, err := s.c.getEntity(ctx, "get_type", api.GetItemQuery{Type: types.ItemTypeType, Query: name, Folder: s.id})
	if err != nil {
		return nil, err
	}
	return newType(s.c, fields), nil
}

// GetFolder resolves a folder in the space by name.
func (s *Space) GetFolder(ctx context.Context, name string) (*Item, error) {
	if err := s.guard("get_folder"); err != nil {
		return nil, err
	}
	if err := types.RequireText("name", name); err != nil {
		return nil, err
	}
	fields, err := s.c.getEntity(ctx, "get_folder", api.GetItemQuery{Type: types.ItemTypeFolder, Query: name, Folder: s.id})
	if err != nil {
		return nil, err
	}
	return newItem(s.c, fields), nil
}

// Search runs a natural-language query over the space's contents. The
// returned sequence is materialized from a single round trip; the server
// may hand back a continuation token, which Next follows on demand. The
// sequence is finite and cannot be restarted - issue a new Search to
// observe fresh state.
func (s *Space) Search(ctx context.Context, query string) (*Results, error) {
	if err := s.guard("search"); err != nil {
		return nil, err
	}
	if err := types.RequireText("query", query); err != nil {
		return nil, err
	}
	resp, err := s.c.listPage(ctx, "search", s.id, query, "")
	if err != nil {
		return nil, err
	}
	return newResults(s.c, s.id, query, resp), nil
}

// Prompt runs a free-form instruction against the space and returns the
// items the server created or changed. What the instruction means is
// entirely a server concern.
func (s *Space) Prompt(ctx context.Context, instruction string) ([]*Item, error) {
	if err := s.guard("prompt"); err != nil {
		return nil, err
	}
	if err := types.RequireText("instruction", instruction); err != nil {
		return nil, err
	}
	snapshots, err := s.c.promptFolder(ctx, "prompt", s.id, instruction)
	if err != nil {
		return nil, err
	}
	return itemsFromSnapshots(s.c, snapshots), nil
}

// Report asks the server to compose a formatted document over the space's
// contents, e.g. "summarize open tasks by priority".
func (s *Space) Report(ctx context.Context, instruction string) (string, error) {
	if err := s.guard("report"); err != nil {
		return "", err
	}
	if err := types.RequireText("instruction", instruction); err != nil {
		return "", err
	}
	return s.c.reportFolder(ctx, "report", s.id, instruction)
}

// Update applies a natural-language instruction to the space itself, e.g.
// "rename to Q3 Planning". On success the handle's snapshot is replaced
// with the server's.
func (s *Space) Update(ctx context.Context, instruction string) error {
	if err := s.guard("update"); err != nil {
		return err
	}
	if err := types.RequireText("instruction", instruction); err != nil {
		return err
	}
	snapshots, err := s.c.updateTargets(ctx, "update_space", types.UpdateItemsRequest{Item: s.id, Query: instruction})
	if err != nil {
		return err
	}
	if len(snapshots) > 0 {
		s.fields = snapshots[0]
	}
	return nil
}

// UpdateItems applies a natural-language instruction across the space's
// items ("mark every overdue task urgent") and returns the updated
// records.
func (s *Space) UpdateItems(ctx context.Context, instruction string) ([]*Item, error) {
	if err := s.guard("update_items"); err != nil {
		return nil, err
	}
	if err := types.RequireText("instruction", instruction); err != nil {
		return nil, err
	}
	snapshots, err := s.c.updateTargets(ctx, "update_items", types.UpdateItemsRequest{Folder: s.id, Query: instruction})
	if err != nil {
		return nil, err
	}
	return itemsFromSnapshots(s.c, snapshots), nil
}

// DeleteItems removes every item matching the natural-language query and
// reports how many the server removed.
func (s *Space) DeleteItems(ctx context.Context, query string) (int, error) {
	if err := s.guard("delete_items"); err != nil {
		return 0, err
	}
	if err := types.RequireText("query", query); err != nil {
		return 0, err
	}
	return s.c.deleteMatching(ctx, "delete_items", s.id, query)
}

// Delete removes the space. The handle is terminal afterwards: every
// further operation fails locally with an invalid-state error and no
// network traffic.
func (s *Space) Delete(ctx context.Context) error {
	if err := s.guard("delete"); err != nil {
		return err
	}
	if err := s.c.deleteTarget(ctx, "delete_space", s.id); err != nil {
		return err
	}
	s.deleted = true
	return nil
}

func itemsFromSnapshots(c *Client, snapshots []Fields) []*Item {
	items := make([]*Item, len(snapshots))
	for i, f := range snapshots {
		items[i] = newItem(c, f)
	}
	return items
}
