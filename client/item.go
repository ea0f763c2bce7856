package client

import (
	"context"

	"github.com/drydotai/dry-go/client/internal/apierrors"
	"github.com/drydotai/dry-go/client/internal/types"
)

// Item is a handle on a record (or folder) in a space. Field names and
// values are server-defined; the snapshot is the set returned by the call
// that produced the handle. Handles are not safe for concurrent use.
type Item struct {
	c       *Client
	id      string
	fields  Fields
	deleted bool
}

func newItem(c *Client, fields Fields) *Item {
	return &Item{c: c, id: fields.text("ID"), fields: fields}
}

// ID returns the item's identifier.
func (it *Item) ID() string { return it.id }

// Name returns the item's name, if present in the snapshot.
func (it *Item) Name() string { return it.fields.text("Name") }

// Description returns the item's description, if present in the snapshot.
func (it *Item) Description() string { return it.fields.text("Description") }

// URL returns the item's web address, if present in the snapshot.
func (it *Item) URL() string { return it.fields.text("URL") }

// Fields returns the last server snapshot of the item's attributes.
func (it *Item) Fields() Fields { return it.fields }

// Field returns one attribute from the last server snapshot. Lookup is
// tolerant of the server's field-name casing.
func (it *Item) Field(name string) Value {
	v, _ := it.fields.Get(name)
	return v
}

func (it *Item) guard(op string) error {
	if it.deleted {
		return apierrors.Newf(apierrors.KindInvalidState, "item %s is deleted; %s is no longer possible", it.id, op)
	}
	return nil
}

// Update applies a natural-language instruction to the item, e.g. "mark
// as done". On success the handle's snapshot is replaced with the server's
// returned state, so reads immediately after Update reflect what the
// server actually stored.
func (it *Item) Update(ctx context.Context, instruction string) error {
	if err := it.guard("update"); err != nil {
		return err
	}
	if err := types.RequireText("instruction", instruction); err != nil {
		return err
	}
	snapshots, err := it.c.updateTargets(ctx, "update_item", types.UpdateItemsRequest{Item: it.id, Query: instruction})
	if err != nil {
		return err
	}
	if len(snapshots) > 0 {
		it.fields = snapshots[0]
	}
	return nil
}

// Delete removes the item. The handle is terminal afterwards: every
// further operation fails locally with an invalid-state error and no
// network traffic.
func (it *Item) Delete(ctx context.Context) error {
	if err := it.guard("delete"); err != nil {
		return err
	}
	if err := it.c.deleteTarget(ctx, "delete_item", it.id); err != nil {
		return err
	}
	it.deleted = true
	return nil
}
