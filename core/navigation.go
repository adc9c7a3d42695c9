package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/sjson"
)

// Page is one entry of a navigation group: either a page reference or a
// nested group. Entries of any other JSON shape are carried verbatim.
type Page struct {
	Ref   string
	Group *NavigationItem

	raw json.RawMessage
}

// MarshalJSON implements json.Marshaler.
func (p Page) MarshalJSON() ([]byte, error) {
	switch {
	case p.Group != nil:
		return json.Marshal(p.Group)
	case p.raw != nil:
		return p.raw, nil
	default:
		return json.Marshal(p.Ref)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Page) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)
	if len(t) == 0 {
		return errors.New("empty navigation page")
	}

	*p = Page{}

	switch t[0] {
	case '"':
		return json.Unmarshal(t, &p.Ref)
	case '{':
		var g NavigationItem
		if err := json.Unmarshal(t, &g); err != nil {
			return err
		}

		p.Group = &g

		return nil
	default:
		p.raw = slices.Clone(json.RawMessage(t))
		return nil
	}
}

func (p Page) equal(o Page) bool {
	if p.Ref != o.Ref || !bytes.Equal(p.raw, o.raw) {
		return false
	}

	if p.Group == nil || o.Group == nil {
		return p.Group == nil && o.Group == nil
	}

	return p.Group.Equal(*o.Group)
}

// NavigationItem is a named group holding an ordered page list. Keys other
// than group and pages (icon, version, ...) survive a decode/encode cycle.
type NavigationItem struct {
	Group string
	Pages []Page

	raw json.RawMessage
}

type navigationItemJSON struct {
	Group string `json:"group"`
	Pages []Page `json:"pages"`
}

// MarshalJSON implements json.Marshaler.
func (n NavigationItem) MarshalJSON() ([]byte, error) {
	pages := n.Pages
	if pages == nil {
		pages = []Page{}
	}

	if n.raw == nil {
		return json.Marshal(navigationItemJSON{Group: n.Group, Pages: pages})
	}

	encoded, err := json.Marshal(pages)
	if err != nil {
		return nil, err
	}

	out, err := sjson.SetBytes(slices.Clone(n.raw), "group", n.Group)
	if err != nil {
		return nil, fmt.Errorf("set group: %w", err)
	}

	out, err = sjson.SetRawBytes(out, "pages", encoded)
	if err != nil {
		return nil, fmt.Errorf("set pages: %w", err)
	}

	return out, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NavigationItem) UnmarshalJSON(b []byte) error {
	var aux navigationItemJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	n.Group = aux.Group
	n.Pages = aux.Pages
	n.raw = slices.Clone(json.RawMessage(bytes.TrimSpace(b)))

	return nil
}

// Equal reports structural equality of group name and pages.
func (n NavigationItem) Equal(o NavigationItem) bool {
	if n.Group != o.Group || len(n.Pages) != len(o.Pages) {
		return false
	}

	for i := range n.Pages {
		if !n.Pages[i].equal(o.Pages[i]) {
			return false
		}
	}

	return true
}

// HasPage reports whether the group directly lists ref.
func (n NavigationItem) HasPage(ref string) bool {
	return n.pageIndex(ref) >= 0
}

func (n NavigationItem) pageIndex(ref string) int {
	for i, p := range n.Pages {
		if p.Group == nil && p.raw == nil && p.Ref == ref {
			return i
		}
	}

	return -1
}

func (n *NavigationItem) removePage(ref string) {
	n.Pages = slices.DeleteFunc(n.Pages, func(p Page) bool {
		return p.Group == nil && p.raw == nil && p.Ref == ref
	})
}

// Navigation is the ordered list of top-level groups of a manifest.
type Navigation []NavigationItem

// Clone returns a copy whose groups and page slices can be modified freely.
func (n Navigation) Clone() Navigation {
	if n == nil {
		return nil
	}

	out := make(Navigation, len(n))
	for i, item := range n {
		out[i] = item
		out[i].Pages = slices.Clone(item.Pages)
	}

	return out
}

// Equal reports structural equality of two trees.
func (n Navigation) Equal(o Navigation) bool {
	if len(n) != len(o) {
		return false
	}

	for i := range n {
		if !n[i].Equal(o[i]) {
			return false
		}
	}

	return true
}

// GroupIndex finds a group by case-insensitive name, or -1.
func (n Navigation) GroupIndex(group string) int {
	for i, item := range n {
		if strings.EqualFold(item.Group, group) {
			return i
		}
	}

	return -1
}

func (n Navigation) pageGroupIndex(ref string) int {
	for i, item := range n {
		if item.HasPage(ref) {
			return i
		}
	}

	return -1
}

// Apply returns a new tree with ops applied in order, plus the operations
// that were skipped because their group does not exist. The receiver is
// left untouched.
//
//   - add creates the group when missing and appends the page once.
//   - remove drops the page and deletes the group once it is empty.
//   - move takes the page out of its current group into the target group,
//     pruning the source group when it becomes empty.
func (n Navigation) Apply(ops []NavigationOp) (Navigation, []NavigationOp) {
	out := n.Clone()

	var skipped []NavigationOp

	for _, op := range ops {
		gi := out.GroupIndex(op.Group)
		if gi < 0 && op.Type == NavAdd {
			out = append(out, NavigationItem{Group: op.Group})
			gi = len(out) - 1
		}

		if gi < 0 {
			skipped = append(skipped, op)
			continue
		}

		switch op.Type {
		case NavAdd:
			if !out[gi].HasPage(op.Page) {
				out[gi].Pages = append(out[gi].Pages, Page{Ref: op.Page})
			}
		case NavRemove:
			out[gi].removePage(op.Page)
			if len(out[gi].Pages) == 0 {
				out = slices.Delete(out, gi, gi+1)
			}
		case NavMove:
			si := out.pageGroupIndex(op.Page)
			if si < 0 || si == gi {
				continue
			}

			out[si].removePage(op.Page)

			if !out[gi].HasPage(op.Page) {
				out[gi].Pages = append(out[gi].Pages, Page{Ref: op.Page})
			}

			if len(out[si].Pages) == 0 {
				out = slices.Delete(out, si, si+1)
			}
		default:
			skipped = append(skipped, op)
		}
	}

	return out, skipped
}
