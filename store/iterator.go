package store

import (
	"bytes"

	"github.com/google/btree"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// snapshotBtree copies all items within [start, end) out of the tree, so
// that the iterator does not hold any reference to the live tree. When
// reverse is set the items are returned in descending order.
func snapshotBtree(bt *btree.BTree, start, end []byte, reverse bool) []keyer {
	var items []keyer
	collect := func(item btree.Item) bool {
		items = append(items, item.(keyer))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}

	if reverse {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter combines the cached items with the parent iterator,
// taking into consideration overwrites and deletes.
type itemIter struct {
	items []keyer
	idx   int
	// if we are iterating in a cache-wrap (and who isn't),
	// we need to combine this iterator with the parent
	parent  Iterator
	reverse bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []keyer, parent Iterator, reverse bool) *itemIter {
	iter := &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	iter.skipAllDeleted()
	return iter
}

// Valid implements Iterator and returns true iff it can be read
func (i *itemIter) Valid() bool {
	return i.ourValid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *itemIter) Next() {
	// advance either us, parent, or both
	switch i.firstKey() {
	case us:
		i.idx++
	case both:
		i.idx++
		i.parent.Next()
	case parent:
		i.parent.Next()
	default:
		panic("Advanced past the end!")
	}

	// keep advancing over all deleted entries
	i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *itemIter) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.items[i.idx].Key()
	case parent:
		return i.parent.Key()
	default:
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *itemIter) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.items[i.idx].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *itemIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.items = nil
}

// skipAllDeleted loops and skips any number of deleted items
func (i *itemIter) skipAllDeleted() {
	for i.skipDeleted() {
	}
}

// skipDeleted jumps over a deleted element we can safely fast forward.
// return true if skipped, so we can skip again
func (i *itemIter) skipDeleted() bool {
	src := i.firstKey()
	if src != us && src != both {
		return false
	}
	if _, ok := i.items[i.idx].(deletedItem); !ok {
		return false
	}
	i.idx++
	// if parent had the same key, advance parent as well
	if src == both {
		i.parent.Next()
	}
	return true
}

// firstKey selects the iterator with the next key in iteration order
func (i *itemIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parentValid() {
		if !i.ourValid() {
			return none
		}
		return us
	} else if !i.ourValid() {
		return parent
	}

	cmp := bytes.Compare(i.parent.Key(), i.items[i.idx].Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

func (i *itemIter) ourValid() bool {
	return i.idx < len(i.items)
}

// makes sure the parent is non-nil before checking if it is valid
func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
