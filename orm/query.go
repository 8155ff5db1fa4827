package orm

import (
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr weave.Iterator) []weave.Model {
	defer itr.Close()

	var res []weave.Model
	for ; itr.Valid(); itr.Next() {
		mod := weave.Model{
			Key:   itr.Key(),
			Value: itr.Value(),
		}
		res = append(res, mod)
	}
	return res
}

// queryPrefix returns all models whose keys start with given prefix.
func queryPrefix(db weave.ReadOnlyKVStore, prefix []byte) []weave.Model {
	return ConsumeIterator(db.Iterator(prefix, prefixRangeEnd(prefix)))
}

// prefixRangeEnd returns the smallest key that is greater than all keys
// starting with given prefix, or nil if there is none.
func prefixRangeEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// RegisterQuery exposes the raw key value store under "/". Keys are full
// database keys, including the bucket prefix.
func RegisterQuery(qr weave.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		value := db.Get(data)
		if value == nil {
			return nil, nil
		}
		return []weave.Model{weave.Pair(data, value)}, nil
	case weave.PrefixQueryMod:
		return queryPrefix(db, data), nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
