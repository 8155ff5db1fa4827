package app

import (
	"github.com/iov-one/msigwallet/codec"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

// ResultSet holds the keys or the values of a query result. Query responses
// carry one ResultSet for the keys and one for the values, always of the
// same size.
type ResultSet struct {
	Results [][]byte
}

// Marshal serializes the set.
func (r *ResultSet) Marshal() ([]byte, error) {
	return codec.Marshal(r)
}

// Unmarshal reads a serialized set.
func (r *ResultSet) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, r)
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []weave.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []weave.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]weave.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]weave.Model, len(kref))
	for i := range mods {
		mods[i] = weave.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o weave.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
