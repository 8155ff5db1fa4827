package weave

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Options is the app_state of a genesis file. Every extension reads its
// own top level section.
type Options map[string]json.RawMessage

// ReadOptions decodes the section stored under key into obj. A missing
// section leaves obj untouched. Fields unknown to obj are rejected, so
// that a misspelled genesis entry does not pass silently.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()
	return dec.Decode(obj)
}

// Sections returns the section keys in lexical order.
func (o Options) Sections() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// SectionReader is implemented by an Initializer that knows every genesis
// section it reads. A nil result means the set is not known.
type SectionReader interface {
	GenesisSections() []string
}
