package protocol

import (
	"fmt"
	"iter"
)

// Record is one protocol record: an insertion-ordered mapping of field name
// to value. Setting an existing field replaces its value but keeps the
// position at which the field was first inserted.
//
// Values are raw strings after parsing. After deserialization, fields named
// in the serializer's conversion table hold typed values (time.Time, nil,
// []string).
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord builds a record from alternating name/value pairs.
//
//	NewRecord("id", "ticket/new", "Queue", "General")
func NewRecord(pairs ...any) *Record {
	if len(pairs)%2 != 0 {
		panic("protocol: NewRecord requires name/value pairs")
	}

	r := &Record{values: make(map[string]any, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("protocol: NewRecord field name %v is %T, not string", pairs[i], pairs[i]))
		}
		r.Set(name, pairs[i+1])
	}
	return r
}

func (r *Record) init() {
	if r.values == nil {
		r.values = map[string]any{}
	}
}

func (r *Record) Set(name string, value any) {
	r.init()
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = value
}

func (r *Record) Get(name string) (any, bool) {
	if r == nil || r.values == nil {
		return nil, false
	}
	value, ok := r.values[name]
	return value, ok
}

// GetString returns the field as a string. Non-string values are formatted
// with fmt; absent fields yield "".
func (r *Record) GetString(name string) string {
	value, ok := r.Get(name)
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func (r *Record) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

func (r *Record) Delete(name string) bool {
	if _, ok := r.Get(name); !ok {
		return false
	}
	delete(r.values, name)
	for i, key := range r.keys {
		if key == name {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns a copy of the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// All iterates fields in insertion order.
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if r == nil {
			return
		}
		for _, key := range r.keys {
			if !yield(key, r.values[key]) {
				return
			}
		}
	}
}

// Update copies every field of other into r, in other's order.
func (r *Record) Update(other *Record) {
	for name, value := range other.All() {
		r.Set(name, value)
	}
}

func (r *Record) Clone() *Record {
	clone := &Record{values: make(map[string]any, r.Len())}
	clone.Update(r)
	return clone
}

// CustomFields returns a view over the record's CF.{name} fields addressed
// by bare name. The view holds no storage of its own.
func (r *Record) CustomFields() CustomFields {
	return CustomFields{record: r}
}

// Serialize renders the record with the given serializer, or the default
// one when s is nil.
func (r *Record) Serialize(s *Serializer) string {
	return serializerOrDefault(s).Serialize(r)
}

func (r *Record) Deserialize(s *Serializer) (Body, error) {
	converted, err := serializerOrDefault(s).Deserialize(r)
	if err != nil {
		return nil, err
	}
	return converted, nil
}

func (r *Record) Multipart() bool { return false }

// MultiRecord is the ordered sequence of records in a multipart body.
type MultiRecord []*Record

func (m MultiRecord) Len() int { return len(m) }

func (m MultiRecord) At(i int) *Record { return m[i] }

func (m MultiRecord) Serialize(s *Serializer) string {
	s = serializerOrDefault(s)
	parts := make([]string, 0, len(m))
	for _, record := range m {
		parts = append(parts, s.Serialize(record))
	}
	return joinParts(parts)
}

// Deserialize returns a new MultiRecord holding each record deserialized.
func (m MultiRecord) Deserialize(s *Serializer) (Body, error) {
	s = serializerOrDefault(s)
	out := make(MultiRecord, 0, len(m))
	for i, record := range m {
		converted, err := s.Deserialize(record)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		out = append(out, converted)
	}
	return out, nil
}

func (m MultiRecord) Multipart() bool { return true }

// Body is the parsed data section of a response: either a *Record or a
// MultiRecord, selected by the caller's multipart flag.
type Body interface {
	Serialize(s *Serializer) string
	Deserialize(s *Serializer) (Body, error)
	Multipart() bool
}

var (
	_ Body = (*Record)(nil)
	_ Body = MultiRecord(nil)
)
