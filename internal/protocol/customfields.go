package protocol

import (
	"fmt"
	"iter"
)

// ParseCustomFieldName returns the inner name of a CF.{name} key.
func ParseCustomFieldName(key string) (string, bool) {
	match := customFieldRE.FindStringSubmatch(key)
	if match == nil {
		return "", false
	}
	return match[customFieldRE.SubexpIndex("name")], true
}

// CustomFieldKey wraps name as CF.{name}. Already wrapped keys are returned
// unchanged.
func CustomFieldKey(name string) string {
	if _, ok := ParseCustomFieldName(name); ok {
		return name
	}
	return customFieldPrefix + name + customFieldSuffix
}

// CustomFields addresses a record's custom fields by bare name. It is a
// back-reference to the record; reads and writes go straight through.
type CustomFields struct {
	record *Record
}

func (c CustomFields) key(name string) (string, error) {
	if inner, ok := ParseCustomFieldName(name); ok {
		return "", fmt.Errorf("%w: use %q instead of %q", ErrWrappedCustomFieldName, inner, name)
	}
	return CustomFieldKey(name), nil
}

func (c CustomFields) Get(name string) (any, error) {
	key, err := c.key(name)
	if err != nil {
		return nil, err
	}
	value, ok := c.record.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, key)
	}
	return value, nil
}

func (c CustomFields) Set(name string, value any) error {
	key, err := c.key(name)
	if err != nil {
		return err
	}
	c.record.Set(key, value)
	return nil
}

func (c CustomFields) Delete(name string) error {
	key, err := c.key(name)
	if err != nil {
		return err
	}
	if !c.record.Delete(key) {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, key)
	}
	return nil
}

// Names returns bare custom-field names in the record's order.
func (c CustomFields) Names() []string {
	var names []string
	for name := range c.All() {
		names = append(names, name)
	}
	return names
}

func (c CustomFields) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for key, value := range c.record.All() {
			name, ok := ParseCustomFieldName(key)
			if !ok {
				continue
			}
			if !yield(name, value) {
				return
			}
		}
	}
}

func (c CustomFields) Len() int {
	n := 0
	for range c.All() {
		n++
	}
	return n
}
