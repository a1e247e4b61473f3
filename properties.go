package jsql

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// Property keys understood by every driver.
const (
	PropertyUser     = "user"
	PropertyPassword = "password"
)

// Properties is a set of connection properties passed to Driver.Connect.
type Properties map[string]string

// UserProperties returns Properties carrying the given credentials. Empty
// values are left out.
func UserProperties(user, password string) Properties {
	p := make(Properties, 2)
	if user != "" {
		p[PropertyUser] = user
	}
	if password != "" {
		p[PropertyPassword] = password
	}
	return p
}

// Get returns the value of key, or def when it is not set.
func (p Properties) Get(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// User returns the user property.
func (p Properties) User() string { return p[PropertyUser] }

// Password returns the password property.
func (p Properties) Password() string { return p[PropertyPassword] }

// Clone returns a copy of p. The copy of a nil set is an empty set.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Keys returns the property names in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders p with the password masked, for logging.
func (p Properties) String() string {
	buf := []byte{'{'}
	for i, k := range p.Keys() {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		v := p[k]
		if k == PropertyPassword {
			v = "****"
		}
		buf = append(buf, k...)
		buf = append(buf, '=')
		buf = append(buf, v...)
	}
	return string(append(buf, '}'))
}

// DecodeProperties parses a TOML document of string keys and scalar values.
// Non-string scalars are stored in their TOML text form.
func DecodeProperties(data string) (Properties, error) {
	var raw map[string]interface{}
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("sql: decode properties: %w", err)
	}
	p := make(Properties, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			p[k] = v
		case map[string]interface{}, []map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("sql: property %q is not a scalar", k)
		default:
			p[k] = fmt.Sprint(v)
		}
	}
	return p, nil
}
