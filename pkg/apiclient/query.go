package apiclient

import (
	"net/url"
	"strings"
)

// Query is an ordered list of parameters. Unlike url.Values it keeps
// insertion order, and a key added several times is sent as repeated keys.
type Query []Param

type Param struct {
	Key   string
	Value string
}

func (q Query) Add(key, value string) Query {
	return append(q, Param{Key: key, Value: value})
}

// AddAll appends one key=value pair per value; an empty slice adds nothing.
func (q Query) AddAll(key string, values []string) Query {
	for _, v := range values {
		q = append(q, Param{Key: key, Value: v})
	}
	return q
}

func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
