package saga

import "sort"

// Comparison is one payload equality predicate: the instance's payload must
// hold exactly Value under Key.
type Comparison struct {
	Key   string
	Value any
}

// Criteria is an ordered set of payload comparisons, ANDed together.
// Equality is the only operator. The zero value matches everything.
type Criteria struct {
	comparisons []Comparison
}

// NewCriteria builds criteria from a key/value map. Keys are ordered
// lexically so the same map always renders the same predicate sequence.
func NewCriteria(kv map[string]any) Criteria {
	if len(kv) == 0 {
		return Criteria{}
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmps := make([]Comparison, 0, len(keys))
	for _, k := range keys {
		cmps = append(cmps, Comparison{Key: k, Value: kv[k]})
	}
	return Criteria{comparisons: cmps}
}

// And returns criteria extended with one more comparison, preserving the
// receiver. Appended comparisons keep their insertion order.
func (c Criteria) And(key string, value any) Criteria {
	next := make([]Comparison, len(c.comparisons), len(c.comparisons)+1)
	copy(next, c.comparisons)
	next = append(next, Comparison{Key: key, Value: value})
	return Criteria{comparisons: next}
}

// Comparisons returns the predicates in order.
func (c Criteria) Comparisons() []Comparison {
	out := make([]Comparison, len(c.comparisons))
	copy(out, c.comparisons)
	return out
}

func (c Criteria) Len() int { return len(c.comparisons) }

func (c Criteria) Empty() bool { return len(c.comparisons) == 0 }
