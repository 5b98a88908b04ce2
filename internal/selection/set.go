package selection

// set is a candidate selection. It may violate the antichain invariant and
// never leaves this package.
type set map[string]struct{}

func newSet(ids []string) set {
	s := make(set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s set) has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s set) add(id string) {
	s[id] = struct{}{}
}

func (s set) remove(id string) {
	delete(s, id)
}

func (s set) clone() set {
	out := make(set, len(s)+1)
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
