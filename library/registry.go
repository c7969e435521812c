package library

// memberRegistry owns member records. Like the catalog it relies on the
// aggregate lock for concurrency safety.
type memberRegistry struct {
	members map[string]*Member
}

func newMemberRegistry() *memberRegistry {
	return &memberRegistry{members: make(map[string]*Member)}
}

// add inserts the member by id, overwriting silently on collision.
func (r *memberRegistry) add(m *Member) {
	r.members[m.ID] = m
}

func (r *memberRegistry) findByID(id string) *Member {
	return r.members[id]
}

func (r *memberRegistry) all() []*Member {
	members := make([]*Member, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, m)
	}
	return members
}
