package topology

// Member states reported by replSetGetStatus.
const (
	StateStartup    = 0
	StatePrimary    = 1
	StateSecondary  = 2
	StateRecovering = 3
	StateStartup2   = 5
	StateUnknown    = 6
	StateArbiter    = 7
	StateDown       = 8
	StateRollback   = 9
	StateRemoved    = 10
)

type MemberStatus struct {
	ID       int     `bson:"_id"`
	Name     string  `bson:"name"`
	Health   float64 `bson:"health"`
	State    int     `bson:"state"`
	StateStr string  `bson:"stateStr"`
}

type ReplicaSetStatus struct {
	Set     string          `bson:"set"`
	MyState int             `bson:"myState"`
	Members []*MemberStatus `bson:"members"`
}

// Primary returns the healthy primary member, if any.
func (s *ReplicaSetStatus) Primary() *MemberStatus {
	if s == nil {
		return nil
	}
	for _, m := range s.Members {
		if m.State == StatePrimary && m.Health == 1 {
			return m
		}
	}
	return nil
}

func (s *ReplicaSetStatus) Ready() bool {
	return s.Primary() != nil
}
