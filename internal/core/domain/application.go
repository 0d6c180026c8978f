package domain

type ApplicationState string

const (
	StateInterested ApplicationState = "interested"
	StateApplied    ApplicationState = "applied"
	StateAccepted   ApplicationState = "accepted"
	StateRejected   ApplicationState = "rejected"
)

// ApplicationStates lists every accepted state, in lifecycle order.
var ApplicationStates = []ApplicationState{
	StateInterested,
	StateApplied,
	StateAccepted,
	StateRejected,
}

func (s ApplicationState) Valid() bool {
	for _, state := range ApplicationStates {
		if s == state {
			return true
		}
	}
	return false
}

type Application struct {
	Username string           `db:"username"`
	JobID    int64            `db:"job_id"`
	State    ApplicationState `db:"state"`
}
