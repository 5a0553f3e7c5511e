package domain

// Target is one monitored status endpoint. Name is the stable identifier used
// by every component; Source selects the adapter and defaults to Name.
type Target struct {
	Name     string `json:"name" toml:"name"`
	Endpoint string `json:"endpoint" toml:"endpoint"`
	Source   string `json:"source,omitempty" toml:"source"`
}

// Kind returns the source kind used to pick an adapter.
func (t Target) Kind() string {
	if t.Source != "" {
		return t.Source
	}
	return t.Name
}

type IncidentStatus string

const (
	StatusDegraded      IncidentStatus = "degraded_performance"
	StatusPartialOutage IncidentStatus = "partial_outage"
	StatusMajorOutage   IncidentStatus = "major_outage"
	StatusResolved      IncidentStatus = "resolved"
	StatusPostmortem    IncidentStatus = "postmortem"
)

// Terminal reports whether the status means the incident is over. Only the
// exact "resolved" counts; feeds with other closing states map them first.
func (s IncidentStatus) Terminal() bool {
	return s == StatusResolved
}

// Incident is the normalized result of one check. The zero value means
// "no active incident".
type Incident struct {
	Name   string         `json:"name"`
	Status IncidentStatus `json:"status"`
}

// Active is true when the record describes an unresolved incident.
func (i Incident) Active() bool {
	if i.Name == "" && i.Status == "" {
		return false
	}
	return !i.Status.Terminal()
}
