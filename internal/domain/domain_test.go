package domain

import "testing"

func TestTarget_KindDefaultsToName(t *testing.T) {
	tgt := Target{Name: "openai", Endpoint: "https://status.openai.com"}
	if tgt.Kind() != "openai" {
		t.Fatalf("want kind openai, got %q", tgt.Kind())
	}
	tgt.Source = "statuspage"
	if tgt.Kind() != "statuspage" {
		t.Fatalf("want kind statuspage, got %q", tgt.Kind())
	}
}

func TestIncident_Active(t *testing.T) {
	cases := []struct {
		in   Incident
		want bool
	}{
		{Incident{}, false},
		{Incident{Name: "API errors", Status: "degraded"}, true},
		{Incident{Name: "API errors", Status: StatusResolved}, false},
		{Incident{Name: "API errors", Status: "Resolved"}, true},
		{Incident{Name: "API errors", Status: "RESOLVED"}, true},
		{Incident{Name: "Postmortem", Status: StatusPostmortem}, true},
		{Incident{Status: StatusPartialOutage}, true},
	}
	for _, c := range cases {
		if got := c.in.Active(); got != c.want {
			t.Fatalf("Active(%+v) = %v, want %v", c.in, got, c.want)
		}
	}
}
