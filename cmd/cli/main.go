package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hako/durafmt"

	"github.com/hamed0406/statuswatcher/internal/scheduler"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(api + "/api/targets")
	if err != nil {
		fmt.Println("Error contacting API:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Println("API returned status:", resp.Status)
		os.Exit(1)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Println("Error reading response:", err)
		os.Exit(1)
	}

	var states []scheduler.TargetState
	if err := sonic.Unmarshal(body, &states); err != nil {
		fmt.Println("Unexpected response:", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tSOURCE\tSTATE\tINTERVAL\tNEXT CHECK")
	for _, st := range states {
		state := "idle"
		if st.Tracking {
			state = "incident"
		}
		next := "-"
		if d := time.Until(st.NextCheck); !st.NextCheck.IsZero() && d <= 0 {
			next = "due"
		} else if !st.NextCheck.IsZero() {
			next = durafmt.Parse(time.Until(st.NextCheck).Round(time.Second)).LimitFirstN(2).String()
		}
		interval := durafmt.Parse(time.Duration(st.IntervalSeconds) * time.Second).String()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", st.Target.Name, st.Target.Kind(), state, interval, next)
	}
	w.Flush()
}
