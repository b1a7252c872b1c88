// ABOUTME: Domain types returned by the CI API
// ABOUTME: Shared by the client, the callback payloads, and the page controllers

package api

import "time"

type User struct {
	ID       string              `json:"id"`
	UserName string              `json:"user_name"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	IsAdmin  bool                `json:"is_admin"`
	Teams    map[string][]string `json:"teams"`
}

type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type GroupConfig struct {
	Name string   `json:"name"`
	Jobs []string `json:"jobs,omitempty"`
}

type Pipeline struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	TeamName string        `json:"team_name"`
	Paused   bool          `json:"paused"`
	Public   bool          `json:"public"`
	Groups   []GroupConfig `json:"groups,omitempty"`
}

type BuildStatus string

const (
	StatusPending   BuildStatus = "pending"
	StatusStarted   BuildStatus = "started"
	StatusSucceeded BuildStatus = "succeeded"
	StatusFailed    BuildStatus = "failed"
	StatusErrored   BuildStatus = "errored"
	StatusAborted   BuildStatus = "aborted"
)

type Build struct {
	ID           int         `json:"id"`
	TeamName     string      `json:"team_name"`
	PipelineName string      `json:"pipeline_name,omitempty"`
	JobName      string      `json:"job_name,omitempty"`
	Name         string      `json:"name"`
	Status       BuildStatus `json:"status"`
	StartTime    time.Time   `json:"start_time,omitzero"`
	EndTime      time.Time   `json:"end_time,omitzero"`
}

// OneOff reports whether the build ran outside any job.
func (b Build) OneOff() bool {
	return b.JobName == ""
}

type Job struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	TeamName      string `json:"team_name"`
	PipelineName  string `json:"pipeline_name"`
	Paused        bool   `json:"paused"`
	FinishedBuild *Build `json:"finished_build,omitempty"`
	NextBuild     *Build `json:"next_build,omitempty"`
}

type Resource struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	TeamName     string `json:"team_name"`
	PipelineName string `json:"pipeline_name"`
}

type Version struct {
	ID      int               `json:"id"`
	Version map[string]string `json:"version"`
	Enabled bool              `json:"enabled"`
}

// APIData is the combined payload the dashboard starts from. A nil User means
// nobody is logged in.
type APIData struct {
	User      *User      `json:"user,omitempty"`
	Teams     []Team     `json:"teams"`
	Pipelines []Pipeline `json:"pipelines"`
}
