// ABOUTME: Bidirectional mapping between location strings and typed Route values
// ABOUTME: Parse is total (unknown paths become NotFound) and inverts String

package routes

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Family identifies the page family a Route belongs to. Every Route maps to
// exactly one Family, and the application keeps the active sub-page in
// lock-step with it.
type Family int

const (
	FamilyDashboard Family = iota
	FamilyPipeline
	FamilyJob
	FamilyBuild
	FamilyResource
	FamilyNotFound
)

func (f Family) String() string {
	switch f {
	case FamilyDashboard:
		return "dashboard"
	case FamilyPipeline:
		return "pipeline"
	case FamilyJob:
		return "job"
	case FamilyBuild:
		return "build"
	case FamilyResource:
		return "resource"
	case FamilyNotFound:
		return "not-found"
	}
	return "unknown"
}

// Route is a closed variant over page families. Adding a constructor here
// requires a matching sub-page in internal/web/pages.
type Route interface {
	Family() Family
	String() string
}

// Page carries pagination bounds for build/version listings. Zero fields are
// omitted from the query string.
type Page struct {
	Since int
	Until int
	Limit int
}

func (p Page) query(q url.Values) {
	if p.Since != 0 {
		q.Set("since", strconv.Itoa(p.Since))
	}
	if p.Until != 0 {
		q.Set("until", strconv.Itoa(p.Until))
	}
	if p.Limit != 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
}

func parsePage(q url.Values) Page {
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	return Page{
		Since: atoi(q.Get("since")),
		Until: atoi(q.Get("until")),
		Limit: atoi(q.Get("limit")),
	}
}

type Dashboard struct {
	Search      string
	HighDensity bool
}

func (Dashboard) Family() Family { return FamilyDashboard }

func (r Dashboard) String() string {
	path := "/"
	if r.HighDensity {
		path = "/hd"
	}
	q := url.Values{}
	if r.Search != "" {
		q.Set("search", r.Search)
	}
	return path + encodeQuery(q)
}

type Pipeline struct {
	Team   string
	Name   string
	Groups []string
}

func (Pipeline) Family() Family { return FamilyPipeline }

func (r Pipeline) String() string {
	q := url.Values{}
	for _, g := range r.Groups {
		q.Add("group", g)
	}
	return fmt.Sprintf("/teams/%s/pipelines/%s",
		url.PathEscape(r.Team), url.PathEscape(r.Name)) + encodeQuery(q)
}

type Job struct {
	Team     string
	Pipeline string
	Name     string
	Page     Page
}

func (Job) Family() Family { return FamilyJob }

func (r Job) String() string {
	q := url.Values{}
	r.Page.query(q)
	return fmt.Sprintf("/teams/%s/pipelines/%s/jobs/%s",
		url.PathEscape(r.Team), url.PathEscape(r.Pipeline), url.PathEscape(r.Name)) + encodeQuery(q)
}

// Build addresses a build of a job by name. The name "latest" selects the most
// recent build.
type Build struct {
	Team     string
	Pipeline string
	Job      string
	Name     string
}

func (Build) Family() Family { return FamilyBuild }

func (r Build) String() string {
	return fmt.Sprintf("/teams/%s/pipelines/%s/jobs/%s/builds/%s",
		url.PathEscape(r.Team), url.PathEscape(r.Pipeline),
		url.PathEscape(r.Job), url.PathEscape(r.Name))
}

// OneOffBuild addresses a build by global ID, outside any job. It shares the
// build page family.
type OneOffBuild struct {
	ID int
}

func (OneOffBuild) Family() Family { return FamilyBuild }

func (r OneOffBuild) String() string {
	return "/builds/" + strconv.Itoa(r.ID)
}

type Resource struct {
	Team     string
	Pipeline string
	Name     string
	Page     Page
}

func (Resource) Family() Family { return FamilyResource }

func (r Resource) String() string {
	q := url.Values{}
	r.Page.query(q)
	return fmt.Sprintf("/teams/%s/pipelines/%s/resources/%s",
		url.PathEscape(r.Team), url.PathEscape(r.Pipeline), url.PathEscape(r.Name)) + encodeQuery(q)
}

// NotFound preserves the original location so it can still be displayed and
// round-tripped.
type NotFound struct {
	Location string
}

func (NotFound) Family() Family { return FamilyNotFound }

func (r NotFound) String() string { return r.Location }

// Parse maps a location string to a Route. It never fails: anything it does
// not recognize becomes a NotFound route carrying the original location.
func Parse(location string) Route {
	u, err := url.Parse(location)
	if err != nil {
		return NotFound{Location: location}
	}
	q := u.Query()

	// Split the raw path so escaped slashes inside a segment stay intact.
	path := u.EscapedPath()
	seg := strings.Split(strings.Trim(path, "/"), "/")
	unescape(seg)

	switch {
	case path == "" || path == "/":
		return Dashboard{Search: q.Get("search")}

	case len(seg) == 1 && seg[0] == "hd":
		return Dashboard{Search: q.Get("search"), HighDensity: true}

	case len(seg) == 2 && seg[0] == "builds":
		id, err := strconv.Atoi(seg[1])
		if err != nil {
			return NotFound{Location: stripCSRFToken(location)}
		}
		return OneOffBuild{ID: id}

	case len(seg) >= 4 && seg[0] == "teams" && seg[2] == "pipelines":
		team, pipeline := seg[1], seg[3]
		switch {
		case len(seg) == 4:
			return Pipeline{Team: team, Name: pipeline, Groups: q["group"]}
		case len(seg) == 6 && seg[4] == "jobs":
			return Job{Team: team, Pipeline: pipeline, Name: seg[5], Page: parsePage(q)}
		case len(seg) == 8 && seg[4] == "jobs" && seg[6] == "builds":
			return Build{Team: team, Pipeline: pipeline, Job: seg[5], Name: seg[7]}
		case len(seg) == 6 && seg[4] == "resources":
			return Resource{Team: team, Pipeline: pipeline, Name: seg[5], Page: parsePage(q)}
		}
	}

	return NotFound{Location: stripCSRFToken(location)}
}

// stripCSRFToken removes a login-redirect token from a location that is kept
// verbatim, so it cannot leak back out through NotFound serialization.
func stripCSRFToken(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	q := u.Query()
	if _, ok := q["csrf_token"]; !ok {
		return location
	}
	q.Del("csrf_token")
	u.RawQuery = q.Encode()
	return u.String()
}

// Equal reports structural equality of two routes, parameters included.
// String() is canonical and injective, so comparing serialized forms is exact.
func Equal(a, b Route) bool {
	return a.String() == b.String()
}

func encodeQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func unescape(seg []string) {
	for i, s := range seg {
		if u, err := url.PathUnescape(s); err == nil {
			seg[i] = u
		}
	}
}
