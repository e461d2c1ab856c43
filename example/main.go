//go:build convargs

package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/sublee/convargs"
)

// JobID is parsed from a decimal path parameter.
type JobID int64

func (id *JobID) TryFrom(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid job id %q", s)
	}
	if n <= 0 {
		return fmt.Errorf("job id must be positive: %d", n)
	}
	*id = JobID(n)
	return nil
}

// Deadline is a point in time after the Unix epoch.
type Deadline struct{ time.Time }

var _ convargs.From[*timestamppb.Timestamp] = (*Deadline)(nil)

func (d *Deadline) TryFrom(ts *timestamppb.Timestamp) error {
	if err := ts.CheckValid(); err != nil {
		return err
	}
	*d = Deadline{ts.AsTime()}
	return nil
}

type Job struct {
	ID       JobID     `json:"id"`
	Deadline time.Time `json:"deadline"`
}

type Server struct {
	jobs map[JobID]*Job
}

func badRequest(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// job returns the job by its ID from a path parameter.
//
//convargs:errwrap badRequest
//convargs:convert id: string
func (s *Server) job(id JobID) (*Job, *echo.HTTPError) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no job %d", id))
	}
	return job, nil
}

// schedule sets the deadline of a job. Both arguments arrive in wire types.
//
//convargs:convert id: string, deadline: *timestamppb.Timestamp
func (s *Server) schedule(id JobID, deadline Deadline) error {
	if deadline.Before(time.Unix(0, 0)) {
		return errors.New("deadline before epoch")
	}
	s.jobs[id] = &Job{ID: id, Deadline: deadline.Time}
	return nil
}

func (s *Server) getJob(c echo.Context) error {
	job, err := s.job(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

func (s *Server) putJob(c echo.Context) error {
	var ts timestamppb.Timestamp
	body := new(strings.Builder)
	if _, err := body.ReadFrom(c.Request().Body); err != nil {
		return err
	}
	if err := protojson.Unmarshal([]byte(body.String()), &ts); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.schedule(c.Param("id"), &ts); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func do(e *echo.Echo, method, path, body string) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	fmt.Println(rec.Code, strings.TrimSpace(rec.Body.String()))
}

func main() {
	s := &Server{jobs: make(map[JobID]*Job)}

	e := echo.New()
	e.GET("/jobs/:id", s.getJob)
	e.PUT("/jobs/:id", s.putJob)

	// Output: 204
	do(e, http.MethodPut, "/jobs/42", `"2030-01-01T00:00:00Z"`)

	// Output: 200 {"id":42,"deadline":"2030-01-01T00:00:00Z"}
	do(e, http.MethodGet, "/jobs/42", "")

	// Output: 400 {"message":"invalid job id \"x\""}
	do(e, http.MethodGet, "/jobs/x", "")

	// Output: 400 {"message":"job id must be positive: -1"}
	do(e, http.MethodPut, "/jobs/-1", `"2030-01-01T00:00:00Z"`)

	// Output: 404 {"message":"no job 7"}
	do(e, http.MethodGet, "/jobs/7", "")
}
