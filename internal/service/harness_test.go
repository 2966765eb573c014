package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"colorin/internal/api/api"
	"colorin/internal/auth"
	"colorin/internal/model"
	"colorin/internal/repo"
	"colorin/internal/service"
)

// mockRepo is an in-memory Repository. Tests seed its maps directly and can
// force any method to fail through the fail map.
type mockRepo struct {
	users       map[int64]*model.User
	staff       map[int64]*model.Staff
	events      map[int64]*model.Event
	assignments map[int64]*model.Assignment
	tasks       map[int64]*model.Task
	eventTasks  map[int64]*model.EventTask

	// futureCounts backs CountFutureAssignments so tests control workloads
	// without modelling dates.
	futureCounts map[int64]int

	nextID int64
	fail   map[string]error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:        make(map[int64]*model.User),
		staff:        make(map[int64]*model.Staff),
		events:       make(map[int64]*model.Event),
		assignments:  make(map[int64]*model.Assignment),
		tasks:        make(map[int64]*model.Task),
		eventTasks:   make(map[int64]*model.EventTask),
		futureCounts: make(map[int64]int),
		nextID:       1000,
	}
}

func (m *mockRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockRepo) forced(method string) error {
	if m.fail == nil {
		return nil
	}
	return m.fail[method]
}

// ---- users ----

func (m *mockRepo) CreateUser(_ context.Context, u *model.User) (int64, error) {
	if err := m.forced("CreateUser"); err != nil {
		return 0, err
	}
	u.ID = m.id()
	u.CreatedAt = time.Now()
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *mockRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	if err := m.forced("GetUserByUsername"); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repo.ErrUserNotFound
}

func (m *mockRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	if err := m.forced("GetUserByID"); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepo) CountUsers(_ context.Context) (int, error) {
	if err := m.forced("CountUsers"); err != nil {
		return 0, err
	}
	return len(m.users), nil
}

func (m *mockRepo) UserEmailExists(_ context.Context, email string) (bool, error) {
	if err := m.forced("UserEmailExists"); err != nil {
		return false, err
	}
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) UpdateUserPassword(_ context.Context, id int64, hashed string) error {
	if err := m.forced("UpdateUserPassword"); err != nil {
		return err
	}
	u, ok := m.users[id]
	if !ok {
		return repo.ErrUserNotFound
	}
	u.HashedPassword = hashed
	return nil
}

// ---- staff ----

func (m *mockRepo) CreateStaff(_ context.Context, s *model.Staff) (int64, error) {
	if err := m.forced("CreateStaff"); err != nil {
		return 0, err
	}
	s.ID = m.id()
	m.staff[s.ID] = s
	return s.ID, nil
}

func (m *mockRepo) GetStaffByID(_ context.Context, id int64) (*model.Staff, error) {
	if err := m.forced("GetStaffByID"); err != nil {
		return nil, err
	}
	s, ok := m.staff[id]
	if !ok {
		return nil, repo.ErrStaffNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockRepo) ListStaff(_ context.Context, active *bool) ([]model.Staff, error) {
	if err := m.forced("ListStaff"); err != nil {
		return nil, err
	}
	var out []model.Staff
	for _, s := range m.staff {
		if active != nil && s.Active != *active {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockRepo) UpdateStaff(_ context.Context, s *model.Staff) error {
	if err := m.forced("UpdateStaff"); err != nil {
		return err
	}
	if _, ok := m.staff[s.ID]; !ok {
		return repo.ErrStaffNotFound
	}
	copied := *s
	m.staff[s.ID] = &copied
	return nil
}

func (m *mockRepo) DeleteStaff(_ context.Context, id int64) error {
	if err := m.forced("DeleteStaff"); err != nil {
		return err
	}
	if _, ok := m.staff[id]; !ok {
		return repo.ErrStaffNotFound
	}
	delete(m.staff, id)
	return nil
}

func (m *mockRepo) CountAssignmentsByStaff(_ context.Context, staffID int64) (int, error) {
	if err := m.forced("CountAssignmentsByStaff"); err != nil {
		return 0, err
	}
	n := 0
	for _, a := range m.assignments {
		if a.StaffID == staffID {
			n++
		}
	}
	return n, nil
}

// ---- events ----

func (m *mockRepo) CreateEvent(_ context.Context, e *model.Event) (int64, error) {
	if err := m.forced("CreateEvent"); err != nil {
		return 0, err
	}
	e.ID = m.id()
	m.events[e.ID] = e
	return e.ID, nil
}

func (m *mockRepo) GetEventByID(_ context.Context, id int64) (*model.Event, error) {
	if err := m.forced("GetEventByID"); err != nil {
		return nil, err
	}
	e, ok := m.events[id]
	if !ok {
		return nil, repo.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *mockRepo) ListEvents(_ context.Context, from, to *time.Time, category string) ([]model.Event, error) {
	if err := m.forced("ListEvents"); err != nil {
		return nil, err
	}
	var out []model.Event
	for _, e := range m.events {
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockRepo) UpdateEvent(_ context.Context, e *model.Event) error {
	if err := m.forced("UpdateEvent"); err != nil {
		return err
	}
	if _, ok := m.events[e.ID]; !ok {
		return repo.ErrEventNotFound
	}
	copied := *e
	m.events[e.ID] = &copied
	return nil
}

func (m *mockRepo) DeleteEventTx(_ context.Context, id int64) error {
	if err := m.forced("DeleteEventTx"); err != nil {
		return err
	}
	if _, ok := m.events[id]; !ok {
		return repo.ErrEventNotFound
	}
	for aid, a := range m.assignments {
		if a.EventID == id {
			delete(m.assignments, aid)
		}
	}
	for tid, t := range m.eventTasks {
		if t.EventID == id {
			delete(m.eventTasks, tid)
		}
	}
	delete(m.events, id)
	return nil
}

// ---- assignments ----

func (m *mockRepo) hasAssignment(staffID, eventID int64) bool {
	for _, a := range m.assignments {
		if a.StaffID == staffID && a.EventID == eventID {
			return true
		}
	}
	return false
}

func (m *mockRepo) CreateAssignment(_ context.Context, a *model.Assignment) (int64, error) {
	if err := m.forced("CreateAssignment"); err != nil {
		return 0, err
	}
	if m.hasAssignment(a.StaffID, a.EventID) {
		return 0, repo.ErrDuplicateAssignment
	}
	a.ID = m.id()
	m.assignments[a.ID] = a
	return a.ID, nil
}

func (m *mockRepo) ListAssignments(_ context.Context, staffID, eventID int64) ([]model.Assignment, error) {
	if err := m.forced("ListAssignments"); err != nil {
		return nil, err
	}
	var out []model.Assignment
	for _, a := range m.assignments {
		if staffID > 0 && a.StaffID != staffID {
			continue
		}
		if eventID > 0 && a.EventID != eventID {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRepo) DeleteAssignment(_ context.Context, id int64) error {
	if err := m.forced("DeleteAssignment"); err != nil {
		return err
	}
	if _, ok := m.assignments[id]; !ok {
		return repo.ErrAssignmentNotFound
	}
	delete(m.assignments, id)
	return nil
}

func (m *mockRepo) AssignedStaffIDs(_ context.Context, eventID int64) (map[int64]bool, error) {
	if err := m.forced("AssignedStaffIDs"); err != nil {
		return nil, err
	}
	out := make(map[int64]bool)
	for _, a := range m.assignments {
		if a.EventID == eventID {
			out[a.StaffID] = true
		}
	}
	return out, nil
}

func (m *mockRepo) CreateAssignmentsTx(_ context.Context, eventID int64, staff []model.Staff, role string) ([]model.Assignment, error) {
	if err := m.forced("CreateAssignmentsTx"); err != nil {
		return nil, err
	}
	var created []model.Assignment
	for _, s := range staff {
		if m.hasAssignment(s.ID, eventID) {
			continue
		}
		a := &model.Assignment{ID: m.id(), StaffID: s.ID, EventID: eventID, Role: role}
		m.assignments[a.ID] = a
		created = append(created, *a)
	}
	return created, nil
}

func (m *mockRepo) BulkCreateAssignments(_ context.Context, reqs []model.Assignment) ([]repo.BulkCreated, []string, error) {
	if err := m.forced("BulkCreateAssignments"); err != nil {
		return nil, nil, err
	}
	var created []repo.BulkCreated
	var failures []string
	for _, req := range reqs {
		s, ok := m.staff[req.StaffID]
		if !ok {
			failures = append(failures, "staff member not found")
			continue
		}
		if _, ok := m.events[req.EventID]; !ok {
			failures = append(failures, "event not found")
			continue
		}
		if m.hasAssignment(req.StaffID, req.EventID) {
			failures = append(failures, "staff member already assigned to this event")
			continue
		}
		role := req.Role
		if role == "" {
			role = model.DefaultRole
		}
		a := &model.Assignment{ID: m.id(), StaffID: req.StaffID, EventID: req.EventID, Role: role}
		m.assignments[a.ID] = a
		created = append(created, repo.BulkCreated{
			AssignmentID: a.ID,
			StaffID:      a.StaffID,
			StaffName:    s.Name,
			EventID:      a.EventID,
			Role:         a.Role,
		})
	}
	return created, failures, nil
}

func (m *mockRepo) CountFutureAssignments(_ context.Context, _ time.Time) (map[int64]int, error) {
	if err := m.forced("CountFutureAssignments"); err != nil {
		return nil, err
	}
	out := make(map[int64]int, len(m.futureCounts))
	for k, v := range m.futureCounts {
		out[k] = v
	}
	return out, nil
}

func (m *mockRepo) StaffStats(_ context.Context, _, _ *time.Time) ([]repo.StaffStat, error) {
	if err := m.forced("StaffStats"); err != nil {
		return nil, err
	}
	var out []repo.StaffStat
	for _, s := range m.staff {
		n := 0
		for _, a := range m.assignments {
			if a.StaffID == s.ID {
				n++
			}
		}
		out = append(out, repo.StaffStat{StaffID: s.ID, Name: s.Name, Active: s.Active, Total: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out, nil
}

func (m *mockRepo) EventsByStaff(_ context.Context, staffID int64, _, _ *time.Time) ([]repo.StaffEvent, error) {
	if err := m.forced("EventsByStaff"); err != nil {
		return nil, err
	}
	var out []repo.StaffEvent
	for _, a := range m.assignments {
		if a.StaffID != staffID {
			continue
		}
		e, ok := m.events[a.EventID]
		if !ok {
			continue
		}
		out = append(out, repo.StaffEvent{
			EventID:  e.ID,
			Name:     e.Name,
			Date:     e.Date,
			Category: e.Category,
			Location: e.Location,
			Role:     a.Role,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EventID < out[j].EventID
	})
	return out, nil
}

// ---- tasks ----

func (m *mockRepo) CreateTask(_ context.Context, t *model.Task) (int64, error) {
	if err := m.forced("CreateTask"); err != nil {
		return 0, err
	}
	t.ID = m.id()
	t.CreatedAt = time.Now()
	m.tasks[t.ID] = t
	return t.ID, nil
}

func (m *mockRepo) GetTask(_ context.Context, id, userID int64) (*model.Task, error) {
	if err := m.forced("GetTask"); err != nil {
		return nil, err
	}
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repo.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockRepo) ListTasks(_ context.Context, userID int64, completed *bool, priority string) ([]model.Task, error) {
	if err := m.forced("ListTasks"); err != nil {
		return nil, err
	}
	var out []model.Task
	for _, t := range m.tasks {
		if t.UserID != userID {
			continue
		}
		if completed != nil && t.Completed != *completed {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRepo) UpdateTask(_ context.Context, t *model.Task) error {
	if err := m.forced("UpdateTask"); err != nil {
		return err
	}
	stored, ok := m.tasks[t.ID]
	if !ok || stored.UserID != t.UserID {
		return repo.ErrTaskNotFound
	}
	copied := *t
	m.tasks[t.ID] = &copied
	return nil
}

func (m *mockRepo) DeleteTask(_ context.Context, id, userID int64) error {
	if err := m.forced("DeleteTask"); err != nil {
		return err
	}
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return repo.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// ---- event tasks ----

func (m *mockRepo) CreateEventTask(_ context.Context, t *model.EventTask) (int64, error) {
	if err := m.forced("CreateEventTask"); err != nil {
		return 0, err
	}
	t.ID = m.id()
	t.CreatedAt = time.Now()
	m.eventTasks[t.ID] = t
	return t.ID, nil
}

func (m *mockRepo) GetEventTask(_ context.Context, id, eventID int64) (*model.EventTask, error) {
	if err := m.forced("GetEventTask"); err != nil {
		return nil, err
	}
	t, ok := m.eventTasks[id]
	if !ok || t.EventID != eventID {
		return nil, repo.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockRepo) ListEventTasks(_ context.Context, eventID int64, completed *bool) ([]model.EventTask, error) {
	if err := m.forced("ListEventTasks"); err != nil {
		return nil, err
	}
	var out []model.EventTask
	for _, t := range m.eventTasks {
		if t.EventID != eventID {
			continue
		}
		if completed != nil && t.Completed != *completed {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRepo) UpdateEventTask(_ context.Context, t *model.EventTask) error {
	if err := m.forced("UpdateEventTask"); err != nil {
		return err
	}
	stored, ok := m.eventTasks[t.ID]
	if !ok || stored.EventID != t.EventID {
		return repo.ErrTaskNotFound
	}
	copied := *t
	m.eventTasks[t.ID] = &copied
	return nil
}

func (m *mockRepo) DeleteEventTask(_ context.Context, id, eventID int64) error {
	if err := m.forced("DeleteEventTask"); err != nil {
		return err
	}
	t, ok := m.eventTasks[id]
	if !ok || t.EventID != eventID {
		return repo.ErrTaskNotFound
	}
	delete(m.eventTasks, id)
	return nil
}

func (m *mockRepo) MigrateUp(string) error   { return nil }
func (m *mockRepo) MigrateDown(string) error { return nil }

// fakePublisher records published notification payloads.
type fakePublisher struct {
	published [][]byte
	err       error
}

func (p *fakePublisher) Publish(message []byte) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, message)
	return nil
}

// ---- harness ----

const testSecret = "handler-test-secret-32-characters!!!"

type testEnv struct {
	repo   *mockRepo
	pub    *fakePublisher
	tokens *auth.Tokens
	app    http.Handler
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := newMockRepo()
	pub := &fakePublisher{}
	tokens := auth.NewTokens(testSecret, time.Hour)
	log := zerolog.Nop()

	svc := service.NewService(m, &log, tokens, pub)
	app := api.NewRouters(&api.Routers{
		Service:    svc,
		Tokens:     tokens,
		Repository: m,
		Log:        &log,
	})
	return &testEnv{repo: m, pub: pub, tokens: tokens, app: app}
}

// seedAdmin stores an active admin account and returns a bearer token for it.
func (e *testEnv) seedAdmin(t *testing.T) string {
	t.Helper()
	hashed, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := &model.User{Username: "admin", Email: "admin@example.com", HashedPassword: hashed, Active: true, IsAdmin: true}
	if _, err := e.repo.CreateUser(context.Background(), admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	token, err := e.tokens.Issue("admin")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.app.ServeHTTP(rec, req)
	return rec
}

func pathf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

type envelope struct {
	Status string `json:"status"`
	Error  *struct {
		Code string `json:"code"`
		Desc string `json:"desc"`
	} `json:"error"`
	Data json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var out envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("want status %d, got %d (%s)", status, rec.Code, rec.Body.String())
	}
	out := decode(t, rec)
	if out.Error == nil || out.Error.Code != code {
		t.Fatalf("want error code %s, got %+v", code, out.Error)
	}
}

func requireOK(t *testing.T, rec *httptest.ResponseRecorder, status int) json.RawMessage {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("want status %d, got %d (%s)", status, rec.Code, rec.Body.String())
	}
	out := decode(t, rec)
	if out.Status != "ok" {
		t.Fatalf("want ok envelope, got %s", rec.Body.String())
	}
	return out.Data
}
