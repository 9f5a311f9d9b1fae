package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/CSE5914-Group99/schedule-planner/internal/payload"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// fakeBackend is an in-memory schedule service speaking the REST contract.
// Saved schedules are returned in the legacy items/activities shape, the way
// the service stores them.
type fakeBackend struct {
	mu        sync.Mutex
	records   map[int64]payload.LegacyRecord
	nextID    int64
	ratings   int // course rating requests served
	analyzed  int
	generated payload.GenerateRequest
	failList  bool
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	f := &fakeBackend{records: map[int64]payload.LegacyRecord{}, nextID: 40}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /users/{user}/schedules", f.list)
	mux.HandleFunc("POST /users/{user}/schedules", f.add)
	mux.HandleFunc("PUT /users/{user}/schedules", f.save)
	mux.HandleFunc("DELETE /users/{user}/schedules/{id}", f.delete)
	mux.HandleFunc("POST /schedules/generate", f.generate)
	mux.HandleFunc("POST /schedules/analyze", f.analyze)
	mux.HandleFunc("GET /courses/{course}/ratings", f.rating)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeBackend) list(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	out := make([]payload.LegacyRecord, 0, len(f.records))
	for id := int64(0); id <= f.nextID; id++ {
		if rec, ok := f.records[id]; ok {
			out = append(out, rec)
		}
	}
	writeJSON(w, out)
}

func (f *fakeBackend) add(w http.ResponseWriter, r *http.Request) {
	var body payload.SavePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.records[f.nextID] = legacyFrom(f.nextID, body)
	writeJSON(w, map[string]string{"scheduleId": strconv.FormatInt(f.nextID, 10)})
}

func (f *fakeBackend) save(w http.ResponseWriter, r *http.Request) {
	var body payload.SavePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[body.ScheduleID]; !ok {
		http.NotFound(w, r)
		return
	}
	f.records[body.ScheduleID] = legacyFrom(body.ScheduleID, body)
	w.WriteHeader(http.StatusOK)
}

func (f *fakeBackend) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		http.NotFound(w, r)
		return
	}
	delete(f.records, id)
	w.WriteHeader(http.StatusNoContent)
}

// generate returns one candidate that puts every course on Tuesday and
// Thursday, an hour apart from 10:20. Events come back unchanged.
func (f *fakeBackend) generate(w http.ResponseWriter, r *http.Request) {
	var req payload.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	f.mu.Lock()
	f.generated = req
	f.mu.Unlock()

	cand := payload.CurrentRecord{Name: "generated", Courses: []schedule.Course{}, Events: req.Events}
	for i, c := range req.Courses {
		start := schedule.TimeOfDay(10*60 + 20 + 60*i)
		c.StartTime = start.String()
		c.EndTime = (start + 55).String()
		c.RepeatDays = []schedule.Day{schedule.Tuesday, schedule.Thursday}
		cand.Courses = append(cand.Courses, c)
	}
	raw, _ := json.Marshal(cand)
	writeJSON(w, payload.GenerateResponse{Schedules: []json.RawMessage{raw}})
}

func (f *fakeBackend) analyze(w http.ResponseWriter, r *http.Request) {
	var req payload.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	f.mu.Lock()
	f.analyzed++
	f.mu.Unlock()

	out := make([]payload.CurrentRecord, len(req.Schedules))
	for i, s := range req.Schedules {
		s.DifficultyScore = 68
		s.WeeklyHours = 12.5
		s.CreditHours = 3 * float64(len(s.Courses))
		out[i] = s
	}
	writeJSON(w, out)
}

func (f *fakeBackend) rating(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.ratings++
	f.mu.Unlock()
	writeJSON(w, schedule.ClassScore{
		CourseID:   r.PathValue("course"),
		Score:      78,
		Summary:    "Heavy weekly labs (" + r.URL.Query().Get("teacher") + ")",
		Confidence: 0.8,
	})
}

func legacyFrom(id int64, p payload.SavePayload) payload.LegacyRecord {
	return payload.LegacyRecord{
		ScheduleID: payload.FlexID(id),
		Name:       p.Name,
		Favorite:   p.Favorite,
		Items:      p.Items,
		Activities: p.Activities,
	}
}

func (f *fakeBackend) record(id int64) (payload.LegacyRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	return rec, ok
}

// seed stores a schedule as if another client had saved it.
func (f *fakeBackend) seed(s schedule.Schedule) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.records[f.nextID] = legacyFrom(f.nextID, payload.ToSavePayload(s))
	return f.nextID
}
