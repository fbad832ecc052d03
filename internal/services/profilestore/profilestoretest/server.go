// Package profilestoretest provides an in-memory profile store served over
// HTTP, shaped like the json-server instance the real store runs on.
package profilestoretest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
)

// Server is an in-memory profile store
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	nextID      int
	profiles    []map[string]any
	collections map[string]map[string]map[string]any
	failures    map[string]int
	requests    []string
}

// NewServer starts a store with the favoritos and historico collections
func NewServer(profilesPath string) *Server {
	s := &Server{
		nextID: 1,
		collections: map[string]map[string]map[string]any{
			"favoritos": {},
			"historico": {},
		},
		failures: map[string]int{},
	}

	r := mux.NewRouter()
	r.HandleFunc(profilesPath, s.listProfiles).Methods(http.MethodGet)
	r.HandleFunc("/{collection}", s.list).Methods(http.MethodGet)
	r.HandleFunc("/{collection}", s.create).Methods(http.MethodPost)
	r.HandleFunc("/{collection}/{id}", s.replace).Methods(http.MethodPut)
	r.HandleFunc("/{collection}/{id}", s.remove).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(s.track(r))
	return s
}

// AddProfile registers a profile
func (s *Server) AddProfile(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, map[string]any{"id": id, "name": name})
}

// Seed inserts a raw record into collection and returns its id
func (s *Server) Seed(collection string, record map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(collection, record)
}

// Records returns a copy of every record in collection, ordered by id
func (s *Server) Records(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []map[string]any
	for _, rec := range s.collections[collection] {
		out = append(out, clone(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i]["id"].(string))
		b, _ := strconv.Atoi(out[j]["id"].(string))
		return a < b
	})
	return out
}

// FailNext makes the next request with method answer status
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = status
}

// Requests returns "METHOD path" for every request served so far
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		status, fail := s.failures[r.Method]
		delete(s.failures, r.Method)
		s.mu.Unlock()

		if fail {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) insert(collection string, record map[string]any) string {
	id := strconv.Itoa(s.nextID)
	s.nextID++
	rec := clone(record)
	rec["id"] = id
	s.collections[collection][id] = rec
	return id
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.profiles)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[mux.Vars(r)["collection"]]
	if !ok {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query()
	out := []map[string]any{}
	for _, rec := range coll {
		if matches(rec, query) {
			out = append(out, clone(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i]["id"].(string))
		b, _ := strconv.Atoi(out[j]["id"].(string))
		return a < b
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var rec map[string]any
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collection := mux.Vars(r)["collection"]
	if _, ok := s.collections[collection]; !ok {
		http.NotFound(w, r)
		return
	}
	id := s.insert(collection, rec)
	writeJSON(w, http.StatusCreated, s.collections[collection][id])
}

func (s *Server) replace(w http.ResponseWriter, r *http.Request) {
	var rec map[string]any
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vars := mux.Vars(r)
	coll, ok := s.collections[vars["collection"]]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, ok := coll[vars["id"]]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		return
	}
	rec["id"] = vars["id"]
	coll[vars["id"]] = rec
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vars := mux.Vars(r)
	coll, ok := s.collections[vars["collection"]]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, ok := coll[vars["id"]]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		return
	}
	delete(coll, vars["id"])
	writeJSON(w, http.StatusOK, map[string]any{})
}

// matches compares query values against record fields textually, the way
// json-server filters
func matches(rec map[string]any, query map[string][]string) bool {
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		field, ok := rec[key]
		if !ok || textOf(field) != values[0] {
			return false
		}
	}
	return true
}

func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		data, _ := json.Marshal(t)
		return string(data)
	}
}

func clone(rec map[string]any) map[string]any {
	data, _ := json.Marshal(rec)
	var out map[string]any
	json.Unmarshal(data, &out)
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
