// Package server exposes gudgeon's rule compiler and lexer over HTTP,
// scaled down from tunaq's own server package but keeping its conventions:
// a chi.Router, EndpointResult-returning handlers, and JWT bearer auth via
// an AuthHandler middleware.
package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dekarrin/gudgeon"
	"github.com/dekarrin/gudgeon/cache"
	"github.com/dekarrin/gudgeon/ir"
	"github.com/dekarrin/gudgeon/rulefile"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// compiledSet is everything a tokenize request needs once a rule document
// has been compiled: its RuleSet (for re-deriving the DFA on a cache miss
// isn't needed again, since ops is already flattened), the name of the
// designated error action, and the flattened IR itself.
type compiledSet struct {
	rs          *gudgeon.RuleSet[string]
	errorAction string
	ops         []ir.Op[string]
}

// Server holds the compiled-ruleset registry and auth configuration for the
// HTTP lexing service.
type Server struct {
	Router chi.Router

	secret      []byte
	unauthDelay time.Duration
	cacheStore  *cache.Store

	mu   sync.RWMutex
	sets map[uuid.UUID]compiledSet
}

// New builds a Server. secret signs and validates bearer tokens; cacheStore
// may be nil, in which case every /rulesets call recompiles from scratch.
func New(secret []byte, unauthDelay time.Duration, cacheStore *cache.Store) *Server {
	srv := &Server{
		secret:      secret,
		unauthDelay: unauthDelay,
		cacheStore:  cacheStore,
		sets:        make(map[uuid.UUID]compiledSet),
	}

	r := chi.NewRouter()
	r.Method(http.MethodPost, "/rulesets", RequireAuth(secret, unauthDelay, Endpoint(srv.epCreateRuleSet)))
	r.Method(http.MethodPost, "/rulesets/{id}/tokenize", OptionalAuth(secret, unauthDelay, Endpoint(srv.epTokenize)))
	srv.Router = r

	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.Router.ServeHTTP(w, req)
}

// store registers a compiled rule set under a fresh build ID and returns it.
// If cacheStore already holds IR for this exact rule set (same patterns and
// priorities), DFA construction is skipped and the cached IR is reused.
func (s *Server) store(doc rulefile.Document) (uuid.UUID, compiledSet, error) {
	rs, errIdx, err := gudgeon.FromDocument(doc)
	if err != nil {
		return uuid.UUID{}, compiledSet{}, err
	}

	entries := make([]cache.Entry, len(rs.Rules))
	for i, r := range rs.Rules {
		entries[i] = cache.Entry{Pattern: r.Pattern, Priority: r.Priority}
	}
	key := cache.Key(entries)

	var ops []ir.Op[string]
	if s.cacheStore != nil {
		cached, _, found, err := s.cacheStore.Get(key)
		if err != nil {
			return uuid.UUID{}, compiledSet{}, fmt.Errorf("checking compiled lexer cache: %w", err)
		}
		if found {
			ops = cached
		}
	}

	if ops == nil {
		ops, err = rs.BuildIR()
		if err != nil {
			return uuid.UUID{}, compiledSet{}, err
		}
		if s.cacheStore != nil {
			if _, err := s.cacheStore.Put(key, ops); err != nil {
				return uuid.UUID{}, compiledSet{}, fmt.Errorf("caching compiled lexer: %w", err)
			}
		}
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.UUID{}, compiledSet{}, fmt.Errorf("generating build id: %w", err)
	}

	set := compiledSet{rs: rs, errorAction: rs.Rules[errIdx].Action, ops: ops}

	s.mu.Lock()
	s.sets[id] = set
	s.mu.Unlock()

	return id, set, nil
}

func (s *Server) lookup(id uuid.UUID) (compiledSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[id]
	return set, ok
}
