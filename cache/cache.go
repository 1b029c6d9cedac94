// Package cache persists compiled lexer IR so repeated runs over an
// unchanged rule set skip the dominant cost of DFA construction (spec.md
// §5). Grounded on the teacher's own server/dao/sqlite package: a
// modernc.org/sqlite-backed store, rezi for binary encoding, and
// google/uuid for record identity.
package cache

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"

	"github.com/dekarrin/gudgeon/internal/canon"
	"github.com/dekarrin/gudgeon/ir"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one rule as it contributes to a cache key: just the fields that
// affect the compiled DFA, in the order that matters to matching.
type Entry struct {
	Pattern  string
	Priority int
}

// Key computes the BLAKE2b-256 digest of a canonicalized rule list — sorted
// by priority then pattern text, per SPEC_FULL.md §3.3 — so that two rule
// files differing only in written order produce the same cache key.
func Key(entries []Entry) canon.Hash {
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].Pattern < sorted[j].Pattern
	})

	b := canon.NewBuilder()
	for _, e := range sorted {
		b.WriteString(e.Pattern).WriteString(strconv.Itoa(e.Priority))
	}
	return b.Sum()
}

// Store is a SQLite-backed cache of compiled IR, keyed by the BLAKE2b digest
// of the rule set that produced it.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a cache database at file.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, fmt.Errorf("cache: opening %s: %w", file, err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS compiled_lexers (
		cache_key TEXT NOT NULL PRIMARY KEY,
		build_id TEXT NOT NULL,
		code BLOB NOT NULL
	);`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("cache: initializing schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put serializes code with rezi and stores it under key, tagged with a
// freshly generated build ID. Returns that build ID.
func (s *Store) Put(key canon.Hash, code []ir.Op[string]) (uuid.UUID, error) {
	buildID, err := uuid.NewRandom()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("cache: generating build ID: %w", err)
	}

	blob, err := encodeOps(code)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("cache: encoding compiled lexer: %w", err)
	}

	stmt, err := s.db.Prepare(`INSERT OR REPLACE INTO compiled_lexers (cache_key, build_id, code) VALUES (?, ?, ?)`)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("cache: preparing insert: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(keyString(key), buildID.String(), blob); err != nil {
		return uuid.UUID{}, fmt.Errorf("cache: inserting compiled lexer: %w", err)
	}

	return buildID, nil
}

// Get looks up the compiled IR for key, if present.
func (s *Store) Get(key canon.Hash) (code []ir.Op[string], buildID uuid.UUID, found bool, err error) {
	row := s.db.QueryRow(`SELECT build_id, code FROM compiled_lexers WHERE cache_key = ?`, keyString(key))

	var idStr string
	var blob []byte
	if err := row.Scan(&idStr, &blob); err != nil {
		if err == sql.ErrNoRows {
			return nil, uuid.UUID{}, false, nil
		}
		return nil, uuid.UUID{}, false, fmt.Errorf("cache: querying compiled lexer: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, uuid.UUID{}, false, fmt.Errorf("cache: parsing build id: %w", err)
	}

	ops, err := decodeOps(blob)
	if err != nil {
		return nil, uuid.UUID{}, false, fmt.Errorf("cache: decoding compiled lexer: %w", err)
	}

	return ops, id, true, nil
}

func keyString(h canon.Hash) string {
	return fmt.Sprintf("%x", h[:])
}

// serialOp is the rezi-encodable projection of ir.Op[string]; rezi encodes
// struct fields by reflection over exported, tagged-free plain types, so the
// opcode's own generic/enum shape is flattened into this concrete form
// before encoding and reconstructed after decoding.
type serialOp struct {
	Kind int
	Lo   int32
	Hi   int32
	Dst  int
	Val  string
}

func encodeOps(code []ir.Op[string]) ([]byte, error) {
	serial := make([]serialOp, len(code))
	for i, op := range code {
		serial[i] = serialOp{
			Kind: int(op.Kind),
			Lo:   int32(op.Lo),
			Hi:   int32(op.Hi),
			Dst:  op.Dst,
			Val:  op.Val,
		}
	}
	return rezi.EncBinary(serial), nil
}

func decodeOps(blob []byte) ([]ir.Op[string], error) {
	var serial []serialOp
	n, err := rezi.DecBinary(blob, &serial)
	if err != nil {
		return nil, err
	}
	if n != len(blob) {
		return nil, fmt.Errorf("decoded byte count mismatch; only consumed %d/%d bytes", n, len(blob))
	}

	code := make([]ir.Op[string], len(serial))
	for i, s := range serial {
		code[i] = ir.Op[string]{
			Kind: ir.Kind(s.Kind),
			Lo:   rune(s.Lo),
			Hi:   rune(s.Hi),
			Dst:  s.Dst,
			Val:  s.Val,
		}
	}
	return code, nil
}
