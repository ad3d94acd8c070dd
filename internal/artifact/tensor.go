package artifact

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// schemaSQL is the single-table schema for a content-addressed blob
// store, applied with CREATE TABLE IF NOT EXISTS on open rather than a
// migration runner — there is exactly one table and it never changes
// shape, so the teacher's versioned migrate.go machinery would be pure
// overhead here.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS blobs (
	content_hash TEXT PRIMARY KEY,
	payload      BLOB NOT NULL,
	size_bytes   INTEGER NOT NULL,
	created_at   TEXT NOT NULL,
	accessed_at  TEXT NOT NULL
);
`

// TensorStore is a content-addressed blob store standing in for the
// HDF5 tensor and cache files spec.md's wire format names (component H;
// see DESIGN.md for the substitution rationale). Every stored value is
// addressed by the sha256 of its serialized bytes, matching the
// teacher's hashing of background-grid blobs in internal/db/db.go.
type TensorStore struct {
	db *sql.DB
}

// OpenTensorStore opens (creating if necessary) the blob store at path.
func OpenTensorStore(path string) (*TensorStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open tensor store: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("apply WAL pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("apply busy_timeout pragma: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &TensorStore{db: db}, nil
}

// Close releases the underlying sqlite connection.
func (t *TensorStore) Close() error {
	return t.db.Close()
}

// ContentHash returns the hex-encoded sha256 of payload, the key every
// Put/Get call addresses blobs by.
func ContentHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Put serializes value as JSON and stores it keyed by its content hash,
// returning the hash. Storing a hash that already exists only refreshes
// its accessed_at timestamp, keeping Put idempotent for re-entrant
// single-stage runs (spec.md §8: byte-identical cache on rerun).
func (t *TensorStore) Put(value interface{}, now time.Time) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshal tensor payload: %w", err)
	}
	hash := ContentHash(raw)
	ts := now.UTC().Format(time.RFC3339Nano)
	_, err = t.db.Exec(
		`INSERT INTO blobs (content_hash, payload, size_bytes, created_at, accessed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(content_hash) DO UPDATE SET accessed_at = excluded.accessed_at`,
		hash, raw, len(raw), ts, ts,
	)
	if err != nil {
		return "", fmt.Errorf("insert blob: %w", err)
	}
	return hash, nil
}

// Get loads the blob for contentHash into dst and refreshes its
// accessed_at timestamp.
func (t *TensorStore) Get(contentHash string, dst interface{}, now time.Time) error {
	var raw []byte
	if err := t.db.QueryRow(`SELECT payload FROM blobs WHERE content_hash = ?`, contentHash).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("blob %s not found", contentHash)
		}
		return fmt.Errorf("query blob: %w", err)
	}
	if _, err := t.db.Exec(`UPDATE blobs SET accessed_at = ? WHERE content_hash = ?`, now.UTC().Format(time.RFC3339Nano), contentHash); err != nil {
		return fmt.Errorf("touch blob: %w", err)
	}
	return json.Unmarshal(raw, dst)
}

// Has reports whether contentHash is already stored, without touching
// its access time — used by the cache layer to decide hit vs. miss
// before paying the Get cost.
func (t *TensorStore) Has(contentHash string) (bool, error) {
	var n int
	if err := t.db.QueryRow(`SELECT COUNT(*) FROM blobs WHERE content_hash = ?`, contentHash).Scan(&n); err != nil {
		return false, fmt.Errorf("query blob existence: %w", err)
	}
	return n > 0, nil
}

type blobInfo struct {
	hash       string
	sizeBytes  int64
	accessedAt time.Time
}

// EvictLRUOverMinAge deletes least-recently-accessed blobs older than
// minAge until the store's total size is at or below maxBytes. Blobs
// younger than minAge are never evicted regardless of size pressure,
// matching the LRU-over-min-age policy spec.md §9 fixes for the stage-3
// cache (default 500MB cap, 24h minimum age).
func (t *TensorStore) EvictLRUOverMinAge(maxBytes int64, minAge time.Duration, now time.Time) (evicted int, freedBytes int64, err error) {
	rows, err := t.db.Query(`SELECT content_hash, size_bytes, accessed_at FROM blobs`)
	if err != nil {
		return 0, 0, fmt.Errorf("list blobs: %w", err)
	}
	var total int64
	var candidates []blobInfo
	for rows.Next() {
		var b blobInfo
		var accessedAtStr string
		if scanErr := rows.Scan(&b.hash, &b.sizeBytes, &accessedAtStr); scanErr != nil {
			rows.Close()
			return 0, 0, fmt.Errorf("scan blob: %w", scanErr)
		}
		accessedAt, parseErr := time.Parse(time.RFC3339Nano, accessedAtStr)
		if parseErr != nil {
			rows.Close()
			return 0, 0, fmt.Errorf("parse accessed_at: %w", parseErr)
		}
		b.accessedAt = accessedAt
		total += b.sizeBytes
		if now.Sub(accessedAt) >= minAge {
			candidates = append(candidates, b)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, 0, fmt.Errorf("iterate blobs: %w", err)
	}
	if total <= maxBytes {
		return 0, 0, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].accessedAt.Before(candidates[j].accessedAt)
	})

	overBy := total - maxBytes
	for _, b := range candidates {
		if overBy <= 0 {
			break
		}
		if _, delErr := t.db.Exec(`DELETE FROM blobs WHERE content_hash = ?`, b.hash); delErr != nil {
			return evicted, freedBytes, fmt.Errorf("evict blob %s: %w", b.hash, delErr)
		}
		evicted++
		freedBytes += b.sizeBytes
		overBy -= b.sizeBytes
	}
	return evicted, freedBytes, nil
}
