package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"skyharbor.ai/internal/persistence/snapshot"
	"skyharbor.ai/internal/sim/logistics"
)

// SQLiteIndex is a secondary read-model index of transfer activity and
// snapshot metadata. Writes go through a buffered channel to a single
// writer goroutine so the sim loop never blocks on disk.
type SQLiteIndex struct {
	db *sql.DB

	ch chan req
	wg sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

type reqKind int

const (
	reqTransfer reqKind = iota + 1
	reqSnapshot
)

type req struct {
	kind reqKind

	transfer logistics.AuditEntry
	snapshot snapshotRow
}

type snapshotRow struct {
	Tick         uint64
	Path         string
	Requests     int
	Cooldowns    int
	Reservations int
	Pods         int
}

// TransferRow is a read-side view of one indexed transfer event.
type TransferRow struct {
	Tick   uint64 `json:"tick"`
	Action string `json:"action"`
	Source string `json:"source"`
	Dest   string `json:"dest"`
	Item   string `json:"item"`
	Count  int    `json:"count"`
	Reason string `json:"reason,omitempty"`
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// Sized for bursty cycles (full quota of commits plus deliveries)
		// without stalling the tick loop.
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-style workload; NORMAL is fine for a secondary
	// index that can be rebuilt from snapshots.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS transfers (
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			action TEXT NOT NULL,
			source TEXT NOT NULL,
			dest TEXT NOT NULL,
			item TEXT NOT NULL,
			count INTEGER NOT NULL,
			reason TEXT,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (tick, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_dest_tick ON transfers(dest, tick);`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_item_tick ON transfers(item, tick);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			tick INTEGER PRIMARY KEY,
			path TEXT NOT NULL,
			requests INTEGER NOT NULL,
			cooldowns INTEGER NOT NULL,
			reservations INTEGER NOT NULL,
			pods INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()

	s.wg.Wait()
	return s.db.Close()
}

// send enqueues under a read lock; Close closes the channel under the write
// lock, so a concurrent write can never hit a closed channel.
func (s *SQLiteIndex) send(r req) {
	if s == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- r:
	default:
	}
}

// WriteAudit implements logistics.AuditLogger. Entries are dropped if the
// indexer falls behind; the snapshot remains the source of truth.
func (s *SQLiteIndex) WriteAudit(entry logistics.AuditEntry) error {
	s.send(req{kind: reqTransfer, transfer: entry})
	return nil
}

// RecordSnapshot indexes a written snapshot's location and row counts.
func (s *SQLiteIndex) RecordSnapshot(path string, snap snapshot.EngineV1) {
	s.send(req{kind: reqSnapshot, snapshot: snapshotRow{
		Tick:         snap.Header.Tick,
		Path:         path,
		Requests:     len(snap.Requests),
		Cooldowns:    len(snap.Cooldowns),
		Reservations: len(snap.Reservations),
		Pods:         len(snap.Pods),
	}})
}

// RecentTransfers returns the newest indexed transfer events, newest first.
func (s *SQLiteIndex) RecentTransfers(limit int) ([]TransferRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT tick, action, source, dest, item, count, COALESCE(reason,'')
		 FROM transfers ORDER BY tick DESC, seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransferRow
	for rows.Next() {
		var r TransferRow
		if err := rows.Scan(&r.Tick, &r.Action, &r.Source, &r.Dest, &r.Item, &r.Count, &r.Reason); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertTransfer, _ := s.db.Prepare(`INSERT OR REPLACE INTO transfers(tick,seq,action,source,dest,item,count,reason,raw_json) VALUES(?,?,?,?,?,?,?,?,?)`)
	insertSnapshot, _ := s.db.Prepare(`INSERT OR REPLACE INTO snapshots(tick,path,requests,cooldowns,reservations,pods,recorded_at) VALUES(?,?,?,?,?,?,?)`)
	defer func() {
		if insertTransfer != nil {
			_ = insertTransfer.Close()
		}
		if insertSnapshot != nil {
			_ = insertSnapshot.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = 2 * time.Second

		lastTick uint64
		seq      int
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqTransfer:
			a := r.transfer
			if a.Tick != lastTick {
				lastTick = a.Tick
				seq = 0
			}
			n := seq
			seq++
			raw, _ := json.Marshal(a)
			if insertTransfer != nil {
				if _, err := tx.Stmt(insertTransfer).Exec(
					int64(a.Tick), n, a.Action, a.Source, a.Dest, a.Item, a.Count, a.Reason, string(raw),
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}

		case reqSnapshot:
			sn := r.snapshot
			if insertSnapshot != nil {
				if _, err := tx.Stmt(insertSnapshot).Exec(
					int64(sn.Tick), sn.Path, sn.Requests, sn.Cooldowns, sn.Reservations, sn.Pods,
					time.Now().UTC().Format(time.RFC3339Nano),
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}
		}
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	commit()
}
