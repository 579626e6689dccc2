package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	mysql "github.com/go-sql-driver/mysql"
)

// MoveEvent is one journaled session command.
type MoveEvent struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Action    string    `json:"action"`
	Result    string    `json:"result"`
	PieceKind string    `json:"piece_kind,omitempty"`
	PieceID   int       `json:"piece_id,omitempty"`
	Moved     int       `json:"moved"`
	At        time.Time `json:"at"`
}

// Journal is an append-only MySQL log of session commands. A nil *Journal
// is valid and records nothing.
type Journal struct {
	sql     *sql.DB
	ops     chan MoveEvent
	done    chan struct{}
	wg      sync.WaitGroup
	log     *slog.Logger
	metrics *Metrics
}

const journalSchema = `CREATE TABLE IF NOT EXISTS moves (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	session_id CHAR(36) NOT NULL,
	action VARCHAR(16) NOT NULL,
	result VARCHAR(16) NOT NULL,
	piece_kind CHAR(1) NULL,
	piece_id INT NULL,
	moved INT NOT NULL DEFAULT 0,
	created_at DATETIME(6) NOT NULL,
	INDEX idx_moves_session (session_id, id)
)`

// OpenJournal connects when cfg.DSN is set. It returns a nil journal and no
// error when journaling is disabled.
func OpenJournal(ctx context.Context, cfg MySQLConfig, logger *slog.Logger, m *Metrics) (*Journal, error) {
	logger = logger.With("component", "journal")
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		logger.Info("MYSQL_DSN not set; journal disabled")
		return nil, nil
	}
	// Normalize DSN and add TLS/params if requested
	ndsn, err := normalizeMySQLDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("normalize dsn: %w", err)
	}
	ndsn, err = augmentTLS(ndsn, cfg.TLS)
	if err != nil {
		return nil, fmt.Errorf("tls setup: %w", err)
	}
	ndsn = ensureParams(ndsn, map[string]string{
		"parseTime": "true",
		"charset":   "utf8mb4",
	})

	sqldb, err := sql.Open("mysql", ndsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	sqldb.SetConnMaxLifetime(2 * time.Hour)
	sqldb.SetMaxOpenConns(10)
	sqldb.SetMaxIdleConns(5)
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := sqldb.ExecContext(ctx, journalSchema); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	j := &Journal{
		sql:     sqldb,
		ops:     make(chan MoveEvent, 1024),
		done:    make(chan struct{}),
		log:     logger,
		metrics: m,
	}
	j.startWorker()
	logger.Info("connected to MySQL")
	return j, nil
}

// Record writes one event synchronously.
func (j *Journal) Record(ctx context.Context, ev MoveEvent) error {
	if j == nil || j.sql == nil {
		return nil
	}
	var kind any
	var pieceID any
	if ev.PieceID != 0 {
		kind, pieceID = ev.PieceKind, ev.PieceID
	}
	start := time.Now()
	_, err := j.sql.ExecContext(ctx,
		`INSERT INTO moves (session_id, action, result, piece_kind, piece_id, moved, created_at)
         VALUES (?,?,?,?,?,?,?)`,
		ev.SessionID, ev.Action, ev.Result, kind, pieceID, ev.Moved, ev.At,
	)
	j.metrics.observeJournal(time.Since(start).Seconds(), err)
	return err
}

// Recent returns the newest events of a session, newest first.
func (j *Journal) Recent(ctx context.Context, sessionID string, limit int) ([]MoveEvent, error) {
	if j == nil || j.sql == nil {
		return nil, errors.New("journal disabled")
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := j.sql.QueryContext(ctx,
		`SELECT id, session_id, action, result, COALESCE(piece_kind, ''), COALESCE(piece_id, 0), moved, created_at
         FROM moves WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []MoveEvent
	for rows.Next() {
		var ev MoveEvent
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.Action, &ev.Result, &ev.PieceKind, &ev.PieceID, &ev.Moved, &ev.At); err != nil {
			return nil, err
		}
		res = append(res, ev)
	}
	return res, rows.Err()
}

// --- Async write queue ---

// Enqueue schedules a write. It never blocks the caller; when the buffer is
// full the event is dropped and logged.
func (j *Journal) Enqueue(ev MoveEvent) {
	if j == nil || j.sql == nil {
		return
	}
	select {
	case j.ops <- ev:
	default:
		j.log.Warn("journal queue full; dropping event", "session", ev.SessionID, "action", ev.Action)
	}
}

func (j *Journal) startWorker() {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
	events:
		for ev := range j.ops {
			// retry with backoff (caps at 1m) until written or closed
			backoff := time.Second
			for {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				err := j.Record(ctx, ev)
				cancel()
				if err == nil {
					break
				}
				j.log.Warn("journal write failed", "action", ev.Action, "error", err, "retry_in", backoff)
				select {
				case <-time.After(backoff):
				case <-j.done:
					j.log.Error("journal closed with pending event", "session", ev.SessionID, "action", ev.Action)
					continue events
				}
				if backoff < time.Minute {
					backoff *= 2
					if backoff > time.Minute {
						backoff = time.Minute
					}
				}
			}
		}
	}()
}

// Close drains queued events and closes the connection.
func (j *Journal) Close() error {
	if j == nil || j.sql == nil {
		return nil
	}
	close(j.ops)
	close(j.done)
	j.wg.Wait()
	return j.sql.Close()
}

// --- DSN/TLS helpers ---

// normalizeMySQLDSN converts URL-style or missing-protocol DSNs into go-sql-driver format.
func normalizeMySQLDSN(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	low := strings.ToLower(s)
	if strings.HasPrefix(low, "mysql://") || strings.HasPrefix(low, "mysql+tcp://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", err
		}
		user := ""
		if u.User != nil {
			user = u.User.Username()
			if pw, ok := u.User.Password(); ok {
				user = user + ":" + pw
			}
		}
		dbname := strings.TrimPrefix(u.Path, "/")
		dsn := fmt.Sprintf("%s@tcp(%s)/%s", user, u.Host, dbname)
		if u.RawQuery != "" {
			dsn += "?" + u.RawQuery
		}
		return dsn, nil
	}
	// user:pass@host:port/db (missing protocol): inject tcp(...)
	if strings.Contains(s, "@") && !strings.Contains(s, ")/") {
		parts := strings.SplitN(s, "@", 2)
		rp := strings.SplitN(parts[1], "/", 2)
		if len(rp) == 2 {
			return parts[0] + "@tcp(" + rp[0] + ")/" + rp[1], nil
		}
	}
	return s, nil
}

// augmentTLS adds the tls param for cfg.Mode, registering a custom driver
// TLS config when Mode is "custom".
func augmentTLS(dsn string, cfg TLSConfig) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" || hasParam(dsn, "tls") {
		return dsn, nil
	}
	name := ""
	switch mode {
	case "true", "preferred", "required":
		name = "true"
	case "skip-verify", "insecure":
		name = "skip-verify"
	case "custom":
		rootCAs, _ := x509.SystemCertPool()
		if rootCAs == nil {
			rootCAs = x509.NewCertPool()
		}
		if cfg.CA != "" {
			pem, err := os.ReadFile(cfg.CA)
			if err != nil {
				return dsn, fmt.Errorf("read CA: %w", err)
			}
			if ok := rootCAs.AppendCertsFromPEM(pem); !ok {
				return dsn, errors.New("append CA failed")
			}
		}
		tc := &tls.Config{RootCAs: rootCAs, ServerName: cfg.ServerName}
		if cfg.Cert != "" && cfg.Key != "" {
			cert, err := tls.LoadX509KeyPair(cfg.Cert, cfg.Key)
			if err != nil {
				return dsn, fmt.Errorf("load client cert: %w", err)
			}
			tc.Certificates = []tls.Certificate{cert}
		}
		if err := mysql.RegisterTLSConfig("custom", tc); err != nil {
			return dsn, fmt.Errorf("register tls: %w", err)
		}
		name = "custom"
	default:
		return dsn, fmt.Errorf("unknown tls mode %q", cfg.Mode)
	}
	return addParam(dsn, "tls", name), nil
}

func ensureParams(dsn string, kv map[string]string) string {
	out := dsn
	for k, v := range kv {
		if !hasParam(out, k) {
			out = addParam(out, k, v)
		}
	}
	return out
}

func hasParam(dsn, key string) bool {
	i := strings.Index(dsn, "?")
	if i < 0 {
		return false
	}
	for _, p := range strings.Split(dsn[i+1:], "&") {
		if strings.HasPrefix(strings.ToLower(p), strings.ToLower(key)+"=") {
			return true
		}
	}
	return false
}

func addParam(dsn, key, value string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}
