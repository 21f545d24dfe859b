package server

import (
	"database/sql"
	"fmt"
)

// Queries wraps database access for the HTTP API
type Queries struct {
	db *sql.DB
}

// NewQueries creates a new query handler
func NewQueries(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// HostEntry is one cached reverse DNS result.
type HostEntry struct {
	IP         string `json:"ip"`
	Name       string `json:"name"`
	ResolvedAt string `json:"resolved_at"`
}

// ListHosts returns the most recently resolved cache entries.
func (q *Queries) ListHosts(limit int) ([]HostEntry, error) {
	query := `
		SELECT ip, name, resolved_at
		FROM dns_cache
		ORDER BY resolved_at DESC, ip`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []HostEntry
	for rows.Next() {
		var h HostEntry
		if err := rows.Scan(&h.IP, &h.Name, &h.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan host: %w", err)
		}
		hosts = append(hosts, h)
	}
	return hosts, rows.Err()
}

// HostIPs returns every cached IP that resolved to the given name.
func (q *Queries) HostIPs(name string) []string {
	rows, err := q.db.Query(`SELECT ip FROM dns_cache WHERE name = ? ORDER BY ip`, name)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var ips []string
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return ips
		}
		ips = append(ips, ip)
	}
	return ips
}
