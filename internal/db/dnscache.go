package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

// DNSCache stores reverse DNS lookups in the dns_cache table so repeat
// runs against the same address space skip the network entirely.
type DNSCache struct {
	db *sql.DB
}

// NewDNSCache wraps an open database as a resolver cache.
func NewDNSCache(db *sql.DB) *DNSCache {
	return &DNSCache{db: db}
}

// Get returns the cached name for an IP, if present.
func (c *DNSCache) Get(ip string) (string, bool) {
	var name string
	err := c.db.QueryRow(`SELECT name FROM dns_cache WHERE ip = ?`, ip).Scan(&name)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		log.Printf("dns cache: lookup %s: %v", ip, err)
		return "", false
	}
	return name, true
}

// Put stores or replaces the name for an IP.
func (c *DNSCache) Put(ip, name string) {
	_, err := c.db.Exec(`
		INSERT INTO dns_cache (ip, name, resolved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(ip) DO UPDATE SET
			name = excluded.name,
			resolved_at = excluded.resolved_at`,
		ip, name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		log.Printf("dns cache: store %s: %v", ip, err)
	}
}

// IPs returns every cached IP that resolved to the given name.
func (c *DNSCache) IPs(name string) []string {
	rows, err := c.db.Query(`SELECT ip FROM dns_cache WHERE name = ? ORDER BY ip`, name)
	if err != nil {
		log.Printf("dns cache: ips for %s: %v", name, err)
		return nil
	}
	defer rows.Close()

	var ips []string
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			log.Printf("dns cache: scan ip: %v", err)
			return ips
		}
		ips = append(ips, ip)
	}
	return ips
}

// Prune deletes entries resolved before the cutoff and returns how many
// rows were removed.
func (c *DNSCache) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	res, err := c.db.Exec(`DELETE FROM dns_cache WHERE resolved_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune dns cache: %w", err)
	}
	return res.RowsAffected()
}
