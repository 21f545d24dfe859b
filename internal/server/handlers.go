package server

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/open-wander/tracks/internal/db"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleRuns returns recorded processing runs, newest first.
// Query params: limit (default 50).
func (s *Server) handleRuns(c *fiber.Ctx) error {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid limit",
			})
		}
		limit = n
	}

	runs, err := db.ListRuns(s.db, limit)
	if err != nil {
		log.Printf("server: list runs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "query failed",
		})
	}
	if runs == nil {
		runs = []db.Run{}
	}
	return c.JSON(runs)
}

// handleHosts returns resolved hostnames from the reverse DNS cache.
// Query params: name (filter to one hostname), limit (default 100).
func (s *Server) handleHosts(c *fiber.Ctx) error {
	if name := c.Query("name"); name != "" {
		ips := s.queries.HostIPs(name)
		if ips == nil {
			ips = []string{}
		}
		return c.JSON(fiber.Map{"name": name, "ips": ips})
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid limit",
			})
		}
		limit = n
	}

	hosts, err := s.queries.ListHosts(limit)
	if err != nil {
		log.Printf("server: list hosts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "query failed",
		})
	}
	if hosts == nil {
		hosts = []HostEntry{}
	}
	return c.JSON(hosts)
}
