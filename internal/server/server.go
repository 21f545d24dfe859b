package server

import (
	"bufio"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/open-wander/tracks/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Server exposes processing history and the reverse DNS cache over HTTP.
type Server struct {
	app     *fiber.App
	db      *sql.DB
	config  *config.Config
	queries *Queries
}

// New creates a new Server instance with the given configuration and database.
func New(cfg *config.Config, database *sql.DB) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "Tracks",
		DisableStartupMessage: false,
	})

	s := &Server{
		app:     app,
		db:      database,
		config:  cfg,
		queries: NewQueries(database),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the application
func (s *Server) setupMiddleware() {
	// Basic auth middleware (if configured)
	if authMiddleware := s.createAuthMiddleware(); authMiddleware != nil {
		s.app.Use(authMiddleware)
	}
}

// createAuthMiddleware creates basic auth middleware based on configuration
// Returns nil if no authentication is configured
func (s *Server) createAuthMiddleware() fiber.Handler {
	// Priority 1: htpasswd file
	if s.config.HtpasswdFile != "" {
		users, err := parseHtpasswd(s.config.HtpasswdFile)
		if err != nil {
			log.Printf("Warning: Failed to parse htpasswd file: %v", err)
			return nil
		}

		return basicauth.New(basicauth.Config{
			Authorizer: func(user, pass string) bool {
				hashedPass, exists := users[user]
				if !exists {
					return false
				}
				return verifyPassword(pass, hashedPass)
			},
		})
	}

	// Priority 2: environment variable credentials
	if s.config.AuthUser != "" && s.config.AuthPass != "" {
		return basicauth.New(basicauth.Config{
			Users: map[string]string{
				s.config.AuthUser: s.config.AuthPass,
			},
		})
	}

	// No authentication configured
	return nil
}

// parseHtpasswd reads and parses an htpasswd file
// Returns a map of username to hashed password
func parseHtpasswd(filepath string) (map[string]string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open htpasswd file: %w", err)
	}
	defer file.Close()

	users := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse line format: username:hash
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			log.Printf("Warning: Invalid htpasswd entry on line %d: missing colon", lineNum)
			continue
		}

		username := parts[0]
		hash := parts[1]

		// Validate hash format (we only support bcrypt)
		if !strings.HasPrefix(hash, "$2") {
			if strings.HasPrefix(hash, "$apr1$") {
				log.Printf("Warning: APR1 MD5 hash for user '%s' is not supported (line %d). Please use bcrypt.", username, lineNum)
			} else {
				log.Printf("Warning: Unsupported hash format for user '%s' on line %d. Only bcrypt is supported.", username, lineNum)
			}
			continue
		}

		users[username] = hash
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading htpasswd file: %w", err)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("no valid users found in htpasswd file")
	}

	return users, nil
}

// verifyPassword checks if a plaintext password matches a hashed password
func verifyPassword(plaintext, hashed string) bool {
	// Only bcrypt is supported
	if strings.HasPrefix(hashed, "$2") {
		err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
		return err == nil
	}
	return false
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/api/runs", s.handleRuns)
	s.app.Get("/api/hosts", s.handleHosts)
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	log.Printf("Starting server on %s", s.config.Listen)
	return s.app.Listen(s.config.Listen)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	log.Println("Shutting down server...")
	return s.app.Shutdown()
}
