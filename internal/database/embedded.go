package database

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/xelth-com/storesync/internal/config"
)

// embeddedPassword is the superuser password of the bundled server; it only listens on loopback
const embeddedPassword = "postgres"

// startEmbedded boots the bundled PostgreSQL server and returns the settings that reach it
func startEmbedded(cfg config.DatabaseConfig) (*embeddedpostgres.EmbeddedPostgres, config.DatabaseConfig, error) {
	log.Println("📦 Mode: [Embedded PostgreSQL] - Initializing internal database...")

	reapStalePostmaster(cfg.EmbeddedDataPath)

	if !waitForPort(cfg.EmbeddedPort, 3*time.Second) {
		return nil, cfg, fmt.Errorf("port %d is still in use by another process", cfg.EmbeddedPort)
	}

	pg := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		DataPath(cfg.EmbeddedDataPath).
		Port(uint32(cfg.EmbeddedPort)).
		Database(cfg.Database).
		Username(cfg.Username).
		Password(embeddedPassword))

	if err := pg.Start(); err != nil {
		return nil, cfg, fmt.Errorf("failed to start embedded database: %w", err)
	}
	log.Printf("✅ Embedded PostgreSQL process started on port %d", cfg.EmbeddedPort)

	cfg.Port = strconv.Itoa(cfg.EmbeddedPort)
	cfg.Password = embeddedPassword
	return pg, cfg, nil
}

// readPostmasterPID returns the pid recorded by a server that was not shut down cleanly
func readPostmasterPID(dataPath string) (int, error) {
	data, err := os.ReadFile(filepath.Join(dataPath, "postmaster.pid"))
	if err != nil {
		return 0, err
	}
	first, _, _ := strings.Cut(string(data), "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, fmt.Errorf("parse postmaster.pid: %w", err)
	}
	return pid, nil
}

func processAlive(p *os.Process) bool {
	return p.Signal(syscall.Signal(0)) == nil
}

// reapStalePostmaster stops a server left behind by a crashed process and removes its pid file
func reapStalePostmaster(dataPath string) {
	pid, err := readPostmasterPID(dataPath)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		log.Printf("⚠️  %v", err)
		return
	}

	pidFile := filepath.Join(dataPath, "postmaster.pid")
	defer os.Remove(pidFile)

	process, err := os.FindProcess(pid)
	if err != nil || !processAlive(process) {
		log.Printf("🧹 Cleaning up stale postmaster.pid (PID %d not running)", pid)
		return
	}

	log.Printf("⚠️  Found orphaned PostgreSQL process (PID %d), attempting to stop...", pid)
	if err := process.Signal(syscall.SIGTERM); err != nil {
		log.Printf("⚠️  Could not send SIGTERM to PID %d: %v", pid, err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		time.Sleep(500 * time.Millisecond)
		if !processAlive(process) {
			log.Printf("✅ Orphaned PostgreSQL process stopped")
			return
		}
	}

	log.Printf("⚠️  Process did not stop gracefully, sending SIGKILL...")
	_ = process.Kill()
	time.Sleep(500 * time.Millisecond)
}

// portInUse reports whether something accepts connections on the loopback port
func portInUse(port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// waitForPort polls until the port is free or the wait expires
func waitForPort(port int, wait time.Duration) bool {
	deadline := time.Now().Add(wait)
	for portInUse(port) {
		if time.Now().After(deadline) {
			return false
		}
		log.Printf("⚠️  Port %d still in use, waiting for release...", port)
		time.Sleep(500 * time.Millisecond)
	}
	return true
}
