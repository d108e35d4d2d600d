// cdogs-mapgen-server serves the interactive map preview over SSH. Each
// connection gets its own viewer on a fresh seed. Build:
//
//	go build -o cdogs-mapgen-server ./cmd/server
//
// Usage:
//
//	./cdogs-mapgen-server [--port 2222] [--key server_host_key] [--mission file.json]
//
// Connect with:
//
//	ssh -t -p 2222 localhost
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"cdogs-mapgen/internal/mission"
	internalssh "cdogs-mapgen/internal/ssh"
	"cdogs-mapgen/internal/viewer"

	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

// allowedTerms lists the terminal types passed through to terminfo. Anything
// else falls back to the default so clients cannot pick arbitrary entries.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"rxvt-unicode-256color": true,
}

// maxNameBytes caps user names in log lines.
const maxNameBytes = 16

func main() {
	port := flag.Int("port", 2222, "SSH server port")
	keyFile := flag.String("key", "server_host_key", "Path to the PEM-encoded host key (auto-generated if absent)")
	missionFile := flag.String("mission", "", "JSON mission file (default: built-in interior preset)")
	flag.Parse()

	base := mission.DefaultInterior(96, 64)
	if *missionFile != "" {
		m, err := mission.Load(*missionFile)
		if err != nil {
			log.Fatal(err)
		}
		base = m
	}

	signer := loadOrCreateHostKey(*keyFile)
	srv := &gossh.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: newServer(base).handleSession,
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// No authentication: the preview is read-only.
		HostSigners: []gossh.Signer{signer},
	}

	log.Printf("cdogs-mapgen SSH server listening on :%d", *port)
	log.Printf("Connect with:  ssh -t -p %d -o StrictHostKeyChecking=no localhost", *port)
	log.Fatal(srv.ListenAndServe())
}

type server struct {
	base mission.Mission
	seq  atomic.Int64
}

func newServer(base mission.Mission) *server {
	return &server{base: base}
}

// nextMission returns the base mission with a seed unique to this server run.
func (s *server) nextMission() mission.Mission {
	m := s.base
	m.Seed = s.base.Seed + s.seq.Add(1) - 1
	return m
}

// handleSession is the gliderlabs SSH handler for one connection.
// It blocks for the duration of the connection so the SSH session stays open.
func (s *server) handleSession(sess gossh.Session) {
	pty, winCh, hasPTY := sess.Pty()
	if !hasPTY {
		fmt.Fprintln(sess, "The map viewer requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}
	name := sanitizeName(sess.User())
	term := internalssh.TermFromEnv(sess.Environ(), allowedTerms)

	screen, err := internalssh.NewScreen(sess, pty, winCh, term)
	if err != nil {
		fmt.Fprintf(sess, "%v\n", err)
		return
	}
	defer screen.Fini()

	m := s.nextMission()
	v, err := viewer.New(screen, m)
	if err != nil {
		log.Printf("session %q: %v", name, err)
		return
	}
	log.Printf("session %q: %s map seed %d on %s", name, m.Kind, m.Seed, term)
	v.Run()
	log.Printf("session %q closed", name)
}

// sanitizeName drops control characters and truncates to maxNameBytes
// without splitting a rune.
func sanitizeName(name string) string {
	out := make([]byte, 0, maxNameBytes)
	for _, r := range name {
		if r == utf8.RuneError || unicode.IsControl(r) {
			continue
		}
		if len(out)+utf8.RuneLen(r) > maxNameBytes {
			break
		}
		out = utf8.AppendRune(out, r)
	}
	return string(out)
}

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string) gossh.Signer {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			log.Printf("Loaded host key from %s", path)
			return signer
		}
	}

	log.Printf("Generating new ed25519 host key -> %s", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatalf("generate host key: %v", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		log.Fatalf("create signer: %v", err)
	}
	// Persist for next run (non-fatal if it fails).
	if pemBlock, err := xssh.MarshalPrivateKey(key, "cdogs-mapgen server"); err == nil {
		_ = os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0600)
	}
	return signer
}
