package weka

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Runner executes the weka CLI and returns its stdout.
// Implementations must honor context cancellation so an in-flight poll can
// be interrupted by quit.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, err error)
}

// LocalRunner executes commands on the local machine.
type LocalRunner struct{}

// Run executes the command locally, capturing stdout and stderr separately.
// Stderr is folded into the returned error so callers can classify it.
func (LocalRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s timed out", ErrUnreachable, name)
		}
		return nil, classifyRunError(err, stderr.String())
	}

	return stdout.Bytes(), nil
}

// classifyRunError maps a command failure onto the typed source errors.
func classifyRunError(err error, stderr string) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "not logged in"),
		strings.Contains(lower, "login"),
		strings.Contains(lower, "unauthorized"),
		strings.Contains(lower, "authentication"):
		return fmt.Errorf("%w: %s", ErrNotLoggedIn, firstLine(stderr))
	case stderr != "":
		return fmt.Errorf("%w: %s", ErrUnreachable, firstLine(stderr))
	default:
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		s = s[:idx]
	}
	return s
}

// SSHRunner executes commands on a remote cluster node over SSH.
// The host can be an SSH config alias, a hostname, or user@host[:port];
// connection settings are resolved from ~/.ssh/config when available.
type SSHRunner struct {
	Host    string
	Timeout time.Duration

	// mu guards client: the stats and cluster-status pollers run as
	// separate goroutines sharing one runner.
	mu     sync.Mutex
	client *ssh.Client

	dialFn func() (*ssh.Client, error) // overridden in tests
}

// NewSSHRunner creates a runner that executes the weka CLI on the given host.
func NewSSHRunner(host string, timeout time.Duration) *SSHRunner {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &SSHRunner{Host: host, Timeout: timeout}
}

// Run executes the command on the remote host. The connection is established
// lazily on first use and reused across polls.
func (r *SSHRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	session, err := r.session()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	cmdline := shellQuote(name, args)

	done := make(chan error, 1)
	if err := session.Start(cmdline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	go func() { done <- session.Wait() }()

	select {
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return nil, fmt.Errorf("%w: %s timed out", ErrUnreachable, name)
	case err := <-done:
		if err != nil {
			return nil, classifyRunError(err, stderr.String())
		}
		return stdout.Bytes(), nil
	}
}

// session opens a session on the shared connection, dialing lazily on first
// use. The mutex covers both the dial and the dead-connection reset so
// concurrent pollers never dial twice or race the teardown.
func (r *SSHRunner) session() (*ssh.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		dial := r.dialFn
		if dial == nil {
			dial = r.dial
		}
		client, err := dial()
		if err != nil {
			return nil, err
		}
		r.client = client
	}

	session, err := r.client.NewSession()
	if err != nil {
		// Connection likely died; drop it so the next poll redials.
		r.client.Close()
		r.client = nil
		return nil, err
	}
	return session, nil
}

// Close tears down the SSH connection, if any.
func (r *SSHRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

// shellQuote builds a remote command line with single-quoted arguments.
func shellQuote(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if strings.ContainsAny(a, " \t'\"$") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// dial resolves connection settings and establishes the SSH connection.
func (r *SSHRunner) dial() (*ssh.Client, error) {
	host := r.Host
	username := currentUser()
	port := "22"

	if atIdx := strings.Index(host, "@"); atIdx != -1 {
		username = host[:atIdx]
		host = host[atIdx+1:]
	}
	if colonIdx := strings.LastIndex(host, ":"); colonIdx != -1 && isDigits(host[colonIdx+1:]) {
		port = host[colonIdx+1:]
		host = host[:colonIdx]
	}

	hostname := host
	var identityFiles []string

	// Resolve alias settings from ~/.ssh/config when present.
	if f, err := os.Open(sshConfigPath()); err == nil {
		if cfg, err := ssh_config.Decode(f); err == nil {
			if v, _ := cfg.Get(host, "HostName"); v != "" {
				hostname = v
			}
			if v, _ := cfg.Get(host, "Port"); v != "" && port == "22" {
				port = v
			}
			if v, _ := cfg.Get(host, "User"); v != "" {
				username = v
			}
			if v, _ := cfg.Get(host, "IdentityFile"); v != "" {
				identityFiles = append(identityFiles, expandHome(v))
			}
		}
		f.Close()
	}

	auth := authMethods(identityFiles)
	if len(auth) == 0 {
		return nil, fmt.Errorf("no usable SSH keys for %s (load one with ssh-add)", r.Host)
	}

	config := &ssh.ClientConfig{
		User:            username,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback(),
		Timeout:         r.Timeout,
	}

	return ssh.Dial("tcp", net.JoinHostPort(hostname, port), config)
}

// authMethods returns SSH auth methods: agent first, then identity files.
func authMethods(identityFiles []string) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	if len(identityFiles) == 0 {
		home, _ := os.UserHomeDir()
		identityFiles = []string{
			filepath.Join(home, ".ssh", "id_ed25519"),
			filepath.Join(home, ".ssh", "id_rsa"),
		}
	}
	for _, path := range identityFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			continue
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	return methods
}

// hostKeyCallback verifies against ~/.ssh/known_hosts when it exists.
func hostKeyCallback() ssh.HostKeyCallback {
	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, ".ssh", "known_hosts")
		if cb, err := knownhosts.New(path); err == nil {
			return cb
		}
	}
	return ssh.InsecureIgnoreHostKey()
}

func sshConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ssh", "config")
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
