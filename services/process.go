package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"link-downloader-go/models"

	"github.com/jaevor/go-nanoid"
)

const (
	// DownloadIDLength is the nanoid length used for download IDs
	DownloadIDLength = 21

	// Time allowed for stdout to drain after the process is gone
	processWaitDelay = 5 * time.Second

	stderrTailSize = 4 * 1024
)

// Process is a running yt-dlp download. Its stdout is exposed as a finite
// sequence of chunks; the channel is closed when stdout ends or the process
// is cancelled. A Process is not restartable.
type Process struct {
	ID        string
	URL       string
	FormatID  string
	StartedAt time.Time

	cmd    *exec.Cmd
	cancel context.CancelFunc
	chunks chan []byte
	done   chan struct{}
	stderr *tailBuffer
	bytes  atomic.Int64
	err    error
	onExit func()
}

// startProcess spawns name with args and starts pumping its stdout.
// onExit runs after the process has been reaped.
func startProcess(ctx context.Context, id, name string, args []string, bufferSize int, onExit func()) (*Process, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, name, args...)
	configureProcessGroup(cmd)
	cmd.WaitDelay = processWaitDelay

	stderr := newTailBuffer(stderrTailSize)
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: failed to start %s: %w", ErrToolFailed, name, err)
	}

	p := &Process{
		ID:        id,
		StartedAt: time.Now(),
		cmd:       cmd,
		cancel:    cancel,
		chunks:    make(chan []byte),
		done:      make(chan struct{}),
		stderr:    stderr,
		onExit:    onExit,
	}

	go p.pump(ctx, stdout, bufferSize)

	return p, nil
}

// pump forwards stdout to the chunk channel, then reaps the process
func (p *Process) pump(ctx context.Context, stdout io.Reader, bufferSize int) {
	buf := make([]byte, bufferSize)

read:
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			select {
			case p.chunks <- chunk:
				p.bytes.Add(int64(n))
			case <-ctx.Done():
				break read
			}
		}
		if err != nil {
			break
		}
	}

	close(p.chunks)

	p.err = p.cmd.Wait()
	p.cancel()
	close(p.done)

	if p.onExit != nil {
		p.onExit()
	}
}

// Chunks returns the stdout chunk sequence
func (p *Process) Chunks() <-chan []byte {
	return p.chunks
}

// Bytes returns the number of stdout bytes forwarded so far
func (p *Process) Bytes() int64 {
	return p.bytes.Load()
}

// Cancel kills the process group without waiting for it
func (p *Process) Cancel() {
	p.cancel()
}

// Wait blocks until the process has exited and returns its exit error
func (p *Process) Wait() error {
	<-p.done
	return p.err
}

// Close kills the process (if still running) and waits for it. Safe to call
// more than once and after a normal exit.
func (p *Process) Close() error {
	p.cancel()
	return p.Wait()
}

// Stderr returns the tail of the process stderr
func (p *Process) Stderr() string {
	return p.stderr.String()
}

func (p *Process) summary() models.ActiveDownload {
	return models.ActiveDownload{
		ID:        p.ID,
		URL:       p.URL,
		FormatID:  p.FormatID,
		StartedAt: p.StartedAt.UnixMilli(),
		Bytes:     p.Bytes(),
	}
}

// ProcessRegistry tracks running downloads by ID
type ProcessRegistry struct {
	mu    sync.Mutex
	procs map[string]*Process
	newID func() string
}

// NewProcessRegistry creates an empty registry
func NewProcessRegistry() (*ProcessRegistry, error) {
	generateID, err := nanoid.Standard(DownloadIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to init id generator: %w", err)
	}

	return &ProcessRegistry{
		procs: make(map[string]*Process),
		newID: generateID,
	}, nil
}

// NewID returns a fresh download ID
func (r *ProcessRegistry) NewID() string {
	return r.newID()
}

// Add registers p. A process that has already exited is not added.
func (r *ProcessRegistry) Add(p *Process) {
	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case <-p.done:
		return
	default:
	}
	r.procs[p.ID] = p
}

// Remove unregisters the process with the given ID
func (r *ProcessRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.procs, id)
	r.mu.Unlock()
}

// Get returns the process with the given ID
func (r *ProcessRegistry) Get(id string) (*Process, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.procs[id]
	return p, ok
}

// Count returns the number of running downloads
func (r *ProcessRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}

// List returns the running downloads, oldest first
func (r *ProcessRegistry) List() []models.ActiveDownload {
	r.mu.Lock()
	list := make([]models.ActiveDownload, 0, len(r.procs))
	for _, p := range r.procs {
		list = append(list, p.summary())
	}
	r.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].StartedAt != list[j].StartedAt {
			return list[i].StartedAt < list[j].StartedAt
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// Cancel kills the download with the given ID. It reports whether the
// download was running.
func (r *ProcessRegistry) Cancel(id string) bool {
	p, ok := r.Get(id)
	if !ok {
		return false
	}
	p.Cancel()
	return true
}

// ReapOlderThan kills every download running for longer than maxAge and
// returns how many were killed.
func (r *ProcessRegistry) ReapOlderThan(maxAge time.Duration) int {
	now := time.Now()

	r.mu.Lock()
	var stale []*Process
	for _, p := range r.procs {
		if now.Sub(p.StartedAt) > maxAge {
			stale = append(stale, p)
		}
	}
	r.mu.Unlock()

	for _, p := range stale {
		log.Printf("[Reaper] Killing download %s (age: %v)\n", p.ID, now.Sub(p.StartedAt).Round(time.Second))
		p.Cancel()
	}
	return len(stale)
}

// CloseAll kills every running download and waits for them to exit
func (r *ProcessRegistry) CloseAll() {
	r.mu.Lock()
	procs := make([]*Process, 0, len(r.procs))
	for _, p := range r.procs {
		procs = append(procs, p)
	}
	r.mu.Unlock()

	for _, p := range procs {
		_ = p.Close()
	}
}
