package section

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"git.home.luguber.info/inful/actiondocs/internal/content"
	"git.home.luguber.info/inful/actiondocs/internal/docio"
)

// Replace installs a freshly rendered section for id into doc. The
// document is scanned line by line: when a line trim-equals the id's
// start marker the rendered section replaces the old span (original
// lines through the matching end marker are dropped), otherwise lines
// pass through untouched. When the document contains no start marker for
// id the rendered section is appended at the end. Applying Replace twice
// with the same arguments yields the same output as applying it once.
func Replace(doc content.Content, id Identifier, body content.Content) content.Content {
	rendered := Render(id, body)
	startMarker := Start(id)
	endMarker := End(id)

	var out bytes.Buffer
	found := false
	skipping := false

	scanner := bufio.NewScanner(bytes.NewReader(doc.Bytes()))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if skipping {
			if trimmed == endMarker {
				skipping = false
			}
			continue
		}
		if !found && trimmed == startMarker {
			found = true
			skipping = true
			out.Write(rendered.Bytes())
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}

	if !found {
		if out.Len() > 0 && out.Bytes()[out.Len()-1] != '\n' {
			out.WriteByte('\n')
		}
		out.Write(rendered.Bytes())
	}
	return content.FromBytes(out.Bytes())
}

// LockRegistry serializes operations per destination identity. It is an
// explicit object owned by the Writer rather than process-global state,
// so tests can run writers side by side.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLockRegistry returns an empty registry.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[string]*sync.Mutex)}
}

// Acquire blocks until the destination slot is free and returns the
// release function. Distinct names never contend.
func (r *LockRegistry) Acquire(name string) func() {
	r.mu.Lock()
	l, ok := r.locks[name]
	if !ok {
		l = &sync.Mutex{}
		r.locks[name] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Writer installs rendered sections into destinations, one write at a
// time per destination. Writes to different destinations proceed in
// parallel.
type Writer struct {
	locks *LockRegistry
}

// NewWriter returns a Writer with its own lock registry.
func NewWriter() *Writer {
	return &Writer{locks: NewLockRegistry()}
}

// Write renders body as the id section and installs it into dst,
// replacing an existing span or appending when none exists.
func (w *Writer) Write(ctx context.Context, dst docio.Resource, id Identifier, body content.Content) error {
	release := w.locks.Acquire(dst.Name())
	defer release()

	doc, err := dst.Read(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", dst.Name(), err)
	}
	updated := Replace(doc, id, body)
	if err := dst.ReplaceAll(ctx, updated); err != nil {
		return fmt.Errorf("write %s: %w", dst.Name(), err)
	}
	return nil
}
