package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"github.com/cborchert/gop/gop"
)

// auditEntry is one line appended to the journal file per hook firing.
type auditEntry struct {
	Time  string `json:"time"`
	Event string `json:"event"`
}

// installAudit wires gop.ErrorCorrectedHook and gop.LockErrorHook to append
// a line to path, using atomic.WriteFile for each append so a crash mid-write
// never leaves a half-written journal — the same crash-safety discipline the
// teacher's WithTicketLock uses for its own journal writes. If path is
// empty, installAudit is a no-op and returns a no-op closer.
//
// gopdemo is the only place in this module that touches the hooks: the core
// gop package never imports a logging or file-writing dependency itself.
func installAudit(path string, errOut io.Writer) func() {
	if path == "" {
		return func() {}
	}

	var mu sync.Mutex

	appendLine := func(event string) {
		mu.Lock()
		defer mu.Unlock()

		existing, _ := os.ReadFile(path)

		line, err := json.Marshal(auditEntry{Time: time.Now().UTC().Format(time.RFC3339Nano), Event: event})
		if err != nil {
			fmt.Fprintf(errOut, "gopdemo: audit marshal: %v\n", err)
			return
		}

		buf := bytes.NewBuffer(existing)
		buf.Write(line)
		buf.WriteByte('\n')

		if err := atomic.WriteFile(path, buf); err != nil {
			fmt.Fprintf(errOut, "gopdemo: audit write: %v\n", err)
		}
	}

	gop.ErrorCorrectedHook = func() { appendLine("error_corrected") }
	gop.LockErrorHook = func() { appendLine("synchronizer_lock_error") }

	return func() {
		gop.ErrorCorrectedHook = nil
		gop.LockErrorHook = nil
	}
}
