// Package tailer streams lines from a live access log as they are
// written, surviving rotation and truncation.
package tailer

import (
	"context"
	"log"

	"github.com/hpcloud/tail"
)

// Tailer follows a single log file and emits complete lines.
type Tailer struct {
	path    string
	fromEnd bool
}

// New creates a new Tailer for the given log file path. When fromEnd is
// true the tailer skips existing content and only emits lines appended
// after it starts.
func New(path string, fromEnd bool) *Tailer {
	return &Tailer{
		path:    path,
		fromEnd: fromEnd,
	}
}

// Run follows the file and sends each line to the channel. Polling is
// used instead of inotify so the tailer behaves the same on bind mounts
// and network filesystems. Blocks until ctx is cancelled or the file
// stream ends.
func (t *Tailer) Run(ctx context.Context, lines chan<- string) error {
	cfg := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      true,
		Logger:    tail.DiscardingLogger,
	}
	if t.fromEnd {
		// Whence 2 is io.SeekEnd
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: 2}
	}

	tf, err := tail.TailFile(t.path, cfg)
	if err != nil {
		return err
	}
	defer tf.Cleanup()

	log.Printf("tailer: following %s", t.path)

	for {
		select {
		case <-ctx.Done():
			_ = tf.Stop()
			return ctx.Err()
		case line, ok := <-tf.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				log.Printf("tailer: read error: %v", line.Err)
				continue
			}
			if line.Text == "" {
				continue
			}
			select {
			case lines <- line.Text:
			case <-ctx.Done():
				_ = tf.Stop()
				return ctx.Err()
			}
		}
	}
}
