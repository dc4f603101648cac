package assets

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/partview/internal/scene"
)

// Task is a model load running in the background. The decoded model is a
// fresh graph owned by whoever calls Await.
type Task struct {
	Path string

	done  chan struct{}
	model *scene.Model
	err   error
}

// Load starts parsing path. An empty path completes immediately with
// ErrNoURL.
func Load(ctx context.Context, path string, opts Options) *Task {
	t := &Task{Path: path, done: make(chan struct{})}
	if path == "" {
		t.err = ErrNoURL
		close(t.done)
		return t
	}
	go t.run(ctx, opts)
	return t
}

// Resolved returns a finished task holding md, for callers that already
// have a model.
func Resolved(md *scene.Model) *Task {
	t := &Task{done: make(chan struct{}), model: md}
	if md == nil {
		t.err = ErrNoParts
	}
	close(t.done)
	return t
}

func (t *Task) run(ctx context.Context, opts Options) {
	defer close(t.done)

	if err := ctx.Err(); err != nil {
		t.err = err
		return
	}

	var (
		doc *gltf.Document
		err error
	)
	if opts.Manager != nil {
		doc, err = opts.Manager.Document(t.Path)
	} else {
		doc, err = NewManager().Document(t.Path)
	}
	if err != nil {
		t.err = err
		return
	}
	if err := ctx.Err(); err != nil {
		t.err = err
		return
	}
	t.model, t.err = Decode(doc, ModelName(t.Path), opts)
}

// Done is closed when the load finishes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Await blocks until the load finishes or ctx is cancelled.
func (t *Task) Await(ctx context.Context) (*scene.Model, error) {
	select {
	case <-t.done:
		return t.model, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ModelName derives a display name from a file path.
func ModelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
