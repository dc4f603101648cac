// Package assets turns glTF/GLB files into scene models. It parses off the
// frame goroutine behind a Task, caches parsed documents for every viewer
// that opens the same file and watches files for hot reload.
package assets

import "errors"

var (
	// ErrNoURL is returned when a load is requested without a path.
	ErrNoURL = errors.New("assets: no model path")
	// ErrNoScene is returned for documents without any scene.
	ErrNoScene = errors.New("assets: document has no scene")
	// ErrNoParts is returned when a scene contains no meshes.
	ErrNoParts = errors.New("assets: scene has no parts")
)
