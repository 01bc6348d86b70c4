// Package generator selects trending topics and produces draft blog posts
// through the completion client, rotating provider credentials per call.
package generator

import (
	"errors"
	"log/slog"

	"auto_blog_publisher/llm"
	"auto_blog_publisher/rotation"
)

// Generator drives topic selection and draft creation. Drafts are written to
// draftsDir; excludeDirs (typically the published posts dir plus draftsDir)
// feed the topic exclusion list.
type Generator struct {
	client      llm.Client
	rot         *rotation.Rotation
	draftsDir   string
	excludeDirs []string
	log         *slog.Logger
}

// New creates a Generator.
func New(client llm.Client, rot *rotation.Rotation, draftsDir string, excludeDirs []string, log *slog.Logger) (*Generator, error) {
	if client == nil {
		return nil, errors.New("completion client is required")
	}
	if rot == nil {
		return nil, errors.New("credential rotation is required")
	}
	if draftsDir == "" {
		return nil, errors.New("drafts directory is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		client:      client,
		rot:         rot,
		draftsDir:   draftsDir,
		excludeDirs: excludeDirs,
		log:         log,
	}, nil
}

// DraftsDir returns the pending-drafts directory the Generator writes to.
func (g *Generator) DraftsDir() string {
	return g.draftsDir
}
