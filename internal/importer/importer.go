// Package importer loads a YAML board description through the services, so
// imported rows get the same validation and ownership as interactive ones.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/locvowork/taskboard/internal/domain"
	"github.com/locvowork/taskboard/internal/logger"
	"github.com/locvowork/taskboard/internal/service"
	"gopkg.in/yaml.v2"
)

// ErrInvalidDocument wraps YAML and date parse failures.
var ErrInvalidDocument = errors.New("invalid import document")

// Document is the import file layout:
//
//	collections:
//	  - name: Groceries
//	    color: candy
//	    tasks:
//	      - content: Buy oat milk
//	        expires_at: 2026-10-20
//	        done: true
type Document struct {
	Collections []CollectionEntry `yaml:"collections"`
}

type CollectionEntry struct {
	Name  string                 `yaml:"name"`
	Color domain.CollectionColor `yaml:"color"`
	Tasks []TaskEntry            `yaml:"tasks"`
}

type TaskEntry struct {
	Content   string `yaml:"content"`
	ExpiresAt string `yaml:"expires_at"`
	Done      bool   `yaml:"done"`
}

// Result counts what was created before Import returned.
type Result struct {
	Collections int `json:"collections"`
	Tasks       int `json:"tasks"`
}

type Validator interface {
	Validate(i interface{}) error
}

type Importer struct {
	collections service.CollectionService
	tasks       service.TaskService
	validator   Validator
}

func New(collections service.CollectionService, tasks service.TaskService, v Validator) *Importer {
	return &Importer{collections: collections, tasks: tasks, validator: v}
}

// Parse decodes a document without touching storage.
func Parse(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	var doc Document
	if err := yaml.UnmarshalStrict(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// Import creates every collection and task of the document in order and
// stops at the first failure. Rows created before the failure are kept.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	doc, err := Parse(r)
	if err != nil {
		return res, err
	}

	for i, entry := range doc.Collections {
		in := domain.CreateCollectionInput{Name: strings.TrimSpace(entry.Name), Color: entry.Color}
		if err := im.validator.Validate(in); err != nil {
			return res, fmt.Errorf("collection %d: %w", i+1, err)
		}
		c, err := im.collections.Create(ctx, in)
		if err != nil {
			return res, fmt.Errorf("collection %d (%s): %w", i+1, in.Name, err)
		}
		res.Collections++

		for j, te := range entry.Tasks {
			if err := im.importTask(ctx, c.ID, te); err != nil {
				return res, fmt.Errorf("collection %d (%s) task %d: %w", i+1, in.Name, j+1, err)
			}
			res.Tasks++
		}
	}

	logger.InfoLog(ctx, "imported %d collections and %d tasks", res.Collections, res.Tasks)
	return res, nil
}

func (im *Importer) importTask(ctx context.Context, collectionID int64, te TaskEntry) error {
	in := domain.CreateTaskInput{CollectionID: collectionID, Content: strings.TrimSpace(te.Content)}
	if te.ExpiresAt != "" {
		at, err := parseDate(te.ExpiresAt)
		if err != nil {
			return err
		}
		in.ExpiresAt = &at
	}
	if err := im.validator.Validate(in); err != nil {
		return err
	}

	t, err := im.tasks.Create(ctx, in)
	if err != nil {
		return err
	}
	if te.Done {
		if _, err := im.tasks.SetDone(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", time.DateOnly}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: expires_at %q is not a date", ErrInvalidDocument, s)
}
