// syncer.go implements the per-document half of a run.

package sync

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/log"
	"github.com/Dyc3r/docs2cms/internal/progress"
	"github.com/Dyc3r/docs2cms/internal/render"
	"github.com/Dyc3r/docs2cms/internal/report"
	"github.com/Dyc3r/docs2cms/internal/wordpress"
	"go.uber.org/zap"
)

// Action is what happened to one document.
type Action string

const (
	Skipped Action = "skipped" // fingerprint unchanged
	Created Action = "created" // new remote item
	Updated Action = "updated" // existing remote item rewritten
	Deleted Action = "deleted" // deprecated: remote item deleted, file removed
	Removed Action = "removed" // deprecated and never synced: file removed
	Failed  Action = "failed"  // recorded in the report
)

// Outcome is the result of syncing one document.
type Outcome struct {
	Path        string               `json:"path"` // relative to the docs root
	ContentType document.ContentType `json:"content_type,omitempty"`
	Action      Action               `json:"action"`
	WordPressID int                  `json:"wordpress_id,omitempty"`
	DryRun      bool                 `json:"dry_run,omitempty"`
	Err         error                `json:"-"`
}

// Syncer syncs documents below one docs root into one report. It is not
// safe for concurrent use.
type Syncer struct {
	root     string
	api      wordpress.API
	resolver *wordpress.Resolver
	renderer *render.Renderer
	report   *report.Report
	w        io.Writer
	log      *zap.Logger
	opts     Options
	progress *progress.Progress
	result   Result
}

// New returns a Syncer for the docs tree at root. Failures are recorded into
// rep and one line per action is written to w.
func New(root string, api wordpress.API, rep *report.Report, w io.Writer, opts Options) *Syncer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if w == nil {
		w = io.Discard
	}
	return &Syncer{
		root:     root,
		api:      api,
		resolver: wordpress.NewResolver(api),
		renderer: render.New(),
		report:   rep,
		w:        w,
		log:      logger,
		opts:     opts,
		progress: progress.New("Syncing", 0),
		result:   Result{DryRun: opts.DryRun},
	}
}

// Result returns the counts accumulated so far.
func (s *Syncer) Result() Result {
	return s.result
}

// Document syncs the file at path. Failures are recorded in the report and
// returned in the Outcome, never as a separate error.
func (s *Syncer) Document(ctx context.Context, path string) Outcome {
	o := s.document(ctx, path)
	s.finish(o)
	return o
}

func (s *Syncer) document(ctx context.Context, path string) Outcome {
	rel, err := document.RelPath(s.root, path)
	if err != nil {
		rel = path
	}
	o := Outcome{Path: rel, DryRun: s.opts.DryRun}

	doc, err := document.Load(path)
	if err != nil {
		return o.fail(err)
	}
	o.WordPressID = doc.WordPressID()

	ct, err := document.ContentTypeFromPath(s.root, path)
	if err != nil {
		return o.fail(err)
	}
	o.ContentType = ct

	if doc.Deprecated() {
		return s.remove(ctx, path, doc, o)
	}

	fingerprint, err := document.Fingerprint(doc, rel)
	if err != nil {
		return o.fail(err)
	}
	if !s.opts.Force && doc.Hash() == fingerprint {
		o.Action = Skipped
		return o
	}

	id := doc.WordPressID()
	o.Action = Updated
	if id == 0 {
		o.Action = Created
	}
	if s.opts.DryRun {
		return o
	}

	parent, err := s.resolver.ParentID(ctx, string(ct), doc.ParentKey())
	if err != nil {
		return o.fail(err)
	}
	tags, err := s.resolver.TagIDs(ctx, doc.Tags())
	if err != nil {
		return o.fail(err)
	}
	content, err := s.renderer.HTML(doc.Title(), doc.Body)
	if err != nil {
		return o.fail(err)
	}

	item, err := wordpress.Save(ctx, s.api, string(ct), id, wordpress.Payload{
		Slug:      doc.Slug(),
		Title:     doc.Title(),
		Status:    wordpress.Status,
		MenuOrder: doc.Order(),
		Content:   content,
		Meta:      wordpress.Meta{DocumentKey: doc.Key(), DocumentHash: fingerprint},
		Parent:    parent,
		Tags:      tags,
	})
	if err != nil {
		return o.fail(err)
	}
	if item.ID == 0 {
		return o.fail(ErrNoID)
	}
	o.WordPressID = item.ID

	if err := s.persist(path, rel, doc, item.ID, fingerprint); err != nil {
		return o.fail(fmt.Errorf("synced as %d but updating frontmatter: %w", item.ID, err))
	}
	return o
}

// persist stores the remote id and fingerprint in the document's frontmatter.
// A new id is part of the metadata, so the fingerprint is taken again after
// setting it; otherwise the next run would see a change and sync again.
func (s *Syncer) persist(path, rel string, doc *document.Document, id int, fingerprint string) error {
	if doc.WordPressID() != id {
		if err := doc.Set(document.KeyWordPressID, id); err != nil {
			return err
		}
		var err error
		if fingerprint, err = document.Fingerprint(doc, rel); err != nil {
			return err
		}
	}
	if err := doc.Set(document.KeyDocumentHash, fingerprint); err != nil {
		return err
	}
	return doc.Save(path)
}

// remove handles a deprecated document.
func (s *Syncer) remove(ctx context.Context, path string, doc *document.Document, o Outcome) Outcome {
	id := doc.WordPressID()
	if id == 0 {
		o.Action = Removed
		if s.opts.DryRun {
			return o
		}
		if err := document.Remove(path); err != nil {
			return o.fail(err)
		}
		return o
	}

	o.Action = Deleted
	if s.opts.DryRun {
		return o
	}
	if err := wordpress.Remove(ctx, s.api, string(o.ContentType), id); err != nil {
		return o.fail(err)
	}
	if err := document.Remove(path); err != nil {
		return o.fail(fmt.Errorf("deleted remote item %d but removing file: %w", id, err))
	}
	return o
}

func (o Outcome) fail(err error) Outcome {
	o.Action = Failed
	o.Err = err
	return o
}

// finish records o everywhere it is reported: counts, report, output line,
// run log and audit log.
func (s *Syncer) finish(o Outcome) {
	s.result.add(o)
	s.progress.Step(o.Path)

	fields := []zap.Field{
		zap.String("path", o.Path),
		zap.String("action", string(o.Action)),
		zap.Int("wordpress_id", o.WordPressID),
	}

	switch {
	case o.Action == Failed:
		s.report.Record(o.Path, string(o.ContentType), o.WordPressID, o.Err)
		s.log.Warn("sync failed", append(fields, zap.Error(o.Err))...)
		fmt.Fprintf(s.w, "Failed: %s: %v\n", o.Path, o.Err)
	case o.Action == Skipped:
		s.log.Debug("unchanged", fields...)
	case o.DryRun:
		s.log.Info("dry run", fields...)
		fmt.Fprintf(s.w, "Would %s: %s\n", verb(o.Action), o.Path)
	default:
		s.log.Info("synced", fields...)
		if o.WordPressID != 0 {
			fmt.Fprintf(s.w, "%s: %s (id %d)\n", label(o.Action), o.Path, o.WordPressID)
		} else {
			fmt.Fprintf(s.w, "%s: %s\n", label(o.Action), o.Path)
		}
	}

	if o.Action != Skipped && !o.DryRun {
		log.Event("sync:document", string(o.Action)).
			Path(o.Path).
			WordPressID(o.WordPressID).
			Detail("content_type", string(o.ContentType)).
			Write(o.Err)
	}
}

func verb(a Action) string {
	switch a {
	case Created:
		return "create"
	case Updated:
		return "update"
	case Deleted:
		return "delete"
	case Removed:
		return "remove"
	}
	return string(a)
}

func label(a Action) string {
	s := string(a)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
