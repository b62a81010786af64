package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tarmuz-dev/tarmuz/internal/models"
	"github.com/tarmuz-dev/tarmuz/internal/repository"
	"gorm.io/datatypes"
)

const (
	CollectionProjects = "projects"
	CollectionContent  = "content"
	CollectionSettings = "settings"
	CollectionTeam     = "team"
)

type Counts struct {
	Inspected int `json:"inspected"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// Report holds the per collection outcome of a run.
type Report struct {
	Collections map[string]*Counts `json:"collections"`
}

func newReport() *Report {
	return &Report{Collections: map[string]*Counts{
		CollectionProjects: {},
		CollectionContent:  {},
		CollectionSettings: {},
		CollectionTeam:     {},
	}}
}

func (r *Report) Failed() int {
	n := 0
	for _, c := range r.Collections {
		n += c.Failed
	}
	return n
}

func (r *Report) Changed() int {
	n := 0
	for _, c := range r.Collections {
		n += c.Changed
	}
	return n
}

// Names returns the collection names in a stable order.
func (r *Report) Names() []string {
	names := make([]string, 0, len(r.Collections))
	for name := range r.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reconciler rewrites locally rooted image references to asset store URLs.
// Rows are saved one at a time; a failed row does not stop the run and rows
// already saved stay migrated.
type Reconciler struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewReconciler(store *repository.Store, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, logger: logger}
}

func (r *Reconciler) Run(ctx context.Context, mapping Mapping) (*Report, error) {
	report := newReport()

	projects, err := r.store.Projects.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list projects: %w", err)
	}
	reconcileEach(ctx, r, CollectionProjects, report, projects, func(p *models.Project) bool {
		cover, coverChanged := mapping.Rewrite(p.Cover)
		images, imagesChanged := mapping.RewriteAll(p.Images)
		p.Cover, p.Images = cover, datatypes.JSONSlice[string](images)
		return coverChanged || imagesChanged
	}, r.store.Projects.Save)

	contents, err := r.store.Contents.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list content: %w", err)
	}
	reconcileEach(ctx, r, CollectionContent, report, contents, func(c *models.Content) bool {
		image, imageChanged := mapping.Rewrite(c.Image)
		images, imagesChanged := mapping.RewriteAll(c.Images)
		c.Image, c.Images = image, datatypes.JSONSlice[string](images)
		return imageChanged || imagesChanged
	}, r.store.Contents.Save)

	settings, err := r.store.Settings.All(ctx)
	if err != nil {
		return report, fmt.Errorf("list settings: %w", err)
	}
	reconcileEach(ctx, r, CollectionSettings, report, settings, func(s *models.Settings) bool {
		logo, logoChanged := mapping.Rewrite(s.LogoURL)
		scrolled, scrolledChanged := mapping.Rewrite(s.LogoURLScrolled)
		s.LogoURL, s.LogoURLScrolled = logo, scrolled
		return logoChanged || scrolledChanged
	}, r.store.Settings.Save)

	members, err := r.store.Team.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list team: %w", err)
	}
	reconcileEach(ctx, r, CollectionTeam, report, members, func(m *models.TeamMember) bool {
		image, changed := mapping.Rewrite(m.Image)
		m.Image = image
		return changed
	}, r.store.Team.Save)

	return report, nil
}

func reconcileEach[T any](ctx context.Context, r *Reconciler, collection string, report *Report, rows []T, rewrite func(*T) bool, save func(context.Context, *T) error) {
	counts := report.Collections[collection]

	for i := range rows {
		row := &rows[i]
		counts.Inspected++

		if !rewrite(row) {
			counts.Unchanged++
			continue
		}

		if err := save(ctx, row); err != nil {
			counts.Failed++
			r.logger.Error("failed to save migrated row", "collection", collection, "id", recordID(row), "error", err)
			continue
		}

		counts.Changed++
	}
}

func recordID(row any) uint {
	if rec, ok := row.(interface{ RecordID() uint }); ok {
		return rec.RecordID()
	}
	return 0
}
