package migrate

import (
	"context"
	"strings"

	"github.com/tarmuz-dev/tarmuz/internal/repository"
)

// Finding is a stored image reference that still needs attention.
type Finding struct {
	Collection string `json:"collection"`
	RecordID   uint   `json:"id"`
	Field      string `json:"field"`
	Value      string `json:"value"`
	Reason     string `json:"reason"`
}

const (
	ReasonLocalPath = "local path"
	ReasonStale     = "stale version"
)

// Audit lists every image reference that is not an absolute URL, and every one
// containing staleMarker when it is set.
func Audit(ctx context.Context, store *repository.Store, staleMarker string) ([]Finding, error) {
	var findings []Finding

	check := func(collection string, id uint, field, value string) {
		switch {
		case value == "":
		case !IsAbsoluteURL(value):
			findings = append(findings, Finding{collection, id, field, value, ReasonLocalPath})
		case staleMarker != "" && strings.Contains(value, staleMarker):
			findings = append(findings, Finding{collection, id, field, value, ReasonStale})
		}
	}

	projects, err := store.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		check(CollectionProjects, p.ID, "cover", p.Cover)
		for _, img := range p.Images {
			check(CollectionProjects, p.ID, "images", img)
		}
	}

	contents, err := store.Contents.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range contents {
		check(CollectionContent, c.ID, "image", c.Image)
		for _, img := range c.Images {
			check(CollectionContent, c.ID, "images", img)
		}
	}

	settings, err := store.Settings.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range settings {
		check(CollectionSettings, s.ID, "logoUrl", s.LogoURL)
		check(CollectionSettings, s.ID, "logoUrlScrolled", s.LogoURLScrolled)
	}

	members, err := store.Team.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		check(CollectionTeam, m.ID, "image", m.Image)
	}

	return findings, nil
}
