// Package dedup merges citizen reports that describe the same real-world
// need into a single project record using radius-based geodesic clustering.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/common"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/geo"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/service"
)

// Geocoder resolves coordinates to a human-readable area name. It never
// fails: lookups that cannot be resolved return model.UnknownArea.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, point model.GeoPoint) string
}

// Config holds deduplication tuning options.
type Config struct {
	// RadiusKm is the proximity radius; observations within it merge into
	// the existing cluster. Deployments run 5 or 10 km.
	RadiusKm float64
	// FilterByName restricts candidates to records with the same name.
	FilterByName bool
	// FilterBySector restricts candidates to records with the same sector.
	FilterBySector bool
	// FullClusterMatch compares the observation against every stored member
	// coordinate instead of only the representative location.
	FullClusterMatch bool
}

// DefaultConfig returns the standard deduplication configuration.
func DefaultConfig() Config {
	return Config{
		RadiusKm:       5,
		FilterByName:   true,
		FilterBySector: true,
	}
}

// Deduplicator decides whether a new observation belongs to an existing
// project cluster. It holds no durable state; the read-compute-write
// sequence against storage must be serialized by the caller (see
// service.KeyLocker).
type Deduplicator struct {
	storage  service.Storage
	geocoder Geocoder
	cfg      Config
}

// New creates a deduplicator with the default configuration.
func New(storage service.Storage, geocoder Geocoder) *Deduplicator {
	return NewWithConfig(storage, geocoder, DefaultConfig())
}

// NewWithConfig creates a deduplicator with custom configuration.
func NewWithConfig(storage service.Storage, geocoder Geocoder, cfg Config) *Deduplicator {
	if cfg.RadiusKm <= 0 {
		cfg.RadiusKm = DefaultConfig().RadiusKm
	}
	return &Deduplicator{storage: storage, geocoder: geocoder, cfg: cfg}
}

// Upsert merges the observation into a nearby existing cluster or creates a
// new record, recomputes the representative location, and persists the
// result.
func (d *Deduplicator) Upsert(ctx context.Context, name, sector string, loc model.GeoPoint) (*model.ProjectRecord, error) {
	filter := service.ProjectFilter{}
	if d.cfg.FilterByName {
		filter.Name = name
	}
	if d.cfg.FilterBySector {
		filter.Sector = sector
	}

	candidates, err := d.storage.GetProjects(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate records: %w", err)
	}

	nearby := d.closeClusters(loc, candidates)

	if len(nearby) == 0 {
		return d.create(ctx, name, sector, loc)
	}
	return d.merge(ctx, nearby, loc)
}

// closeClusters partitions candidates by distance and returns those within
// the radius.
func (d *Deduplicator) closeClusters(loc model.GeoPoint, candidates []model.ProjectRecord) []model.ProjectRecord {
	var nearby []model.ProjectRecord
	for _, c := range candidates {
		dist := geo.DistanceKm(loc, c.Location)
		if d.cfg.FullClusterMatch && len(c.Members) > 0 {
			dist = geo.MinDistanceKm(loc, c.Members)
		}
		if dist <= d.cfg.RadiusKm {
			nearby = append(nearby, c)
		}
	}
	return nearby
}

func (d *Deduplicator) create(ctx context.Context, name, sector string, loc model.GeoPoint) (*model.ProjectRecord, error) {
	now := time.Now().UTC()
	record := &model.ProjectRecord{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        uuid.NewString(),
		Name:      name,
		Sector:    sector,
		Area:      d.geocoder.ReverseGeocode(ctx, loc),
		Location:  loc,
		Members:   []model.GeoPoint{loc},
		Count:     1,
	}

	saved, err := d.storage.UpsertProject(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to persist new record: %w", err)
	}

	slog.Info("Created project record",
		"id", saved.ID,
		"name", name,
		"sector", sector,
		"area", saved.Area)
	return saved, nil
}

// merge folds the observation, and every close cluster, into the
// earliest-created record. Disjoint close clusters are not expected for a
// fixed radius, but when present they collapse into one record with summed
// counts and merged member lists.
func (d *Deduplicator) merge(ctx context.Context, nearby []model.ProjectRecord, loc model.GeoPoint) (*model.ProjectRecord, error) {
	survivor := nearby[0]
	for _, c := range nearby[1:] {
		if c.CreatedAt.Before(survivor.CreatedAt) {
			survivor = c
		}
	}

	members := make([]model.GeoPoint, 0, len(nearby)+1)
	count := 0
	var absorbed []string
	for _, c := range nearby {
		members = append(members, clusterMembers(c)...)
		count += c.Count
		if c.ID != survivor.ID {
			absorbed = append(absorbed, c.ID)
		}
	}
	members = append(members, loc)
	count++

	oldLocation := survivor.Location
	survivor.Members = members
	survivor.Count = count
	survivor.Location = geo.Centroid(members)
	survivor.UpdatedAt = time.Now().UTC()

	if survivor.Location != oldLocation {
		if area := d.geocoder.ReverseGeocode(ctx, survivor.Location); area != model.UnknownArea || survivor.Area == "" {
			survivor.Area = area
		}
	}

	saved, err := d.storage.UpsertProject(ctx, &survivor)
	if err != nil {
		return nil, fmt.Errorf("failed to persist merged record: %w", err)
	}

	// Remove absorbed records. A record that vanished mid-merge means the
	// persisted state moved under us; surface that instead of guessing.
	for _, id := range absorbed {
		switch err := d.storage.DeleteProject(ctx, id); {
		case errors.Is(err, common.ErrNotFound):
			return nil, fmt.Errorf("%w: absorbed record %s vanished", common.ErrClusterConflict, id)
		case err != nil:
			return nil, fmt.Errorf("failed to remove absorbed record %s: %w", id, err)
		}
	}

	if len(absorbed) > 0 {
		slog.Warn("Collapsed disjoint close clusters",
			"survivor", saved.ID,
			"absorbed", len(absorbed))
	}

	slog.Info("Merged observation into project record",
		"id", saved.ID,
		"count", saved.Count,
		"lat", saved.Location.Lat,
		"lon", saved.Location.Lon)
	return saved, nil
}

// clusterMembers returns a record's member coordinates, falling back to its
// representative location for legacy rows with no stored members.
func clusterMembers(record model.ProjectRecord) []model.GeoPoint {
	if len(record.Members) == 0 {
		return []model.GeoPoint{record.Location}
	}
	return record.Members
}
