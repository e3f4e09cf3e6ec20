package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/database"
	"github.com/fleetops/fleetd/internal/pkg/models"
)

const tripPositionKeyPrefix = "trip:position:"
const tripGeoKey = "trips:live"

// PositionRepo caches live trip positions in Redis. Writes are
// last-write-wins and entries expire so stale trips fall out on their own.
type PositionRepo struct {
	cfg   *models.Config
	redis *database.RedisClient
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(cfg *models.Config, redis *database.RedisClient) *PositionRepo {
	return &PositionRepo{
		cfg:   cfg,
		redis: redis,
	}
}

func (r *PositionRepo) ttl() time.Duration {
	seconds := r.cfg.Engine.LivePositionTTLSeconds
	if seconds <= 0 {
		seconds = 300
	}
	return time.Duration(seconds) * time.Second
}

// SetPosition stores the latest position for a trip
func (r *PositionRepo) SetPosition(ctx context.Context, pos *models.TripPosition) error {
	payload, err := json.Marshal(pos)
	if err != nil {
		return err
	}

	key := tripPositionKeyPrefix + pos.TripID
	if err := r.redis.Set(ctx, key, payload, r.ttl()); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}

	// Secondary geo index for radius queries over live trips
	if err := r.redis.GeoAdd(ctx, tripGeoKey, pos.Longitude, pos.Latitude, pos.TripID); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// GetPosition retrieves the latest cached position for a trip
func (r *PositionRepo) GetPosition(ctx context.Context, tripID string) (*models.TripPosition, error) {
	raw, err := r.redis.Get(ctx, tripPositionKeyPrefix+tripID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.New(apperr.KindNotFound, "no live position for trip")
		}
		return nil, apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}

	var pos models.TripPosition
	if err := json.Unmarshal([]byte(raw), &pos); err != nil {
		return nil, fmt.Errorf("decoding cached position: %w", err)
	}
	return &pos, nil
}

// ListLive returns the cached positions of ongoing trips within radiusKm
// of the given point. Geo index members whose position payload has already
// expired are skipped, the ZRem on trip end or the next write cleans them up.
func (r *PositionRepo) ListLive(ctx context.Context, latitude, longitude, radiusKm float64) ([]*models.TripPosition, error) {
	locations, err := r.redis.GeoRadius(ctx, tripGeoKey, longitude, latitude, radiusKm, "km")
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}

	positions := make([]*models.TripPosition, 0, len(locations))
	for _, loc := range locations {
		pos, err := r.GetPosition(ctx, loc.Name)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				continue
			}
			return nil, err
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// DeletePosition removes the cached position once a trip completes
func (r *PositionRepo) DeletePosition(ctx context.Context, tripID string) error {
	if err := r.redis.Delete(ctx, tripPositionKeyPrefix+tripID); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	if err := r.redis.GetClient().ZRem(ctx, tripGeoKey, tripID).Err(); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return nil
}
