package designation

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	designationerrors "go-attendance/internal/designation/errors"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/database"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Designations change rarely, so the full list is cached.
const (
	DesignationAllKey = "designations:all"
	designationAllTTL = time.Hour
)

type Service interface {
	Create(ctx context.Context, req CreateDesignationRequest) (DesignationResponse, error)
	GetAll(ctx context.Context) ([]DesignationResponse, error)
	GetByID(ctx context.Context, id string) (DesignationResponse, error)
	Update(ctx context.Context, id string, req UpdateDesignationRequest) (DesignationResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	tx     database.Transactor
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(tx database.Transactor, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("designation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("designation.service")
	}
	return &service{
		tx:     tx,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateDesignationRequest) (DesignationResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create designation requested",
		zap.String("name", req.Name),
		zap.Any("level", req.Level),
	)

	level := DefaultLevel
	if req.Level != nil {
		level = *req.Level
	}
	if level < 1 {
		return DesignationResponse{}, designationerrors.ErrInvalidLevel
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}

	desig := &Designation{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Level:       level,
		Status:      status,
	}

	if err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		return s.repo.WithTx(tx).Create(ctx, desig)
	}); err != nil {
		log.Error("create designation persist failed", zap.Error(err))
		return DesignationResponse{}, mapRepositoryError(err)
	}

	s.invalidateCache(ctx)
	log.Info("create designation success",
		zap.String("designation_id", desig.ID.String()),
		zap.Int("level", desig.Level),
	)

	return mapToResponse(*desig), nil
}

func (s *service) GetAll(ctx context.Context) ([]DesignationResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, DesignationAllKey).Result()
		if err == nil {
			var resp []DesignationResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(DesignationAllKey, func() (interface{}, error) {
		desigs, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]DesignationResponse, len(desigs))
		for i, d := range desigs {
			resp[i] = mapToResponse(d)
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, DesignationAllKey, data, designationAllTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]DesignationResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (DesignationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DesignationResponse{}, designationerrors.ErrInvalidDesignationID
	}

	desig, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DesignationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*desig), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDesignationRequest) (DesignationResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update designation requested", zap.String("designation_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return DesignationResponse{}, designationerrors.ErrInvalidDesignationID
	}
	if req.Level != nil && *req.Level < 1 {
		return DesignationResponse{}, designationerrors.ErrInvalidLevel
	}

	var updated Designation
	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)

		desig, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		desig.Name = strings.TrimSpace(req.Name)
		desig.Description = strings.TrimSpace(req.Description)
		if req.Level != nil {
			desig.Level = *req.Level
		}
		if req.Status != "" {
			desig.Status = req.Status
		}

		if err := qtx.Update(ctx, desig); err != nil {
			return err
		}
		updated = *desig
		return nil
	})
	if err != nil {
		log.Error("update designation failed", zap.String("designation_id", id), zap.Error(err))
		return DesignationResponse{}, mapRepositoryError(err)
	}

	s.invalidateCache(ctx)
	log.Info("update designation success", zap.String("designation_id", id))

	return mapToResponse(updated), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return designationerrors.ErrInvalidDesignationID
	}

	if err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	}); err != nil {
		log.Error("delete designation failed", zap.String("designation_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateCache(ctx)
	log.Info("delete designation success", zap.String("designation_id", id))
	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, DesignationAllKey).Err(); err != nil {
		s.logger.Error("failed to invalidate designation cache", zap.Error(err))
	}
}

func mapToResponse(d Designation) DesignationResponse {
	return DesignationResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		Description: d.Description,
		Level:       d.Level,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   d.UpdatedAt.Format(time.RFC3339),
	}
}
