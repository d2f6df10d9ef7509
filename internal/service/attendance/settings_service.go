package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/cache"
)

const settingsCacheKey = "attendance:settings"

type SettingsServiceImpl struct {
	repo  attendance.SettingsRepository
	cache *cache.JSONCache[attendance.Settings]
}

// NewSettingsService wraps the settings repository with a read-through cache.
// A nil cache disables caching.
func NewSettingsService(repo attendance.SettingsRepository, settingsCache *cache.JSONCache[attendance.Settings]) attendance.SettingsService {
	if settingsCache == nil {
		settingsCache = cache.NewJSONCache[attendance.Settings](nil, 0)
	}
	return &SettingsServiceImpl{repo: repo, cache: settingsCache}
}

// Current implements attendance.SettingsService.
func (s *SettingsServiceImpl) Current(ctx context.Context) (attendance.Settings, error) {
	return s.cache.GetOrLoad(ctx, settingsCacheKey, s.load)
}

// load reads the settings row, creating it with the defaults when missing.
func (s *SettingsServiceImpl) load(ctx context.Context) (attendance.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, attendance.ErrSettingsNotFound) {
		return attendance.Settings{}, fmt.Errorf("failed to get attendance settings: %w", err)
	}

	settings, err = s.repo.Upsert(ctx, attendance.DefaultSettings())
	if err != nil {
		return attendance.Settings{}, fmt.Errorf("failed to create default attendance settings: %w", err)
	}
	slog.Info("Attendance settings initialised with defaults")
	return settings, nil
}

// GetSettings implements attendance.SettingsService.
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (attendance.SettingsResponse, error) {
	settings, err := s.Current(ctx)
	if err != nil {
		return attendance.SettingsResponse{}, err
	}
	return mapSettingsToResponse(settings), nil
}

// UpdateSettings implements attendance.SettingsService.
func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, req attendance.UpdateSettingsRequest) (attendance.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SettingsResponse{}, err
	}

	current, err := s.load(ctx)
	if err != nil {
		return attendance.SettingsResponse{}, err
	}

	updated := req.Apply(current)
	if err := updated.Validate(); err != nil {
		return attendance.SettingsResponse{}, err
	}

	saved, err := s.repo.Upsert(ctx, updated)
	if err != nil {
		return attendance.SettingsResponse{}, fmt.Errorf("failed to update attendance settings: %w", err)
	}
	s.cache.Invalidate(ctx, settingsCacheKey)

	slog.Info("Attendance settings updated",
		"office_start", saved.OfficeStart.String(),
		"office_end", saved.OfficeEnd.String(),
		"grace_period", saved.GracePeriod,
		"deduction_rate", saved.DeductionRate.String(),
	)

	return mapSettingsToResponse(saved), nil
}

func mapSettingsToResponse(s attendance.Settings) attendance.SettingsResponse {
	resp := attendance.SettingsResponse{
		OfficeStart:           s.OfficeStart.String(),
		OfficeEnd:             s.OfficeEnd.String(),
		BreakStart:            s.BreakStart.String(),
		BreakEnd:              s.BreakEnd.String(),
		EarlyTimeInThreshold:  s.EarlyTimeInThreshold.String(),
		EarlyTimeOutThreshold: s.EarlyTimeOutThreshold.String(),
		HalfDayThreshold:      s.HalfDayThreshold.String(),
		GracePeriod:           s.GracePeriod,
		DeductionRate:         s.DeductionRate.StringFixed(2),
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
