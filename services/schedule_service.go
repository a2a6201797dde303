package services

import (
	"context"
	"fmt"

	"finki_timetable/models"
	"finki_timetable/services/timetable"

	"github.com/sirupsen/logrus"
)

// TimetableSource is the upstream timetable provider
type TimetableSource interface {
	FetchViewerData(ctx context.Context, year int) (any, error)
	FetchRegularData(ctx context.Context, ttNum string) (any, error)
}

// ScheduleService runs the fetch and transform pipeline for one request at a time.
// It holds no per-request state, so one instance serves concurrent requests.
type ScheduleService struct {
	source   TimetableSource
	filter   timetable.ClassFilter
	mergeKey timetable.KeyFunc
}

// NewScheduleService wires the pipeline. mergeFields selects the key used by GetMergedSchedule.
func NewScheduleService(source TimetableSource, filter timetable.ClassFilter, mergeFields []string) (*ScheduleService, error) {
	if len(mergeFields) == 0 {
		mergeFields = timetable.DefaultMergeFields
	}
	key, err := timetable.KeyFromFields(mergeFields)
	if err != nil {
		return nil, fmt.Errorf("invalid merge key: %w", err)
	}
	return &ScheduleService{source: source, filter: filter, mergeKey: key}, nil
}

// PickDefaultTimetable returns the default regular timetable number from a viewer payload.
func PickDefaultTimetable(viewer any) (string, bool) {
	root, _ := timetable.AsRecord(viewer)
	for _, r := range []timetable.Record{timetable.Unwrap(viewer), root} {
		regular, ok := r.Record("regular")
		if !ok {
			continue
		}
		if num, ok := regular.ID("default_num"); ok && num != "" {
			return num, true
		}
	}
	return "", false
}

// GetSchedule fetches the viewer data, then the default regular timetable, and converts it.
// A viewer payload without a default timetable yields an empty schedule.
func (s *ScheduleService) GetSchedule(ctx context.Context, year int) (models.Schedule, error) {
	viewer, err := s.source.FetchViewerData(ctx, year)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("failed to fetch viewer data: %w", err)
	}

	ttNum, ok := PickDefaultTimetable(viewer)
	if !ok {
		logrus.WithField("year", year).Warn("No default timetable in viewer data")
		return models.EmptySchedule(), nil
	}

	regular, err := s.source.FetchRegularData(ctx, ttNum)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("failed to fetch regular timetable %s: %w", ttNum, err)
	}

	schedule := timetable.Convert(regular, s.filter)
	logrus.WithFields(logrus.Fields{
		"year":    year,
		"tt":      ttNum,
		"entries": len(schedule.Data),
	}).Info("Schedule built")
	return schedule, nil
}

// GetMergedSchedule is GetSchedule with entries consolidated by the configured merge key.
func (s *ScheduleService) GetMergedSchedule(ctx context.Context, year int) (models.Schedule, error) {
	schedule, err := s.GetSchedule(ctx, year)
	if err != nil {
		return schedule, err
	}
	schedule.Data = timetable.MergeByKey(schedule.Data, s.mergeKey)
	return schedule, nil
}
