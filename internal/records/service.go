package records

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/i474232898/weather-journal/internal/metrics"
	"github.com/i474232898/weather-journal/internal/weather"
)

// Service implements the saved-record workflow on top of the geocoder, the archive and a repository.
type Service struct {
	geocoder Geocoder
	archive  weather.ArchiveProvider
	repo     Repository
	source   string
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewService(geocoder Geocoder, archive weather.ArchiveProvider, repo Repository, source string, m *metrics.Metrics, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		geocoder: geocoder,
		archive:  archive,
		repo:     repo,
		source:   source,
		metrics:  m,
		log:      log,
	}
}

// Create validates the request, resolves place and series, and stores a new record.
func (s *Service) Create(ctx context.Context, in CreateInput) (rec weather.Record, err error) {
	defer func() { s.metrics.RecordOp("create", err) }()

	dr, err := checkInput(in)
	if err != nil {
		return weather.Record{}, err
	}

	rec, err = s.resolve(ctx, dr)
	if err != nil {
		return weather.Record{}, err
	}
	rec.Source = s.source

	if err := s.repo.Create(ctx, &rec); err != nil {
		return weather.Record{}, err
	}
	s.log.Info("record created",
		zap.Uint("id", rec.ID),
		zap.String("name", rec.Name),
		zap.String("start", rec.StartDate),
		zap.String("end", rec.EndDate))
	return rec, nil
}

func (s *Service) List(ctx context.Context) ([]weather.Record, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uint) (weather.Record, error) {
	return s.repo.Get(ctx, id)
}

// Update merges patch over the stored record, re-validates it and always re-fetches
// place and series.
func (s *Service) Update(ctx context.Context, id uint, patch Patch) (rec weather.Record, err error) {
	defer func() { s.metrics.RecordOp("update", err) }()

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return weather.Record{}, err
	}

	dr, err := checkInput(patch.Apply(existing))
	if err != nil {
		return weather.Record{}, err
	}

	rec, err = s.resolve(ctx, dr)
	if err != nil {
		return weather.Record{}, err
	}
	rec.ID = existing.ID

	if err := s.repo.Update(ctx, &rec); err != nil {
		return weather.Record{}, err
	}
	s.log.Info("record updated", zap.Uint("id", rec.ID), zap.String("name", rec.Name))
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id uint) (err error) {
	defer func() { s.metrics.RecordOp("delete", err) }()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("record deleted", zap.Uint("id", id))
	return nil
}

func (s *Service) resolve(ctx context.Context, dr dateRange) (weather.Record, error) {
	place, err := s.geocoder.Geocode(ctx, dr.query)
	if err != nil {
		return weather.Record{}, err
	}
	temps, err := s.archive.DailyTemperatures(ctx, place.Lat, place.Lon, dr.start, dr.end, dr.units)
	if err != nil {
		s.log.Warn("archive fetch failed", zap.String("place", place.Name), zap.Error(err))
		return weather.Record{}, err
	}

	return weather.Record{
		Query:             dr.query,
		Name:              place.Name,
		Lat:               place.Lat,
		Lon:               place.Lon,
		StartDate:         dr.start.String(),
		EndDate:           dr.end.String(),
		Units:             dr.units,
		DailyTemperatures: temps,
	}, nil
}

// CSVHeader lists the exported columns. The temperature series is never exported.
var CSVHeader = []string{"id", "query", "name", "lat", "lon", "start_date", "end_date", "units", "created_at", "updated_at"}

const csvTimeLayout = "2006-01-02 15:04:05"

// ExportCSV writes every record, newest first, after a header row that is always present.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	list, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range list {
		row := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Query,
			r.Name,
			strconv.FormatFloat(r.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Lon, 'f', -1, 64),
			r.StartDate,
			r.EndDate,
			string(r.Units),
			r.CreatedAt.UTC().Format(csvTimeLayout),
			r.UpdatedAt.UTC().Format(csvTimeLayout),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
