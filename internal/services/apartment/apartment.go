// Package apartment отдаёт постраничные выборки квартир с кешированием в Redis
// и статистику заполненности здания.
package apartment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/models"
)

// CachePrefix общий префикс ключей, его же инвалидирует движок договоров.
const CachePrefix = "apartments:"

// Repository операции хранилища над квартирами.
type Repository interface {
	ListApartments(ctx context.Context, page models.ApartmentPage) ([]*models.Apartment, error)
	CountApartments(ctx context.Context, filter *models.RentFilter) (int, error)
	OccupancyCounts(ctx context.Context) (models.AdminStats, error)
}

// Cache кеш выборок.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service бизнес-логика выдачи квартир.
type Service struct {
	repo            Repository
	cache           Cache
	log             *slog.Logger
	ttl             time.Duration
	defaultPageSize int
	maxPageSize     int
}

// Options параметры постраничной выдачи и кеша.
type Options struct {
	CacheTTL        time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

// New создаёт Service. cache может быть nil, тогда выборки всегда читаются из хранилища.
func New(repo Repository, cache Cache, log *slog.Logger, opts Options) *Service {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 6
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &Service{
		repo:            repo,
		cache:           cache,
		log:             log,
		ttl:             opts.CacheTTL,
		defaultPageSize: opts.DefaultPageSize,
		maxPageSize:     opts.MaxPageSize,
	}
}

// ParsePage разбирает параметры запроса. Некорректные page и size заменяются
// значениями по умолчанию, фильтр по аренде включается только если оба предела
// являются целыми числами.
func (s *Service) ParsePage(page, size, minRent, maxRent string) models.ApartmentPage {
	p := models.ApartmentPage{Page: 1, Size: s.defaultPageSize}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(size); err == nil && n > 0 {
		p.Size = min(n, s.maxPageSize)
	}
	p.Filter = ParseRentFilter(minRent, maxRent)
	return p
}

// ParseRentFilter возвращает nil, если хотя бы один предел не число.
func ParseRentFilter(minRent, maxRent string) *models.RentFilter {
	lo, err := strconv.Atoi(minRent)
	if err != nil {
		return nil
	}
	hi, err := strconv.Atoi(maxRent)
	if err != nil {
		return nil
	}
	return &models.RentFilter{Min: lo, Max: hi}
}

// List возвращает страницу квартир.
func (s *Service) List(ctx context.Context, page models.ApartmentPage) ([]*models.Apartment, error) {
	const op = "apartment.List"

	key := fmt.Sprintf("%slist:%d:%d:%s", CachePrefix, page.Page, page.Size, filterKey(page.Filter))
	var cached []*models.Apartment
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	list, err := s.repo.ListApartments(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, key, list)
	return list, nil
}

// Count возвращает число квартир под фильтром.
func (s *Service) Count(ctx context.Context, filter *models.RentFilter) (int, error) {
	const op = "apartment.Count"

	key := fmt.Sprintf("%scount:%s", CachePrefix, filterKey(filter))
	var cached int
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	count, err := s.repo.CountApartments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, key, count)
	return count, nil
}

// Stats возвращает статистику для панели администратора. Не кешируется.
func (s *Service) Stats(ctx context.Context) (models.AdminStats, error) {
	const op = "apartment.Stats"

	stats, err := s.repo.OccupancyCounts(ctx)
	if err != nil {
		return models.AdminStats{}, fmt.Errorf("%s: %w", op, err)
	}
	stats.AvailablePercentage = percent(stats.AvailableApartments, stats.TotalApartments)
	stats.RentedPercentage = percent(stats.RentedApartments, stats.TotalApartments)
	return stats, nil
}

func (s *Service) fromCache(ctx context.Context, key string, result any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("failed to write to cache", slog.String("key", key), sl.Err(err))
	}
}

func filterKey(f *models.RentFilter) string {
	if f == nil {
		return "all"
	}
	return fmt.Sprintf("%d-%d", f.Min, f.Max)
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
