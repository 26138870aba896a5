// Package cache кэш списка предстоящих слотов в redis.
// Кэш хранит только представление для чтения: любая мутация и любое
// уведомление из LISTEN/NOTIFY сбрасывают его целиком.
//
// Ключи выборок содержат поколение кэша. Invalidate увеличивает поколение,
// поэтому запись, прочитанная из базы до сброса, попадает в ключ старого
// поколения и больше никогда не читается.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/pkg/metrics"
)

const (
	keyPrefix   = "slots:upcoming:"
	genKey      = "slots:gen"
	scanPattern = keyPrefix + "*"
	scanCount   = 100
)

var (
	// ErrConnect возвращается, когда redis недоступен при старте
	ErrConnect = errors.New("cache: failed to connect to redis")

	// ErrCache возвращается при ошибке чтения или записи кэша
	ErrCache = errors.New("cache: redis operation failed")
)

// Options параметры подключения к redis
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// SlotsCache кэш предстоящих слотов, ключ - первый день выборки
type SlotsCache struct {
	rdb     *goredis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// Connect создает клиента redis и проверяет соединение
func Connect(ctx context.Context, opts Options, m *metrics.Metrics) (*SlotsCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrConnect, opts.Addr, err)
	}

	return New(rdb, opts.TTL, m), nil
}

// New оборачивает готового клиента redis
func New(rdb *goredis.Client, ttl time.Duration, m *metrics.Metrics) *SlotsCache {
	return &SlotsCache{rdb: rdb, ttl: ttl, metrics: m}
}

// Generation возвращает текущее поколение кэша. Его нужно прочитать
// до похода в базу и передать в GetUpcoming и SetUpcoming.
func (c *SlotsCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get generation: %v", ErrCache, err)
	}
	return gen, nil
}

// GetUpcoming возвращает закэшированные слоты начиная с from.
// Второе значение false означает промах.
func (c *SlotsCache) GetUpcoming(ctx context.Context, gen int64, from time.Time) ([]*domain.Slot, bool, error) {
	raw, err := c.rdb.Get(ctx, key(gen, from)).Bytes()
	if errors.Is(err, goredis.Nil) {
		c.metrics.CacheLookup(false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get: %v", ErrCache, err)
	}

	var entries []slotEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		// Битая запись равносильна промаху, следующий Set ее перезапишет
		c.metrics.CacheLookup(false)
		return nil, false, nil
	}

	c.metrics.CacheLookup(true)

	slots := make([]*domain.Slot, 0, len(entries))
	for _, e := range entries {
		slots = append(slots, e.toDomain())
	}
	return slots, true, nil
}

// SetUpcoming кладет слоты в кэш с TTL под поколением gen.
// Если поколение уже сменилось, запись пропускается.
func (c *SlotsCache) SetUpcoming(ctx context.Context, gen int64, from time.Time, slots []*domain.Slot) error {
	entries := make([]slotEntry, 0, len(slots))
	for _, s := range slots {
		entries = append(entries, entryFromDomain(s))
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrCache, err)
	}

	err = c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key(gen, from), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)

	// Invalidate между WATCH и EXEC: данные устарели, писать нечего
	if errors.Is(err, goredis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: set: %v", ErrCache, err)
	}
	return nil
}

// Invalidate сменяет поколение и удаляет все закэшированные выборки
func (c *SlotsCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, genKey).Err(); err != nil {
		return fmt.Errorf("%w: incr generation: %v", ErrCache, err)
	}

	iter := c.rdb.Scan(ctx, 0, scanPattern, scanCount).Iterator()

	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: scan: %v", ErrCache, err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", ErrCache, err)
	}
	return nil
}

// Close закрывает соединение с redis
func (c *SlotsCache) Close() error {
	return c.rdb.Close()
}

func key(gen int64, from time.Time) string {
	return keyPrefix + strconv.FormatInt(gen, 10) + ":" + from.Format(domain.DateFormat)
}

type slotEntry struct {
	ID                uuid.UUID `json:"id"`
	Date              string    `json:"date"`
	Circuit1Capacity  int       `json:"circuit1Capacity"`
	Circuit2Capacity  int       `json:"circuit2Capacity"`
	Circuit1Available int       `json:"circuit1Available"`
	Circuit2Available int       `json:"circuit2Available"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func entryFromDomain(s *domain.Slot) slotEntry {
	return slotEntry{
		ID:                s.ID,
		Date:              s.Date.Format(domain.DateFormat),
		Circuit1Capacity:  s.Circuit1Capacity,
		Circuit2Capacity:  s.Circuit2Capacity,
		Circuit1Available: s.Circuit1Available,
		Circuit2Available: s.Circuit2Available,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func (e slotEntry) toDomain() *domain.Slot {
	s := &domain.Slot{
		ID:                e.ID,
		Circuit1Capacity:  e.Circuit1Capacity,
		Circuit2Capacity:  e.Circuit2Capacity,
		Circuit1Available: e.Circuit1Available,
		Circuit2Available: e.Circuit2Available,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
	s.Date, _ = domain.ParseDate(e.Date)
	return s
}
