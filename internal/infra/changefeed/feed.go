// Package changefeed слушает уведомления PostgreSQL об изменении таблиц
// slots и bookings и сбрасывает кэш чтения. Уведомление означает только
// "что-то изменилось" и не используется как результат мутации.
package changefeed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Каналы, в которые пишет триггер notify_table_change
const (
	ChannelSlots    = "slots_changes"
	ChannelBookings = "bookings_changes"
)

// DefaultPingInterval используется, если интервал не задан
const DefaultPingInterval = 90 * time.Second

// ErrListen возвращается, если не удалось подписаться на канал
var ErrListen = errors.New("changefeed: failed to listen")

// Invalidator сбрасывает кэш чтения
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Listener источник уведомлений, реализуется *pq.Listener
type Listener interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Options настройки переподключения
type Options struct {
	MinReconnectInterval time.Duration
	MaxReconnectInterval time.Duration
	PingInterval         time.Duration
}

// Feed подписка на изменения
type Feed struct {
	listener     Listener
	invalidator  Invalidator
	pingInterval time.Duration
	log          Logger
}

// New создает подписку поверх pq.Listener
func New(dsn string, opts Options, invalidator Invalidator, log Logger) *Feed {
	listener := pq.NewListener(dsn, opts.MinReconnectInterval, opts.MaxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			switch ev {
			case pq.ListenerEventConnected:
				log.Info("ChangeFeed: connected")
			case pq.ListenerEventDisconnected:
				log.Warn("ChangeFeed: disconnected: %v", err)
			case pq.ListenerEventReconnected:
				log.Info("ChangeFeed: reconnected")
			case pq.ListenerEventConnectionAttemptFailed:
				log.Warn("ChangeFeed: connection attempt failed: %v", err)
			}
		})

	return NewWithListener(listener, opts.PingInterval, invalidator, log)
}

// NewWithListener создает подписку поверх готового источника
func NewWithListener(listener Listener, pingInterval time.Duration, invalidator Invalidator, log Logger) *Feed {
	if pingInterval <= 0 {
		pingInterval = DefaultPingInterval
	}
	return &Feed{
		listener:     listener,
		invalidator:  invalidator,
		pingInterval: pingInterval,
		log:          log,
	}
}

// Run подписывается на каналы и обрабатывает уведомления до отмены ctx
func (f *Feed) Run(ctx context.Context) error {
	defer f.listener.Close()

	for _, channel := range []string{ChannelSlots, ChannelBookings} {
		if err := f.listener.Listen(channel); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrListen, channel, err)
		}
	}
	f.log.Info("ChangeFeed: listening on %s, %s", ChannelSlots, ChannelBookings)

	ticker := time.NewTicker(f.pingInterval)
	defer ticker.Stop()

	notifications := f.listener.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			f.log.Info("ChangeFeed: stopped")
			return nil

		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			f.handle(ctx, n)

		case <-ticker.C:
			if err := f.listener.Ping(); err != nil {
				f.log.Warn("ChangeFeed: ping failed: %v", err)
			}
		}
	}
}

// handle сбрасывает кэш. nil приходит после переподключения: уведомления
// за время разрыва потеряны, поэтому кэш тоже сбрасывается.
func (f *Feed) handle(ctx context.Context, n *pq.Notification) {
	if n == nil {
		f.log.Info("ChangeFeed: connection re-established, invalidating cache")
	}

	if err := f.invalidator.Invalidate(ctx); err != nil {
		f.log.Error("ChangeFeed: failed to invalidate cache: %v", err)
		return
	}

	if n != nil {
		f.log.Info("ChangeFeed: %s on %s, cache invalidated", n.Extra, n.Channel)
	}
}
