// Package memstore хранилище в памяти для тестов use case'ов.
// Повторяет семантику PostgreSQL репозиториев: условное списание мест,
// UNIQUE(date), UNIQUE(user_id, slot_id), каскадное удаление бронирований
// и откат транзакции при ошибке.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	bookingRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/booking"
	slotRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/slot"
)

type txKey struct{}

// Store общее состояние слотов, бронирований и профилей
type Store struct {
	txMu sync.Mutex // одна транзакция за раз
	mu   sync.Mutex

	slots    map[uuid.UUID]domain.Slot
	bookings map[uuid.UUID]domain.Booking
	profiles map[uuid.UUID]domain.Profile

	failures map[string]error // ошибка для следующего вызова операции
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		slots:    make(map[uuid.UUID]domain.Slot),
		bookings: make(map[uuid.UUID]domain.Booking),
		profiles: make(map[uuid.UUID]domain.Profile),
		failures: make(map[string]error),
	}
}

// Slots репозиторий слотов
func (s *Store) Slots() *SlotRepository { return &SlotRepository{s: s} }

// Bookings репозиторий бронирований
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{s: s} }

// TxManager менеджер транзакций
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

// FailOn заставляет следующий вызов операции op вернуть err
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) takeFailure(op string) error {
	err, ok := s.failures[op]
	if ok {
		delete(s.failures, op)
	}
	return err
}

// AddProfile регистрирует профиль пилота
func (s *Store) AddProfile(p domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

// AddSlot кладет слот как есть, без проверок
func (s *Store) AddSlot(slot domain.Slot) *domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	slot.Date = domain.DayOf(slot.Date)
	s.slots[slot.ID] = slot
	return &slot
}

// AddBooking кладет бронирование как есть, не меняя остаток мест
func (s *Store) AddBooking(b domain.Booking) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.bookings[b.ID] = b
	return &b
}

// Slot возвращает копию слота или nil
func (s *Store) Slot(id uuid.UUID) *domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return nil
	}
	return &slot
}

// BookingCount количество бронирований в хранилище
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// ReservedSum сумма пилотов по бронированиям слота на трассе
func (s *Store) ReservedSum(slotID uuid.UUID, circuit domain.Circuit) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservedLocked(slotID)[circuit]
}

func (s *Store) reservedLocked(slotID uuid.UUID) map[domain.Circuit]int {
	reserved := make(map[domain.Circuit]int)
	for _, b := range s.bookings {
		if b.SlotID == slotID {
			reserved[b.Circuit] += b.NumberOfPilots
		}
	}
	return reserved
}

// TxManager выполняет fn под общей блокировкой и откатывает состояние при ошибке
type TxManager struct {
	s *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snapshot := m.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.restore(snapshot)
		return err
	}
	return nil
}

type state struct {
	slots    map[uuid.UUID]domain.Slot
	bookings map[uuid.UUID]domain.Booking
}

func (s *Store) snapshot() state {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := state{
		slots:    make(map[uuid.UUID]domain.Slot, len(s.slots)),
		bookings: make(map[uuid.UUID]domain.Booking, len(s.bookings)),
	}
	for k, v := range s.slots {
		st.slots[k] = v
	}
	for k, v := range s.bookings {
		st.bookings[k] = v
	}
	return st
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = st.slots
	s.bookings = st.bookings
}

// SlotRepository слоты в памяти
type SlotRepository struct {
	s *Store
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure("slots.Create"); err != nil {
		return nil, err
	}

	for _, existing := range r.s.slots {
		if domain.IsSameDay(existing.Date, slot.Date) {
			return nil, slotRepo.ErrDateTaken
		}
	}

	created := *slot
	created.ID = uuid.New()
	created.Date = domain.DayOf(slot.Date)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.s.slots[created.ID] = created
	return &created, nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure("slots.GetByID"); err != nil {
		return nil, err
	}

	slot, ok := r.s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return &slot, nil
}

// GetByIDForUpdate блокировка не нужна: транзакции выполняются по одной
func (r *SlotRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	return r.GetByID(ctx, id)
}

func (r *SlotRepository) GetByDate(ctx context.Context, date time.Time) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, slot := range r.s.slots {
		if domain.IsSameDay(slot.Date, date) {
			found := slot
			return &found, nil
		}
	}
	return nil, slotRepo.ErrSlotNotFound
}

func (r *SlotRepository) List(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure("slots.List"); err != nil {
		return nil, err
	}

	slots := make([]*domain.Slot, 0)
	for _, slot := range r.s.slots {
		if filter.From != nil && slot.Date.Before(domain.DayOf(*filter.From)) {
			continue
		}
		if filter.To != nil && slot.Date.After(domain.DayOf(*filter.To)) {
			continue
		}
		found := slot
		slots = append(slots, &found)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Date.Before(slots[j].Date) })
	return slots, nil
}

func (r *SlotRepository) DecrementAvailable(ctx context.Context, id uuid.UUID, circuit domain.Circuit, n int) (*domain.Slot, error) {
	if !circuit.IsValid() {
		return nil, slotRepo.ErrInvalidCircuit
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[id]
	if !ok || slot.Available(circuit) < n {
		return nil, slotRepo.ErrNotEnoughSeats
	}

	setAvailable(&slot, circuit, slot.Available(circuit)-n)
	r.s.slots[id] = slot
	return &slot, nil
}

func (r *SlotRepository) IncrementAvailable(ctx context.Context, id uuid.UUID, circuit domain.Circuit, n int) (*domain.Slot, error) {
	if !circuit.IsValid() {
		return nil, slotRepo.ErrInvalidCircuit
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure("slots.IncrementAvailable"); err != nil {
		return nil, err
	}

	slot, ok := r.s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}

	available := slot.Available(circuit) + n
	if capacity := slot.Capacity(circuit); available > capacity {
		available = capacity
	}
	setAvailable(&slot, circuit, available)
	r.s.slots[id] = slot
	return &slot, nil
}

func (r *SlotRepository) SaveCapacity(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.slots[slot.ID]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}

	stored.Circuit1Capacity = slot.Circuit1Capacity
	stored.Circuit2Capacity = slot.Circuit2Capacity
	stored.Circuit1Available = slot.Circuit1Available
	stored.Circuit2Available = slot.Circuit2Available
	r.s.slots[slot.ID] = stored
	return &stored, nil
}

func (r *SlotRepository) UpdateDate(ctx context.Context, id uuid.UUID, date time.Time) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	for otherID, other := range r.s.slots {
		if otherID != id && domain.IsSameDay(other.Date, date) {
			return nil, slotRepo.ErrDateTaken
		}
	}

	stored.Date = domain.DayOf(date)
	r.s.slots[id] = stored
	return &stored, nil
}

// Delete удаляет слот вместе с бронированиями (ON DELETE CASCADE)
func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure("slots.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.slots[id]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	delete(r.s.slots, id)
	for bookingID, b := range r.s.bookings {
		if b.SlotID == id {
			delete(r.s.bookings, bookingID)
		}
	}
	return nil
}

func setAvailable(slot *domain.Slot, c domain.Circuit, v int) {
	if c == domain.CircuitSupercross {
		slot.Circuit2Available = v
		return
	}
	slot.Circuit1Available = v
}

// BookingRepository бронирования в памяти
type BookingRepository struct {
	s *Store
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure("bookings.Create"); err != nil {
		return nil, err
	}

	if _, ok := r.s.slots[booking.SlotID]; !ok {
		return nil, bookingRepo.ErrReferenceNotFound
	}
	for _, b := range r.s.bookings {
		if b.UserID == booking.UserID && b.SlotID == booking.SlotID {
			return nil, bookingRepo.ErrDuplicateBooking
		}
	}

	created := *booking
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.s.bookings[created.ID] = created
	return &created, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (r *BookingRepository) ExistsForUserAndSlot(ctx context.Context, userID, slotID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.bookings {
		if b.UserID == userID && b.SlotID == slotID {
			return true, nil
		}
	}
	return false, nil
}

func (r *BookingRepository) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure("bookings.ListBySlot"); err != nil {
		return nil, err
	}

	return r.s.filterBookings(func(b domain.Booking) bool { return b.SlotID == slotID }), nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bookings := r.s.filterBookings(func(b domain.Booking) bool { return b.UserID == userID })
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].SlotDate.After(*bookings[j].SlotDate) })
	return bookings, nil
}

func (r *BookingRepository) ListByCircuit(ctx context.Context, filter domain.CircuitBookingsFilter) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bookings := r.s.filterBookings(func(b domain.Booking) bool {
		if b.Circuit != filter.Circuit {
			return false
		}
		date := r.s.slots[b.SlotID].Date
		if filter.From != nil && date.Before(domain.DayOf(*filter.From)) {
			return false
		}
		if filter.To != nil && date.After(domain.DayOf(*filter.To)) {
			return false
		}
		return true
	})
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].SlotDate.Before(*bookings[j].SlotDate) })
	return bookings, nil
}

func (r *BookingRepository) ReservedBySlot(ctx context.Context, slotID uuid.UUID) (map[domain.Circuit]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.reservedLocked(slotID), nil
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	b.PaymentStatus = status
	b.UpdatedAt = time.Now()
	r.s.bookings[id] = b
	return &b, nil
}

func (r *BookingRepository) DeleteReturning(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	delete(r.s.bookings, id)
	return &b, nil
}

// filterBookings вызывается под s.mu; заполняет дату слота и профиль пилота
func (s *Store) filterBookings(match func(b domain.Booking) bool) []*domain.Booking {
	bookings := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if !match(b) {
			continue
		}
		found := b
		if slot, ok := s.slots[b.SlotID]; ok {
			date := slot.Date
			found.SlotDate = &date
		}
		if p, ok := s.profiles[b.UserID]; ok {
			pilot := p
			found.Pilot = &pilot
		}
		bookings = append(bookings, &found)
	}
	sort.SliceStable(bookings, func(i, j int) bool { return bookings[i].CreatedAt.Before(bookings[j].CreatedAt) })
	return bookings
}
