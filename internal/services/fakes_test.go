package services

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"kalban_greenbag/internal/events"
	"kalban_greenbag/internal/models"
	"kalban_greenbag/internal/paging"
	"kalban_greenbag/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errStorage = errors.New("storage unavailable")

func newestFirst[T any](items []T, createdAt func(T) time.Time, id func(T) uuid.UUID) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := createdAt(items[i]), createdAt(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		ii, ij := id(items[i]), id(items[j])
		return bytes.Compare(ii[:], ij[:]) > 0
	})
}

func pageOf[T any](items []T, page paging.Request) []T {
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type fakeOrderRepo struct {
	mu      sync.Mutex
	orders  map[uuid.UUID]models.Order
	locked  []uuid.UUID
	listErr error
	// beforeUpdate runs between the service's read and its write
	beforeUpdate func()
}

func newFakeOrderRepo(orders ...models.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[uuid.UUID]models.Order{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, id uuid.UUID, changes repository.OrderChanges) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	if changes.UserID != nil {
		order.UserID = *changes.UserID
	}
	if changes.OrderCode != nil {
		order.OrderCode = *changes.OrderCode
	}
	if changes.TotalAmount != nil {
		order.TotalAmount = *changes.TotalAmount
	}
	order.ModifiedBy = changes.ModifiedBy
	order.UpdatedAt = changes.UpdatedAt
	r.orders[id] = order
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &order, nil
}

func (r *fakeOrderRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	r.locked = append(r.locked, id)
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) FindLatestByOrderCode(_ context.Context, code int64) (*models.Order, error) {
	matches := r.filter(repository.OrderFilter{OrderCode: &code})
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	return &matches[0], nil
}

func (r *fakeOrderRepo) filter(f repository.OrderFilter) []models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.OrderCode != nil && o.OrderCode != *f.OrderCode {
			continue
		}
		out = append(out, o)
	}
	newestFirst(out, func(o models.Order) time.Time { return o.CreatedAt }, func(o models.Order) uuid.UUID { return o.ID })
	return out
}

func (r *fakeOrderRepo) List(_ context.Context, f repository.OrderFilter, page paging.Request) ([]models.Order, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return pageOf(r.filter(f), page), nil
}

func (r *fakeOrderRepo) Count(_ context.Context, f repository.OrderFilter) (int64, error) {
	return int64(len(r.filter(f))), nil
}

func (r *fakeOrderRepo) ExistsByUserAndStatus(_ context.Context, userID uuid.UUID, status string) (bool, error) {
	return len(r.filter(repository.OrderFilter{UserID: &userID, Status: status})) > 0, nil
}

func (r *fakeOrderRepo) ExistsByOrderCodeAndStatus(_ context.Context, code int64, status string) (bool, error) {
	return len(r.filter(repository.OrderFilter{OrderCode: &code, Status: status})) > 0, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status, modifiedBy string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	order.Status = status
	order.ModifiedBy = modifiedBy
	order.UpdatedAt = at
	r.orders[id] = order
	return nil
}

func (r *fakeOrderRepo) UpdateTotalAmount(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	order.TotalAmount = amount
	r.orders[id] = order
	return nil
}

func (r *fakeOrderRepo) SummarizeByStatus(_ context.Context, window repository.TimeWindow) ([]models.StatusSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byStatus := map[string]models.StatusSummary{}
	for _, o := range r.orders {
		if !window.Contains(o.CreatedAt) {
			continue
		}
		row := byStatus[o.Status]
		row.Status = o.Status
		row.Count++
		row.TotalAmount = row.TotalAmount.Add(o.TotalAmount)
		byStatus[o.Status] = row
	}
	rows := make([]models.StatusSummary, 0, len(byStatus))
	for _, row := range byStatus {
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *fakeOrderRepo) get(id uuid.UUID) models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[id]
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.OrderItem
	// batchCalls counts ListByOrderIDs invocations.
	batchCalls int
	createErr  error
}

func newFakeItemRepo(items ...models.OrderItem) *fakeItemRepo {
	r := &fakeItemRepo{items: map[uuid.UUID]models.OrderItem{}}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeItemRepo) Create(_ context.Context, item *models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) CreateBatch(_ context.Context, items []models.OrderItem) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id uuid.UUID) (*models.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (r *fakeItemRepo) ListByOrderID(_ context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.OrderItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) ListByOrderIDs(_ context.Context, orderIDs []uuid.UUID) ([]models.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchCalls++
	wanted := map[uuid.UUID]bool{}
	for _, id := range orderIDs {
		wanted[id] = true
	}
	var out []models.OrderItem
	for _, item := range r.items {
		if wanted[item.OrderID] {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]models.User
}

func newFakeUserRepo(ids ...uuid.UUID) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]models.User{}}
	for _, id := range ids {
		r.users[id] = models.User{ID: id, Username: "user-" + id.String()[:8]}
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

type fakeMaterialRepo struct {
	materials map[uuid.UUID]models.Material
}

func newFakeMaterialRepo(materials ...models.Material) *fakeMaterialRepo {
	r := &fakeMaterialRepo{materials: map[uuid.UUID]models.Material{}}
	for _, m := range materials {
		r.materials[m.ID] = m
	}
	return r
}

func (r *fakeMaterialRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Material, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *fakeMaterialRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Material, error) {
	var out []models.Material
	for _, id := range ids {
		if m, ok := r.materials[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]models.Product
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

type fakeOptionRepo struct {
	options map[uuid.UUID]models.CustomizationOption
}

func (r *fakeOptionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.CustomizationOption, error) {
	o, ok := r.options[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

type fakeCustomizationRepo struct {
	mu             sync.Mutex
	customizations map[uuid.UUID]models.ProductCustomization
}

func newFakeCustomizationRepo(items ...models.ProductCustomization) *fakeCustomizationRepo {
	r := &fakeCustomizationRepo{customizations: map[uuid.UUID]models.ProductCustomization{}}
	for _, c := range items {
		r.customizations[c.ID] = c
	}
	return r
}

func (r *fakeCustomizationRepo) Create(_ context.Context, c *models.ProductCustomization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customizations[c.ID] = *c
	return nil
}

func (r *fakeCustomizationRepo) Update(_ context.Context, id uuid.UUID, changes repository.CustomizationChanges) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customizations[id]
	if !ok {
		return repository.ErrNotFound
	}
	if changes.ProductID != nil {
		c.ProductID = *changes.ProductID
	}
	if changes.OptionID != nil {
		c.OptionID = *changes.OptionID
	}
	if changes.UserID != nil {
		c.UserID = *changes.UserID
	}
	if changes.ImageURL != nil {
		c.ImageURL = *changes.ImageURL
	}
	if changes.CustomValue != nil {
		c.CustomValue = *changes.CustomValue
	}
	if changes.TotalPrice != nil {
		c.TotalPrice = *changes.TotalPrice
	}
	if changes.Status != nil {
		c.Status = *changes.Status
	}
	switch {
	case changes.ClearReason:
		c.Reason = nil
	case changes.Reason != nil:
		reason := *changes.Reason
		c.Reason = &reason
	}
	c.ModifiedBy = changes.ModifiedBy
	c.UpdatedAt = changes.UpdatedAt
	r.customizations[id] = c
	return nil
}

func (r *fakeCustomizationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ProductCustomization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customizations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCustomizationRepo) filter(f repository.CustomizationFilter) []models.ProductCustomization {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ProductCustomization
	for _, c := range r.customizations {
		if f.UserID != nil && c.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	newestFirst(out,
		func(c models.ProductCustomization) time.Time { return c.CreatedAt },
		func(c models.ProductCustomization) uuid.UUID { return c.ID })
	return out
}

func (r *fakeCustomizationRepo) List(_ context.Context, f repository.CustomizationFilter, page paging.Request) ([]models.ProductCustomization, error) {
	return pageOf(r.filter(f), page), nil
}

func (r *fakeCustomizationRepo) Count(_ context.Context, f repository.CustomizationFilter) (int64, error) {
	return int64(len(r.filter(f))), nil
}

func (r *fakeCustomizationRepo) SummarizeByStatus(_ context.Context, window repository.TimeWindow) ([]models.StatusSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byStatus := map[string]models.StatusSummary{}
	for _, c := range r.customizations {
		if !window.Contains(c.CreatedAt) {
			continue
		}
		row := byStatus[c.Status]
		row.Status = c.Status
		row.Count++
		row.TotalAmount = row.TotalAmount.Add(c.TotalPrice)
		byStatus[c.Status] = row
	}
	rows := make([]models.StatusSummary, 0, len(byStatus))
	for _, row := range byStatus {
		rows = append(rows, row)
	}
	return rows, nil
}

type fakeTx struct {
	calls int
}

func (t *fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeCodes struct {
	next int64
}

func (c *fakeCodes) NextOrderCode(context.Context) (int64, error) {
	c.next++
	return c.next, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, event events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// fixedClock advances one second per call so created_at ordering is deterministic.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current := now
		now = now.Add(time.Second)
		return current
	}
}

func intPtr(v int) *int { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
