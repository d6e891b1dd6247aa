package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/repository"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/services"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Users ---

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[primitive.ObjectID]*models.User
	lastQuery repository.UserQuery
	findErr   error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		r.users[u.ID] = u
	}
	return r
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Addresses = append([]models.Address(nil), u.Addresses...)
	return &c
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return false, nil
	}
	for k, v := range updates {
		switch k {
		case "firstName":
			u.FirstName = v.(string)
		case "lastName":
			u.LastName = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "status":
			u.Status = v.(string)
		case "address":
			u.Address = v.(*models.LegacyAddress)
		}
	}
	return true, nil
}

func (r *fakeUserRepo) UpdatePasswordByEmail(_ context.Context, email, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.Password = hash
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *fakeUserRepo) List(_ context.Context, q repository.UserQuery, limit, skip int64) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = q

	var out []models.User
	for _, u := range r.users {
		if q.ExcludeRole != "" && u.Role == q.ExcludeRole {
			continue
		}
		if q.Status != "" && u.Status != q.Status {
			continue
		}
		if q.MinSpent != nil && u.TotalSpent <= *q.MinSpent {
			continue
		}
		if q.Name != "" {
			n := strings.ToLower(q.Name)
			if !strings.Contains(strings.ToLower(u.FirstName+" "+u.LastName+" "+u.Email), n) {
				continue
			}
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	total := int64(len(out))
	if skip < int64(len(out)) {
		out = out[skip:]
	} else {
		out = nil
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeUserRepo) ClearDefaultAddresses(_ context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		for i := range u.Addresses {
			u.Addresses[i].IsDefault = false
		}
	}
	return nil
}

func (r *fakeUserRepo) PushAddress(_ context.Context, userID primitive.ObjectID, addr models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.Addresses = append(u.Addresses, addr)
	}
	return nil
}

func (r *fakeUserRepo) SetAddress(_ context.Context, userID primitive.ObjectID, addr models.Address) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	for i := range u.Addresses {
		if u.Addresses[i].ID == addr.ID {
			u.Addresses[i] = addr
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) PullAddress(_ context.Context, userID, addressID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		kept := u.Addresses[:0]
		for _, a := range u.Addresses {
			if a.ID != addressID {
				kept = append(kept, a)
			}
		}
		u.Addresses = kept
	}
	return nil
}

func (r *fakeUserRepo) RecordOrder(_ context.Context, userID primitive.ObjectID, amount float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.TotalOrders++
		u.TotalSpent += amount
		u.LastOrder = &at
	}
	return nil
}

// --- Products ---

type fakeProductRepo struct {
	mu        sync.Mutex
	products  map[primitive.ObjectID]*models.Product
	lastQuery repository.ProductQuery
	lastSort  repository.SortSpec
	listCalls int
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[primitive.ObjectID]*models.Product{}}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakeProductRepo) List(_ context.Context, q repository.ProductQuery, s repository.SortSpec, limit, skip int64) ([]models.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery, r.lastSort = q, s
	r.listCalls++
	out := []models.Product{}
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	c := *p
	r.products[p.ID] = &c
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			p.Title = v.(string)
		case "description":
			p.Description = v.(string)
		case "price":
			p.Price = v.(float64)
		case "quantity":
			p.Quantity = v.(int)
		case "images":
			p.Images = v.([]string)
		case "colors":
			p.Colors = v.([]models.ColorVariant)
		case "featured":
			p.Featured = v.(bool)
		case "live":
			p.Live = v.(bool)
		case "material":
			p.Material = v.(string)
		}
	}
	c := *p
	return &c, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

// --- Carts ---

type fakeCartRepo struct {
	mu     sync.Mutex
	carts  map[primitive.ObjectID]*models.Cart
	saves    int
	onCreate func(carts map[primitive.ObjectID]*models.Cart)
}

func newFakeCartRepo(carts ...*models.Cart) *fakeCartRepo {
	r := &fakeCartRepo{carts: map[primitive.ObjectID]*models.Cart{}}
	for _, c := range carts {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		r.carts[c.UserID] = c
	}
	return r
}

func copyCart(c *models.Cart) *models.Cart {
	cp := *c
	cp.Items = append([]models.CartItem{}, c.Items...)
	return &cp
}

func (r *fakeCartRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyCart(c), nil
}

func (r *fakeCartRepo) Create(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.onCreate != nil {
		r.onCreate(r.carts)
		r.onCreate = nil
	}
	if _, ok := r.carts[cart.UserID]; ok {
		return repository.ErrDuplicate
	}
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	r.carts[cart.UserID] = copyCart(cart)
	return nil
}

func (r *fakeCartRepo) SaveItems(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.carts[cart.UserID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Items = append([]models.CartItem{}, cart.Items...)
	stored.TotalPrice = cart.TotalPrice
	r.saves++
	return nil
}

func (r *fakeCartRepo) SetVoucher(_ context.Context, cartID primitive.ObjectID, code *string, discount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.carts {
		if c.ID == cartID {
			c.VoucherCode = code
			c.VoucherDiscount = discount
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeCartRepo) get(userID primitive.ObjectID) *models.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carts[userID]
}

// --- Vouchers ---

type fakeVoucherRepo struct {
	mu       sync.Mutex
	vouchers map[primitive.ObjectID]*models.Voucher
}

func newFakeVoucherRepo(vouchers ...*models.Voucher) *fakeVoucherRepo {
	r := &fakeVoucherRepo{vouchers: map[primitive.ObjectID]*models.Voucher{}}
	for _, v := range vouchers {
		if v.ID.IsZero() {
			v.ID = primitive.NewObjectID()
		}
		r.vouchers[v.ID] = v
	}
	return r
}

func copyVoucher(v *models.Voucher) *models.Voucher {
	c := *v
	c.Participants = append([]models.Participant{}, v.Participants...)
	return &c
}

func (r *fakeVoucherRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyVoucher(v), nil
}

func (r *fakeVoucherRepo) FindByCode(_ context.Context, code string) (*models.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vouchers {
		if v.Code == code {
			return copyVoucher(v), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVoucherRepo) Create(_ context.Context, voucher *models.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vouchers {
		if v.Code == voucher.Code {
			return repository.ErrDuplicate
		}
	}
	if voucher.ID.IsZero() {
		voucher.ID = primitive.NewObjectID()
	}
	r.vouchers[voucher.ID] = copyVoucher(voucher)
	return nil
}

func (r *fakeVoucherRepo) List(_ context.Context, limit, skip int64) ([]models.Voucher, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Voucher{}
	for _, v := range r.vouchers {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVoucherRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if code, ok := updates["code"].(string); ok {
		for otherID, other := range r.vouchers {
			if otherID != id && other.Code == code {
				return nil, repository.ErrDuplicate
			}
		}
		v.Code = code
	}
	if name, ok := updates["name"].(string); ok {
		v.Name = name
	}
	if d, ok := updates["discount"].(float64); ok {
		v.Discount = d
	}
	if m, ok := updates["maxUses"].(int); ok {
		v.MaxUses = m
	}
	return copyVoucher(v), nil
}

func (r *fakeVoucherRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vouchers[id]; !ok {
		return false, nil
	}
	delete(r.vouchers, id)
	return true, nil
}

func (r *fakeVoucherRepo) AddParticipant(_ context.Context, id primitive.ObjectID, p models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Participants = append(v.Participants, p)
	return nil
}

func (r *fakeVoucherRepo) IncParticipantUses(_ context.Context, id primitive.ObjectID, index, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok || index >= len(v.Participants) {
		return repository.ErrNotFound
	}
	v.Participants[index].Uses += delta
	return nil
}

func (r *fakeVoucherRepo) get(id primitive.ObjectID) *models.Voucher {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyVoucher(r.vouchers[id])
}

// --- Orders ---

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*models.Order
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	c := *order
	r.orders = append(r.orders, &c)
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			c := *o
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Order{}
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, *r.orders[i])
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) List(_ context.Context, status string, limit, skip int64) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Order{}
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			if s, ok := updates["status"].(string); ok {
				o.Status = s
			}
			if s, ok := updates["paymentStatus"].(string); ok {
				o.PaymentStatus = s
			}
			c := *o
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- Settings ---

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings []*models.Settings
	err      error
}

func (r *fakeSettingsRepo) Latest(_ context.Context) (*models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if len(r.settings) == 0 {
		return nil, repository.ErrNotFound
	}
	c := *r.settings[len(r.settings)-1]
	return &c, nil
}

func (r *fakeSettingsRepo) List(_ context.Context) ([]models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Settings{}
	for _, s := range r.settings {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSettingsRepo) Create(_ context.Context, s *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = primitive.NewObjectID()
	c := *s
	r.settings = append(r.settings, &c)
	return nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.settings {
		if s.ID == id {
			if v, ok := updates["quantityForLowStock"].(int); ok {
				s.QuantityForLowStock = v
			}
			if v, ok := updates["highValueUserSpents"].(float64); ok {
				s.HighValueUserSpents = v
			}
			c := *s
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- Collaborators ---

type mockMailer struct {
	mock.Mock
	lastData map[string]interface{}
}

func (m *mockMailer) Send(_ context.Context, to, subject, templateName string, data map[string]interface{}) error {
	m.lastData = data
	args := m.Called(to, subject, templateName)
	return args.Error(0)
}

type mockSNSPublisher struct {
	mu        sync.Mutex
	published [][]byte
}

func (m *mockSNSPublisher) Publish(_ context.Context, _ string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, message)
	return nil
}

type fakeUploader struct {
	uploaded []string
	err      error
}

func (u *fakeUploader) Upload(_ context.Context, folder, filename, _ string, body io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	url := "https://cdn.test/" + folder + "/" + filename
	u.uploaded = append(u.uploaded, url)
	return url, nil
}

type fakeListCache struct {
	mu          sync.Mutex
	stored      map[models.ProductListParams]*services.ProductListResult
	invalidated int
}

func newFakeListCache() *fakeListCache {
	return &fakeListCache{stored: map[models.ProductListParams]*services.ProductListResult{}}
}

func (c *fakeListCache) GetList(_ context.Context, params models.ProductListParams, dest interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.stored[params]
	if !ok {
		return false
	}
	*dest.(*services.ProductListResult) = *v
	return true
}

func (c *fakeListCache) SetListAsync(params models.ProductListParams, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored[params] = value.(*services.ProductListResult)
}

func (c *fakeListCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored = map[models.ProductListParams]*services.ProductListResult{}
	c.invalidated++
	return nil
}

type memoryIdempotency struct {
	keys map[string]string
}

func (m *memoryIdempotency) Get(_ context.Context, userID, key string) (string, error) {
	return m.keys[userID+":"+key], nil
}

func (m *memoryIdempotency) Set(_ context.Context, userID, key, orderID string) error {
	m.keys[userID+":"+key] = orderID
	return nil
}

func imageFile(name string) services.ImageFile {
	return services.ImageFile{
		Filename:    name,
		ContentType: "image/png",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("png"))), nil
		},
	}
}

var errBoom = errors.New("boom")

func strPtr(s string) *string { return &s }
