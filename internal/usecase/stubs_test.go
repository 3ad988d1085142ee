package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/plastyfilm/go-backend/internal/cfg"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/pkg/e"
)

var testStore = &cfg.StoreCfg{DefaultPerPage: 12, MaxPerPage: 100}

type txStub struct {
	calls int
}

func (t *txStub) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type jsonEncoder struct{}

func (jsonEncoder) Encode(eventType OutboxEventType, aggregateID string, fields map[string]any) ([]byte, error) {
	return json.Marshal(map[string]any{"type": eventType, "id": aggregateID, "fields": fields})
}

type outboxStub struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (o *outboxStub) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	event.ID = int64(len(o.events) + 1)
	o.events = append(o.events, event)
	return event, nil
}

func (o *outboxStub) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (o *outboxStub) MarkAsProcessed(context.Context, int64) error { return nil }

func (o *outboxStub) ReleaseStuck(context.Context, time.Duration) (int64, error) { return 0, nil }

func (o *outboxStub) DeleteProcessed(context.Context, time.Duration) (int64, error) { return 0, nil }

func (o *outboxStub) types() []OutboxEventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	res := make([]OutboxEventType, 0, len(o.events))
	for _, ev := range o.events {
		res = append(res, ev.EventType)
	}
	return res
}

type categoryRepoStub struct {
	categories []domain.Category
}

func newCategoryRepoStub() *categoryRepoStub {
	return &categoryRepoStub{categories: []domain.Category{
		{ID: "film", Name: "Film Stretch", Order: 1, Subcategories: []domain.Subcategory{{ID: "transparente"}, {ID: "negro"}}},
		{ID: "cintas", Name: "Cintas", Order: 2, Subcategories: []domain.Subcategory{{ID: "masking"}}},
	}}
}

func (c *categoryRepoStub) List(context.Context) ([]domain.Category, error) {
	return c.categories, nil
}

func (c *categoryRepoStub) GetByID(_ context.Context, id string) (*domain.Category, error) {
	for i := range c.categories {
		if c.categories[i].ID == id {
			cat := c.categories[i]
			return &cat, nil
		}
	}
	return nil, e.ErrCategoryNotFound
}

type productRepoStub struct {
	mu         sync.Mutex
	products   map[string]domain.Product
	gets       int
	lastFilter ProductListFilter

	// afterGet вызывается один раз после чтения товара, вне блокировки.
	afterGet func()
}

func newProductRepoStub(products ...domain.Product) *productRepoStub {
	r := &productRepoStub{products: make(map[string]domain.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *productRepoStub) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = time.Now()
	r.products[p.ID] = *p
	return p, nil
}

func (r *productRepoStub) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return nil, e.ErrProductNotFound
	}
	r.products[p.ID] = *p
	return p, nil
}

func (r *productRepoStub) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *productRepoStub) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	r.gets++
	p, ok := r.products[id]
	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

func (r *productRepoStub) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r *productRepoStub) List(_ context.Context, f ProductListFilter) ([]domain.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastFilter = f
	q := strings.ToLower(f.Query)
	res := make([]domain.Product, 0)
	for _, p := range r.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.SubcategoryID != "" && p.SubcategoryID != f.SubcategoryID {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), q) {
			continue
		}
		res = append(res, p)
	}

	sort.Slice(res, func(i, j int) bool {
		switch f.Sort {
		case SortPriceAsc:
			return res[i].Price.LessThan(res[j].Price)
		case SortPriceDesc:
			return res[i].Price.GreaterThan(res[j].Price)
		default:
			return res[i].Name < res[j].Name
		}
	})

	total := len(res)
	if f.Limit > 0 {
		start := min(f.Offset, total)
		end := min(start+f.Limit, total)
		res = res[start:end]
	}
	return res, total, nil
}

type offerRepoStub struct {
	offers     []domain.Offer
	seq        int
	lastOffset int

	// afterListEnabled срабатывает один раз после выборки включённых оферт.
	afterListEnabled func()
}

func (r *offerRepoStub) Create(_ context.Context, o *domain.Offer) (*domain.Offer, error) {
	r.seq++
	o.CreatedAt = time.Date(2026, 1, 1, 0, 0, r.seq, 0, time.UTC)
	r.offers = append(r.offers, *o)
	return o, nil
}

func (r *offerRepoStub) Update(_ context.Context, o *domain.Offer) (*domain.Offer, error) {
	for i := range r.offers {
		if r.offers[i].ID == o.ID {
			o.CreatedAt = r.offers[i].CreatedAt
			r.offers[i] = *o
			return o, nil
		}
	}
	return nil, e.ErrOfferNotFound
}

func (r *offerRepoStub) Delete(_ context.Context, id string) error {
	for i := range r.offers {
		if r.offers[i].ID == id {
			r.offers = append(r.offers[:i], r.offers[i+1:]...)
			return nil
		}
	}
	return e.ErrOfferNotFound
}

func (r *offerRepoStub) Toggle(_ context.Context, id string) (*domain.Offer, error) {
	for i := range r.offers {
		if r.offers[i].ID == id {
			r.offers[i].Enabled = !r.offers[i].Enabled
			o := r.offers[i]
			return &o, nil
		}
	}
	return nil, e.ErrOfferNotFound
}

func (r *offerRepoStub) GetByID(_ context.Context, id string) (*domain.Offer, error) {
	for i := range r.offers {
		if r.offers[i].ID == id {
			o := r.offers[i]
			return &o, nil
		}
	}
	return nil, e.ErrOfferNotFound
}

func (r *offerRepoStub) newestFirst() []domain.Offer {
	res := append([]domain.Offer(nil), r.offers...)
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

func (r *offerRepoStub) List(_ context.Context, search string, limit, offset int) ([]domain.Offer, int, error) {
	r.lastOffset = offset
	q := strings.ToLower(search)
	res := make([]domain.Offer, 0)
	for _, o := range r.newestFirst() {
		if q == "" || strings.Contains(strings.ToLower(o.Name+" "+o.Description), q) {
			res = append(res, o)
		}
	}
	total := len(res)
	start := min(offset, total)
	end := min(start+limit, total)
	return res[start:end], total, nil
}

func (r *offerRepoStub) ListEnabled(context.Context) ([]domain.Offer, error) {
	res := make([]domain.Offer, 0)
	for _, o := range r.newestFirst() {
		if o.Enabled {
			res = append(res, o)
		}
	}
	if hook := r.afterListEnabled; hook != nil {
		r.afterListEnabled = nil
		hook()
	}
	return res, nil
}

// cacheStub повторяет поколения CacheRepo: запись под устаревшим поколением не читается.
type cacheStub struct {
	mu             sync.Mutex
	productVersion int64
	products       map[string]versionedProduct
	offerVersion   int64
	offers         []domain.Offer
	offersAt       int64
	offersSet      bool
	offerHits      int
	productSets    int
	deletedKeys    []string
}

type versionedProduct struct {
	version int64
	product domain.Product
}

func newCacheStub() *cacheStub {
	return &cacheStub{products: make(map[string]versionedProduct)}
}

func (c *cacheStub) GetProducts(_ context.Context, ids []string) (map[string]domain.Product, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make(map[string]domain.Product)
	for _, id := range ids {
		if p, ok := c.products[id]; ok && p.version == c.productVersion {
			res[id] = p.product
		}
	}
	return res, c.productVersion, nil
}

func (c *cacheStub) SetProducts(_ context.Context, version int64, products []domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.productSets++
	for _, p := range products {
		c.products[p.ID] = versionedProduct{version: version, product: p}
	}
	return nil
}

func (c *cacheStub) DeleteProducts(_ context.Context, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.productVersion++
	for _, id := range ids {
		delete(c.products, id)
		c.deletedKeys = append(c.deletedKeys, id)
	}
	return nil
}

func (c *cacheStub) GetEnabledOffers(context.Context) ([]domain.Offer, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.offersSet || c.offersAt != c.offerVersion {
		return nil, c.offerVersion, false, nil
	}
	c.offerHits++
	return c.offers, c.offerVersion, true, nil
}

func (c *cacheStub) SetEnabledOffers(_ context.Context, version int64, offers []domain.Offer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offers, c.offersAt, c.offersSet = offers, version, true
	return nil
}

func (c *cacheStub) DeleteEnabledOffers(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offerVersion++
	return nil
}

func (c *cacheStub) sets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.productSets
}

// cachedProduct отдаёт товар, только если он виден в текущем поколении.
func (c *cacheStub) cachedProduct(id string) (domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok || p.version != c.productVersion {
		return domain.Product{}, false
	}
	return p.product, true
}

type sessionRepoStub struct {
	sessions map[string]domain.AdminSession
}

func (s *sessionRepoStub) Create(_ context.Context, session *domain.AdminSession) error {
	s.sessions[session.Token] = *session
	return nil
}

func (s *sessionRepoStub) Get(_ context.Context, token string) (*domain.AdminSession, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, e.ErrUnauthorized
	}
	return &session, nil
}

func (s *sessionRepoStub) Delete(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

type contactRepoStub struct {
	saved []domain.ContactMessage
}

func (c *contactRepoStub) Create(_ context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	msg.CreatedAt = time.Now()
	c.saved = append(c.saved, *msg)
	return msg, nil
}

type imagesInfraStub struct {
	reqs    []*UploadImagesReq
	err     error
	cleaned []string
}

func (i *imagesInfraStub) UploadImages(_ context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	i.reqs = append(i.reqs, req)
	if i.err != nil {
		return nil, i.err
	}
	keys := make([]string, 0, len(req.Images))
	for range req.Images {
		keys = append(keys, req.Prefix+"/generated.png")
	}
	return NewUploadImagesRes(keys), nil
}

func (i *imagesInfraStub) CleanupImages(keys []string) {
	i.cleaned = append(i.cleaned, keys...)
}
