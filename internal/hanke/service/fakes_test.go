package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/haitaton/hanke-service/internal/application"
	"github.com/haitaton/hanke-service/internal/auditlog"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/hanke/entity"
	"github.com/haitaton/hanke-service/internal/permissions"
)

// fakeHankeStore keeps copies, so changes to a loaded entity stay invisible until saved.
type fakeHankeStore struct {
	byTunnus map[string]*entity.Hanke
	seq      int
	nextID   int
	saves    int
}

func newFakeHankeStore() *fakeHankeStore {
	return &fakeHankeStore{byTunnus: map[string]*entity.Hanke{}, nextID: 1}
}

func cloneEntity(h *entity.Hanke) *entity.Hanke {
	cp := *h
	cp.Contacts = make([]*entity.Contact, 0, len(h.Contacts))
	for _, c := range h.Contacts {
		cc := *c
		cc.SubContacts = append([]domain.SubContact(nil), c.SubContacts...)
		cp.Contacts = append(cp.Contacts, &cc)
	}
	cp.Areas = make([]*entity.Area, 0, len(h.Areas))
	for _, a := range h.Areas {
		ac := *a
		cp.Areas = append(cp.Areas, &ac)
	}
	if h.Score != nil {
		sc := *h.Score
		cp.Score = &sc
	}
	cp.MarkPersisted()
	return &cp
}

func (f *fakeHankeStore) NextHankeTunnus(context.Context) (string, error) {
	f.seq++
	return domain.FormatHankeTunnus(2024, int64(f.seq)), nil
}

func (f *fakeHankeStore) FindByTunnus(_ context.Context, tunnus string) (*entity.Hanke, error) {
	h, ok := f.byTunnus[tunnus]
	if !ok {
		return nil, &domain.HankeNotFoundError{HankeTunnus: tunnus}
	}
	return cloneEntity(h), nil
}

func (f *fakeHankeStore) ListByStatus(_ context.Context, status domain.Status) ([]*entity.Hanke, error) {
	var out []*entity.Hanke
	for _, h := range f.byTunnus {
		if h.Status == status {
			out = append(out, cloneEntity(h))
		}
	}
	return out, nil
}

func (f *fakeHankeStore) ListByUser(_ context.Context, userID string) ([]*entity.Hanke, error) {
	var out []*entity.Hanke
	for _, h := range f.byTunnus {
		if h.CreatedBy != nil && *h.CreatedBy == userID {
			out = append(out, cloneEntity(h))
		}
	}
	return out, nil
}

func (f *fakeHankeStore) id() *int {
	id := f.nextID
	f.nextID++
	return &id
}

func (f *fakeHankeStore) Save(_ context.Context, h *entity.Hanke) error {
	f.saves++
	if h.ID == nil {
		h.ID = f.id()
	}
	for _, c := range h.Contacts {
		if c.ID == nil {
			c.ID = f.id()
		}
		c.HankeID = h.ID
	}
	for _, a := range h.Areas {
		if a.ID == nil {
			a.ID = f.id()
		}
	}
	f.byTunnus[h.HankeTunnus] = cloneEntity(h)
	h.MarkPersisted()
	return nil
}

func (f *fakeHankeStore) Delete(_ context.Context, id int) error {
	for k, h := range f.byTunnus {
		if h.ID != nil && *h.ID == id {
			delete(f.byTunnus, k)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeGeometries struct {
	stored map[int]domain.Geometries
	nextID int
}

func (f *fakeGeometries) Get(_ context.Context, id int) (*domain.Geometries, error) {
	g, ok := f.stored[id]
	if !ok {
		return nil, errors.New("geometriat not found")
	}
	return &g, nil
}

func (f *fakeGeometries) Save(_ context.Context, g *domain.Geometries, _ string) (*domain.Geometries, error) {
	saved := *g
	if saved.ID == nil {
		f.nextID++
		id := f.nextID
		saved.ID = &id
	}
	f.stored[*saved.ID] = saved
	return &saved, nil
}

type fakeAudit struct {
	entries []auditlog.Entry
}

func (f *fakeAudit) Save(_ context.Context, entries []auditlog.Entry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeAudit) byType(t auditlog.ObjectType) []auditlog.Entry {
	var out []auditlog.Entry
	for _, e := range f.entries {
		if e.ObjectType == t {
			out = append(out, e)
		}
	}
	return out
}

type fakeValidator struct {
	paths []string
}

func (f *fakeValidator) ValidateHankeHasMandatoryFields(*domain.Hanke) domain.ValidationResult {
	return domain.ValidationResult{Paths: f.paths}
}

type fakeApps struct {
	byHanke   map[string][]application.Application
	pending   map[int64]bool
	deleted   []int64
	created   []application.Application
	nextAppID int64
}

func newFakeApps() *fakeApps {
	return &fakeApps{byHanke: map[string][]application.Application{}, pending: map[int64]bool{}, nextAppID: 500}
}

func (f *fakeApps) ListByHanke(_ context.Context, tunnus string) ([]application.Application, error) {
	return f.byHanke[tunnus], nil
}

func (f *fakeApps) IsStillPending(_ context.Context, app *application.Application) (bool, error) {
	if app.ID == nil {
		return true, nil
	}
	p, ok := f.pending[*app.ID]
	return !ok || p, nil
}

func (f *fakeApps) Create(_ context.Context, app application.Application, _ string) (*application.Application, error) {
	id := f.nextAppID
	f.nextAppID++
	app.ID = &id
	f.created = append(f.created, app)
	return &app, nil
}

func (f *fakeApps) Delete(_ context.Context, id int64, _ string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTokens struct {
	fromHanke   []string
	permissions map[string]permissions.Role
	grants      int
}

func (f *fakeTokens) SaveNewTokensFromHanke(_ context.Context, h *domain.Hanke) error {
	f.fromHanke = append(f.fromHanke, h.HankeTunnus)
	return nil
}

func (f *fakeTokens) SetPermission(_ context.Context, hankeID int, userID string, role permissions.Role) error {
	f.permissions[fmt.Sprintf("%d/%s", hankeID, userID)] = role
	f.grants++
	return nil
}

// fakeIndexer counts syncs made while a transaction was still open.
type fakeIndexer struct {
	tx         *fakeTx
	synced     []string
	removed    []string
	syncedInTx int
}

func (f *fakeIndexer) Sync(h *domain.Hanke) {
	f.synced = append(f.synced, h.HankeTunnus)
	if f.tx != nil && f.tx.open > 0 {
		f.syncedInTx++
	}
}

func (f *fakeIndexer) Remove(hankeTunnus string) { f.removed = append(f.removed, hankeTunnus) }

// fakeTx runs fn directly; the store copies make a failed fn leave no trace.
type fakeTx struct {
	calls int
	open  int
}

func (f *fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	f.open++
	defer func() { f.open-- }()
	return fn(ctx)
}

type fakeScorer struct {
	score *domain.DisturbanceScore
}

func (f *fakeScorer) Calculate(context.Context, *domain.Hanke) (*domain.DisturbanceScore, error) {
	return f.score, nil
}

type fixture struct {
	store     *fakeHankeStore
	geoms     *fakeGeometries
	audit     *fakeAudit
	validator *fakeValidator
	apps      *fakeApps
	tokens    *fakeTokens
	search    *fakeIndexer
	tx        *fakeTx
	scorer    *fakeScorer
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		store:     newFakeHankeStore(),
		geoms:     &fakeGeometries{stored: map[int]domain.Geometries{}},
		audit:     &fakeAudit{},
		validator: &fakeValidator{paths: []string{"kuvaus"}},
		apps:      newFakeApps(),
		tokens:    &fakeTokens{permissions: map[string]permissions.Role{}},
		search:    &fakeIndexer{},
		tx:        &fakeTx{},
		scorer:    &fakeScorer{},
	}
	f.search.tx = f.tx
	f.svc = NewService(Deps{
		Hankkeet:     f.store,
		Geometries:   f.geoms,
		Audit:        f.audit,
		Validator:    f.validator,
		Applications: f.apps,
		Tokens:       f.tokens,
		Search:       f.search,
		Tx:           f.tx,
		Scorer:       f.scorer,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}
