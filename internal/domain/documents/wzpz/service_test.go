package wzpz

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/numerator"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/client"
)

// fakeTxManager runs the function directly; repository fakes are already
// atomic under their own mutex.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeRepo is an in-memory wzpz.Repository.
type fakeRepo struct {
	mu    sync.Mutex
	docs  map[id.ID]*Document
	items map[id.ID][]Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*Document),
		items: make(map[id.ID][]Item),
	}
}

func (r *fakeRepo) Create(ctx context.Context, doc *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("document", docID.String())
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Document, error) {
	return r.GetByID(ctx, docID)
}

func (r *fakeRepo) GetWithItems(ctx context.Context, docID id.ID) (*DocumentWithItems, error) {
	doc, err := r.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return &DocumentWithItems{Document: *doc, Items: append([]Item(nil), r.items[docID]...)}, nil
}

func (r *fakeRepo) ListOpen(ctx context.Context, docType DocType, clientID id.ID) ([]*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var open []*Document
	for _, doc := range r.docs {
		if doc.Type == docType && doc.ClientID == clientID && doc.Status == StatusOpen {
			copied := *doc
			open = append(open, &copied)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		return open[i].CreatedAt.After(open[j].CreatedAt)
	})
	return open, nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result domain.ListResult[*Document]
	for _, doc := range r.docs {
		copied := *doc
		result.Items = append(result.Items, &copied)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) AddItem(ctx context.Context, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items[item.DocumentID] {
		if existing.BladeID == item.BladeID {
			return nil
		}
	}
	r.items[item.DocumentID] = append(r.items[item.DocumentID], item)
	return nil
}

func (r *fakeRepo) Close(ctx context.Context, docID id.ID, closedBy string, closedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[docID]
	if !ok {
		return false, apperror.NewNotFound("document", docID.String())
	}
	if doc.Status != StatusOpen {
		return false, nil
	}
	doc.Status = StatusClosed
	doc.ClosedBy = closedBy
	doc.ClosedAt = &closedAt
	return true, nil
}

func (r *fakeRepo) ExistsForClient(ctx context.Context, clientID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.docs {
		if doc.ClientID == clientID {
			return true, nil
		}
	}
	return false, nil
}

// fakeClients resolves every ID to a fixed client.
type fakeClients struct {
	client *client.Client
}

func (f *fakeClients) GetByID(ctx context.Context, clientID id.ID) (*client.Client, error) {
	if f.client == nil || f.client.ID != clientID {
		return nil, apperror.NewNotFound("client", clientID.String())
	}
	return f.client, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *client.Client) {
	t.Helper()
	repo := newFakeRepo()
	cl := client.New("AB", "Tartak AB")
	svc := NewService(repo, &fakeClients{client: cl}, numerator.NewMock(), fakeTxManager{}, nil)
	svc.now = func() time.Time {
		return time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo, cl
}

func TestCreateOpen_AssignsSequentialNumbers(t *testing.T) {
	svc, _, cl := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateOpen(ctx, TypeWZ, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, "WZ/AB/2025/08/001", first.Number)

	second, err := svc.CreateOpen(ctx, TypeWZ, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, "WZ/AB/2025/08/002", second.Number)

	// PZ counts independently.
	receipt, err := svc.CreateOpen(ctx, TypePZ, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, "PZ/AB/2025/08/001", receipt.Number)
}

func TestCreateOpen_UnknownClient(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateOpen(context.Background(), TypeWZ, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestEnsureOpen_ReusesNewestOpenDocument(t *testing.T) {
	svc, _, cl := newTestService(t)
	ctx := context.Background()

	created, err := svc.EnsureOpen(ctx, TypeWZ, cl.ID)
	require.NoError(t, err)

	again, err := svc.EnsureOpen(ctx, TypeWZ, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID, "repeated calls must not open a second document")
}

func TestEnsureOpen_CreatesAfterClose(t *testing.T) {
	svc, _, cl := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnsureOpen(ctx, TypeWZ, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, "WZ/AB/2025/08/001", first.Number)

	_, err = svc.Close(ctx, first.ID)
	require.NoError(t, err)

	second, err := svc.EnsureOpen(ctx, TypeWZ, cl.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "WZ/AB/2025/08/002", second.Number)
}

func TestAddItem_IsIdempotent(t *testing.T) {
	svc, repo, cl := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateOpen(ctx, TypeWZ, cl.ID)
	require.NoError(t, err)

	bladeID := id.New()
	require.NoError(t, svc.AddItem(ctx, doc.ID, bladeID))
	require.NoError(t, svc.AddItem(ctx, doc.ID, bladeID))

	withItems, err := repo.GetWithItems(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, withItems.Items, 1, "a blade scanned twice must not produce two lines")
}

func TestAddItem_ClosedDocument(t *testing.T) {
	svc, _, cl := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateOpen(ctx, TypeWZ, cl.ID)
	require.NoError(t, err)
	_, err = svc.Close(ctx, doc.ID)
	require.NoError(t, err)

	err = svc.AddItem(ctx, doc.ID, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestClose_SecondCloseFails(t *testing.T) {
	svc, _, cl := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateOpen(ctx, TypeWZ, cl.ID)
	require.NoError(t, err)

	closed, err := svc.Close(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	_, err = svc.Close(ctx, doc.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestClose_UnknownDocument(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Close(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
