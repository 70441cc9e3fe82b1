package movements

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/blade"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/documents/wzpz"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeMovementRepo keeps movements in insertion order.
type fakeMovementRepo struct {
	movements []*Movement
}

func (r *fakeMovementRepo) Create(ctx context.Context, m *Movement) error {
	copied := *m
	r.movements = append(r.movements, &copied)
	return nil
}

func (r *fakeMovementRepo) GetByID(ctx context.Context, movementID id.ID) (*Movement, error) {
	for _, m := range r.movements {
		if m.ID == movementID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("movement", movementID.String())
}

func (r *fakeMovementRepo) LastByOp(ctx context.Context, bladeID id.ID, op OpCode) (*Movement, error) {
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].BladeID == bladeID && r.movements[i].Op == op {
			copied := *r.movements[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByBlade(ctx context.Context, bladeID id.ID, limit, offset int) (domain.ListResult[*Movement], error) {
	var result domain.ListResult[*Movement]
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].BladeID == bladeID {
			copied := *r.movements[i]
			result.Items = append(result.Items, &copied)
		}
	}
	result.TotalCount = int64(len(result.Items))
	result.Limit = limit
	result.Offset = offset
	return result, nil
}

func (r *fakeMovementRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Movement], error) {
	return r.ListByBlade(ctx, filter.BladeID, filter.Limit, filter.Offset)
}

// fakeBladeStore holds one blade.
type fakeBladeStore struct {
	blade   *blade.Blade
	updates int
}

func (s *fakeBladeStore) GetByID(ctx context.Context, bladeID id.ID) (*blade.Blade, error) {
	if s.blade == nil || s.blade.ID != bladeID {
		return nil, apperror.NewNotFound("blade", bladeID.String())
	}
	return s.blade, nil
}

func (s *fakeBladeStore) Update(ctx context.Context, b *blade.Blade) error {
	s.updates++
	s.blade = b
	return nil
}

// fakeDocService tracks created documents and item attachments.
type fakeDocService struct {
	open    map[string]*wzpz.Document
	created []*wzpz.Document
	items   map[id.ID][]id.ID
	seq     int64
}

func newFakeDocService() *fakeDocService {
	return &fakeDocService{
		open:  make(map[string]*wzpz.Document),
		items: make(map[id.ID][]id.ID),
	}
}

func (s *fakeDocService) CreateOpen(ctx context.Context, docType wzpz.DocType, clientID id.ID) (*wzpz.Document, error) {
	s.seq++
	doc := wzpz.New(docType, clientID, "AB", time.Now().UTC(), s.seq)
	s.created = append(s.created, doc)
	s.open[string(docType)+clientID.String()] = doc
	return doc, nil
}

func (s *fakeDocService) EnsureOpen(ctx context.Context, docType wzpz.DocType, clientID id.ID) (*wzpz.Document, error) {
	if doc, ok := s.open[string(docType)+clientID.String()]; ok {
		return doc, nil
	}
	return s.CreateOpen(ctx, docType, clientID)
}

func (s *fakeDocService) AddItem(ctx context.Context, docID, bladeID id.ID) error {
	s.items[docID] = append(s.items[docID], bladeID)
	return nil
}

func (s *fakeDocService) GetByID(ctx context.Context, docID id.ID) (*wzpz.DocumentWithItems, error) {
	for _, doc := range s.created {
		if doc.ID == docID {
			return &wzpz.DocumentWithItems{Document: *doc}, nil
		}
	}
	return nil, apperror.NewNotFound("document", docID.String())
}

func newTestRecorder(t *testing.T) (*Recorder, *fakeMovementRepo, *fakeBladeStore, *fakeDocService) {
	t.Helper()
	repo := &fakeMovementRepo{}
	clientID := id.New()
	b := blade.New("BL-00001", "Pila 35")
	b.ClientID = &clientID
	blades := &fakeBladeStore{blade: b}
	docs := newFakeDocService()
	rec := NewRecorder(repo, blades, docs, fakeTxManager{}, nil)
	return rec, repo, blades, docs
}

func TestRecord_MountHasNoHours(t *testing.T) {
	rec, _, blades, _ := newTestRecorder(t)

	m, err := rec.Record(context.Background(), Request{
		BladeID: blades.blade.ID,
		Op:      OpST1,
		Machine: "TRAK-1",
	})
	require.NoError(t, err)
	assert.Nil(t, m.HoursWorked)
	assert.Equal(t, "TRAK-1", m.Machine)
	assert.Nil(t, m.DocumentID)
}

func TestRecord_UnmountDefaultsHoursWhenNeverMounted(t *testing.T) {
	rec, _, blades, _ := newTestRecorder(t)

	m, err := rec.Record(context.Background(), Request{
		BladeID: blades.blade.ID,
		Op:      OpST2,
	})
	require.NoError(t, err)
	require.NotNil(t, m.HoursWorked)
	assert.True(t, m.HoursWorked.Equal(decimal.NewFromInt(16)),
		"expected the 16h default, got %s", m.HoursWorked)
}

func TestRecord_UnmountMeasuresFromLastMount(t *testing.T) {
	rec, repo, blades, _ := newTestRecorder(t)
	ctx := context.Background()

	now := time.Date(2025, time.August, 15, 18, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return now }

	// Mounted five and a half hours ago, on a different machine earlier
	// still; the most recent mount wins.
	repo.movements = append(repo.movements,
		&Movement{ID: id.New(), BladeID: blades.blade.ID, Op: OpST1, Machine: "TRAK-2", CreatedAt: now.Add(-48 * time.Hour)},
		&Movement{ID: id.New(), BladeID: blades.blade.ID, Op: OpST1, Machine: "TRAK-1", CreatedAt: now.Add(-5*time.Hour - 30*time.Minute)},
	)

	m, err := rec.Record(ctx, Request{BladeID: blades.blade.ID, Op: OpST2})
	require.NoError(t, err)
	require.NotNil(t, m.HoursWorked)
	assert.True(t, m.HoursWorked.Equal(decimal.RequireFromString("5.5")),
		"expected 5.5 hours, got %s", m.HoursWorked)
}

func TestRecord_UnmountSuppliedHoursWin(t *testing.T) {
	rec, repo, blades, _ := newTestRecorder(t)

	repo.movements = append(repo.movements, &Movement{
		ID: id.New(), BladeID: blades.blade.ID, Op: OpST1,
		CreatedAt: time.Now().UTC().Add(-100 * time.Hour),
	})

	supplied := decimal.RequireFromString("7.25")
	m, err := rec.Record(context.Background(), Request{
		BladeID:     blades.blade.ID,
		Op:          OpST2,
		HoursWorked: &supplied,
	})
	require.NoError(t, err)
	require.NotNil(t, m.HoursWorked)
	assert.True(t, m.HoursWorked.Equal(supplied))
}

func TestRecord_IssueAttachesToDocument(t *testing.T) {
	rec, repo, blades, docs := newTestRecorder(t)

	m, err := rec.Record(context.Background(), Request{
		BladeID: blades.blade.ID,
		Op:      OpWZ,
	})
	require.NoError(t, err)
	require.NotNil(t, m.DocumentID)
	assert.NotEmpty(t, m.DocumentNumber)
	assert.Equal(t, []id.ID{blades.blade.ID}, docs.items[*m.DocumentID])
	require.Len(t, repo.movements, 1)

	// A second issue continues the same open document.
	m2, err := rec.Record(context.Background(), Request{
		BladeID: blades.blade.ID,
		Op:      OpWZ,
	})
	require.NoError(t, err)
	assert.Equal(t, *m.DocumentID, *m2.DocumentID)
	assert.Len(t, docs.created, 1)
}

func TestRecord_DocChoiceNewForcesFreshDocument(t *testing.T) {
	rec, _, blades, docs := newTestRecorder(t)
	ctx := context.Background()

	first, err := rec.Record(ctx, Request{BladeID: blades.blade.ID, Op: OpWZ})
	require.NoError(t, err)

	second, err := rec.Record(ctx, Request{BladeID: blades.blade.ID, Op: OpWZ, DocChoice: DocNew})
	require.NoError(t, err)

	assert.NotEqual(t, *first.DocumentID, *second.DocumentID)
	assert.Len(t, docs.created, 2)
}

func TestRecord_DocChoiceByID(t *testing.T) {
	rec, _, blades, docs := newTestRecorder(t)
	ctx := context.Background()

	target, err := docs.CreateOpen(ctx, wzpz.TypePZ, *blades.blade.ClientID)
	require.NoError(t, err)

	m, err := rec.Record(ctx, Request{
		BladeID:   blades.blade.ID,
		Op:        OpPZ,
		DocChoice: target.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, m.DocumentID)
	assert.Equal(t, target.ID, *m.DocumentID)
	assert.Equal(t, target.Number, m.DocumentNumber)
}

func TestRecord_IssueWithoutClientFails(t *testing.T) {
	rec, repo, blades, _ := newTestRecorder(t)
	blades.blade.ClientID = nil

	_, err := rec.Record(context.Background(), Request{
		BladeID: blades.blade.ID,
		Op:      OpWZ,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, repo.movements, "no movement may be written when the document cannot be resolved")
}

func TestRecord_ExplicitClientOverridesBladeOwner(t *testing.T) {
	rec, _, blades, docs := newTestRecorder(t)
	other := id.New()

	m, err := rec.Record(context.Background(), Request{
		BladeID:  blades.blade.ID,
		Op:       OpWZ,
		ClientID: &other,
	})
	require.NoError(t, err)
	require.NotNil(t, m.DocumentID)
	require.Len(t, docs.created, 1)
	assert.Equal(t, other, docs.created[0].ClientID)
}

func TestRecord_StatusUpdatesBlade(t *testing.T) {
	rec, _, blades, _ := newTestRecorder(t)

	m, err := rec.Record(context.Background(), Request{
		BladeID: blades.blade.ID,
		Op:      OpSR,
		Status:  blade.StatusNeedsRegen,
	})
	require.NoError(t, err)
	assert.Equal(t, blade.StatusNeedsRegen, m.Status)
	assert.Equal(t, blade.StatusNeedsRegen, blades.blade.Status)
	assert.Equal(t, 1, blades.updates)
}

func TestRecord_NoStatusLeavesBladeUntouched(t *testing.T) {
	rec, _, blades, _ := newTestRecorder(t)
	before := blades.blade.Status

	_, err := rec.Record(context.Background(), Request{
		BladeID: blades.blade.ID,
		Op:      OpMagazyn,
	})
	require.NoError(t, err)
	assert.Equal(t, before, blades.blade.Status)
	assert.Zero(t, blades.updates)
}

func TestRecord_UnknownBlade(t *testing.T) {
	rec, _, _, _ := newTestRecorder(t)

	_, err := rec.Record(context.Background(), Request{
		BladeID: id.New(),
		Op:      OpMD,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRequest_Validate(t *testing.T) {
	bladeID := id.New()

	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"mount", Request{BladeID: bladeID, Op: OpST1, Machine: "TRAK-1"}, false},
		{"missing blade", Request{Op: OpST1}, true},
		{"unknown op", Request{BladeID: bladeID, Op: "XX"}, true},
		{"bad status", Request{BladeID: bladeID, Op: OpSR, Status: "c99"}, true},
		{"doc choice on non-document op", Request{BladeID: bladeID, Op: OpST1, DocChoice: DocNew}, true},
		{"doc choice garbage", Request{BladeID: bladeID, Op: OpWZ, DocChoice: "not-an-id"}, true},
		{"doc choice new", Request{BladeID: bladeID, Op: OpWZ, DocChoice: DocNew}, false},
		{"doc choice id", Request{BladeID: bladeID, Op: OpPZ, DocChoice: id.New().String()}, false},
		{"negative hours", Request{BladeID: bladeID, Op: OpST2, HoursWorked: decimalPtr("-1")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
