package shelf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/denismitr/shelf/options"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type storeTestSuite struct {
	suite.Suite
	path   string
	clock  *tickingClock
	store  *Store[shelfTestRecord]
	closer Closer
}

func (sts *storeTestSuite) SetupTest() {
	sts.path = filepath.Join(sts.T().TempDir(), "inventory.json")
	sts.clock = newTickingClock()
	sts.store, sts.closer = sts.open()

	sts.Require().NoError(sts.store.Add(shelfTestRecord{ID: "001", Name: "Book A", Quantity: 3, Price: 9.99}))
	sts.Require().NoError(sts.store.Add(shelfTestRecord{ID: "002", Name: "Notebook", Quantity: 10, Price: 1.5}))
	sts.Require().NoError(sts.store.Add(shelfTestRecord{ID: "010", Name: "Pencil", Quantity: 100, Price: 0.25}))
}

func (sts *storeTestSuite) TearDownTest() {
	if sts.closer == nil {
		return
	}

	sts.Require().NoError(sts.closer())
}

func (sts *storeTestSuite) open() (*Store[shelfTestRecord], Closer) {
	s, closer, err := Open(sts.path, testSchema(), &Config{Clock: sts.clock.Now})
	sts.Require().NoError(err)
	return s, closer
}

func (sts *storeTestSuite) reopen() *Store[shelfTestRecord] {
	s, closer, err := Open(sts.path, testSchema(), nil)
	sts.Require().NoError(err)
	sts.T().Cleanup(func() { _ = closer() })
	return s
}

func (sts *storeTestSuite) TestAdd_FreshIdIsListedExactlyOnce() {
	r := shelfTestRecord{ID: "003", Name: "Eraser", Quantity: 7, Price: 0.5}
	sts.Require().NoError(sts.store.Add(r))

	var found int
	for _, listed := range sts.store.List(nil) {
		if listed.ID == "003" {
			found++
			sts.Assert().Equal("Eraser", listed.Name)
			sts.Assert().Equal(7, listed.Quantity)
			sts.Assert().Equal(0.5, listed.Price)
		}
	}

	sts.Assert().Equal(1, found)
	sts.Assert().Equal(4, sts.store.Count())
}

func (sts *storeTestSuite) TestAdd_DuplicateIdLeavesStoreUnchanged() {
	before := sts.store.List(nil)
	fileBefore, err := os.ReadFile(sts.path)
	sts.Require().NoError(err)

	err = sts.store.Add(shelfTestRecord{ID: "001", Name: "Impostor", Quantity: 1})
	sts.Require().Error(err)
	sts.Assert().True(errors.Is(err, ErrKeyAlreadyExists))

	sts.Assert().Equal(before, sts.store.List(nil))

	fileAfter, err := os.ReadFile(sts.path)
	sts.Require().NoError(err)
	sts.Assert().Equal(string(fileBefore), string(fileAfter))
}

func (sts *storeTestSuite) TestAdd_InvalidRecordIsRejected() {
	err := sts.store.Add(shelfTestRecord{ID: "004", Name: "Broken", Quantity: -1})
	sts.Require().Error(err)
	sts.Assert().True(errors.Is(err, ErrInvalidInput))

	err = sts.store.Add(shelfTestRecord{Name: "No id"})
	sts.Assert().True(errors.Is(err, ErrInvalidInput))
	sts.Assert().Equal(3, sts.store.Count())
}

func (sts *storeTestSuite) TestRemove() {
	sts.Require().NoError(sts.store.Remove("002"))

	ids := recordIDs(sts.store.List(nil))
	sts.Assert().Equal([]string{"001", "010"}, ids)
	sts.Assert().Equal([]string{"001", "010"}, recordIDs(sts.reopen().List(nil)))

	err := sts.store.Remove("999")
	sts.Require().Error(err)
	sts.Assert().True(errors.Is(err, ErrKeyDoesNotExist))
	sts.Assert().Equal(ids, recordIDs(sts.store.List(nil)))
}

func (sts *storeTestSuite) TestUpdate_OnlySuppliedFieldsChange() {
	before, err := sts.store.Get("001")
	sts.Require().NoError(err)

	updated, err := sts.store.Update("001", M{"quantity": 5})
	sts.Require().NoError(err)

	sts.Assert().Equal(5, updated.Quantity)
	sts.Assert().Equal(9.99, updated.Price)
	sts.Assert().Equal("Book A", updated.Name)
	sts.Assert().Equal(before.CreatedAt, updated.CreatedAt)
	sts.Assert().NotEqual(before.ModifiedAt, updated.ModifiedAt)

	for _, r := range sts.store.List(nil) {
		if r.ID == "001" {
			sts.Assert().Equal(5, r.Quantity)
			sts.Assert().Equal(9.99, r.Price)
		}
	}

	persisted, err := sts.reopen().Get("001")
	sts.Require().NoError(err)
	sts.Assert().Equal(updated, persisted)
}

func (sts *storeTestSuite) TestUpdate_Rejections() {
	before := sts.store.List(nil)

	tt := []struct {
		name  string
		key   string
		patch M
		err   error
	}{
		{name: "unknown id", key: "404", patch: M{"quantity": 1}, err: ErrKeyDoesNotExist},
		{name: "unknown field", key: "001", patch: M{"color": "red"}, err: ErrInvalidInput},
		{name: "wrong type", key: "001", patch: M{"quantity": "lots"}, err: ErrInvalidInput},
		{name: "fractional quantity", key: "001", patch: M{"quantity": 2.5}, err: ErrInvalidInput},
		{name: "negative price", key: "001", patch: M{"price": -3.0}, err: ErrInvalidInput},
		{name: "id change", key: "001", patch: M{"id": "999"}, err: ErrInvalidInput},
	}

	for _, tc := range tt {
		sts.Run(tc.name, func() {
			_, err := sts.store.Update(tc.key, tc.patch)
			sts.Require().Error(err)
			sts.Assert().True(errors.Is(err, tc.err), err.Error())
		})
	}

	sts.Assert().Equal(before, sts.store.List(nil))
}

func (sts *storeTestSuite) TestAddOrIncrement() {
	outcome, err := sts.store.AddOrIncrement(shelfTestRecord{ID: "001", Name: "ignored"}, 4)
	sts.Require().NoError(err)
	sts.Assert().Equal(Incremented, outcome)

	r, err := sts.store.Get("001")
	sts.Require().NoError(err)
	sts.Assert().Equal(7, r.Quantity)
	sts.Assert().Equal("Book A", r.Name)

	outcome, err = sts.store.AddOrIncrement(shelfTestRecord{ID: "001"}, 0)
	sts.Require().NoError(err)
	sts.Assert().Equal(Unchanged, outcome)

	outcome, err = sts.store.AddOrIncrement(shelfTestRecord{ID: "020", Name: "Ruler", Quantity: 2, Price: 1}, 0)
	sts.Require().NoError(err)
	sts.Assert().Equal(Inserted, outcome)
	sts.Assert().Equal(4, sts.store.Count())
}

func (sts *storeTestSuite) TestStamps() {
	r, err := sts.store.Get("001")
	sts.Require().NoError(err)
	sts.Assert().Equal("2025-03-14 09:00:00", r.CreatedAt)
	sts.Assert().Equal("2025-03-14 09:00:00", r.ModifiedAt)

	updated, err := sts.store.Update("001", M{"name": "Book A, 2nd ed."})
	sts.Require().NoError(err)
	sts.Assert().Equal("2025-03-14 09:00:00", updated.CreatedAt)
	sts.Assert().Equal("2025-03-14 09:03:00", updated.ModifiedAt)
}

func (sts *storeTestSuite) TestRoundTrip() {
	_, err := sts.store.Update("002", M{"tags": []string{"paper", "school"}})
	sts.Require().NoError(err)
	sts.Require().NoError(sts.store.Save())

	fresh := sts.reopen()
	if diff := cmp.Diff(sts.store.List(nil), fresh.List(nil), cmpopts.EquateEmpty()); diff != "" {
		sts.T().Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func (sts *storeTestSuite) TestList_Orders() {
	sts.Require().NoError(sts.store.Add(shelfTestRecord{ID: "0005", Name: "Glue"}))

	sts.Assert().Equal([]string{"001", "002", "010", "0005"}, recordIDs(sts.store.List(nil)))
	sts.Assert().Equal(
		[]string{"0005", "001", "002", "010"},
		recordIDs(sts.store.List(options.List().SetOrder(options.Ascend))),
	)
	sts.Assert().Equal(
		[]string{"010", "002", "001", "0005"},
		recordIDs(sts.store.List(options.List().SetOrder(options.Descend))),
	)
	sts.Assert().Equal(
		[]string{"001", "002"},
		recordIDs(sts.store.List(options.List().Prefix("00").SetLimit(2))),
	)
	sts.Assert().Equal(
		[]string{"010", "0005"},
		recordIDs(sts.store.List(options.List().Match("0?0*"))),
	)
}

func (sts *storeTestSuite) TestSearch() {
	sts.Assert().Equal([]string{"001", "002"}, recordIDs(sts.store.Search("BOOK")))
	sts.Assert().Empty(sts.store.Search("stapler"))

	// cached results must not survive a mutation
	sts.Require().NoError(sts.store.Add(shelfTestRecord{ID: "011", Name: "Sketchbook"}))
	sts.Assert().Equal([]string{"001", "002", "011"}, recordIDs(sts.store.Search("book")))

	sts.Require().NoError(sts.store.Remove("001"))
	sts.Assert().Equal([]string{"002", "011"}, recordIDs(sts.store.Search("book")))
}

func (sts *storeTestSuite) TestReturnedRecordsAreCopies() {
	r, err := sts.store.Get("001")
	sts.Require().NoError(err)
	r.Quantity = 1000

	again, err := sts.store.Get("001")
	sts.Require().NoError(err)
	sts.Assert().Equal(3, again.Quantity)
}

func TestStore(t *testing.T) {
	suite.Run(t, &storeTestSuite{})
}

func TestOpen_MissingFileYieldsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	s, closer, err := Open(path, testSchema(), nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closer()) }()

	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.List(nil))
	assert.NoFileExists(t, path)
}

func TestOpen_CorruptFileYieldsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"001": {"id": "001", "name": `), 0644))

	s, closer, err := Open(path, testSchema(), nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closer()) }()

	assert.Equal(t, 0, s.Count())

	require.NoError(t, s.Add(shelfTestRecord{ID: "001", Name: "Recovered"}))
	assert.Equal(t, 1, s.Count())
}

func TestOpen_SkipsUndecodableEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.json")
	doc := `{"001": {"name": "Good", "quantity": 1}, "002": {"name": "Bad", "quantity": "many"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	s, closer, err := Open(path, testSchema(), nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closer()) }()

	assert.Equal(t, []string{"001"}, recordIDs(s.List(nil)))
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, _, err := Open("x.json", testSchema(), &Config{SearchCacheShards: -1})
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, _, err = Open("x.json", Schema[shelfTestRecord]{}, nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestSave_FailureKeepsMemoryAuthoritative(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s, closer, err := Open(filepath.Join(blocker, "inventory.json"), testSchema(), nil)
	require.NoError(t, err)

	err = s.Add(shelfTestRecord{ID: "001", Name: "Unsaved"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorageFailed))
	assert.True(t, s.Dirty())

	r, err := s.Get("001")
	require.NoError(t, err)
	assert.Equal(t, "Unsaved", r.Name)

	assert.True(t, errors.Is(closer(), ErrStorageFailed))
}

func TestStore_Closed(t *testing.T) {
	s, closer, err := Open(filepath.Join(t.TempDir(), "closed.json"), testSchema(), nil)
	require.NoError(t, err)
	require.NoError(t, closer())

	assert.True(t, errors.Is(s.Add(shelfTestRecord{ID: "1"}), ErrStoreClosed))
	assert.True(t, errors.Is(closer(), ErrStoreClosed))
}

func TestAddOrIncrement_NotIncrementable(t *testing.T) {
	s, closer, err := Open(filepath.Join(t.TempDir(), "plain.json"), plainSchema(), nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closer()) }()

	outcome, err := s.AddOrIncrement(plainRecord{ID: "a", Title: "Alpha"}, 1)
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)

	outcome, err = s.AddOrIncrement(plainRecord{ID: "a"}, 1)
	assert.True(t, errors.Is(err, ErrNotIncrementable))
	assert.Equal(t, Unchanged, outcome)
}

func recordIDs[R Record](records []R) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.Key())
	}
	return ids
}
