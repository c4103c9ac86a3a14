package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-upload-service/internal/menuimport/model"
)

type fakeRepo struct {
	categories []model.Category
	products   []model.NewProduct
	createArgs [][]string

	listErr, createErr, insertErr error
	drop                          map[string]bool
	seq                           int
}

func (f *fakeRepo) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeRepo) ListCategories(_ context.Context, restaurantID string) ([]model.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Category
	for _, c := range f.categories {
		if c.RestaurantID == restaurantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateCategories(_ context.Context, restaurantID string, names []string) ([]model.Category, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createArgs = append(f.createArgs, names)
	var out []model.Category
	for _, n := range names {
		c := model.Category{ID: f.nextID("cat"), Name: n, RestaurantID: restaurantID}
		f.categories = append(f.categories, c)
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) InsertProducts(_ context.Context, products []model.NewProduct) ([]model.InsertedProduct, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	var out []model.InsertedProduct
	for _, p := range products {
		if f.drop[p.Name] {
			continue
		}
		f.products = append(f.products, p)
		out = append(out, model.InsertedProduct{ID: f.nextID("prod"), Name: p.Name})
	}
	return out, nil
}

func TestUpload_SameCategoryCreatedOnce(t *testing.T) {
	repo := &fakeRepo{}
	u := NewUploader(repo, zerolog.Nop())

	res, err := u.Upload(context.Background(), "r1", []model.ParsedRow{
		{Name: "Pizza", Category: "Mains", Price: 10},
		{Name: "Pasta", Category: "Mains", Price: 12},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Success)
	assert.Zero(t, res.Failed)
	require.Len(t, repo.categories, 1)
	require.Len(t, repo.products, 2)
	require.NotNil(t, repo.products[0].CategoryID)
	assert.Equal(t, repo.categories[0].ID, *repo.products[0].CategoryID)
	assert.Equal(t, *repo.products[0].CategoryID, *repo.products[1].CategoryID)
	assert.Equal(t, "r1", repo.products[1].RestaurantID)
}

func TestUpload_ReusesExistingCategoryAcrossCasing(t *testing.T) {
	repo := &fakeRepo{categories: []model.Category{
		{ID: "c-main", Name: "Mains", RestaurantID: "r1"},
		{ID: "c-other", Name: "Drinks", RestaurantID: "r2"},
	}}
	u := NewUploader(repo, zerolog.Nop())

	_, err := u.Upload(context.Background(), "r1", []model.ParsedRow{
		{Name: "Steak", Category: "  mains ", Price: 40},
		{Name: "Cola", Category: "Drinks", Price: 5},
		{Name: "Lemonade", Category: "DRINKS", Price: 6},
		{Name: "Bread", Category: "", Price: 2},
	})
	require.NoError(t, err)

	require.Len(t, repo.createArgs, 1)
	assert.Equal(t, []string{"Drinks"}, repo.createArgs[0])
	assert.Equal(t, "c-main", *repo.products[0].CategoryID)
	assert.Equal(t, *repo.products[1].CategoryID, *repo.products[2].CategoryID)
	assert.NotEqual(t, "c-other", *repo.products[1].CategoryID)
	assert.Nil(t, repo.products[3].CategoryID)
}

func TestUpload_DuplicateNamesBothSucceed(t *testing.T) {
	repo := &fakeRepo{}
	u := NewUploader(repo, zerolog.Nop())
	row := model.ParsedRow{Name: "Pizza", Category: "Mains", Price: 10}

	res, err := u.Upload(context.Background(), "r1", []model.ParsedRow{row, row})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)
	assert.Zero(t, res.Failed)
}

func TestUpload_MissingInsertedRowsReported(t *testing.T) {
	repo := &fakeRepo{drop: map[string]bool{"Ghost": true}}
	u := NewUploader(repo, zerolog.Nop())

	res, err := u.Upload(context.Background(), "r1", []model.ParsedRow{
		{Name: "Soup", Price: 5},
		{Name: "Ghost", Price: 7},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, model.FailedRow{Row: 1, Error: MsgInsertFailed, Data: model.ParsedRow{Name: "Ghost", Price: 7}}, res.FailedRows[0])
}

func TestUpload_StoreErrorsAbort(t *testing.T) {
	boom := errors.New("connection reset")
	rows := []model.ParsedRow{{Name: "Soup", Category: "Starters", Price: 5}}
	tests := []struct {
		name string
		repo *fakeRepo
		msg  string
	}{
		{"list", &fakeRepo{listErr: boom}, "fetch categories"},
		{"create", &fakeRepo{createErr: boom}, "create categories"},
		{"insert", &fakeRepo{insertErr: boom}, "insert products"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUploader(tt.repo, zerolog.Nop())
			_, err := u.Upload(context.Background(), "r1", rows)
			require.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Empty(t, tt.repo.products)
		})
	}
}

func TestUpload_Guards(t *testing.T) {
	u := NewUploader(&fakeRepo{}, zerolog.Nop())

	_, err := u.Upload(context.Background(), " ", []model.ParsedRow{{Name: "Soup", Price: 1}})
	assert.ErrorIs(t, err, ErrMissingRestaurant)

	res, err := u.Upload(context.Background(), "r1", nil)
	require.NoError(t, err)
	assert.Zero(t, res.Success)
	assert.NotNil(t, res.FailedRows)
}

func TestSubmit_FiltersAndRemapsRows(t *testing.T) {
	repo := &fakeRepo{drop: map[string]bool{"Ghost": true}}
	u := NewUploader(repo, zerolog.Nop())

	res := u.Submit(context.Background(), "r1", []model.ParsedRow{
		{Name: "", Price: 5},
		{Name: "Soup", Price: 5},
		{Name: "Ghost", Price: 7},
		{Name: "Free water", Price: 0},
	})

	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 3, res.Failed)
	preview := res.Preview(FailurePreviewN)
	require.Len(t, preview, 3)
	assert.Equal(t, 0, preview[0].Row)
	assert.Equal(t, MsgRowRejected, preview[0].Error)
	assert.Equal(t, 2, preview[1].Row)
	assert.Equal(t, MsgInsertFailed, preview[1].Error)
	assert.Equal(t, 3, preview[2].Row)
}

func TestSubmit_AbortMarksEveryRowFailed(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("duplicate key")}
	u := NewUploader(repo, zerolog.Nop())

	res := u.Submit(context.Background(), "r1", []model.ParsedRow{
		{Name: "Soup", Price: 5},
		{Name: "Tea", Price: 2},
	})

	assert.Zero(t, res.Success)
	assert.Equal(t, 2, res.Failed)
	for i, fr := range res.FailedRows {
		assert.Equal(t, i, fr.Row)
		assert.Equal(t, "insert products: duplicate key", fr.Error)
	}
}

func TestUploadResult_PreviewBounded(t *testing.T) {
	var res model.UploadResult
	for i := 14; i >= 0; i-- {
		res.FailedRows = append(res.FailedRows, model.FailedRow{Row: i})
	}
	p := res.Preview(FailurePreviewN)
	require.Len(t, p, 10)
	assert.Equal(t, 0, p[0].Row)
	assert.Equal(t, 9, p[9].Row)
	assert.Len(t, res.FailedRows, 15)
}
