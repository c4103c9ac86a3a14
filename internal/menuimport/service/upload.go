package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"menu-upload-service/internal/menuimport/model"
)

const (
	MsgInsertFailed = "Failed to insert product"
	MsgRowRejected  = "Row skipped: name and a positive price are required"
	FailurePreviewN = 10
)

// Repository is the persistence collaborator of the upload service.
type Repository interface {
	ListCategories(ctx context.Context, restaurantID string) ([]model.Category, error)
	// CreateCategories inserts names that do not exist yet (matched on
	// lower(trim(name))) and returns the stored record for every name given.
	CreateCategories(ctx context.Context, restaurantID string, names []string) ([]model.Category, error)
	// InsertProducts inserts all products in one batch and returns the stored rows.
	InsertProducts(ctx context.Context, products []model.NewProduct) ([]model.InsertedProduct, error)
}

// Uploader persists parsed rows as categories and products of one restaurant.
type Uploader struct {
	repo Repository
	log  zerolog.Logger
}

func NewUploader(repo Repository, log zerolog.Logger) *Uploader {
	return &Uploader{repo: repo, log: log}
}

// Upload resolves categories, then inserts every row as a new product.
// Any store error aborts the batch and is returned as is; see Submit for
// the caller-side conversion into a failure report.
func (u *Uploader) Upload(ctx context.Context, restaurantID string, rows []model.ParsedRow) (model.UploadResult, error) {
	res := model.UploadResult{FailedRows: []model.FailedRow{}}
	if strings.TrimSpace(restaurantID) == "" {
		return res, ErrMissingRestaurant
	}
	if len(rows) == 0 {
		return res, nil
	}

	catIDs, err := u.resolveCategories(ctx, restaurantID, rows)
	if err != nil {
		return res, err
	}

	products := make([]model.NewProduct, len(rows))
	for i, r := range rows {
		p := model.NewProduct{
			Name:         strings.TrimSpace(r.Name),
			Description:  strings.TrimSpace(r.Description),
			Price:        r.Price,
			RestaurantID: restaurantID,
		}
		if id, ok := catIDs[model.CategoryKey(r.Category)]; ok {
			p.CategoryID = &id
		}
		products[i] = p
	}

	inserted, err := u.repo.InsertProducts(ctx, products)
	if err != nil {
		return res, fmt.Errorf("insert products: %w", err)
	}

	// The bulk insert reports stored rows only; rows are matched back by name.
	remaining := make(map[string]int, len(inserted))
	for _, p := range inserted {
		remaining[p.Name]++
	}
	res.Success = len(inserted)
	for i, p := range products {
		if remaining[p.Name] > 0 {
			remaining[p.Name]--
			continue
		}
		res.FailedRows = append(res.FailedRows, model.FailedRow{Row: i, Error: MsgInsertFailed, Data: rows[i]})
	}
	res.Failed = len(res.FailedRows)

	u.log.Info().
		Str("restaurant_id", restaurantID).
		Int("rows", len(rows)).
		Int("success", res.Success).
		Int("failed", res.Failed).
		Msg("menu upload done")
	return res, nil
}

// resolveCategories returns normalized name → category id for every
// non-empty category in rows, creating the ones the restaurant lacks.
func (u *Uploader) resolveCategories(ctx context.Context, restaurantID string, rows []model.ParsedRow) (map[string]string, error) {
	wanted := make(map[string]string)
	var order []string
	for _, r := range rows {
		name := collapseSpaces(r.Category)
		if name == "" {
			continue
		}
		key := model.CategoryKey(name)
		if _, seen := wanted[key]; !seen {
			wanted[key] = name
			order = append(order, key)
		}
	}
	ids := make(map[string]string, len(wanted))
	if len(wanted) == 0 {
		return ids, nil
	}

	existing, err := u.repo.ListCategories(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	for _, c := range existing {
		ids[model.CategoryKey(c.Name)] = c.ID
	}

	var missing []string
	for _, key := range order {
		if _, ok := ids[key]; !ok {
			missing = append(missing, wanted[key])
		}
	}
	if len(missing) == 0 {
		return ids, nil
	}

	created, err := u.repo.CreateCategories(ctx, restaurantID, missing)
	if err != nil {
		return nil, fmt.Errorf("create categories: %w", err)
	}
	for _, c := range created {
		ids[model.CategoryKey(c.Name)] = c.ID
	}
	u.log.Debug().Str("restaurant_id", restaurantID).Strs("categories", missing).Msg("categories created")
	return ids, nil
}

// Submit is the upload entry point: it drops rows without a name or a
// positive price, uploads the rest and turns a batch abort into a report
// that marks every submitted row failed with the abort message.
// Row indices in the result refer to the submitted slice.
func (u *Uploader) Submit(ctx context.Context, restaurantID string, rows []model.ParsedRow) model.UploadResult {
	var (
		keep    []model.ParsedRow
		index   []int
		skipped []model.FailedRow
	)
	for i, r := range rows {
		if strings.TrimSpace(r.Name) == "" || !(r.Price > 0) {
			skipped = append(skipped, model.FailedRow{Row: i, Error: MsgRowRejected, Data: r})
			continue
		}
		keep = append(keep, r)
		index = append(index, i)
	}

	res, err := u.Upload(ctx, restaurantID, keep)
	if err != nil {
		u.log.Error().Err(err).Str("restaurant_id", restaurantID).Int("rows", len(keep)).Msg("menu upload aborted")
		res = model.UploadResult{FailedRows: make([]model.FailedRow, 0, len(rows))}
		for i, r := range keep {
			res.FailedRows = append(res.FailedRows, model.FailedRow{Row: index[i], Error: err.Error(), Data: r})
		}
	} else {
		for i := range res.FailedRows {
			res.FailedRows[i].Row = index[res.FailedRows[i].Row]
		}
	}

	res.FailedRows = append(res.FailedRows, skipped...)
	res.Failed = len(res.FailedRows)
	return res
}
