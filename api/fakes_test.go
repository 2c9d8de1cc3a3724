package api

import (
	"context"

	"sndeals/query"
)

type dto struct {
	ID int64 `json:"id"`
}

func (d *dto) GetID() int64 { return d.ID }

type fakeService struct{}

func (fakeService) Name() string { return "thing" }
func (fakeService) Create(_ context.Context, d *dto) (*dto, error) {
	return &dto{ID: 1}, nil
}
func (fakeService) Update(_ context.Context, d *dto) (*dto, error)  { return d, nil }
func (fakeService) FindOne(_ context.Context, id int64) (*dto, error) { return &dto{ID: id}, nil }
func (fakeService) Delete(context.Context, int64) error               { return nil }

type fakeQueries struct{}

func (fakeQueries) Schema() *query.Schema {
	return &query.Schema{Name: "thing", Table: "thing", PrimaryKey: "id", Fields: []query.Field{{Name: "id", Column: "id", Kind: query.KindInt64}}}
}
func (fakeQueries) FindPageByCriteria(_ context.Context, _ query.Criteria, w *query.PageWindow) (*query.Page[*dto], error) {
	return &query.Page[*dto]{Items: []*dto{{ID: 1}}, Total: 1, Number: w.Number, Size: w.Size, TotalPages: 1}, nil
}
func (fakeQueries) CountByCriteria(context.Context, query.Criteria) (int64, error) { return 1, nil }
