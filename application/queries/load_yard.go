package queries

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"hivemind/application/dto"
	"hivemind/application/ports"
	"hivemind/domain/hive"
	"hivemind/pkg/common"
)

// LoadYardQuery fetches one page of the public hive listing. A non-empty
// Search switches from ordered listing to ranked title search.
type LoadYardQuery struct {
	UserID  string `json:"user_id" validate:"required"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Sort    string `json:"sort,omitempty" validate:"omitempty,oneof=activity points created"`
	Order   string `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
	Search  string `json:"search,omitempty"`
}

// Validate validates the query
func (q LoadYardQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.Page < 1 {
		return errors.New("page must be positive")
	}
	if q.PerPage < 1 {
		return errors.New("page size must be positive")
	}
	switch q.Sort {
	case "", string(ports.SortActivity), string(ports.SortPoints), string(ports.SortCreated):
	default:
		return errors.New("unknown sort field")
	}
	switch q.Order {
	case "", string(ports.OrderAsc), string(ports.OrderDesc):
	default:
		return errors.New("unknown sort order")
	}
	return nil
}

// YardPageDTO is one page of the hive listing.
type YardPageDTO struct {
	Hives      []dto.ManifestDTO      `json:"hives"`
	Pagination *common.PaginationInfo `json:"pagination"`
}

// LoadYardHandler handles the LoadYardQuery
type LoadYardHandler struct {
	manifests   ports.ManifestRepository
	historyDays int
	logger      *zap.Logger
}

// NewLoadYardHandler creates a new handler instance
func NewLoadYardHandler(manifests ports.ManifestRepository, historyDays int, logger *zap.Logger) *LoadYardHandler {
	return &LoadYardHandler{
		manifests:   manifests,
		historyDays: historyDays,
		logger:      logger,
	}
}

// Handle executes the load yard query
func (h *LoadYardHandler) Handle(ctx context.Context, query LoadYardQuery) (*YardPageDTO, error) {
	page := ports.YardPage{
		Page:    query.Page,
		PerPage: query.PerPage,
		Sort:    ports.YardSort(query.Sort),
		Order:   ports.YardOrder(query.Order),
	}
	if page.Sort == "" {
		page.Sort = ports.SortActivity
	}
	if page.Order == "" {
		page.Order = ports.OrderDesc
	}

	var (
		manifests []*hive.Manifest
		total     int
		err       error
	)
	if query.Search != "" {
		manifests, total, err = h.manifests.SearchByTitle(ctx, query.Search, page)
		if err != nil {
			return nil, err
		}
	} else {
		manifests, err = h.manifests.List(ctx, page)
		if err != nil {
			return nil, err
		}
		total, err = h.manifests.Count(ctx)
		if err != nil {
			return nil, err
		}
	}

	today := time.Now().UTC()
	result := &YardPageDTO{
		Hives:      make([]dto.ManifestDTO, 0, len(manifests)),
		Pagination: common.BuildPaginationMeta(query.Page, query.PerPage, total),
	}
	for _, m := range manifests {
		result.Hives = append(result.Hives, dto.NewManifestDTO(m, today, h.historyDays))
	}
	return result, nil
}
