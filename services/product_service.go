package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	apperrors "github.com/HamzaHashone/ecommerce-hijaab-collection/common/errors"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	awspkg "github.com/HamzaHashone/ecommerce-hijaab-collection/pkg/aws"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Materials accepted by the catalog filter.
var materialFilters = map[string]bool{
	"Cotton-Jersey": true,
	"Chiffon":       true,
	"Premium-Silk":  true,
	"Georgette":     true,
	"Bamboo-Fiber":  true,
}

var sortOptions = map[string]repository.SortSpec{
	"name-asc":          {Field: "title"},
	"name-dsc":          {Field: "title", Desc: true},
	"price-low-to-high": {Field: "price"},
	"price-high-to-low": {Field: "price", Desc: true},
	"latest":            {Field: "createdAt", Desc: true},
}

type ProductService interface {
	List(ctx context.Context, params models.ProductListParams) (*ProductListResult, *apperrors.Error)
	Get(ctx context.Context, id string) (*models.Product, *apperrors.Error)
	Create(ctx context.Context, form *models.ProductForm, images []ImageFile) (*models.Product, *apperrors.Error)
	Update(ctx context.Context, id string, form *models.ProductForm, images []ImageFile) (*models.Product, *apperrors.Error)
	Delete(ctx context.Context, id string) (string, *apperrors.Error)
}

type productServiceImpl struct {
	repo       repository.ProductRepo
	thresholds ThresholdProvider
	cache      ProductListCache
	uploader   AssetUploader
	metrics    MetricsRecorder
	logger     *zap.Logger
}

func NewProductService(
	repo repository.ProductRepo,
	thresholds ThresholdProvider,
	cache ProductListCache,
	uploader AssetUploader,
	metrics MetricsRecorder,
	logger *zap.Logger,
) ProductService {
	return &productServiceImpl{
		repo:       repo,
		thresholds: thresholds,
		cache:      cache,
		uploader:   uploader,
		metrics:    metrics,
		logger:     logger,
	}
}

func errProductNotFound() *apperrors.Error { return apperrors.BadRequest("product not found") }
func errInvalidProduct() *apperrors.Error  { return apperrors.BadRequest("Invalid product data") }

// normalizeListParams resolves the sort name and filter to the values the
// query actually uses, so equivalent requests share one cache entry.
func normalizeListParams(params models.ProductListParams) models.ProductListParams {
	if _, ok := sortOptions[params.Sort]; !ok {
		params.Sort = "latest"
	}
	if params.Filter != "featured" && params.Filter != "low-stock" && !materialFilters[params.Filter] {
		params.Filter = ""
	}
	if params.Skip < 0 {
		params.Skip = 0
	}
	if params.Limit < 0 {
		params.Limit = 0
	}
	return params
}

func (s *productServiceImpl) List(ctx context.Context, params models.ProductListParams) (*ProductListResult, *apperrors.Error) {
	params = normalizeListParams(params)

	cached := &ProductListResult{}
	if s.cache != nil && s.cache.GetList(ctx, params, cached) {
		emitCount(s.metrics, awspkg.MetricCacheHits, "catalog")
		return cached, nil
	}
	emitCount(s.metrics, awspkg.MetricCacheMisses, "catalog")

	q := repository.ProductQuery{Title: params.Title}
	switch {
	case params.Filter == "featured":
		q.FeaturedOnly = true
	case params.Filter == "low-stock":
		low := s.thresholds.Thresholds(ctx).LowStock
		q.BelowStock = &low
	case params.Filter != "":
		q.Material = params.Filter
	}

	products, total, err := s.repo.List(ctx, q, sortOptions[params.Sort], params.Limit, params.Skip)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, internal(err)
	}

	result := &ProductListResult{Products: products, Total: total}
	if s.cache != nil {
		s.cache.SetListAsync(params, result)
	}
	return result, nil
}

func (s *productServiceImpl) Get(ctx context.Context, id string) (*models.Product, *apperrors.Error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, errProductNotFound()
	}
	product, err := s.repo.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errProductNotFound()
	}
	if err != nil {
		return nil, internal(err)
	}
	return product, nil
}

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

// productFields parses the provided form values into the update document.
// Only sent fields appear in the result.
func productFields(form *models.ProductForm) (bson.M, bool) {
	fields := bson.M{}
	if form.Title != nil {
		fields["title"] = *form.Title
	}
	if form.Description != nil {
		fields["description"] = *form.Description
	}
	if form.Material != nil {
		fields["material"] = *form.Material
	}
	if present(form.Price) {
		price, err := strconv.ParseFloat(strings.TrimSpace(*form.Price), 64)
		if err != nil || price < 0 {
			return nil, false
		}
		fields["price"] = price
	}
	if present(form.Quantity) {
		qty, err := strconv.ParseFloat(strings.TrimSpace(*form.Quantity), 64)
		if err != nil || qty < 0 {
			return nil, false
		}
		fields["quantity"] = int(qty)
	}
	for key, raw := range map[string]*string{"featured": form.Featured, "live": form.Live} {
		if present(raw) {
			b, err := strconv.ParseBool(strings.TrimSpace(*raw))
			if err != nil {
				return nil, false
			}
			fields[key] = b
		}
	}
	if present(form.Colors) {
		var colors []models.ColorVariant
		if err := json.Unmarshal([]byte(*form.Colors), &colors); err != nil {
			return nil, false
		}
		fields["colors"] = colors
	}
	return fields, true
}

// keptImages filters stored by the oldImages field. It accepts a JSON array
// or a single URL.
func keptImages(stored []string, oldImages string) []string {
	var wanted []string
	if err := json.Unmarshal([]byte(oldImages), &wanted); err != nil {
		wanted = []string{strings.TrimSpace(oldImages)}
	}
	set := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		set[w] = true
	}

	kept := []string{}
	for _, img := range stored {
		if set[img] {
			kept = append(kept, img)
		}
	}
	return kept
}

func (s *productServiceImpl) uploadImages(ctx context.Context, images []ImageFile) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		body, err := img.Open()
		if err != nil {
			return nil, err
		}
		url, err := s.uploader.Upload(ctx, productImageFolder, img.Filename, img.ContentType, body)
		body.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *productServiceImpl) Create(ctx context.Context, form *models.ProductForm, images []ImageFile) (*models.Product, *apperrors.Error) {
	switch {
	case len(images) == 0:
		return nil, apperrors.BadRequest("At least one product image is required")
	case len(images) > maxProductImages:
		return nil, apperrors.BadRequest("A product can have at most 5 images")
	case !present(form.Title):
		return nil, apperrors.BadRequest("Product title is required")
	case !present(form.Description):
		return nil, apperrors.BadRequest("Product description is required")
	case !present(form.Price):
		return nil, apperrors.BadRequest("Product price is required")
	case !present(form.Colors):
		return nil, apperrors.BadRequest("Product colors are required")
	case !present(form.Quantity):
		return nil, apperrors.BadRequest("Product quantity is required")
	}

	fields, ok := productFields(form)
	if !ok {
		return nil, errInvalidProduct()
	}

	urls, err := s.uploadImages(ctx, images)
	if err != nil {
		s.logger.Error("Failed to upload product images", zap.Error(err))
		return nil, internal(err)
	}

	product := &models.Product{
		Title:       fields["title"].(string),
		Description: fields["description"].(string),
		Price:       fields["price"].(float64),
		Quantity:    fields["quantity"].(int),
		Colors:      fields["colors"].([]models.ColorVariant),
		Images:      urls,
	}
	if v, ok := fields["material"].(string); ok {
		product.Material = v
	}
	if v, ok := fields["featured"].(bool); ok {
		product.Featured = v
	}
	if v, ok := fields["live"].(bool); ok {
		product.Live = v
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, internal(err)
	}

	s.invalidate(ctx)
	emitCount(s.metrics, awspkg.MetricProductsCreated, "catalog")
	s.logger.Info("Product created", zap.String("product_id", product.ID.Hex()), zap.Int("images", len(urls)))
	return product, nil
}

func (s *productServiceImpl) Update(ctx context.Context, id string, form *models.ProductForm, images []ImageFile) (*models.Product, *apperrors.Error) {
	existing, appErr := s.Get(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	updates, ok := productFields(form)
	if !ok {
		return nil, errInvalidProduct()
	}

	touchImages := false
	imageList := []string{}
	if present(form.OldImages) {
		touchImages = true
		imageList = keptImages(existing.Images, *form.OldImages)
	}
	// Without oldImages the uploads replace the stored set.
	if len(imageList)+len(images) > maxProductImages {
		return nil, apperrors.BadRequest("A product can have at most 5 images")
	}
	if len(images) > 0 {
		touchImages = true
		urls, err := s.uploadImages(ctx, images)
		if err != nil {
			s.logger.Error("Failed to upload product images", zap.String("product_id", id), zap.Error(err))
			return nil, internal(err)
		}
		imageList = append(imageList, urls...)
	}
	if touchImages {
		updates["images"] = imageList
	}

	product, err := s.repo.Update(ctx, existing.ID, updates)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errProductNotFound()
	}
	if err != nil {
		s.logger.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		return nil, internal(err)
	}

	s.invalidate(ctx)
	return product, nil
}

func (s *productServiceImpl) Delete(ctx context.Context, id string) (string, *apperrors.Error) {
	product, appErr := s.Get(ctx, id)
	if appErr != nil {
		return "", appErr
	}

	deleted, err := s.repo.Delete(ctx, product.ID)
	if err != nil {
		s.logger.Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		return "", internal(err)
	}
	if !deleted {
		return "", errProductNotFound()
	}

	s.invalidate(ctx)
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return product.Title, nil
}

func (s *productServiceImpl) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("Failed to invalidate product cache", zap.Error(err))
	}
}
