package services

import (
	"context"
	"io"
	"time"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
)

// ProductListCache caches catalog pages. *cache.ProductCache implements it.
type ProductListCache interface {
	GetList(ctx context.Context, params models.ProductListParams, dest interface{}) bool
	SetListAsync(params models.ProductListParams, value interface{})
	Invalidate(ctx context.Context) error
}

// AssetUploader stores an image and returns its public URL.
type AssetUploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error)
}

// CheckoutIdempotency maps an Idempotency-Key to the order it created.
type CheckoutIdempotency interface {
	Get(ctx context.Context, userID, key string) (string, error)
	Set(ctx context.Context, userID, key, orderID string) error
}

// MetricsRecorder is the subset of the CloudWatch client services use.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordValue(ctx context.Context, metricName string, value float64, dimensions map[string]string) error
}

// ImageFile is one uploaded product image.
type ImageFile struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type ProductListResult struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

type UserListResult struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

type VoucherListResult struct {
	Vouchers []models.Voucher `json:"vouchers"`
	Total    int64            `json:"total"`
}

type OrderListResult struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}

const (
	productImageFolder = "products"
	maxProductImages   = 5
	defaultPageLimit   = 10
)

// emitCount records a counter off the request path.
func emitCount(m MetricsRecorder, metric, service string) {
	if m == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.RecordCount(ctx, metric, map[string]string{"Service": service})
	}()
}

// emitValue records a value metric off the request path.
func emitValue(m MetricsRecorder, metric, service string, value float64) {
	if m == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.RecordValue(ctx, metric, value, map[string]string{"Service": service})
	}()
}

// startOfLastMonth mirrors "created within the last calendar month".
func startOfLastMonth(now time.Time) time.Time {
	return now.AddDate(0, -1, 0)
}
