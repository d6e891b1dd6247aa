package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/HamzaHashone/ecommerce-hijaab-collection/common/errors"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/services"
)

const maxMultipartMemory = 32 << 20

// ProductController serves /products.
type ProductController struct {
	products services.ProductService
}

func NewProductController(products services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func (pc *ProductController) List(ctx *gin.Context) {
	limit, skip := parsePaginationParams(ctx, 0)
	result, appErr := pc.products.List(ctx.Request.Context(), models.ProductListParams{
		Limit:  limit,
		Skip:   skip,
		Title:  ctx.Query("title"),
		Sort:   ctx.Query("sort"),
		Filter: ctx.Query("filter"),
	})
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Fetch Products Successfully",
		"products": result.Products,
		"total":    result.Total,
	})
}

func (pc *ProductController) Get(ctx *gin.Context) {
	product, appErr := pc.products.Get(ctx.Request.Context(), ctx.Param("id"))
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "product found", "product": product})
}

// readProductForm parses the multipart body. A non-multipart request yields
// an empty form. The caller must call cleanup once images are uploaded.
func readProductForm(ctx *gin.Context) (*models.ProductForm, []services.ImageFile, func(), error) {
	noop := func() {}
	err := ctx.Request.ParseMultipartForm(maxMultipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return &models.ProductForm{}, nil, noop, nil
	}
	if err != nil {
		return nil, nil, noop, err
	}

	form := ctx.Request.MultipartForm
	value := func(key string) *string {
		if v := form.Value[key]; len(v) > 0 {
			return &v[0]
		}
		return nil
	}

	pf := &models.ProductForm{
		Title:       value("title"),
		Description: value("description"),
		Price:       value("price"),
		Quantity:    value("quantity"),
		Material:    value("material"),
		Featured:    value("featured"),
		Live:        value("live"),
		Colors:      value("colors"),
		OldImages:   value("oldImages"),
	}

	images := make([]services.ImageFile, 0, len(form.File["images"]))
	for _, fh := range form.File["images"] {
		images = append(images, imageFromHeader(fh))
	}
	return pf, images, func() { _ = form.RemoveAll() }, nil
}

func imageFromHeader(fh *multipart.FileHeader) services.ImageFile {
	return services.ImageFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func (pc *ProductController) Create(ctx *gin.Context) {
	form, images, cleanup, err := readProductForm(ctx)
	defer cleanup()
	if err != nil {
		_ = ctx.Error(apperrors.New(http.StatusBadRequest, "Invalid product data", err))
		return
	}

	product, appErr := pc.products.Create(ctx.Request.Context(), form, images)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product Created Successfully", "product": product})
}

func (pc *ProductController) Update(ctx *gin.Context) {
	form, images, cleanup, err := readProductForm(ctx)
	defer cleanup()
	if err != nil {
		_ = ctx.Error(apperrors.New(http.StatusBadRequest, "Invalid product data", err))
		return
	}

	product, appErr := pc.products.Update(ctx.Request.Context(), ctx.Param("id"), form, images)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "product updated", "product": product})
}

func (pc *ProductController) Delete(ctx *gin.Context) {
	title, appErr := pc.products.Delete(ctx.Request.Context(), ctx.Param("id"))
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": title + " has been remove from products"})
}
