package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/ddrozdov/storefront-backend/internal/app/model"
	"github.com/ddrozdov/storefront-backend/internal/app/repository"
	"github.com/ddrozdov/storefront-backend/internal/db"
	"github.com/ddrozdov/storefront-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productService := NewProductService(productRepo, cartRepo)

	user := &model.User{
		Username:     "creator",
		Email:        "creator@example.com",
		PasswordHash: "hash",
		Role:         model.RoleCustomer,
	}
	testDB.Create(user)

	return productService, user, testDB
}

func TestProductService_CreateProduct_Success(t *testing.T) {
	productService, user, _ := setupProductServiceTest(t)

	input := ProductInput{
		Name:             "Wireless Mouse",
		ShortDescription: "Compact 2.4GHz mouse",
		Price:            24.99,
		ProductType:      model.TypeElectronics,
	}

	product, err := productService.CreateProduct(input, user.ID)
	assert.NoError(t, err)
	require.NotNil(t, product)
	assert.NotZero(t, product.ID)
	assert.Equal(t, "Wireless Mouse", product.Name)
	assert.Equal(t, 24.99, product.Price)
	assert.Equal(t, user.ID, product.CreatedByUserID)
	assert.Nil(t, product.ModifiedAt)
	require.NotNil(t, product.CreatedBy)
	assert.Equal(t, "creator", product.CreatedBy.Username)
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	productService, user, _ := setupProductServiceTest(t)

	_, err := productService.CreateProduct(ProductInput{Price: 10}, user.ID)
	assert.ErrorIs(t, err, ErrProductNameRequired)

	_, err = productService.CreateProduct(ProductInput{Name: "Free Stuff", Price: 0}, user.ID)
	assert.ErrorIs(t, err, ErrProductPriceInvalid)

	_, err = productService.CreateProduct(ProductInput{Name: "Refund", Price: -1}, user.ID)
	assert.ErrorIs(t, err, ErrProductPriceInvalid)
}

func TestProductService_GetProductByID(t *testing.T) {
	productService, user, _ := setupProductServiceTest(t)

	created, err := productService.CreateProduct(ProductInput{
		Name:  "Desk Lamp",
		Price: 19.99,
	}, user.ID)
	require.NoError(t, err)

	product, err := productService.GetProductByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Desk Lamp", product.Name)

	_, err = productService.GetProductByID(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_ListProducts_Pagination(t *testing.T) {
	productService, user, _ := setupProductServiceTest(t)

	for i := 1; i <= 25; i++ {
		_, err := productService.CreateProduct(ProductInput{
			Name:  fmt.Sprintf("Product %02d", i),
			Price: float64(i),
		}, user.ID)
		require.NoError(t, err)
	}

	result, err := productService.ListProducts(pagination.Request{Page: 2, PageSize: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(25), result.TotalCount)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 10, result.PageSize)
	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasNextPage)
	assert.True(t, result.HasPreviousPage)
	assert.Len(t, result.Items, 10)

	// Last page is partial
	result, err = productService.ListProducts(pagination.Request{Page: 3, PageSize: 10})
	assert.NoError(t, err)
	assert.Len(t, result.Items, 5)
	assert.False(t, result.HasNextPage)

	// Out-of-range page returns an empty page, not an error
	result, err = productService.ListProducts(pagination.Request{Page: 99, PageSize: 10})
	assert.NoError(t, err)
	assert.Len(t, result.Items, 0)
	assert.Equal(t, int64(25), result.TotalCount)
}

func TestProductService_ListProductsByUser(t *testing.T) {
	productService, user, testDB := setupProductServiceTest(t)

	other := &model.User{
		Username:     "other",
		Email:        "other@example.com",
		PasswordHash: "hash",
		Role:         model.RoleCustomer,
	}
	testDB.Create(other)

	_, err := productService.CreateProduct(ProductInput{Name: "Mine", Price: 1}, user.ID)
	require.NoError(t, err)
	_, err = productService.CreateProduct(ProductInput{Name: "Theirs", Price: 2}, other.ID)
	require.NoError(t, err)

	result, err := productService.ListProductsByUser(user.ID, pagination.Request{})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Mine", result.Items[0].Name)
}

func TestProductService_ListProductsByUser_NewestFirst(t *testing.T) {
	productService, user, testDB := setupProductServiceTest(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"Oldest", "Middle", "Newest"} {
		p := &model.Product{
			Name:            name,
			Price:           1,
			CreatedByUserID: user.ID,
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, testDB.Create(p).Error)
	}

	result, err := productService.ListProductsByUser(user.ID, pagination.Request{})
	assert.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "Newest", result.Items[0].Name)
	assert.Equal(t, "Oldest", result.Items[2].Name)
}

func TestProductService_UpdateProduct_Success(t *testing.T) {
	productService, user, _ := setupProductServiceTest(t)

	created, err := productService.CreateProduct(ProductInput{
		Name:  "Old Name",
		Price: 10,
	}, user.ID)
	require.NoError(t, err)

	updated, err := productService.UpdateProduct(created.ID, ProductInput{
		Name:             "New Name",
		ShortDescription: "Updated",
		Price:            15.50,
		ProductType:      model.TypeHome,
	}, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, 15.50, updated.Price)
	require.NotNil(t, updated.ModifiedAt)
}

func TestProductService_UpdateProduct_NotOwner(t *testing.T) {
	productService, user, testDB := setupProductServiceTest(t)

	other := &model.User{
		Username:     "other",
		Email:        "other@example.com",
		PasswordHash: "hash",
		Role:         model.RoleCustomer,
	}
	testDB.Create(other)

	created, err := productService.CreateProduct(ProductInput{Name: "Guarded", Price: 10}, user.ID)
	require.NoError(t, err)

	_, err = productService.UpdateProduct(created.ID, ProductInput{Name: "Taken", Price: 1}, other.ID)
	assert.ErrorIs(t, err, ErrNotProductOwner)

	// Unchanged
	product, _ := productService.GetProductByID(created.ID)
	assert.Equal(t, "Guarded", product.Name)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	productService, user, _ := setupProductServiceTest(t)

	_, err := productService.UpdateProduct(9999, ProductInput{Name: "Ghost", Price: 1}, user.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct_Success(t *testing.T) {
	productService, user, _ := setupProductServiceTest(t)

	created, err := productService.CreateProduct(ProductInput{Name: "Doomed", Price: 10}, user.ID)
	require.NoError(t, err)

	err = productService.DeleteProduct(created.ID, user.ID)
	assert.NoError(t, err)

	_, err = productService.GetProductByID(created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct_NotOwner(t *testing.T) {
	productService, user, testDB := setupProductServiceTest(t)

	other := &model.User{
		Username:     "other",
		Email:        "other@example.com",
		PasswordHash: "hash",
		Role:         model.RoleCustomer,
	}
	testDB.Create(other)

	created, err := productService.CreateProduct(ProductInput{Name: "Guarded", Price: 10}, user.ID)
	require.NoError(t, err)

	err = productService.DeleteProduct(created.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotProductOwner)
}

func TestProductService_DeleteProduct_InCart(t *testing.T) {
	productService, user, testDB := setupProductServiceTest(t)

	buyer := &model.User{
		Username:     "buyer",
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Role:         model.RoleCustomer,
	}
	testDB.Create(buyer)

	created, err := productService.CreateProduct(ProductInput{Name: "Popular", Price: 10}, user.ID)
	require.NoError(t, err)

	cartRepo := repository.NewCartRepository(testDB)
	require.NoError(t, cartRepo.Upsert(buyer.ID, created.ID, 1))

	err = productService.DeleteProduct(created.ID, user.ID)
	assert.ErrorIs(t, err, ErrProductInCart)

	// Still there
	_, err = productService.GetProductByID(created.ID)
	assert.NoError(t, err)
}
